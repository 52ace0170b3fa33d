package mqtt

import (
	"context"
	"log"
	"strings"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// IConsumer definisce la sottoscrizione a un topic con handler iniettabile.
type IConsumer interface {
	ConsumeMessage(ctx context.Context)
	SetHandler(handler func(topic string, message paho.Message) error)
}

type Consumer struct {
	client  paho.Client
	topic   string
	handler func(topic string, message paho.Message) error
}

func NewConsumer(client paho.Client, topic string, handler func(topic string, message paho.Message) error) *Consumer {
	return &Consumer{
		client:  client,
		topic:   topic,
		handler: handler,
	}
}

func (c *Consumer) SetHandler(handler func(topic string, message paho.Message) error) {
	c.handler = handler
}

// La telemetria macchina viaggia a QoS 1: il bridge dedup-a le redelivery.
func qosFor(topic string) byte {
	if strings.HasPrefix(strings.TrimSpace(topic), "machine/telemetry") {
		return 1
	}
	return 0
}

// ConsumeMessage sottoscrive il topic e processa i messaggi con l'handler.
// Blocca finché il contesto non viene cancellato.
func (c *Consumer) ConsumeMessage(ctx context.Context) {
	token := c.client.Subscribe(
		c.topic,
		qosFor(c.topic),
		func(client paho.Client, message paho.Message) {
			if c.handler == nil {
				log.Printf("mqtt: no handler set for topic %s", c.topic)
				return
			}
			if err := c.handler(message.Topic(), message); err != nil {
				log.Printf("mqtt: error handling message on %s: %v", message.Topic(), err)
			}
		},
	)

	if token.Wait() && token.Error() != nil {
		log.Printf("mqtt: error subscribing to %s: %v", c.topic, token.Error())
		return
	}

	log.Printf("mqtt: subscribed to %s", c.topic)

	<-ctx.Done()

	unsubToken := c.client.Unsubscribe(c.topic)
	unsubToken.Wait()
}
