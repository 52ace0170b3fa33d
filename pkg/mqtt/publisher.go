package mqtt

import (
	"fmt"
	"log"

	paho "github.com/eclipse/paho.mqtt.golang"
)

// IPublisher espone la pubblicazione verso un topic MQTT.
type IPublisher interface {
	Publish(topic string, payload string) error
	PublishToQos(topic string, qos byte, retained bool, payload string) error
	Close()
}

type Publisher struct {
	client paho.Client
}

func NewPublisher(client paho.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish pubblica a QoS 0 (at most once).
func (p *Publisher) Publish(topic string, payload string) error {
	return p.PublishToQos(topic, 0, false, payload)
}

func (p *Publisher) PublishToQos(topic string, qos byte, retained bool, payload string) error {
	token := p.client.Publish(topic, qos, retained, payload)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish to %s: %w", topic, token.Error())
	}
	return nil
}

// Close gracefully closes the MQTT connection for the publisher
func (p *Publisher) Close() {
	if p.client.IsConnected() {
		p.client.Disconnect(250)
		log.Println("mqtt: publisher disconnected")
	}
}
