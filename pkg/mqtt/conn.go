package mqtt

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"
	paho "github.com/eclipse/paho.mqtt.golang"
)

type BrokerConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	ClientID string
}

// NewBrokerConn apre la connessione al broker MQTT con retry esponenziale.
// La connessione viene chiusa automaticamente alla cancellazione del contesto.
func NewBrokerConn(cfg *BrokerConfig, ctx context.Context) (paho.Client, error) {
	connAddr := fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port)

	opts := paho.NewClientOptions()
	opts.AddBroker(connAddr)
	opts.SetUsername(cfg.User)
	opts.SetPassword(cfg.Password)
	opts.SetClientID(cfg.ClientID)
	opts.SetCleanSession(true)

	// Exponential backoff per le retry in caso di fail
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 10 * time.Second
	maxRetries := 5

	var client paho.Client

	err := backoff.Retry(func() error {
		client = paho.NewClient(opts)
		if token := client.Connect(); token.Wait() && token.Error() != nil {
			log.Printf("mqtt: connect to %s failed: %v", connAddr, token.Error())
			return token.Error()
		}
		return nil
	}, backoff.WithMaxRetries(bo, uint64(maxRetries-1)))

	if err != nil {
		return nil, fmt.Errorf("could not establish MQTT connection after retries: %w", err)
	}

	log.Printf("mqtt: connected to broker at %s", connAddr)

	go func() {
		<-ctx.Done()
		client.Disconnect(250)
		log.Println("mqtt: connection closed")
	}()

	return client, nil
}

func CloseBrokerConn(client paho.Client) {
	if client.IsConnected() {
		client.Disconnect(250)
		log.Println("mqtt: connection successfully closed")
	}
}
