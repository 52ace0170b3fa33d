package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	machineBridge "github.com/davideconti/worksafe_project/internal/services/machine-bridge"
	"github.com/davideconti/worksafe_project/pkg/mqtt"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := mqtt.NewBrokerConn(&mqtt.BrokerConfig{
		Host:     cfg.BrokerHost,
		Port:     cfg.BrokerPort,
		User:     cfg.MQTTUser,
		Password: cfg.MQTTPassword,
		ClientID: cfg.ClientID,
	}, ctx)
	if err != nil {
		log.Fatal(err)
	}

	consumer := mqtt.NewConsumer(client, cfg.Topic, nil)
	bridge := machineBridge.NewBridge(consumer, machineBridge.BridgeConfig{
		FusionURL:       cfg.FusionURL,
		Timeout:         cfg.HTTPTimeout(),
		BreakerFailures: cfg.BreakerFailures,
		BreakerOpenFor:  cfg.BreakerOpenFor(),
	})

	go bridge.Start(ctx)
	log.Printf("machine bridge started (topic=%s fusion=%s)", cfg.Topic, cfg.FusionURL)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("machine bridge shutting down")
	cancel()
}
