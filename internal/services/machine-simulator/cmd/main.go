package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	machineSimulator "github.com/davideconti/worksafe_project/internal/services/machine-simulator"
	"github.com/davideconti/worksafe_project/pkg/mqtt"
)

func main() {
	// define flags
	fleetPath := flag.String("fleet", "configs/machines.yaml", "fleet profile file")
	clientID := flag.String("client-id", "machineSimulator1", "MQTT client ID")
	interval := flag.Duration("interval", 2*time.Second, "publish interval")
	brokerHost := flag.String("broker-host", "localhost", "MQTT broker host")
	brokerPort := flag.Int("broker-port", 1883, "MQTT broker port")
	flag.Parse()

	fleet, err := machineSimulator.LoadFleetProfile(*fleetPath)
	if err != nil {
		log.Fatal(err)
	}

	cfg := &mqtt.BrokerConfig{
		Host:     *brokerHost,
		Port:     *brokerPort,
		User:     os.Getenv("MQTT_USER"),
		Password: os.Getenv("MQTT_PASSWORD"),
		ClientID: *clientID,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client, err := mqtt.NewBrokerConn(cfg, ctx)
	if err != nil {
		log.Fatal(err)
	}

	publisher := mqtt.NewPublisher(client)
	sim := machineSimulator.NewMachineSimulator(publisher, fleet, time.Now().UnixNano())

	go sim.Start(ctx, *interval)
	log.Printf("machine simulator started (%d machines, every %s)", len(fleet.Machines), *interval)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Println("machine simulator shutting down")
	cancel()
}
