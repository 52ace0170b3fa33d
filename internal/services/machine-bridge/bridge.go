package machine_bridge

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sony/gobreaker"

	"github.com/davideconti/worksafe_project/internal/model/messages"
	"github.com/davideconti/worksafe_project/pkg/dedup"
	"github.com/davideconti/worksafe_project/pkg/mqtt"
)

// BridgeConfig configura l'inoltro verso il fusion node.
type BridgeConfig struct {
	FusionURL string
	Timeout   time.Duration

	BreakerFailures int
	BreakerOpenFor  time.Duration
}

// Bridge consuma la telemetria macchina dal broker e la inoltra al fusion
// node via HTTP. La telemetria viaggia a QoS1: le redelivery vengono scartate
// per msg_id prima dell'inoltro, così il fusion node vede ogni lettura una
// volta sola.
type Bridge struct {
	consumer mqtt.IConsumer
	deduper  *dedup.Deduper
	client   *http.Client
	base     string
	breaker  *gobreaker.CircuitBreaker
}

func NewBridge(consumer mqtt.IConsumer, cfg BridgeConfig) *Bridge {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 1500 * time.Millisecond
	}
	if cfg.BreakerFailures < 1 {
		cfg.BreakerFailures = 3
	}
	if cfg.BreakerOpenFor <= 0 {
		cfg.BreakerOpenFor = 10 * time.Second
	}
	return &Bridge{
		consumer: consumer,
		deduper:  dedup.New(2*time.Minute, 10000), // TTL e cap
		client:   &http.Client{Timeout: cfg.Timeout},
		base:     strings.TrimRight(strings.TrimSpace(cfg.FusionURL), "/"),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "fusion-machine-ingest",
			Timeout: cfg.BreakerOpenFor,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= uint32(cfg.BreakerFailures)
			},
		}),
	}
}

// Start sottoscrive il topic di telemetria e blocca finché il contesto non
// viene cancellato.
func (b *Bridge) Start(ctx context.Context) {
	b.consumer.SetHandler(func(topic string, msg paho.Message) error {
		return b.handleTelemetry(ctx, msg.Payload())
	})
	b.consumer.ConsumeMessage(ctx)
}

func (b *Bridge) handleTelemetry(ctx context.Context, raw []byte) error {
	var payload messages.MachinePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invalid MachinePayload: %w", err)
	}
	if !b.deduper.ShouldProcess(payload.MsgID) {
		return nil // redelivery QoS1 → ignora
	}
	if err := payload.Validate(); err != nil {
		// lettura malformata: scartata qui, il fusion node non la vede mai
		log.Printf("bridge: dropping invalid reading machine=%s: %v", payload.MachineID, err)
		return nil
	}
	return b.forward(ctx, raw)
}

// forward inoltra il payload già validato a POST /ingest/machine.
func (b *Bridge) forward(ctx context.Context, raw []byte) error {
	_, err := b.breaker.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.base+"/ingest/machine", bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := b.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("forward request error: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("forward status %d", resp.StatusCode)
		}
		return nil, nil
	})
	return err
}
