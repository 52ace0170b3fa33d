package acquisition

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker"

	"github.com/davideconti/worksafe_project/internal/model/messages"
)

// UplinkConfig configura il client verso il fusion node.
type UplinkConfig struct {
	BaseURL string
	Timeout time.Duration

	BreakerFailures int
	BreakerOpenFor  time.Duration
}

// Uplink incapsula il push/pull HTTP verso il fusion node: un push e un pull
// per ciclo di invio, mai di più. Ogni direzione ha il proprio circuit
// breaker; a breaker aperto il ciclo viene semplicemente saltato.
type Uplink struct {
	base   string
	client *http.Client

	pushCB *gobreaker.CircuitBreaker
	pullCB *gobreaker.CircuitBreaker
}

func mkCB(name string, fails int, openFor time.Duration) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: openFor,
		ReadyToTrip: func(c gobreaker.Counts) bool {
			return c.ConsecutiveFailures >= uint32(fails)
		},
	})
}

func NewUplink(cfg UplinkConfig) *Uplink {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 1500 * time.Millisecond
	}
	if cfg.BreakerFailures < 1 {
		cfg.BreakerFailures = 3
	}
	if cfg.BreakerOpenFor <= 0 {
		cfg.BreakerOpenFor = 10 * time.Second
	}
	return &Uplink{
		base:   strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		client: &http.Client{Timeout: cfg.Timeout},
		pushCB: mkCB("fusion-push", cfg.BreakerFailures, cfg.BreakerOpenFor),
		pullCB: mkCB("fusion-pull", cfg.BreakerFailures, cfg.BreakerOpenFor),
	}
}

// PushHuman invia uno snapshot HumanReading a POST /ingest/human.
func (u *Uplink) PushHuman(ctx context.Context, p *messages.HumanPayload) error {
	_, err := u.pushCB.Execute(func() (any, error) {
		body, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.base+"/ingest/human", bytes.NewReader(body))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := u.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("push request error: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("push status %d", resp.StatusCode)
		}
		return nil, nil
	})
	return err
}

// PullCommand recupera lo stato corrente da GET /command.
func (u *Uplink) PullCommand(ctx context.Context) (messages.CommandResponse, error) {
	res, err := u.pullCB.Execute(func() (any, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.base+"/command", nil)
		if err != nil {
			return nil, err
		}
		resp, err := u.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("pull request error: %w", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("pull status %d", resp.StatusCode)
		}
		var cr messages.CommandResponse
		if err := json.NewDecoder(resp.Body).Decode(&cr); err != nil {
			return nil, fmt.Errorf("pull decode error: %w", err)
		}
		if !cr.Command.Valid() {
			return nil, fmt.Errorf("pull unknown command %q", cr.Command)
		}
		return cr, nil
	})
	if err != nil {
		return messages.CommandResponse{}, err
	}
	return res.(messages.CommandResponse), nil
}
