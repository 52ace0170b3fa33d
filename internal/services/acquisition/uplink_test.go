package acquisition

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davideconti/worksafe_project/internal/model/messages"
)

func testHumanPayload() *messages.HumanPayload {
	return &messages.HumanPayload{
		WorkerID: "worker-1",
		Human: &messages.HumanReading{
			Cardiovascular:      &messages.Cardiovascular{HeartRateBPM: 75, HRVms: 60},
			MotionPosture:       &messages.MotionPosture{MotionMagnitude: 0.1},
			PhysiologicalStress: &messages.PhysiologicalStress{SkinTemperatureC: 36.5},
			Behavioral:          &messages.Behavioral{},
		},
	}
}

func TestUplinkPushAndPull(t *testing.T) {
	var pushes atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ingest/human":
			require.Equal(t, http.MethodPost, r.Method)
			var p messages.HumanPayload
			require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
			require.NoError(t, p.Validate())
			pushes.Add(1)
			w.Write([]byte("ok"))
		case "/command":
			json.NewEncoder(w).Encode(messages.CommandResponse{CIS: 83, Command: "NORMAL"})
		default:
			http.NotFound(w, r)
		}
	}))
	defer ts.Close()

	u := NewUplink(UplinkConfig{BaseURL: ts.URL})
	ctx := context.Background()

	require.NoError(t, u.PushHuman(ctx, testHumanPayload()))
	assert.Equal(t, int32(1), pushes.Load())

	cr, err := u.PullCommand(ctx)
	require.NoError(t, err)
	assert.Equal(t, 83, cr.CIS)
	assert.Equal(t, "NORMAL", string(cr.Command))
}

func TestUplinkPullRejectsUnknownCommand(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"cis": 50, "command": "PANIC"})
	}))
	defer ts.Close()

	u := NewUplink(UplinkConfig{BaseURL: ts.URL})
	_, err := u.PullCommand(context.Background())
	assert.Error(t, err)
}

func TestUplinkPull503IsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "no valid score yet", http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	u := NewUplink(UplinkConfig{BaseURL: ts.URL})
	_, err := u.PullCommand(context.Background())
	assert.Error(t, err)
}

func TestUplinkBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var hits atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	u := NewUplink(UplinkConfig{
		BaseURL:         ts.URL,
		BreakerFailures: 3,
		BreakerOpenFor:  time.Minute,
	})
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.Error(t, u.PushHuman(ctx, testHumanPayload()))
	}
	// dal quarto tentativo il breaker è aperto: nessuna richiesta in rete
	assert.Equal(t, int32(3), hits.Load())
}

func TestUplinkBreakersAreIndependent(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/command" {
			json.NewEncoder(w).Encode(messages.CommandResponse{CIS: 90, Command: "NORMAL"})
			return
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer ts.Close()

	u := NewUplink(UplinkConfig{BaseURL: ts.URL, BreakerFailures: 2, BreakerOpenFor: time.Minute})
	ctx := context.Background()

	// il breaker del push si apre, quello del pull continua a funzionare
	for i := 0; i < 4; i++ {
		assert.Error(t, u.PushHuman(ctx, testHumanPayload()))
	}
	cr, err := u.PullCommand(ctx)
	require.NoError(t, err)
	assert.Equal(t, 90, cr.CIS)
}
