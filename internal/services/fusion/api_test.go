package fusion

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/davideconti/worksafe_project/internal/model/messages"
)

func newTestServer(t *testing.T) (*httptest.Server, *Service) {
	t.Helper()
	svc := NewService()
	m := NewMetrics()
	hub := NewHub()
	t.Cleanup(hub.Close)
	ts := httptest.NewServer(NewHTTPMux(svc, m, hub))
	t.Cleanup(ts.Close)
	return ts, svc
}

func postJSON(t *testing.T, url string, v any) *http.Response {
	t.Helper()
	body, err := json.Marshal(v)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	return resp
}

func humanPayload() messages.HumanPayload {
	h := calmHuman()
	return messages.HumanPayload{WorkerID: "worker-1", Timestamp: time.Now().UTC(), Human: &h}
}

func machinePayload() messages.MachinePayload {
	m := idleMachine()
	return messages.MachinePayload{MachineID: "crane-01", Timestamp: time.Now().UTC(), Machine: &m}
}

func pullCommand(t *testing.T, base string) (int, messages.CommandResponse) {
	t.Helper()
	resp, err := http.Get(base + "/command")
	require.NoError(t, err)
	defer resp.Body.Close()
	var cr messages.CommandResponse
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&cr))
	}
	return resp.StatusCode, cr
}

func TestCommandUnavailableUntilBothStreams(t *testing.T) {
	ts, _ := newTestServer(t)

	code, _ := pullCommand(t, ts.URL)
	assert.Equal(t, http.StatusServiceUnavailable, code)

	// solo lo stream umano: ancora nessun punteggio valido
	resp := postJSON(t, ts.URL+"/ingest/human", humanPayload())
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	code, _ = pullCommand(t, ts.URL)
	assert.Equal(t, http.StatusServiceUnavailable, code)

	resp = postJSON(t, ts.URL+"/ingest/machine", machinePayload())
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	code, cr := pullCommand(t, ts.URL)
	require.Equal(t, http.StatusOK, code)
	assert.True(t, cr.Command.Valid())
	assert.GreaterOrEqual(t, cr.CIS, 0)
	assert.LessOrEqual(t, cr.CIS, 100)
}

func TestCommandPullIsIdempotent(t *testing.T) {
	ts, _ := newTestServer(t)

	postJSON(t, ts.URL+"/ingest/human", humanPayload()).Body.Close()
	postJSON(t, ts.URL+"/ingest/machine", machinePayload()).Body.Close()

	code1, first := pullCommand(t, ts.URL)
	code2, second := pullCommand(t, ts.URL)
	require.Equal(t, http.StatusOK, code1)
	require.Equal(t, http.StatusOK, code2)
	assert.Equal(t, first, second)
}

func TestMalformedIngestKeepsLastValidScore(t *testing.T) {
	ts, _ := newTestServer(t)

	postJSON(t, ts.URL+"/ingest/human", humanPayload()).Body.Close()
	postJSON(t, ts.URL+"/ingest/machine", machinePayload()).Body.Close()
	_, before := pullCommand(t, ts.URL)

	resp, err := http.Post(ts.URL+"/ingest/human", "application/json",
		bytes.NewReader([]byte(`{"human": not-json`)))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// anche un body ben formato ma incompleto viene respinto
	resp = postJSON(t, ts.URL+"/ingest/human", messages.HumanPayload{WorkerID: "worker-1"})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	code, after := pullCommand(t, ts.URL)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, before, after)
}

func TestInvalidVitalsRejected(t *testing.T) {
	ts, _ := newTestServer(t)

	p := humanPayload()
	p.Human.Cardiovascular.HeartRateBPM = 400
	resp := postJSON(t, ts.URL+"/ingest/human", p)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestOutOfRangeMachineFieldsRejected(t *testing.T) {
	ts, _ := newTestServer(t)

	p := machinePayload()
	p.Machine.OperationalIntensity.DutyCycle = 1.7
	resp := postJSON(t, ts.URL+"/ingest/machine", p)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMethodAndRouteErrors(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/ingest/human")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Post(ts.URL+"/command", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)

	resp, err = http.Get(ts.URL + "/nope")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestReadyzFollowsScoreValidity(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	postJSON(t, ts.URL+"/ingest/human", humanPayload()).Body.Close()
	postJSON(t, ts.URL+"/ingest/machine", machinePayload()).Body.Close()

	resp, err = http.Get(ts.URL + "/readyz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
