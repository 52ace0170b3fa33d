package fusion

import (
	"encoding/json"
	"net/http"
	"time"
)

type healthHandler struct {
	svc *Service
}

func NewHealthHandler(svc *Service) http.Handler {
	return &healthHandler{svc: svc}
}

func (h *healthHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	type status struct {
		Status        string  `json:"status"`
		HumanSeen     bool    `json:"human_stream_seen"`
		MachineSeen   bool    `json:"machine_stream_seen"`
		ScoreValid    bool    `json:"score_valid"`
		ScoreAgeSec   float64 `json:"score_age_sec"`
		CurrentCIS    int     `json:"cis"`
		CurrentStatus string  `json:"command"`
	}

	human, machine := h.svc.StreamsSeen()
	st := h.svc.State()

	out := status{
		HumanSeen:   human,
		MachineSeen: machine,
		ScoreValid:  st.Valid,
	}
	if st.Valid {
		out.ScoreAgeSec = time.Since(st.UpdatedAt).Seconds()
		out.CurrentCIS = st.CIS
		out.CurrentStatus = string(st.Command)
	}

	// ok se entrambi gli stream visti, degraded se solo uno, down altrimenti
	switch {
	case human && machine:
		out.Status = "ok"
	case human || machine:
		out.Status = "degraded"
	default:
		out.Status = "down"
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(out)
}

// Handler /readyz: 200 solo quando esiste un punteggio valido.
type readyHandler struct {
	svc *Service
}

func NewReadyHandler(svc *Service) http.Handler {
	return &readyHandler{svc: svc}
}

func (h *readyHandler) ServeHTTP(w http.ResponseWriter, _ *http.Request) {
	ready := h.svc.State().Valid
	if !ready {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	w.Header().Set("Content-Type", "application/json")
	type resp struct {
		Ready bool `json:"ready"`
	}
	_ = json.NewEncoder(w).Encode(resp{Ready: ready})
}
