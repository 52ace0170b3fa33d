package fusion

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/davideconti/worksafe_project/internal/model/messages"
)

// NewHTTPMux monta le rotte del fusion node. Le rotte sconosciute rispondono
// 404 (nessun handler su "/").
func NewHTTPMux(svc *Service, m *Metrics, hub *Hub) *http.ServeMux {
	mux := http.NewServeMux()

	// POST /ingest/human
	mux.HandleFunc("/ingest/human", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var p messages.HumanPayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			rejectIngest(w, m, "human", "parse", err)
			return
		}
		if err := p.Validate(); err != nil {
			rejectIngest(w, m, "human", "invalid", err)
			return
		}
		st := svc.IngestHuman(p.Human)
		m.IngestTotal.WithLabelValues("human", "accepted").Inc()
		log.Printf("ingest: human worker=%s hr=%.1f hrv=%.1f jerks=%d cis=%d",
			p.WorkerID, p.Human.Cardiovascular.HeartRateBPM,
			p.Human.Cardiovascular.HRVms, p.Human.MotionPosture.SuddenJerksCount, st.CIS)
		ack(w)
	})

	// POST /ingest/machine
	mux.HandleFunc("/ingest/machine", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		var p messages.MachinePayload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			rejectIngest(w, m, "machine", "parse", err)
			return
		}
		if err := p.Validate(); err != nil {
			rejectIngest(w, m, "machine", "invalid", err)
			return
		}
		st := svc.IngestMachine(p.Machine)
		m.IngestTotal.WithLabelValues("machine", "accepted").Inc()
		log.Printf("ingest: machine id=%s duty=%.2f shock=%v cis=%d",
			p.MachineID, p.Machine.OperationalIntensity.DutyCycle,
			p.Machine.MechanicalStress.ShockEvent, st.CIS)
		ack(w)
	})

	// GET /command — 503 finché il motore non ha un punteggio valido.
	mux.HandleFunc("/command", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		st := svc.State()
		w.Header().Set("Content-Type", "application/json")
		if !st.Valid {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "no valid score yet"})
			return
		}
		_ = json.NewEncoder(w).Encode(messages.CommandResponse{CIS: st.CIS, Command: st.Command})
	})

	mux.Handle("/healthz", NewHealthHandler(svc))
	mux.Handle("/readyz", NewReadyHandler(svc))
	mux.HandleFunc("/stream", hub.ServeWS)
	mux.Handle("/metrics", m.Handler())

	return mux
}

// Un reading respinto non tocca mai l'ultimo reading valido dello stream:
// 400 e si continua a fare scoring con il dato stantio.
func rejectIngest(w http.ResponseWriter, m *Metrics, stream, outcome string, err error) {
	m.IngestTotal.WithLabelValues(stream, outcome).Inc()
	log.Printf("ingest: %s rejected (%s): %v", stream, outcome, err)
	http.Error(w, "bad request: "+err.Error(), http.StatusBadRequest)
}

func ack(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
