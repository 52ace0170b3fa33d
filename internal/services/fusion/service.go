package fusion

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/davideconti/worksafe_project/internal/model/entities"
	"github.com/davideconti/worksafe_project/internal/model/messages"
)

// CISState è lo stato derivato del fusion node. Valid resta false finché
// entrambi gli stream non sono stati popolati almeno una volta: prima di
// allora il nodo non riporta alcun punteggio (guardia contro i sentinel).
type CISState struct {
	CIS       int
	Command   entities.Command
	Valid     bool
	UpdatedAt time.Time
}

// Service tiene l'ultimo reading valido di ciascuno stream (mai una storia:
// ogni push sostituisce il precedente) e ricalcola lo stato ad ogni ingest
// e ad ogni tick periodico. Le richieste HTTP sono serializzate dal mutex:
// nessuna lettura di stato a metà aggiornamento è possibile.
type Service struct {
	mu      sync.Mutex
	human   *messages.HumanReading
	machine *messages.MachineReading
	state   CISState

	onUpdate func(CISState) // notifica metrics/stream, opzionale
}

func NewService() *Service {
	return &Service{}
}

// SetOnUpdate registra il callback invocato dopo ogni ricalcolo riuscito.
// Va chiamato prima di Run / di servire richieste.
func (s *Service) SetOnUpdate(fn func(CISState)) {
	s.onUpdate = fn
}

// IngestHuman sostituisce l'ultimo reading umano e ricalcola subito.
func (s *Service) IngestHuman(r *messages.HumanReading) CISState {
	s.mu.Lock()
	s.human = r
	st := s.recomputeLocked()
	s.mu.Unlock()
	s.notify(st)
	return st
}

// IngestMachine sostituisce l'ultima telemetria macchina e ricalcola subito.
func (s *Service) IngestMachine(r *messages.MachineReading) CISState {
	s.mu.Lock()
	s.machine = r
	st := s.recomputeLocked()
	s.mu.Unlock()
	s.notify(st)
	return st
}

// State ritorna una copia dello stato corrente.
func (s *Service) State() CISState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// StreamsSeen riporta quali stream hanno ricevuto almeno un reading valido.
func (s *Service) StreamsSeen() (human, machine bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.human != nil, s.machine != nil
}

// Run è il loop di controllo del nodo: un ricalcolo per tick finché il
// contesto non viene cancellato. Gli ingest ricalcolano comunque subito,
// il tick garantisce la cadenza anche senza traffico.
func (s *Service) Run(ctx context.Context, tick time.Duration) {
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			st := s.recomputeLocked()
			s.mu.Unlock()
			s.notify(st)
		}
	}
}

// recomputeLocked richiede il mutex già acquisito.
func (s *Service) recomputeLocked() CISState {
	if s.human == nil || s.machine == nil {
		return s.state
	}
	res := Score(*s.human, *s.machine)
	prev := s.state
	s.state = CISState{
		CIS:       res.CIS,
		Command:   res.Command,
		Valid:     true,
		UpdatedAt: time.Now().UTC(),
	}
	if !prev.Valid || prev.Command != res.Command {
		log.Printf("fusion: cis=%d command=%s (hss=%.3f mss=%.3f faf=%.3f)",
			res.CIS, res.Command, res.HSS, res.MSS, res.FAF)
	}
	return s.state
}

func (s *Service) notify(st CISState) {
	if s.onUpdate != nil && st.Valid {
		s.onUpdate(st)
	}
}
