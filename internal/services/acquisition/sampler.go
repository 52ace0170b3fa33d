package acquisition

import (
	"context"
	"log"
	"time"

	"github.com/davideconti/worksafe_project/internal/model/entities"
	"github.com/davideconti/worksafe_project/internal/model/messages"
	"github.com/davideconti/worksafe_project/internal/services/acquisition/drivers"
)

const (
	// periodo del loop di controllo cooperativo
	TickPeriod = 20 * time.Millisecond
	// cadenza di rete: un push e un pull per ciclo, mai di più
	SendInterval = 2 * time.Second
)

// Sampler è il loop cooperativo del nodo di acquisizione: ad ogni tick legge
// i sensori, aggiorna le derivazioni e il display; ogni SendInterval esegue
// il ciclo di rete. Un ciclo fallito viene saltato senza retry né backoff:
// il prossimo riprova alla cadenza fissa.
type Sampler struct {
	workerID string

	pulse drivers.PulseSensor
	imu   drivers.IMUSensor
	temp  drivers.TempSensor

	beats  *BeatDetector
	motion *MotionFilter
	temps  *TempFilter

	display *Display
	uplink  *Uplink

	// contatori comportamentali: monotoni, approssimati, relativi al
	// clock del controller ospite
	startedAt time.Time
	workSince time.Time // inizio del lavoro continuativo (reset su BREAK)
	lastBreak time.Time // ultimo BREAK ricevuto (zero se mai)

	// ultimo stato recuperato in pull
	lastCIS   int
	lastCmd   entities.Command
	haveScore bool

	// per hr_recovery_rate: HR smussato al ciclo precedente
	prevSentHR float64
}

func NewSampler(workerID string, pulse drivers.PulseSensor, imu drivers.IMUSensor,
	temp drivers.TempSensor, display *Display, uplink *Uplink) *Sampler {
	now := time.Now()
	return &Sampler{
		workerID:  workerID,
		pulse:     pulse,
		imu:       imu,
		temp:      temp,
		beats:     NewBeatDetector(),
		motion:    NewMotionFilter(imu.Sensitivity()),
		temps:     NewTempFilter(),
		display:   display,
		uplink:    uplink,
		startedAt: now,
		workSince: now,
	}
}

// Run esegue il loop finché il contesto non viene cancellato.
func (s *Sampler) Run(ctx context.Context) {
	ticker := time.NewTicker(TickPeriod)
	defer ticker.Stop()

	lastSend := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			s.sample(now)
			s.display.Tick(now, s.snapshot())

			if now.Sub(lastSend) >= SendInterval {
				lastSend = now
				s.sendCycle(ctx, now)
			}
		}
	}
}

// sample legge tutti i sensori e aggiorna le derivazioni (non bloccante).
func (s *Sampler) sample(now time.Time) {
	s.beats.Process(s.pulse.Read(), now)
	x, y, z := s.imu.ReadAccel()
	s.motion.Process(x, y, z)
	s.temps.Process(s.temp.Read())
}

func (s *Sampler) snapshot() Snapshot {
	skin, _ := s.temps.Value()
	return Snapshot{
		HeartRate: s.beats.HeartRate(),
		HRV:       s.beats.HRV(),
		Motion:    s.motion.Magnitude(),
		SkinTemp:  skin,
		CIS:       s.lastCIS,
		Command:   s.lastCmd,
		HaveScore: s.haveScore,
	}
}

// sendCycle esegue il push dello snapshot e il pull del comando. I jerk
// vengono drenati solo dopo un push riuscito; qualunque fallimento degrada
// a "si riprova al prossimo ciclo".
func (s *Sampler) sendCycle(ctx context.Context, now time.Time) {
	reqCtx, cancel := context.WithTimeout(ctx, SendInterval/2)
	defer cancel()

	payload := s.buildReading(now)
	if err := s.uplink.PushHuman(reqCtx, payload); err != nil {
		log.Printf("uplink: push skipped: %v", err)
	} else {
		// reset dei contatori di ciclo subito dopo la trasmissione
		s.motion.TakeJerks()
		s.motion.TakeOverCorrections()
		s.prevSentHR = s.beats.HeartRate()
	}

	cr, err := s.uplink.PullCommand(reqCtx)
	if err != nil {
		log.Printf("uplink: pull skipped: %v", err)
		return
	}

	s.lastCIS = cr.CIS
	s.lastCmd = cr.Command
	s.haveScore = true
	s.display.ApplyCommand(cr.Command, now)

	if cr.Command == entities.CommandBreak {
		// il comando BREAK azzera il lavoro continuativo
		s.lastBreak = now
		s.workSince = now
	}
}

// buildReading costruisce lo snapshot HumanReading del ciclo corrente.
func (s *Sampler) buildReading(now time.Time) *messages.HumanPayload {
	skin, _ := s.temps.Value()

	// recovery: di quanto è sceso l'HR smussato dall'ultimo push, in bpm/min
	recovery := 0.0
	if s.prevSentHR > 0 {
		if drop := s.prevSentHR - s.beats.HeartRate(); drop > 0 {
			recovery = drop * float64(time.Minute) / float64(SendInterval)
		}
	}

	breakGap := now.Sub(s.startedAt)
	if !s.lastBreak.IsZero() {
		breakGap = now.Sub(s.lastBreak)
	}

	return &messages.HumanPayload{
		WorkerID:  s.workerID,
		Timestamp: now.UTC(),
		Human: &messages.HumanReading{
			Cardiovascular: &messages.Cardiovascular{
				HeartRateBPM:   s.beats.HeartRate(),
				HRVms:          s.beats.HRV(),
				HRRecoveryRate: recovery,
			},
			MotionPosture: &messages.MotionPosture{
				MotionMagnitude:      s.motion.Magnitude(),
				MotionCadence:        s.motion.Cadence(),
				SuddenJerksCount:     s.motion.PeekJerks(),
				OverCorrectionsCount: s.motion.PeekOverCorrections(),
				ReactionLatencyMs:    0, // richiede il test di reazione, non cablato
			},
			PhysiologicalStress: &messages.PhysiologicalStress{
				SkinTemperatureC:     skin,
				TemperatureDriftRate: s.temps.DriftRate(),
			},
			Behavioral: &messages.Behavioral{
				ContinuousWorkMinutes: now.Sub(s.workSince).Minutes(),
				BreakGapMinutes:       breakGap.Minutes(),
				ShiftHoursAccumulated: now.Sub(s.startedAt).Hours(),
			},
		},
	}
}
