package messages

import (
	"errors"
	"fmt"
	"time"
)

// HumanPayload è il body di POST /ingest/human.
type HumanPayload struct {
	WorkerID  string        `json:"worker_id,omitempty"`
	Timestamp time.Time     `json:"timestamp,omitempty"`
	Human     *HumanReading `json:"human"`
}

// HumanReading raggruppa i campi derivati dal nodo di acquisizione.
// Il reading è uno snapshot: viene consumato una sola volta dal motore
// di scoring e poi sostituito dal push successivo.
type HumanReading struct {
	Cardiovascular      *Cardiovascular      `json:"cardiovascular"`
	MotionPosture       *MotionPosture       `json:"motion_posture"`
	PhysiologicalStress *PhysiologicalStress `json:"physiological_stress"`
	Behavioral          *Behavioral          `json:"behavioral"`
}

type Cardiovascular struct {
	HeartRateBPM   float64 `json:"heart_rate_bpm"`
	HRVms          float64 `json:"heart_rate_variability_ms"`
	HRRecoveryRate float64 `json:"hr_recovery_rate"`
}

type MotionPosture struct {
	MotionMagnitude      float64 `json:"motion_magnitude"`
	MotionCadence        float64 `json:"motion_cadence"`
	SuddenJerksCount     int     `json:"sudden_jerks_count"`
	OverCorrectionsCount int     `json:"over_corrections_count"`
	ReactionLatencyMs    float64 `json:"reaction_latency_ms"`
}

type PhysiologicalStress struct {
	SkinTemperatureC     float64 `json:"skin_temperature_c"`
	TemperatureDriftRate float64 `json:"temperature_drift_rate"`
}

type Behavioral struct {
	ContinuousWorkMinutes float64 `json:"continuous_work_minutes"`
	BreakGapMinutes       float64 `json:"break_gap_minutes"`
	ShiftHoursAccumulated float64 `json:"shift_hours_accumulated"`
}

// Validate rifiuta payload con gruppi mancanti o vitali fuori dominio.
// Un reading respinto non tocca mai l'ultimo reading valido del fusion node.
func (p *HumanPayload) Validate() error {
	if p.Human == nil {
		return errors.New("missing human group")
	}
	h := p.Human
	if h.Cardiovascular == nil {
		return errors.New("missing cardiovascular group")
	}
	if h.MotionPosture == nil {
		return errors.New("missing motion_posture group")
	}
	if h.PhysiologicalStress == nil {
		return errors.New("missing physiological_stress group")
	}
	if h.Behavioral == nil {
		return errors.New("missing behavioral group")
	}
	if hr := h.Cardiovascular.HeartRateBPM; hr < 0 || hr > 220 {
		return fmt.Errorf("heart_rate_bpm %.1f out of domain [0,220]", hr)
	}
	if h.Cardiovascular.HRVms < 0 {
		return fmt.Errorf("heart_rate_variability_ms %.1f negative", h.Cardiovascular.HRVms)
	}
	if h.MotionPosture.MotionMagnitude < 0 {
		return fmt.Errorf("motion_magnitude %.3f negative", h.MotionPosture.MotionMagnitude)
	}
	if h.MotionPosture.SuddenJerksCount < 0 {
		return fmt.Errorf("sudden_jerks_count %d negative", h.MotionPosture.SuddenJerksCount)
	}
	return nil
}
