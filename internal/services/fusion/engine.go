package fusion

import (
	"math"

	"github.com/davideconti/worksafe_project/internal/model/entities"
	"github.com/davideconti/worksafe_project/internal/model/messages"
)

// ===================== Costanti del modello =====================

const (
	HRMax       = 160.0 // bpm
	HRVBaseline = 80.0  // ms
	MotionMax   = 3.0

	EngineTempMin = 60.0 // °C
	EngineTempMax = 130.0
	OilTempMin    = 50.0
	OilTempMax    = 120.0

	HoursMax     = 10000.0 // vita utile macchina [h]
	ShockPenalty = 8

	ThresholdNormal = 70 // CIS >= 70 → NORMAL
	ThresholdAlert  = 50 // 50 <= CIS < 70 → ALERT, sotto → BREAK
)

// Pesi del modello lineare a pesi fissi
const (
	weightHSS = 0.45
	weightMSS = 0.45
	weightFAF = 0.10
)

// Result è l'output del motore per una coppia di reading.
type Result struct {
	HSS     float64
	MSS     float64
	FAF     float64
	CIS     int
	Command entities.Command
}

// Score fonde l'ultimo HumanReading e l'ultimo MachineReading nel punteggio
// CIS limitato a [0,100] (più alto = più sicuro) e nel comando derivato.
// Funzione pura su input immutabili: niente stato, niente side effect.
//
// La somma pesata misura l'impatto (stress); il CIS è il suo complemento.
// Uno shock event aggiunge una penalità fissa all'impatto, quindi abbassa
// il CIS di esattamente ShockPenalty punti (clamp a 0).
func Score(h messages.HumanReading, m messages.MachineReading) Result {
	hss := humanStress(h)
	mss := machineStress(m)
	faf := fatigueAge(m)

	impact := int(math.Round(100 * (weightHSS*hss + weightMSS*mss + weightFAF*faf)))
	if m.MechanicalStress.ShockEvent {
		impact += ShockPenalty
	}
	cis := clampInt(100-impact, 0, 100)

	return Result{HSS: hss, MSS: mss, FAF: faf, CIS: cis, Command: CommandFor(cis)}
}

// CommandFor è la funzione di soglia pura, senza isteresi: viene ricalcolata
// ad ogni tick, il flapping vicino alle soglie è un trade-off accettato.
func CommandFor(cis int) entities.Command {
	switch {
	case cis >= ThresholdNormal:
		return entities.CommandNormal
	case cis >= ThresholdAlert:
		return entities.CommandAlert
	default:
		return entities.CommandBreak
	}
}

// Human Stress Sub-score: frequenza alta, HRV bassa e motion alta alzano lo stress.
func humanStress(h messages.HumanReading) float64 {
	hr := clamp01(h.Cardiovascular.HeartRateBPM / HRMax)
	hrv := clamp01(h.Cardiovascular.HRVms / HRVBaseline)
	motion := clamp01(h.MotionPosture.MotionMagnitude / MotionMax)
	return 0.4*hr + 0.4*(1-hrv) + 0.2*motion
}

// Machine Stress Sub-score: tutti gli input sono già normalizzati o vengono
// normalizzati sulla propria banda min/max prima della pesatura.
func machineStress(m messages.MachineReading) float64 {
	op := m.OperationalIntensity
	ms := m.MechanicalStress
	th := m.ThermalStress
	return 0.22*clamp01(op.ActuatorSpeedNorm) +
		0.22*clamp01(op.TorqueLoadNorm) +
		0.18*clamp01(ms.VibrationRMSNorm) +
		0.13*normBand(th.EngineTemperatureC, EngineTempMin, EngineTempMax) +
		0.13*normBand(th.OilTemperatureC, OilTempMin, OilTempMax) +
		0.12*clamp01(op.DutyCycle) +
		0.10*clamp01(ms.RPMInstability)
}

// Fatigue/Age Factor: ore di esercizio cumulative + salute macchina.
func fatigueAge(m messages.MachineReading) float64 {
	hours := clamp01(m.UsageFatigue.OperatingHoursTotal / HoursMax)
	health := clamp01(m.HealthContext.MachineHealthScore / 100)
	return 0.6*hours + 0.4*(1-health)
}

func normBand(v, min, max float64) float64 {
	return clamp01((v - min) / (max - min))
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

func clampInt(x, lo, hi int) int {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
