package machine_simulator

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/davideconti/worksafe_project/internal/model/entities"
	"github.com/davideconti/worksafe_project/internal/model/messages"
)

// ====== Tunables ======
const (
	// passo massimo del random walk sul duty cycle per ciclo
	dutyStep = 0.08

	// la vibrazione insegue il duty con questo guadagno più rumore
	vibGain  = 0.7
	vibNoise = 0.10

	// temperature: inseguono un target proporzionale al duty
	engineTempIdle = 65.0
	engineTempSpan = 55.0 // idle..idle+span al variare del duty
	oilTempIdle    = 55.0
	oilTempSpan    = 50.0
	tempLag        = 0.05 // frazione di avvicinamento al target per ciclo

	// usura: punti di health persi per ora operativa a pieno duty
	wearPerHour = 0.5
)

// TelemetryGenerator evolve lo stato interno di una macchina e produce una
// MachineReading per ciclo. Un generatore per macchina; il random walk rende
// ogni flotta simulata indipendente a parità di profilo.
type TelemetryGenerator struct {
	mu      sync.Mutex
	machine entities.Machine
	rnd     *rand.Rand

	duty       float64
	vibration  float64
	engineTemp float64
	oilTemp    float64
	rpmJitter  float64
	health     float64
	hours      float64
	runSince   time.Time
	last       time.Time
}

func NewTelemetryGenerator(m entities.Machine, seed int64) *TelemetryGenerator {
	now := time.Now().UTC()
	return &TelemetryGenerator{
		machine:    m,
		rnd:        rand.New(rand.NewSource(seed)),
		duty:       clamp01(m.BaseDuty),
		engineTemp: engineTempIdle,
		oilTemp:    oilTempIdle,
		health:     m.HealthScore,
		hours:      m.HoursTotal,
		runSince:   now,
		last:       now,
	}
}

// Next avanza la simulazione e restituisce la telemetria corrente.
func (g *TelemetryGenerator) Next() *messages.MachineReading {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UTC()
	dtH := now.Sub(g.last).Hours()
	if dtH < 0 {
		dtH = 0
	}
	g.last = now

	// duty: random walk attorno al base duty del profilo
	g.duty += (g.rnd.Float64()*2 - 1) * dutyStep
	pull := (g.machine.BaseDuty - g.duty) * 0.1
	g.duty = clamp01(g.duty + pull)

	// vibrazione e instabilità RPM inseguono il duty
	g.vibration = clamp01(vibGain*g.duty + g.rnd.Float64()*vibNoise)
	g.rpmJitter = clamp01(0.3*g.duty + g.rnd.Float64()*0.08)

	// termica: avvicinamento esponenziale al target dettato dal duty
	engTarget := engineTempIdle + engineTempSpan*g.duty
	oilTarget := oilTempIdle + oilTempSpan*g.duty
	g.engineTemp += (engTarget - g.engineTemp) * tempLag
	g.oilTemp += (oilTarget - g.oilTemp) * tempLag

	// usura: ore e health avanzano col tempo reale, pesate sul duty
	g.hours += dtH
	g.health = math.Max(0, g.health-wearPerHour*dtH*g.duty)

	shock := g.rnd.Float64() < g.machine.ShockChance

	return &messages.MachineReading{
		OperationalIntensity: &messages.OperationalIntensity{
			ActuatorSpeedNorm: clamp01(g.duty + g.rnd.Float64()*0.05),
			TorqueLoadNorm:    clamp01(0.8*g.duty + g.rnd.Float64()*0.1),
			DutyCycle:         g.duty,
		},
		MechanicalStress: &messages.MechanicalStress{
			VibrationRMSNorm: g.vibration,
			RPMInstability:   g.rpmJitter,
			ShockEvent:       shock,
		},
		ThermalStress: &messages.ThermalStress{
			EngineTemperatureC: g.engineTemp,
			OilTemperatureC:    g.oilTemp,
		},
		UsageFatigue: &messages.UsageFatigue{
			OperatingHoursTotal:  g.hours,
			ContinuousRunMinutes: now.Sub(g.runSince).Minutes(),
		},
		HealthContext: &messages.HealthContext{
			MachineHealthScore: g.health,
			MaintenanceState:   g.maintenanceStateLocked(),
		},
	}
}

// maintenanceStateLocked deriva l'etichetta di manutenzione dall'health.
func (g *TelemetryGenerator) maintenanceStateLocked() entities.MaintenanceState {
	switch {
	case g.health <= 10:
		return entities.MaintenanceOffline
	case g.health <= 30:
		return entities.MaintenanceDue
	case g.health <= 60:
		return entities.MaintenanceWarning
	default:
		return entities.MaintenanceOperational
	}
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
