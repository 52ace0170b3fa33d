package messages

import (
	"errors"
	"fmt"
	"time"

	"github.com/davideconti/worksafe_project/internal/model/entities"
)

// MachinePayload è il body di POST /ingest/machine. Lo stesso payload viaggia
// anche sul topic MQTT machine/telemetry/<id>: MsgID serve al bridge per
// scartare le redelivery QoS1.
type MachinePayload struct {
	MachineID string          `json:"machine_id,omitempty"`
	MsgID     string          `json:"msg_id,omitempty"`
	Timestamp time.Time       `json:"timestamp,omitempty"`
	Machine   *MachineReading `json:"machine"`
}

// MachineReading è l'ultima telemetria del monitor macchina. Stesso ciclo di
// vita di HumanReading: push, consumo singolo, sostituzione al push successivo.
type MachineReading struct {
	OperationalIntensity *OperationalIntensity `json:"operational_intensity"`
	MechanicalStress     *MechanicalStress     `json:"mechanical_stress"`
	ThermalStress        *ThermalStress        `json:"thermal_stress"`
	UsageFatigue         *UsageFatigue         `json:"usage_fatigue"`
	HealthContext        *HealthContext        `json:"health_context"`
}

type OperationalIntensity struct {
	ActuatorSpeedNorm float64 `json:"actuator_speed_norm"`
	TorqueLoadNorm    float64 `json:"torque_load_norm"`
	DutyCycle         float64 `json:"duty_cycle"`
}

type MechanicalStress struct {
	VibrationRMSNorm float64 `json:"vibration_rms_norm"`
	RPMInstability   float64 `json:"rpm_instability"`
	ShockEvent       bool    `json:"shock_event"`
}

type ThermalStress struct {
	EngineTemperatureC float64 `json:"engine_temperature_c"`
	OilTemperatureC    float64 `json:"oil_temperature_c"`
}

type UsageFatigue struct {
	OperatingHoursTotal  float64 `json:"operating_hours_total"`
	ContinuousRunMinutes float64 `json:"continuous_run_minutes"`
}

type HealthContext struct {
	MachineHealthScore float64                   `json:"machine_health_score"`
	MaintenanceState   entities.MaintenanceState `json:"maintenance_state"`
}

// Validate rifiuta payload con gruppi mancanti o campi normalizzati fuori [0,1].
func (p *MachinePayload) Validate() error {
	if p.Machine == nil {
		return errors.New("missing machine group")
	}
	m := p.Machine
	if m.OperationalIntensity == nil {
		return errors.New("missing operational_intensity group")
	}
	if m.MechanicalStress == nil {
		return errors.New("missing mechanical_stress group")
	}
	if m.ThermalStress == nil {
		return errors.New("missing thermal_stress group")
	}
	if m.UsageFatigue == nil {
		return errors.New("missing usage_fatigue group")
	}
	if m.HealthContext == nil {
		return errors.New("missing health_context group")
	}

	norm := map[string]float64{
		"actuator_speed_norm": m.OperationalIntensity.ActuatorSpeedNorm,
		"torque_load_norm":    m.OperationalIntensity.TorqueLoadNorm,
		"duty_cycle":          m.OperationalIntensity.DutyCycle,
		"vibration_rms_norm":  m.MechanicalStress.VibrationRMSNorm,
		"rpm_instability":     m.MechanicalStress.RPMInstability,
	}
	for name, v := range norm {
		if v < 0 || v > 1 {
			return fmt.Errorf("%s %.3f out of [0,1]", name, v)
		}
	}
	if hs := m.HealthContext.MachineHealthScore; hs < 0 || hs > 100 {
		return fmt.Errorf("machine_health_score %.1f out of [0,100]", hs)
	}
	if m.UsageFatigue.OperatingHoursTotal < 0 {
		return fmt.Errorf("operating_hours_total %.1f negative", m.UsageFatigue.OperatingHoursTotal)
	}
	return nil
}
