package entities

// MaintenanceState è l'etichetta di manutenzione riportata dal monitor macchina.
type MaintenanceState string

const (
	MaintenanceOperational MaintenanceState = "OPERATIONAL"
	MaintenanceWarning     MaintenanceState = "WARNING"
	MaintenanceDue         MaintenanceState = "MAINTENANCE"
	MaintenanceOffline     MaintenanceState = "OFFLINE"
)

// Machine represents a single monitored machine in the fleet profile.
type Machine struct {
	ID          string  `yaml:"id" json:"id"`
	Name        string  `yaml:"name" json:"name"`
	Type        string  `yaml:"type" json:"type"` // CRANE | EXCAVATOR | LOADER | ...
	BaseDuty    float64 `yaml:"base_duty" json:"base_duty"`       // duty di riposo [0..1]
	ShockChance float64 `yaml:"shock_chance" json:"shock_chance"` // probabilità di shock per ciclo
	HoursTotal  float64 `yaml:"hours_total" json:"hours_total"`   // ore operative già accumulate
	HealthScore float64 `yaml:"health_score" json:"health_score"` // 0..100, fornito dal fleet manager
}
