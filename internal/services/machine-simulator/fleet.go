package machine_simulator

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/davideconti/worksafe_project/internal/model/entities"
)

// FleetProfile è il file di configurazione della flotta simulata.
type FleetProfile struct {
	Machines []entities.Machine `yaml:"machines"`
}

// LoadFleetProfile legge e valida il profilo YAML della flotta.
func LoadFleetProfile(path string) (*FleetProfile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fleet profile read: %w", err)
	}
	var fp FleetProfile
	if err := yaml.Unmarshal(raw, &fp); err != nil {
		return nil, fmt.Errorf("fleet profile parse: %w", err)
	}
	if len(fp.Machines) == 0 {
		return nil, fmt.Errorf("fleet profile %s: no machines defined", path)
	}
	seen := make(map[string]bool, len(fp.Machines))
	for i, m := range fp.Machines {
		if m.ID == "" {
			return nil, fmt.Errorf("fleet profile: machine #%d has empty id", i)
		}
		if seen[m.ID] {
			return nil, fmt.Errorf("fleet profile: duplicate machine id %q", m.ID)
		}
		seen[m.ID] = true
		if m.BaseDuty < 0 || m.BaseDuty > 1 {
			return nil, fmt.Errorf("fleet profile: machine %s base_duty %.2f out of [0,1]", m.ID, m.BaseDuty)
		}
		if m.ShockChance < 0 || m.ShockChance > 1 {
			return nil, fmt.Errorf("fleet profile: machine %s shock_chance %.2f out of [0,1]", m.ID, m.ShockChance)
		}
		if m.HealthScore < 0 || m.HealthScore > 100 {
			return nil, fmt.Errorf("fleet profile: machine %s health_score %.1f out of [0,100]", m.ID, m.HealthScore)
		}
	}
	return &fp, nil
}
