package machine_simulator

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "machines.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadFleetProfile(t *testing.T) {
	path := writeProfile(t, `
machines:
  - id: crane-01
    name: Tower Crane 01
    type: CRANE
    base_duty: 0.45
    shock_chance: 0.03
    hours_total: 6200
    health_score: 82
  - id: loader-03
    type: LOADER
    base_duty: 0.3
    health_score: 95
`)

	fp, err := LoadFleetProfile(path)
	require.NoError(t, err)
	require.Len(t, fp.Machines, 2)
	assert.Equal(t, "crane-01", fp.Machines[0].ID)
	assert.Equal(t, 0.45, fp.Machines[0].BaseDuty)
	assert.Equal(t, 82.0, fp.Machines[0].HealthScore)
}

func TestLoadFleetProfileRejectsBadInput(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"empty fleet", "machines: []"},
		{"missing id", "machines:\n  - name: x\n"},
		{"duplicate id", "machines:\n  - id: a\n  - id: a\n"},
		{"duty out of range", "machines:\n  - id: a\n    base_duty: 1.5\n"},
		{"shock out of range", "machines:\n  - id: a\n    shock_chance: -0.1\n"},
		{"health out of range", "machines:\n  - id: a\n    health_score: 150\n"},
		{"not yaml", "{{{"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeProfile(t, tt.content)
			_, err := LoadFleetProfile(path)
			assert.Error(t, err)
		})
	}
}

func TestLoadFleetProfileMissingFile(t *testing.T) {
	_, err := LoadFleetProfile(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
