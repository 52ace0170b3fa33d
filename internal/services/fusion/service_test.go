package fusion

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceInvalidUntilBothStreams(t *testing.T) {
	svc := NewService()

	assert.False(t, svc.State().Valid)

	h := calmHuman()
	st := svc.IngestHuman(&h)
	assert.False(t, st.Valid)

	m := idleMachine()
	st = svc.IngestMachine(&m)
	require.True(t, st.Valid)
	assert.Equal(t, st, svc.State())
}

func TestServiceLatestReadingSupersedes(t *testing.T) {
	svc := NewService()

	h := calmHuman()
	svc.IngestHuman(&h)
	m := idleMachine()
	base := svc.IngestMachine(&m)

	// telemetria con shock: il punteggio scende di ShockPenalty
	shocked := idleMachine()
	shocked.MechanicalStress.ShockEvent = true
	st := svc.IngestMachine(&shocked)
	assert.Equal(t, base.CIS-ShockPenalty, st.CIS)

	// la lettura successiva senza shock sostituisce e il punteggio risale:
	// nessuna storia, conta solo l'ultimo reading
	clean := idleMachine()
	st = svc.IngestMachine(&clean)
	assert.Equal(t, base.CIS, st.CIS)
}

func TestServiceOnUpdateFiresOnlyWhenValid(t *testing.T) {
	svc := NewService()

	var updates []CISState
	svc.SetOnUpdate(func(st CISState) { updates = append(updates, st) })

	h := calmHuman()
	svc.IngestHuman(&h)
	assert.Empty(t, updates)

	m := idleMachine()
	svc.IngestMachine(&m)
	require.Len(t, updates, 1)
	assert.True(t, updates[0].Valid)
}

func TestServiceStreamsSeen(t *testing.T) {
	svc := NewService()

	human, machine := svc.StreamsSeen()
	assert.False(t, human)
	assert.False(t, machine)

	h := calmHuman()
	svc.IngestHuman(&h)
	human, machine = svc.StreamsSeen()
	assert.True(t, human)
	assert.False(t, machine)
}
