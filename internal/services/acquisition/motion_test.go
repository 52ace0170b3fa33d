package acquisition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testSensitivity = 16384.0 // LSB/g

// feedRest alimenta campioni a riposo (1g sull'asse Z).
func feedRest(f *MotionFilter, n int) {
	for i := 0; i < n; i++ {
		f.Process(0, 0, testSensitivity)
	}
}

func TestMotionFilterRestStaysLow(t *testing.T) {
	f := NewMotionFilter(testSensitivity)
	feedRest(f, 100)

	assert.InDelta(t, 0.0, f.Magnitude(), 0.01)
	assert.Equal(t, 0, f.PeekJerks())
}

func TestMotionFilterLowPassDampensSpike(t *testing.T) {
	f := NewMotionFilter(testSensitivity)
	feedRest(f, 50)

	// un singolo campione a 3g non porta la magnitude filtrata alla deviazione piena (2.0)
	f.Process(0, 0, 3*testSensitivity)
	assert.Less(t, f.Magnitude(), 0.5)
	assert.Greater(t, f.Magnitude(), 0.1)
}

func TestMotionFilterSustainedBurstCountsJerks(t *testing.T) {
	f := NewMotionFilter(testSensitivity)
	feedRest(f, 50)

	// burst sostenuto a 3g: la filtrata supera la soglia dopo pochi campioni
	for i := 0; i < 30; i++ {
		f.Process(0, 0, 3*testSensitivity)
	}
	assert.Greater(t, f.PeekJerks(), 0)
}

func TestMotionFilterTakeJerksDrainsCounter(t *testing.T) {
	f := NewMotionFilter(testSensitivity)
	feedRest(f, 50)
	for i := 0; i < 30; i++ {
		f.Process(0, 0, 3*testSensitivity)
	}

	n := f.TakeJerks()
	assert.Greater(t, n, 0)
	assert.Equal(t, 0, f.PeekJerks())

	// il drenaggio non azzera lo stato del filtro, solo il contatore
	assert.Greater(t, f.Magnitude(), 0.0)
}

func TestMotionFilterPeekDoesNotDrain(t *testing.T) {
	f := NewMotionFilter(testSensitivity)
	feedRest(f, 50)
	for i := 0; i < 30; i++ {
		f.Process(0, 0, 3*testSensitivity)
	}

	first := f.PeekJerks()
	second := f.PeekJerks()
	assert.Equal(t, first, second)
}
