package drivers

import (
	"math"
	"math/rand"
	"sync"
	"time"
)

// ====== Tunables ======
const (
	// battito di partenza e deriva massima del simulatore cardiaco
	simBaseBPM  = 72.0
	simBPMDrift = 18.0

	// probabilità per lettura di un burst di movimento e di un NaN termico
	simBurstChance = 0.004
	simTempNaNRate = 0.01

	simSensitivity = 16384.0 // LSB/g, fondo scala ±2g
)

// SimPulse sintetizza un'onda di polso con BPM che deriva lentamente.
// Mantiene lo stato interno come il generatore dei sensori di campo.
type SimPulse struct {
	mu    sync.Mutex
	bpm   float64
	phase float64
	last  time.Time
	rng   *rand.Rand
}

func NewSimPulse(seed int64) *SimPulse {
	return &SimPulse{
		bpm:  simBaseBPM,
		last: time.Now(),
		rng:  rand.New(rand.NewSource(seed)),
	}
}

func (s *SimPulse) Read() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	dt := now.Sub(s.last).Seconds()
	if dt < 0 {
		dt = 0
	}
	s.last = now

	// deriva lenta del BPM attorno alla base
	s.bpm += (s.rng.Float64() - 0.5) * 0.3
	if s.bpm < simBaseBPM-simBPMDrift {
		s.bpm = simBaseBPM - simBPMDrift
	}
	if s.bpm > simBaseBPM+simBPMDrift {
		s.bpm = simBaseBPM + simBPMDrift
	}

	s.phase += dt * s.bpm / 60.0
	for s.phase >= 1 {
		s.phase -= 1
	}

	// picco sistolico stretto all'inizio del ciclo, baseline rumorosa altrove
	v := 0.15 + 0.05*s.rng.Float64()
	if s.phase < 0.12 {
		v = 0.85 + 0.1*s.rng.Float64()
	}
	return v
}

// SimIMU produce ~1g sull'asse Z con rumore, più burst occasionali di
// attività che alzano il modulo del vettore.
type SimIMU struct {
	mu        sync.Mutex
	burstLeft int
	rng       *rand.Rand
}

func NewSimIMU(seed int64) *SimIMU {
	return &SimIMU{rng: rand.New(rand.NewSource(seed))}
}

func (s *SimIMU) ReadAccel() (float64, float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	noise := func() float64 { return (s.rng.Float64() - 0.5) * 0.06 * simSensitivity }

	x := noise()
	y := noise()
	z := simSensitivity + noise()

	if s.burstLeft == 0 && s.rng.Float64() < simBurstChance {
		s.burstLeft = 5 + s.rng.Intn(20)
	}
	if s.burstLeft > 0 {
		s.burstLeft--
		boost := (0.5 + s.rng.Float64()) * simSensitivity
		x += boost * (s.rng.Float64() - 0.5) * 2
		z += boost
	}
	return x, y, z
}

func (s *SimIMU) Sensitivity() float64 { return simSensitivity }

// SimTemp è una temperatura cutanea che vaga attorno a 36.5 °C; una piccola
// frazione di letture fallisce e ritorna NaN.
type SimTemp struct {
	mu   sync.Mutex
	temp float64
	rng  *rand.Rand
}

func NewSimTemp(seed int64) *SimTemp {
	return &SimTemp{temp: 36.5, rng: rand.New(rand.NewSource(seed))}
}

func (s *SimTemp) Read() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rng.Float64() < simTempNaNRate {
		return math.NaN()
	}
	s.temp += (s.rng.Float64() - 0.5) * 0.02
	if s.temp < 35.0 {
		s.temp = 35.0
	}
	if s.temp > 38.5 {
		s.temp = 38.5
	}
	return s.temp
}
