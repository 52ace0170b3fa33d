package acquisition

import "math"

// ===================== Derivazione del movimento =====================

const (
	// filtro passa-basso sulla deviazione del modulo da 1g
	motionSmoothOld = 0.8
	motionSmoothNew = 0.2

	// sopra questa soglia di magnitude filtrata il campione conta come jerk
	jerkThreshold = 0.6

	// inversioni di trend sotto questa ampiezza non contano come over-correction
	overCorrectionMin = 0.3
)

// MotionFilter deriva la motion magnitude dal modulo del vettore
// accelerometrico normalizzato sulla scala del sensore e confrontato con 1g.
// Il contatore di jerk accumula per la durata di un ciclo di invio e viene
// drenato subito dopo una trasmissione riuscita: è un contatore di rate,
// non un totale cumulativo.
type MotionFilter struct {
	sensitivity float64

	filtered    float64
	initialized bool

	jerks           int
	overCorrections int

	prevDev   float64
	prevTrend int     // -1, 0, +1
	cadence   float64 // proxy: EWMA delle inversioni di trend per campione
}

func NewMotionFilter(sensitivity float64) *MotionFilter {
	if sensitivity <= 0 {
		sensitivity = 1
	}
	return &MotionFilter{sensitivity: sensitivity}
}

// Process consuma un campione raw dei tre assi.
func (f *MotionFilter) Process(x, y, z float64) {
	mag := math.Sqrt(x*x+y*y+z*z) / f.sensitivity
	dev := math.Abs(mag - 1.0) // deviazione dal riposo (1g)

	if !f.initialized {
		f.initialized = true
		f.filtered = dev
		f.prevDev = dev
		return
	}
	f.filtered = motionSmoothOld*f.filtered + motionSmoothNew*dev

	if f.filtered > jerkThreshold {
		f.jerks++
	}

	// cadenza e over-correction: proxy sulle inversioni di trend del segnale
	trend := 0
	delta := dev - f.prevDev
	if delta > 0 {
		trend = 1
	} else if delta < 0 {
		trend = -1
	}
	flip := 0.0
	if trend != 0 && f.prevTrend != 0 && trend != f.prevTrend {
		flip = 1.0
		if math.Abs(delta) > overCorrectionMin {
			f.overCorrections++
		}
	}
	f.cadence = 0.95*f.cadence + 0.05*flip
	if trend != 0 {
		f.prevTrend = trend
	}
	f.prevDev = dev
}

// Magnitude ritorna la motion magnitude filtrata.
func (f *MotionFilter) Magnitude() float64 { return f.filtered }

// PeekJerks legge il contatore senza drenarlo (per costruire il payload).
func (f *MotionFilter) PeekJerks() int { return f.jerks }

// TakeJerks drena il contatore: da chiamare solo dopo un push riuscito.
func (f *MotionFilter) TakeJerks() int {
	n := f.jerks
	f.jerks = 0
	return n
}

// Cadence ritorna il proxy di cadenza del movimento.
func (f *MotionFilter) Cadence() float64 { return f.cadence }

// PeekOverCorrections legge il contatore di over-correction del ciclo.
func (f *MotionFilter) PeekOverCorrections() int { return f.overCorrections }

// TakeOverCorrections drena il contatore dopo un push riuscito.
func (f *MotionFilter) TakeOverCorrections() int {
	n := f.overCorrections
	f.overCorrections = 0
	return n
}
