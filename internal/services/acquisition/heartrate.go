package acquisition

import (
	"math"
	"time"
)

// ===================== Derivazione cardiaca =====================

const (
	// soglia di rilevamento sul segnale di polso normalizzato
	beatThreshold = 0.5
	// intervallo refrattario: due battiti accettati non possono essere più
	// vicini di così (debounce dei doppi trigger dello stesso ciclo cardiaco)
	beatRefractory = 350 * time.Millisecond

	// range fisiologico: rate istantanei fuori banda sono rumore e si scartano
	minValidBPM = 40.0
	maxValidBPM = 160.0

	// media mobile esponenziale del rate riportato
	hrSmoothOld = 0.9
	hrSmoothNew = 0.1
)

// BeatDetector è l'edge detector sul segnale di polso: accetta un battito
// solo su fronte di salita oltre soglia E dopo l'intervallo refrattario.
// L'HRV è approssimata come |IBI − IBI implicato dal rate smussato|: un
// proxy economico, non una metrica clinica.
type BeatDetector struct {
	lastValue   float64
	initialized bool
	lastBeat    time.Time

	smoothed float64 // bpm riportato (EWMA)
	hrv      float64 // ms
	beats    int     // battiti accettati (diagnostica)
}

func NewBeatDetector() *BeatDetector {
	return &BeatDetector{}
}

// Process consuma un campione del segnale. Un campione cattivo viene
// semplicemente ignorato: la robustezza sta nello smoothing, non negli allarmi.
func (b *BeatDetector) Process(value float64, now time.Time) {
	if math.IsNaN(value) {
		return
	}
	if !b.initialized {
		b.initialized = true
		b.lastValue = value
		return
	}

	rising := b.lastValue < beatThreshold && value >= beatThreshold
	b.lastValue = value
	if !rising {
		return
	}
	if !b.lastBeat.IsZero() && now.Sub(b.lastBeat) < beatRefractory {
		return // doppio trigger dello stesso ciclo
	}

	if b.lastBeat.IsZero() {
		b.lastBeat = now
		return
	}

	ibi := now.Sub(b.lastBeat)
	b.lastBeat = now
	b.beats++

	ibiMs := float64(ibi.Milliseconds())
	if ibiMs <= 0 {
		return
	}
	instant := 60000.0 / ibiMs
	if instant < minValidBPM || instant > maxValidBPM {
		return // fuori range fisiologico: scartato come rumore
	}

	if b.smoothed == 0 {
		b.smoothed = instant
	} else {
		b.smoothed = hrSmoothOld*b.smoothed + hrSmoothNew*instant
	}

	impliedIBI := 60000.0 / b.smoothed
	b.hrv = math.Abs(ibiMs - impliedIBI)
}

// HeartRate ritorna il rate smussato in bpm (0 finché non ci sono battiti validi).
func (b *BeatDetector) HeartRate() float64 { return b.smoothed }

// HRV ritorna la variabilità approssimata in ms.
func (b *BeatDetector) HRV() float64 { return b.hrv }

// Beats ritorna il numero di battiti accettati dall'avvio.
func (b *BeatDetector) Beats() int { return b.beats }
