package acquisition

import "math"

// TempFilter tiene l'ultima temperatura valida: una lettura NaN viene
// scartata al punto di derivazione e non si propaga mai a valle (fail open).
type TempFilter struct {
	last  float64
	valid bool
	drift float64 // EWMA della variazione per campione, in °C
}

func NewTempFilter() *TempFilter {
	return &TempFilter{}
}

func (t *TempFilter) Process(v float64) {
	if math.IsNaN(v) {
		return // lettura fallita: si tiene l'ultimo valore valido
	}
	if t.valid {
		t.drift = 0.9*t.drift + 0.1*(v-t.last)
	}
	t.last = v
	t.valid = true
}

// Value ritorna l'ultima temperatura valida; ok è false prima della prima
// lettura riuscita.
func (t *TempFilter) Value() (float64, bool) {
	return t.last, t.valid
}

// DriftRate ritorna la deriva smussata per campione.
func (t *TempFilter) DriftRate() float64 { return t.drift }
