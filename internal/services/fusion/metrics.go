package fusion

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics raccoglie i collector Prometheus del fusion node.
type Metrics struct {
	registry    *prometheus.Registry
	IngestTotal *prometheus.CounterVec
	Recomputes  prometheus.Counter
	CISGauge    prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		IngestTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "worksafe_ingest_total",
			Help: "Ingest requests by stream and outcome.",
		}, []string{"stream", "outcome"}),
		Recomputes: factory.NewCounter(prometheus.CounterOpts{
			Name: "worksafe_score_recomputes_total",
			Help: "Valid score recomputations.",
		}),
		CISGauge: factory.NewGauge(prometheus.GaugeOpts{
			Name: "worksafe_cis_score",
			Help: "Current Combined Impact Score (higher = safer).",
		}),
	}
}

// Observe aggiorna i collector dopo un ricalcolo valido.
func (m *Metrics) Observe(st CISState) {
	m.Recomputes.Inc()
	m.CISGauge.Set(float64(st.CIS))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
