package server

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes HTTP-boundary observability.
type Metrics struct {
	Uploads        *prometheus.CounterVec
	ItemsExtracted *prometheus.CounterVec
}

// NewMetrics creates and registers the server metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Uploads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitbill_uploads_total",
				Help: "Receipt uploads by outcome",
			},
			[]string{"outcome"},
		),
		ItemsExtracted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "splitbill_items_extracted_total",
				Help: "Line items extracted from receipts by strategy",
			},
			[]string{"strategy"},
		),
	}
	reg.MustRegister(m.Uploads, m.ItemsExtracted)
	return m
}

func (m *Metrics) countUpload(outcome string) {
	if m != nil {
		m.Uploads.WithLabelValues(outcome).Inc()
	}
}

func (m *Metrics) countExtracted(strategy string) {
	if m != nil {
		m.ItemsExtracted.WithLabelValues(strategy).Inc()
	}
}
