package recognize

import "github.com/prometheus/client_golang/prometheus"

// Metrics exposes recognizer observability.
type Metrics struct {
	QueueDepth  prometheus.Gauge
	JobDuration prometheus.Histogram
}

// NewMetrics creates and registers the recognizer metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueueDepth: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "splitbill_recognition_queue_depth",
			Help: "Number of recognition jobs waiting in the queue",
		}),
		JobDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitbill_recognition_duration_seconds",
			Help:    "Duration of recognition jobs including temp file cleanup",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.QueueDepth, m.JobDuration)
	return m
}
