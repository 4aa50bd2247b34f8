package bridge

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts bridge server activity.
type Metrics struct {
	Requests     *prometheus.CounterVec   // labels: op, result=ok|timeout|error
	Duration     *prometheus.HistogramVec // labels: op
	BytesWritten prometheus.Counter
	BytesRead    prometheus.Counter
	LinkOpen     prometheus.Gauge
}

// NewMetrics creates and registers the metrics with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "emcu",
			Subsystem: "bridge",
			Name:      "requests_total",
			Help:      "Bridge requests by operation and result.",
		}, []string{"op", "result"}),
		Duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "emcu",
			Subsystem: "bridge",
			Name:      "request_duration_seconds",
			Help:      "Time spent on the link per request.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		BytesWritten: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emcu",
			Subsystem: "link",
			Name:      "bytes_written_total",
			Help:      "Bytes written to the link.",
		}),
		BytesRead: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "emcu",
			Subsystem: "link",
			Name:      "bytes_read_total",
			Help:      "Bytes read from the link.",
		}),
		LinkOpen: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "emcu",
			Subsystem: "link",
			Name:      "open",
			Help:      "1 if the link is open.",
		}),
	}
	reg.MustRegister(m.Requests, m.Duration, m.BytesWritten, m.BytesRead, m.LinkOpen)
	return m
}

func (m *Metrics) observe(req *Request, reply *Reply, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	switch {
	case reply.Timeout:
		result = "timeout"
	case reply.Error != "":
		result = "error"
	}
	op := req.Op.String()
	m.Requests.WithLabelValues(op, result).Inc()
	m.Duration.WithLabelValues(op).Observe(elapsed.Seconds())
	if reply.Error == "" && (req.Op == OpWrite || req.Op == OpExchange) {
		m.BytesWritten.Add(float64(len(req.Data)))
	}
	m.BytesRead.Add(float64(len(reply.Data)))
	if reply.Open {
		m.LinkOpen.Set(1)
	} else {
		m.LinkOpen.Set(0)
	}
}
