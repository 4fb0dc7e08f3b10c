package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	Notifications *prometheus.CounterVec
	ScheduleWrite *prometheus.CounterVec
	LoginAttempts *prometheus.CounterVec
	StoreOps      *prometheus.HistogramVec
}

// NewMetrics registers the service metrics with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Notifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Client notifications attempted, by channel and outcome",
		}, []string{"channel", "outcome"}),
		ScheduleWrite: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "schedule_writes_total",
			Help:      "Schedule records written, by operation",
		}, []string{"op"}),
		LoginAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "login_attempts_total",
			Help:      "Admin login attempts, by result",
		}, []string{"result"}),
		StoreOps: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "store_op_seconds",
			Help:      "Document store call latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "result"}),
	}
}

// Notification implements notify.Recorder.
func (m *Metrics) Notification(channel string, ok bool) {
	m.Notifications.WithLabelValues(channel, result(ok)).Inc()
}

func (m *Metrics) ScheduleWritten(op string) {
	m.ScheduleWrite.WithLabelValues(op).Inc()
}

func (m *Metrics) Login(outcome string) {
	m.LoginAttempts.WithLabelValues(outcome).Inc()
}

// ObserveStore matches docstore.Observer.
func (m *Metrics) ObserveStore(op string, took time.Duration, err error) {
	m.StoreOps.WithLabelValues(op, result(err == nil)).Observe(took.Seconds())
}

func result(ok bool) string {
	if ok {
		return "ok"
	}
	return "error"
}
