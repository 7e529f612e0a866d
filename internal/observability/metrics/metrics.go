package metrics

import "github.com/prometheus/client_golang/prometheus"

// SchedulerMetrics exposes counters for slot queries, bookings and
// reminders.
type SchedulerMetrics struct {
	slotQueries     *prometheus.CounterVec
	bookings        *prometheus.CounterVec
	malformedLabels prometheus.Counter
	reminders       *prometheus.CounterVec
	storeLatency    *prometheus.HistogramVec
}

func NewSchedulerMetrics(reg prometheus.Registerer) *SchedulerMetrics {
	m := &SchedulerMetrics{
		slotQueries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduler",
			Name:      "slot_queries_total",
			Help:      "Availability queries by outcome",
		}, []string{"outcome"}),
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduler",
			Name:      "bookings_total",
			Help:      "Booking attempts by outcome",
		}, []string{"outcome"}),
		malformedLabels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "scheduler",
			Name:      "malformed_labels_total",
			Help:      "Occupied times from the store that could not be normalized",
		}),
		reminders: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "clinic",
			Subsystem: "reminder",
			Name:      "sent_total",
			Help:      "Reminder deliveries by status",
		}, []string{"status"}),
		storeLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "clinic",
			Subsystem: "store",
			Name:      "request_seconds",
			Help:      "Latency of booking store calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.slotQueries, m.bookings, m.malformedLabels, m.reminders, m.storeLatency)
	return m
}

func (m *SchedulerMetrics) ObserveSlotQuery(outcome string) {
	if m == nil {
		return
	}
	m.slotQueries.WithLabelValues(outcome).Inc()
}

func (m *SchedulerMetrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(outcome).Inc()
}

func (m *SchedulerMetrics) ObserveMalformedLabel() {
	if m == nil {
		return
	}
	m.malformedLabels.Inc()
}

func (m *SchedulerMetrics) ObserveReminder(status string) {
	if m == nil {
		return
	}
	m.reminders.WithLabelValues(status).Inc()
}

func (m *SchedulerMetrics) ObserveStoreLatency(operation string, seconds float64) {
	if m == nil {
		return
	}
	m.storeLatency.WithLabelValues(operation).Observe(seconds)
}
