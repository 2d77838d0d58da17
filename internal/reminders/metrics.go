package reminders

import "github.com/prometheus/client_golang/prometheus"

var (
	scheduledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchlog",
		Subsystem: "reminders",
		Name:      "scheduled_total",
		Help:      "Reminders scheduled or replaced.",
	})
	cancelledTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchlog",
		Subsystem: "reminders",
		Name:      "cancelled_total",
		Help:      "Pending reminders cancelled by the user or by reconciliation.",
	})
	firedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchlog",
		Subsystem: "reminders",
		Name:      "fired_total",
		Help:      "Reminders that reached their trigger time.",
	})
	scheduleFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitchlog",
		Subsystem: "reminders",
		Name:      "schedule_failures_total",
		Help:      "Schedule calls that failed, by reason.",
	}, []string{"reason"})
	pendingGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitchlog",
		Subsystem: "reminders",
		Name:      "pending",
		Help:      "Pending reminders seen by the last listing.",
	})
)

func init() {
	prometheus.MustRegister(scheduledTotal, cancelledTotal, firedTotal, scheduleFailures, pendingGauge)
}
