package notify

import "github.com/prometheus/client_golang/prometheus"

var (
	deliveredTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchlog",
		Subsystem: "notify",
		Name:      "delivered_total",
		Help:      "Notifications handed to the deliverer successfully.",
	})
	deliveryFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "pitchlog",
		Subsystem: "notify",
		Name:      "delivery_failures_total",
		Help:      "Notifications whose delivery returned an error.",
	})
)

func init() {
	prometheus.MustRegister(deliveredTotal, deliveryFailures)
}
