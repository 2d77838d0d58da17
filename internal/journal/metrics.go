package journal

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	commitsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitchlog",
		Subsystem: "journal",
		Name:      "commits_total",
		Help:      "Number of mutations committed by the journal writer.",
	}, []string{"kind", "op"})

	failuresCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "pitchlog",
		Subsystem: "journal",
		Name:      "failures_total",
		Help:      "Number of mutations the journal writer could not commit.",
	}, []string{"kind", "reason"})

	queueDepthGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitchlog",
		Subsystem: "journal",
		Name:      "queue_depth",
		Help:      "Mutations waiting for the journal writer.",
	})

	commitDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "pitchlog",
		Subsystem: "journal",
		Name:      "commit_duration_seconds",
		Help:      "Time spent applying one mutation inside its transaction.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"kind"})

	lastSeqGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "pitchlog",
		Subsystem: "journal",
		Name:      "last_commit_seq",
		Help:      "Sequence number of the most recent commit.",
	})
)

func init() {
	prometheus.MustRegister(commitsCounter, failuresCounter, queueDepthGauge, commitDuration, lastSeqGauge)
}

func recordCommit(event ChangeEvent, seconds float64) {
	commitsCounter.WithLabelValues(string(event.Kind), string(event.Op)).Inc()
	commitDuration.WithLabelValues(string(event.Kind)).Observe(seconds)
	lastSeqGauge.Set(float64(event.Seq))
}

func recordFailure(kind EntityKind, reason string) {
	failuresCounter.WithLabelValues(string(kind), reason).Inc()
}
