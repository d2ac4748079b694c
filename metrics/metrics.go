// Package metrics exposes the Prometheus collectors the dispatcher updates
// on every processed message.
package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	MessagesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "mqttprocessor",
			Name:      "messages_total",
			Help:      "Total inbound messages dispatched, by processor and result.",
		},
		[]string{"processor", "result"},
	)

	ChainDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "mqttprocessor",
			Name:      "chain_duration_seconds",
			Help:      "Time spent running a processor's function chain.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"processor"},
	)
)

func init() {
	prometheus.MustRegister(MessagesTotal, ChainDuration)
}
