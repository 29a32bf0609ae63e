package bus

import "github.com/prometheus/client_golang/prometheus"

var (
	publishTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "graphbus", Name: "events_published_total", Help: "Events published per topic"},
		[]string{"topic"},
	)
	deliveryFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "graphbus", Name: "event_delivery_failures_total", Help: "Handler failures during delivery, per topic and subscriber"},
		[]string{"topic", "subscriber"},
	)
)

func init() {
	prometheus.MustRegister(publishTotal, deliveryFailures)
}
