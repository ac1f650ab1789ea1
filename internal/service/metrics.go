package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var authEvents = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "genesis",
	Subsystem: "auth",
	Name:      "events_total",
	Help:      "Authentication events by operation and outcome.",
}, []string{"event", "outcome"})

func recordAuthEvent(event string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	authEvents.WithLabelValues(event, outcome).Inc()
}
