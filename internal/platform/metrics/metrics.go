// Package metrics registra los collectors Prometheus de los motores de dominio.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry propio (no el global) para que tests y router no choquen con otros collectors.
var Registry = prometheus.NewRegistry()

var (
	AdoptionTransitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "petadoption",
		Subsystem: "adoptions",
		Name:      "transitions_total",
		Help:      "Status transitions applied to adoption applications.",
	}, []string{"from", "to"})

	AdoptionFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "petadoption",
		Subsystem: "adoptions",
		Name:      "failures_total",
		Help:      "Adoption engine operations that returned a typed error, by kind.",
	}, []string{"op", "kind"})

	PaymentsRecorded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "petadoption",
		Subsystem: "adoptions",
		Name:      "payments_total",
		Help:      "Payments recorded against adoption applications.",
	})

	ActivityRegistrations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "petadoption",
		Subsystem: "activities",
		Name:      "registrations_total",
		Help:      "Activity registration changes by result (registered, waitlisted, cancelled, promoted).",
	}, []string{"result"})
)

func init() {
	Registry.MustRegister(
		AdoptionTransitions,
		AdoptionFailures,
		PaymentsRecorded,
		ActivityRegistrations,
		collectors.NewGoCollector(),
	)
}

// Handler expone el registry en formato Prometheus.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
