// Package metrics holds the Prometheus collectors shared by the address
// resolution modules.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Geocoding provider
	ProviderRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "laundry",
		Subsystem: "geocode",
		Name:      "requests_total",
		Help:      "Total geocoding provider calls by operation and classified status",
	}, []string{"operation", "status"})

	ProviderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "laundry",
		Subsystem: "geocode",
		Name:      "request_duration_seconds",
		Help:      "Geocoding provider call duration",
		Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
	}, []string{"operation"})

	// Resolver
	EstateClassifications = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "laundry",
		Subsystem: "resolver",
		Name:      "estate_classifications_total",
		Help:      "Estate classification outcomes by matching source",
	}, []string{"source"})

	SupersededResponses = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "laundry",
		Subsystem: "resolver",
		Name:      "superseded_responses_total",
		Help:      "Responses discarded because a newer request was issued",
	}, []string{"kind"})

	// Gazetteer
	GazetteerReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "laundry",
		Subsystem: "gazetteer",
		Name:      "reloads_total",
		Help:      "Gazetteer data set reloads by result",
	}, []string{"result"})

	// Address book
	AddressesSaved = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "laundry",
		Subsystem: "addresses",
		Name:      "saved_total",
		Help:      "Confirmed addresses written to the address book",
	})
)
