// Package metrics holds the application's prometheus collectors. Everything
// registers against the default registry via promauto and is served by the
// /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "clover"

var (
	// CollectionsMarked counts households marked collected.
	CollectionsMarked = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "collections_marked_total",
		Help:      "Number of households marked collected.",
	})

	// HouseholdsReset counts households flipped back to pending by resets.
	HouseholdsReset = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "households_reset_total",
		Help:      "Number of households reset to pending.",
	})

	// DailyResetsRun counts bulk resets triggered by the day rollover.
	DailyResetsRun = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "daily_resets_run_total",
		Help:      "Number of automatic daily resets performed.",
	})

	// StateLoads counts full mirror loads from persistence by outcome.
	StateLoads = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "state_loads_total",
		Help:      "Number of full state loads from persistence.",
	}, []string{"outcome"})

	// LoginAttempts counts authentication attempts by outcome.
	LoginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Number of login attempts.",
	}, []string{"outcome"})
)
