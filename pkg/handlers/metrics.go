// This file declares the Prometheus instrumentation for the serving layer.
// Metrics are recorded outside the exchange operation itself so the exchange
// keeps its single observable side effect, the upstream call.
package handlers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// tokenExchanges counts exchange attempts by outcome. "success" means
	// a result was relayed, including when the upstream declined the
	// credentials; "error" means the failure propagated to the platform.
	tokenExchanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "spotify_token_exchanges_total",
		Help: "Token exchange attempts by outcome.",
	}, []string{"outcome"})

	// exchangeDuration tracks the latency of the upstream token call.
	exchangeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "spotify_token_exchange_duration_seconds",
		Help:    "Duration of upstream token exchanges.",
		Buckets: prometheus.DefBuckets,
	})

	// deckConversions counts playlist conversion requests by outcome.
	deckConversions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hitster_deck_conversions_total",
		Help: "Playlist to deck conversions by outcome.",
	}, []string{"outcome"})
)
