package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Game counters, registered on the default registry and served by the ops
// server.
var (
	RoundsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "colorcrash_rounds_started_total",
		Help: "Rounds opened by the scheduler.",
	})

	RoundsSettled = promauto.NewCounter(prometheus.CounterOpts{
		Name: "colorcrash_rounds_settled_total",
		Help: "Rounds revealed and settled.",
	})

	BetsPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "colorcrash_bets_placed_total",
		Help: "Bets accepted into a round.",
	})

	BetsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "colorcrash_bets_rejected_total",
		Help: "Bet requests rejected by validation or state checks.",
	})

	PayoutsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "colorcrash_payouts_total",
		Help: "Sum of all settled payouts.",
	})

	SnapshotFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "colorcrash_snapshot_failures_total",
		Help: "Best-effort snapshot saves that failed.",
	})
)
