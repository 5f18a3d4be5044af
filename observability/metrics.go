package observability

import (
	"math/big"
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"campusledger/core/types"
)

type ledgerMetrics struct {
	operations  *prometheus.CounterVec
	settlements prometheus.Histogram
}

var (
	ledgerMetricsOnce sync.Once
	ledgerRegistry    *ledgerMetrics
)

// LedgerMetrics returns the lazily-initialised metrics registry used to
// record ledger operation activity.
func LedgerMetrics() *ledgerMetrics {
	ledgerMetricsOnce.Do(func() {
		ledgerRegistry = &ledgerMetrics{
			operations: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "campus",
				Subsystem: "ledger",
				Name:      "operations_total",
				Help:      "Total ledger operations segmented by operation and outcome.",
			}, []string{"op", "outcome"}),
			settlements: prometheus.NewHistogram(prometheus.HistogramOpts{
				Namespace: "campus",
				Subsystem: "ledger",
				Name:      "settlement_coins",
				Help:      "Gross settled amounts in whole coins.",
				Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
			}),
		}
		prometheus.MustRegister(ledgerRegistry.operations, ledgerRegistry.settlements)
	})
	return ledgerRegistry
}

// RecordOperation counts one operation with its outcome ("ok" or "error").
func (m *ledgerMetrics) RecordOperation(op string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operations.WithLabelValues(op, outcome).Inc()
}

// RecordSettlement observes a settled gross amount, converted to whole coins
// for a bounded bucket range.
func (m *ledgerMetrics) RecordSettlement(scaled *big.Int) {
	if m == nil || scaled == nil {
		return
	}
	coins, _ := new(big.Float).SetInt(types.FromScaled(scaled)).Float64()
	m.settlements.Observe(coins)
}
