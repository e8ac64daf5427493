package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// AggregationDuration observes how long one full aggregation cycle takes.
	AggregationDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "portfolio_aggregation_duration_seconds",
		Help:    "Duration of one full portfolio aggregation cycle.",
		Buckets: prometheus.DefBuckets,
	})

	// ProviderErrors counts failed calls per external provider.
	ProviderErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "portfolio_provider_errors_total",
		Help: "Failed external provider calls, by provider.",
	}, []string{"provider"})

	// ResolvedAssets reports how many asset identifiers the last price
	// resolution cycle priced, by outcome.
	ResolvedAssets = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "portfolio_price_resolution_assets",
		Help: "Asset identifiers in the last price resolution, by outcome.",
	}, []string{"outcome"})

	// WalletFailures counts wallets that contributed nothing to a cycle.
	WalletFailures = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "portfolio_wallet_failures_total",
		Help: "Wallets skipped due to balance collection failures.",
	})
)

// MustRegisterMetrics registers all collectors with the default registry.
// Call once from main.
func MustRegisterMetrics() {
	prometheus.MustRegister(
		AggregationDuration,
		ProviderErrors,
		ResolvedAssets,
		WalletFailures,
	)
}
