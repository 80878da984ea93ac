package metrics_fx

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/fx"
	"helpful/pkg/metrics"
)

var Module = fx.Provide(provideRegistry, provideFeedbackMetrics)

func provideRegistry() *prometheus.Registry {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return registry
}

func provideFeedbackMetrics(registry *prometheus.Registry) (*metrics.FeedbackMetrics, error) {
	return metrics.NewFeedbackMetrics(registry)
}
