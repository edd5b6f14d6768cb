package logger

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

var (
	statements     *prometheus.CounterVec //nolint:gochecknoglobals
	statementsOnce sync.Once              //nolint:gochecknoglobals
)

// PrometheusHook counts log statements per level.
type PrometheusHook struct{}

// Run implements zerolog.Hook.
func (PrometheusHook) Run(_ *zerolog.Event, level zerolog.Level, _ string) {
	if level == zerolog.NoLevel {
		return
	}

	statements.WithLabelValues(level.String()).Inc()
}

// NewPrometheusHook registers webapp_log_statements_total on first use. The
// service label is fixed by the first call.
func NewPrometheusHook(service string) PrometheusHook {
	statementsOnce.Do(func() {
		statements = promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "webapp",
			Name:        "log_statements_total",
			Help:        "Log statements written, by level.",
			ConstLabels: prometheus.Labels{"service": service},
		}, []string{"level"})
	})

	return PrometheusHook{}
}
