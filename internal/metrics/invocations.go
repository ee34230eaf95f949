package metrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/agbru/pydemo/internal/binding"
)

// Namespace prefixes every metric exported by pydemo.
const Namespace = "pydemo"

// NewRegistry returns a Prometheus registry preloaded with the Go runtime and
// process collectors.
func NewRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

// Invocations counts and times module function calls.
type Invocations struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewInvocations creates the invocation collectors and registers them with reg.
func NewInvocations(reg prometheus.Registerer) *Invocations {
	inv := &Invocations{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "invocations_total",
			Help:      "Module function invocations by function and outcome.",
		}, []string{"module", "function", "outcome"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "invocation_duration_seconds",
			Help:      "Module function invocation latency.",
			Buckets:   prometheus.ExponentialBuckets(1e-7, 4, 12),
		}, []string{"module", "function"}),
	}
	reg.MustRegister(inv.calls, inv.duration)
	return inv
}

// Middleware records one observation per call. The outcome label is "ok" or
// the invocation error kind ("TypeError", "OverflowError", ...).
func (inv *Invocations) Middleware(module string) binding.Middleware {
	return func(next binding.Function) binding.Function {
		return func(ctx context.Context, args []any) (any, error) {
			name := binding.FunctionNameFrom(ctx)
			start := time.Now()
			result, err := next(ctx, args)
			inv.duration.WithLabelValues(module, name).Observe(time.Since(start).Seconds())

			outcome := "ok"
			if err != nil {
				outcome = string(binding.KindOf(err))
			}
			inv.calls.WithLabelValues(module, name, outcome).Inc()
			return result, err
		}
	}
}
