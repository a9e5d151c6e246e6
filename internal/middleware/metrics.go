package middleware

import (
	"context"
	"errors"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors exported by the server.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec
	allocations *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		rpcRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patungan",
			Name:      "rpc_requests_total",
			Help:      "RPC calls by procedure and result code.",
		}, []string{"procedure", "code"}),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "patungan",
			Name:      "rpc_duration_seconds",
			Help:      "RPC latency by procedure.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure"}),
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "patungan",
			Name:      "allocations_total",
			Help:      "Bill allocations computed, by caller.",
		}, []string{"source"}),
	}
	reg.MustRegister(m.rpcRequests, m.rpcDuration, m.allocations)
	return m
}

// Interceptor returns a Connect interceptor recording call counts and latency.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if m == nil {
				return next(ctx, req)
			}
			start := time.Now()
			procedure := req.Spec().Procedure

			resp, err := next(ctx, req)

			m.rpcDuration.WithLabelValues(procedure).Observe(time.Since(start).Seconds())
			m.rpcRequests.WithLabelValues(procedure, codeOf(err)).Inc()
			return resp, err
		}
	}
}

// ObserveAllocation counts one allocation computed for source.
func (m *Metrics) ObserveAllocation(source string) {
	if m == nil {
		return
	}
	m.allocations.WithLabelValues(source).Inc()
}

func codeOf(err error) string {
	if err == nil {
		return "ok"
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr.Code().String()
	}
	return connect.CodeUnknown.String()
}
