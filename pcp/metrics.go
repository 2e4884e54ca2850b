package pcp

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/smallnest/pcpsolver/store"
)

var (
	// nodesExpanded counts recursive search calls past the depth check
	nodesExpanded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "pcp_nodes_expanded_total",
		Help: "Total search nodes expanded",
	})

	// storeOps counts transposition-table operations by op and result
	storeOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pcp_store_ops_total",
		Help: "Total state store operations by operation and result",
	}, []string{"op", "result"})

	// runsTotal counts finished runs by outcome
	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pcp_runs_total",
		Help: "Total solver runs by outcome",
	}, []string{"outcome"})

	// boundDuration tracks how long each depth bound takes
	boundDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pcp_bound_duration_seconds",
		Help:    "Duration of a single depth-bound iteration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12), // 0.1ms to ~7min
	})
)

// instrumentedStore counts store traffic. Get results are "hit", "miss" or
// "error"; Set and Clear results are "ok" or "error".
type instrumentedStore struct {
	store.StateStore
}

func (s instrumentedStore) Get(ctx context.Context, key string) (store.Entry, bool, error) {
	entry, ok, err := s.StateStore.Get(ctx, key)
	switch {
	case err != nil:
		storeOps.WithLabelValues("get", "error").Inc()
	case ok:
		storeOps.WithLabelValues("get", "hit").Inc()
	default:
		storeOps.WithLabelValues("get", "miss").Inc()
	}
	return entry, ok, err
}

func (s instrumentedStore) Set(ctx context.Context, key string, entry store.Entry) error {
	err := s.StateStore.Set(ctx, key, entry)
	storeOps.WithLabelValues("set", result(err)).Inc()
	return err
}

func (s instrumentedStore) Clear(ctx context.Context) error {
	err := s.StateStore.Clear(ctx)
	storeOps.WithLabelValues("clear", result(err)).Inc()
	return err
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
