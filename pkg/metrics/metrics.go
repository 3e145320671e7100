// Package metrics provides Prometheus metrics for leaderboard runs.
//
// Runs are batch, so instead of serving a scrape endpoint the final metric
// state can be dumped in Prometheus text format at the end of a run (see
// DumpFile), ready for a textfile collector to pick up.
package metrics

import (
	"fmt"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Manager owns all Prometheus metrics for the standings engine.
type Manager struct {
	namespace string
	registry  *prometheus.Registry

	runsTotal      *prometheus.CounterVec
	runFailures    *prometheus.CounterVec
	boardSize      prometheus.Histogram
	tieGroups      prometheus.Counter
	newEntrants    prometheus.Counter
	snapshotSaves  prometheus.Counter
	snapshotMisses prometheus.Counter
	stageDuration  *prometheus.HistogramVec
}

// Option applies a configuration option to the Manager.
type Option func(*Manager)

// WithNamespace sets the namespace for all metrics.
func WithNamespace(namespace string) Option {
	return func(m *Manager) {
		if namespace != "" {
			m.namespace = namespace
		}
	}
}

// WithRegistry sets a custom Prometheus registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(m *Manager) {
		if registry != nil {
			m.registry = registry
		}
	}
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager()
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace: "standings",
		registry:  prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}

	factory := promauto.With(m.registry)

	m.runsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "runs_total",
		Help:      "Leaderboard generation runs completed, by scope.",
	}, []string{"scope"})
	m.runFailures = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "run_failures_total",
		Help:      "Leaderboard generation runs aborted by bad input, by scope.",
	}, []string{"scope"})
	m.boardSize = factory.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "board_size_entities",
		Help:      "Entities per generated board.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	})
	m.tieGroups = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "tie_groups_total",
		Help:      "Rank-equivalence classes with more than one entity.",
	})
	m.newEntrants = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "new_entrants_total",
		Help:      "Entities with no rank in the previous snapshot.",
	})
	m.snapshotSaves = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "snapshot_saves_total",
		Help:      "Rank snapshots persisted.",
	})
	m.snapshotMisses = factory.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      "snapshot_misses_total",
		Help:      "Previous snapshots absent or unreadable at run start.",
	})
	m.stageDuration = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      "stage_duration_seconds",
		Help:      "Duration of each engine stage.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"stage"})

	return m
}

// RecordRun counts a completed run for a scope.
func (m *Manager) RecordRun(scope string) { m.runsTotal.WithLabelValues(scope).Inc() }

// RecordRunFailure counts an aborted run for a scope.
func (m *Manager) RecordRunFailure(scope string) { m.runFailures.WithLabelValues(scope).Inc() }

// ObserveBoardSize records how many entities a board carried.
func (m *Manager) ObserveBoardSize(n int) { m.boardSize.Observe(float64(n)) }

// RecordTieGroups counts tie groups seen in a ranking pass.
func (m *Manager) RecordTieGroups(n int) { m.tieGroups.Add(float64(n)) }

// RecordNewEntrants counts entities absent from the previous snapshot.
func (m *Manager) RecordNewEntrants(n int) { m.newEntrants.Add(float64(n)) }

// RecordSnapshotSave counts a persisted snapshot.
func (m *Manager) RecordSnapshotSave() { m.snapshotSaves.Inc() }

// RecordSnapshotMiss counts an absent or unreadable previous snapshot.
func (m *Manager) RecordSnapshotMiss() { m.snapshotMisses.Inc() }

// ObserveStage records the duration of one engine stage.
func (m *Manager) ObserveStage(stage string, d time.Duration) {
	m.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// DumpFile writes the current metric state in Prometheus text format.
func (m *Manager) DumpFile(path string) error {
	families, err := m.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create metrics file: %w", err)
	}
	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, fam := range families {
		if err := enc.Encode(fam); err != nil {
			f.Close()
			return fmt.Errorf("encode metrics: %w", err)
		}
	}
	return f.Close()
}

// Package-level helpers against the global manager.

// RecordRun counts a completed run for a scope.
func RecordRun(scope string) { globalManager.RecordRun(scope) }

// RecordRunFailure counts an aborted run for a scope.
func RecordRunFailure(scope string) { globalManager.RecordRunFailure(scope) }

// ObserveBoardSize records how many entities a board carried.
func ObserveBoardSize(n int) { globalManager.ObserveBoardSize(n) }

// RecordTieGroups counts tie groups seen in a ranking pass.
func RecordTieGroups(n int) { globalManager.RecordTieGroups(n) }

// RecordNewEntrants counts entities absent from the previous snapshot.
func RecordNewEntrants(n int) { globalManager.RecordNewEntrants(n) }

// RecordSnapshotSave counts a persisted snapshot.
func RecordSnapshotSave() { globalManager.RecordSnapshotSave() }

// RecordSnapshotMiss counts an absent or unreadable previous snapshot.
func RecordSnapshotMiss() { globalManager.RecordSnapshotMiss() }

// ObserveStage records the duration of one engine stage.
func ObserveStage(stage string, d time.Duration) { globalManager.ObserveStage(stage, d) }

// DumpFile writes the global metric state in Prometheus text format.
func DumpFile(path string) error { return globalManager.DumpFile(path) }
