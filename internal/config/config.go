// Package config defines run configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers file and env on top.
// - External errors are wrapped via this package's sentinel kinds.
package config

// Config contains one leaderboard-generation run's configuration. It is an
// explicit value passed into the engine, never ambient state, so runs and
// tests can execute independently.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" validate:"omitempty,oneof=debug info warn warning error"`

	// DataDir is the root of the raw poll files, one subdirectory per week
	// per poll type (e.g. data/winner/week3/*.json).
	DataDir string `koanf:"data_dir" validate:"required"`

	// ResultsDir receives the generated leaderboard CSVs.
	ResultsDir string `koanf:"results_dir" validate:"required"`

	// SnapshotDir holds the per-scope rank snapshots between runs.
	SnapshotDir string `koanf:"snapshot_dir" validate:"required"`

	// Week is the week up to which overall boards aggregate.
	Week int `koanf:"week" validate:"min=1"`

	// IncludePlayoffs folds playoff prediction points into overall boards.
	IncludePlayoffs bool `koanf:"include_playoffs"`

	// TopN sets the size of the winners list.
	TopN int `koanf:"top_n" validate:"min=1"`

	// MetricsFile, when set, receives a Prometheus text-format dump of the
	// run's metrics.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:    "info",
		DataDir:     "data",
		ResultsDir:  "results",
		SnapshotDir: "results/ranks",
		Week:        1,
		TopN:        3,
	}
}
