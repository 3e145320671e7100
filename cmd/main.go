package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/maidenover/standings/internal/adapters/csvsink"
	"github.com/maidenover/standings/internal/adapters/pollsource"
	"github.com/maidenover/standings/internal/adapters/snapshot"
	app "github.com/maidenover/standings/internal/app"
	"github.com/maidenover/standings/internal/config"
	"github.com/maidenover/standings/internal/domain/aggregate"
	"github.com/maidenover/standings/internal/domain/model"
	"github.com/maidenover/standings/pkg/logger"
	"github.com/maidenover/standings/pkg/metrics"
)

// Poll types with their own leaderboard lineages.
const (
	pollWinner = "winner"
	pollMargin = "margin"
)

func main() {
	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := app.New(
		app.WithLogger(log),
		app.WithSnapshotStore(snapshot.NewFileStore(cfg.SnapshotDir)),
	)

	if err := generate(ctx, svc, cfg, log); err != nil {
		log.Error(ctx, "leaderboard generation failed", logger.Error(err))
		os.Exit(1)
	}

	if cfg.MetricsFile != "" {
		if err := metrics.DumpFile(cfg.MetricsFile); err != nil {
			log.Warn(ctx, "failed to dump metrics", logger.Error(err))
		}
	}
	log.Info(ctx, "leaderboard generation completed", logger.Int("week", cfg.Week))
}

// generate produces all boards for the configured week: weekly and overall
// boards per poll type, the combined board, and the winners list.
func generate(ctx context.Context, svc *app.Service, cfg *config.Config, log logger.Logger) error {
	resolvers := map[string]func(pollsource.Poll) (aggregate.Unit, error){
		pollWinner: pollsource.Poll.ResolveWinner,
		pollMargin: pollsource.Poll.ResolveMargin,
	}

	boards := make(map[string]app.Board, len(resolvers))
	for _, kind := range []string{pollWinner, pollMargin} {
		board, err := generatePollType(ctx, svc, cfg, kind, resolvers[kind], log)
		if err != nil {
			return err
		}
		boards[kind] = board
	}

	combined, err := svc.GenerateCombined(ctx, "combined", boards[pollWinner], boards[pollMargin])
	if err != nil {
		return err
	}
	if err := writeSummary(cfg, filepath.Join("combined", weekFile(cfg)), combined); err != nil {
		return err
	}

	winners := app.Board{Scope: "winners", Rows: combined.TopN(cfg.TopN)}
	return writeSummary(cfg, filepath.Join("winners", weekFile(cfg)), winners)
}

// generatePollType builds every weekly board for one poll type up to the
// configured week, then the overall board across those weeks (plus the
// playoff unit when enabled). Weeks without poll files are skipped.
func generatePollType(
	ctx context.Context,
	svc *app.Service,
	cfg *config.Config,
	kind string,
	resolve func(pollsource.Poll) (aggregate.Unit, error),
	log logger.Logger,
) (app.Board, error) {
	var overallUnits []aggregate.Unit

	for week := 1; week <= cfg.Week; week++ {
		dir := filepath.Join(cfg.DataDir, kind, fmt.Sprintf("week%d", week))
		polls, err := pollsource.ReadDir(dir)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) || errors.Is(err, pollsource.ErrNoPolls) {
				log.Warn(ctx, "no polls for week; skipping",
					logger.String("kind", kind), logger.Int("week", week))
				continue
			}
			return app.Board{}, err
		}

		units := make([]aggregate.Unit, len(polls))
		for i, p := range polls {
			if units[i], err = resolve(p); err != nil {
				return app.Board{}, err
			}
		}

		weekly, err := svc.Generate(ctx, app.Run{
			Scope: fmt.Sprintf("weekly_%s_week%d", kind, week),
			Units: units,
		})
		if err != nil {
			return app.Board{}, err
		}
		path := filepath.Join(cfg.ResultsDir, "weekly", kind, fmt.Sprintf("week%d.csv", week))
		if err := csvsink.WriteFile(path, func(w io.Writer) error {
			return csvsink.WriteDetailed(w, weekly.UnitIDs, weekly.Rows)
		}); err != nil {
			return app.Board{}, err
		}

		overallUnits = append(overallUnits, aggregate.Unit{
			ID:      fmt.Sprintf("Week%d", week),
			Records: totalsAsRecords(weekly),
		})
	}

	if cfg.IncludePlayoffs {
		unit, err := playoffUnit(cfg)
		if err != nil {
			return app.Board{}, err
		}
		overallUnits = append(overallUnits, unit)
	}

	overall, err := svc.Generate(ctx, app.Run{
		Scope:         kind,
		Units:         overallUnits,
		TrackMovement: true,
	})
	if err != nil {
		return app.Board{}, err
	}
	if err := writeSummary(cfg, filepath.Join("overall", kind, weekFile(cfg)), overall); err != nil {
		return app.Board{}, err
	}
	return overall, nil
}

// playoffUnit loads and scores the playoff prediction poll.
func playoffUnit(cfg *config.Config) (aggregate.Unit, error) {
	polls, err := pollsource.ReadDir(filepath.Join(cfg.DataDir, "playoff"))
	if err != nil {
		return aggregate.Unit{}, err
	}
	unit, err := polls[0].ResolvePlayoff()
	if err != nil {
		return aggregate.Unit{}, err
	}
	unit.ID = "Playoffs"
	return unit, nil
}

// totalsAsRecords lifts a board's totals into score records so a higher-level
// aggregation can treat the whole board as one contest unit.
func totalsAsRecords(board app.Board) []model.ScoreRecord {
	records := make([]model.ScoreRecord, len(board.Rows))
	for i, row := range board.Rows {
		records[i] = model.ScoreRecord{Key: row.Key, Label: row.Label, Score: row.Total}
	}
	return records
}

func writeSummary(cfg *config.Config, rel string, board app.Board) error {
	path := filepath.Join(cfg.ResultsDir, rel)
	return csvsink.WriteFile(path, func(w io.Writer) error {
		return csvsink.WriteSummary(w, board.Rows, board.Movements)
	})
}

func weekFile(cfg *config.Config) string {
	name := fmt.Sprintf("week%d", cfg.Week)
	if cfg.IncludePlayoffs {
		name += "_with_playoffs"
	}
	return name + ".csv"
}
