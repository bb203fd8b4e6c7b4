package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/targetdigest/ietrack/internal/config"
	"github.com/targetdigest/ietrack/internal/ie"
	"github.com/targetdigest/ietrack/internal/logger"
	"github.com/targetdigest/ietrack/internal/model"
	"github.com/targetdigest/ietrack/internal/runlog"
	"github.com/targetdigest/ietrack/internal/source"
)

// nowLayouts are accepted by --now, interpreted in the configured time zone
// unless they carry an offset.
var nowLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// session holds everything a tracking command needs.
type session struct {
	cfg      *config.Config
	loc      *time.Location
	entities []model.TrackedEntity
	source   ie.Source
}

// loadSession reads .env and the config file, sets up logging, and builds
// the filing source.
func loadSession(ctx context.Context, cmd *cobra.Command) (*session, error) {
	_ = godotenv.Load()

	path, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := logger.Setup(cfg.Environment, cfg.LogLevel); err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	entities, warnings, err := config.NewIndex(cfg.Trackers).Entities(loc)
	if err != nil {
		return nil, err
	}
	for _, w := range warnings {
		logger.Warn(ctx, w)
	}

	parsers := source.DefaultRegistry(cfg.Fetch.BaseURL)
	web := source.NewWeb(parsers.Get(source.FormatCalAccess), source.WebOptions{
		UserAgent:         cfg.Fetch.UserAgent,
		Timeout:           cfg.Fetch.Timeout,
		RequestsPerSecond: cfg.Fetch.RequestsPerSecond,
		Burst:             cfg.Fetch.Burst,
	})
	mux := source.NewMux(web, source.NewFile(parsers))

	return &session{
		cfg:      cfg,
		loc:      loc,
		entities: entities,
		source:   source.NewMemo(mux),
	}, nil
}

// resolveNow returns the run's reference instant: the --now value if given,
// otherwise the current time, both in loc.
func resolveNow(raw string, loc *time.Location) (time.Time, error) {
	if raw == "" {
		return time.Now().In(loc), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.In(loc), nil
	}
	for _, layout := range nowLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("parsing --now %q: expected RFC3339 or YYYY-MM-DD HH:MM:SS", raw)
}

// selectEntities keeps the entities named in only, or all if only is empty.
func selectEntities(entities []model.TrackedEntity, only []string) ([]model.TrackedEntity, error) {
	if len(only) == 0 {
		return entities, nil
	}
	byName := make(map[string]model.TrackedEntity, len(entities))
	for _, e := range entities {
		byName[e.Name] = e
	}
	selected := make([]model.TrackedEntity, 0, len(only))
	for _, name := range only {
		e, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("no IE-tracked entity named %q", name)
		}
		selected = append(selected, e)
	}
	return selected, nil
}

// trackEntities runs every entity through one tracker and one Run, in
// configuration order.
func trackEntities(ctx context.Context, s *session, run *ie.Run, entities []model.TrackedEntity) []ie.Result {
	ctx = logger.WithFields(ctx, zap.String("run_id", run.ID))
	tracker := ie.NewTracker(s.source, s.loc)

	// Per-entity errors are kept on each Result.
	results, _ := tracker.TrackAll(ctx, run, entities)
	for _, r := range results {
		if r.Err != nil {
			logger.Error(ctx, "tracking failed", zap.String("tracker", r.Entity.Name), zap.Error(r.Err))
		}
	}
	logger.Info(ctx, "run complete",
		zap.Int("trackers", len(entities)),
		zap.Int("districts", run.Districts()))
	return results
}

// logEntry converts a tracking result into a run log row.
func logEntry(run *ie.Run, r ie.Result) runlog.Entry {
	e := runlog.Entry{
		Timestamp: run.Now,
		RunID:     run.ID,
		Tracker:   r.Entity.Name,
		District:  r.Entity.District,
		TeamUs:    r.Totals.TeamUs,
		TeamThem:  r.Totals.TeamThem,
		Alerts:    r.AlertFilings,
	}
	switch {
	case r.Err != nil:
		e.Status = runlog.StatusError
	case r.Degraded():
		e.Status = runlog.StatusFetchFailed
	case r.HasAlert:
		e.Status = runlog.StatusOK
	default:
		e.Status = runlog.StatusNoAlert
	}
	return e
}
