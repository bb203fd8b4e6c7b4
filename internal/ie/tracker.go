package ie

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/targetdigest/ietrack/internal/logger"
	"github.com/targetdigest/ietrack/internal/model"
)

// Source fetches the IE filings listed at url.
// Implementations return an error for retrieval failures instead of an empty slice.
type Source interface {
	Fetch(ctx context.Context, url string) ([]model.Filing, error)
}

// FetchFailure records a source error that was degraded to "no filings".
type FetchFailure struct {
	URL string
	Err error
}

// Result is the outcome of tracking one entity.
type Result struct {
	Entity        model.TrackedEntity
	Totals        model.Totals
	CachedTotals  bool
	SeasonFilings int
	AlertFilings  int
	Alert         string
	HasAlert      bool
	FetchFailures []FetchFailure
	Err           error // set by TrackAll when tracking the entity failed
}

// Degraded reports whether any fetch for this entity failed.
func (r Result) Degraded() bool {
	return len(r.FetchFailures) > 0
}

// Tracker runs the fetch → window → totals → alert pipeline for tracked entities.
type Tracker struct {
	source   Source
	location *time.Location
}

// NewTracker creates a Tracker. Filing dates are interpreted in loc.
func NewTracker(source Source, loc *time.Location) *Tracker {
	if loc == nil {
		loc = time.UTC
	}
	return &Tracker{source: source, location: loc}
}

// Track fetches the entity's own and opponent filings, computes or reuses the
// district totals held by run, and renders alerts for the run's alert window.
// Fetch failures are recorded on the Result; a contract violation is returned.
func (t *Tracker) Track(ctx context.Context, run *Run, e model.TrackedEntity) (Result, error) {
	ctx = logger.WithFields(ctx, zap.String("tracker", e.Name), zap.String("district", e.District))
	res := Result{Entity: e}

	season := SeasonWindow(e.SeasonStart.In(run.Now.Location()), run.Now)

	own := FilterWindow(t.fetch(ctx, e.IEURL, &res), season)

	var oppRaw []model.Filing
	for _, opp := range e.Opponents {
		oppRaw = append(oppRaw, t.fetch(ctx, opp.IEURL, &res)...)
	}
	opponents := FilterWindow(oppRaw, season)

	// Validate before the cache lookup: a cached district skips Aggregate.
	if err := CheckFilings(RoleOwn, e.Side, own); err != nil {
		return res, fmt.Errorf("tracking %s: %w", e.Name, err)
	}
	if err := CheckFilings(RoleOpponent, e.Side, opponents); err != nil {
		return res, fmt.Errorf("tracking %s: %w", e.Name, err)
	}

	totals, cached, err := run.Totals(e.District, func() (model.Totals, error) {
		return Aggregate(e.Side, own, opponents)
	})
	if err != nil {
		return res, fmt.Errorf("tracking %s: %w", e.Name, err)
	}
	res.Totals = totals
	res.CachedTotals = cached
	res.SeasonFilings = len(own) + len(opponents)

	window := AlertWindow(run.Now)
	res.AlertFilings = len(FilterWindow(own, window))
	res.Alert, res.HasAlert = RenderAlerts(e, own, window, totals)

	logger.Debug(ctx, "tracked entity",
		zap.Int("season_filings", res.SeasonFilings),
		zap.Int("alert_filings", res.AlertFilings),
		zap.Int64("team_us", totals.TeamUs),
		zap.Int64("team_them", totals.TeamThem),
		zap.Bool("cached_totals", cached))

	return res, nil
}

// TrackAll tracks every entity in configuration order and returns one Result
// per entity. A failed entity keeps its error in Result.Err and in the joined
// error; the remaining entities are still tracked.
func (t *Tracker) TrackAll(ctx context.Context, run *Run, entities []model.TrackedEntity) ([]Result, error) {
	results := make([]Result, 0, len(entities))
	var errs []error
	for _, e := range entities {
		res, err := t.Track(ctx, run, e)
		if err != nil {
			res.Err = err
			errs = append(errs, err)
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// fetch pulls filings from url and resolves their dates. Failures degrade to
// no filings and are recorded on res.
func (t *Tracker) fetch(ctx context.Context, url string, res *Result) []model.Filing {
	if url == "" {
		return nil
	}
	filings, err := t.source.Fetch(ctx, url)
	if err != nil {
		logger.Warn(ctx, "could not fetch IE filings", zap.String("url", url), zap.Error(err))
		res.FetchFailures = append(res.FetchFailures, FetchFailure{URL: url, Err: err})
		return nil
	}

	out := make([]model.Filing, 0, len(filings))
	for _, f := range filings {
		if !f.HasDate() {
			d, ok := ParseFilingDate(f.RawDate, t.location)
			if !ok {
				logger.Debug(ctx, "skipping filing with unparsable date",
					zap.String("url", url), zap.String("date", f.RawDate))
				continue
			}
			f.Date = d
		}
		out = append(out, f)
	}
	return out
}
