package ie

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/targetdigest/ietrack/internal/model"
)

// Aggregate attributes every own and opponent filing to a team and sums each
// team. Both slices should already be limited to the season window.
// Sums are exact; the result is truncated to whole dollars.
func Aggregate(side model.Side, own, opponents []model.Filing) (model.Totals, error) {
	us, them := decimal.Zero, decimal.Zero

	add := func(role Role, filings []model.Filing) error {
		for _, f := range filings {
			team, err := Attribute(role, f.Position, side)
			if err != nil {
				return err
			}
			if team == TeamUs {
				us = us.Add(f.Amount)
			} else {
				them = them.Add(f.Amount)
			}
		}
		return nil
	}

	if err := add(RoleOwn, own); err != nil {
		return model.Totals{}, err
	}
	if err := add(RoleOpponent, opponents); err != nil {
		return model.Totals{}, err
	}
	return model.Totals{TeamUs: us.IntPart(), TeamThem: them.IntPart()}, nil
}

// Run is the state of one tracking pass. Totals are cached per district for
// the life of the Run; the first computation for a district wins.
// Create a new Run for every invocation and drop it afterwards.
type Run struct {
	ID  string
	Now time.Time

	totals map[string]model.Totals
}

// NewRun starts a run anchored at now.
func NewRun(now time.Time) *Run {
	return &Run{
		ID:     uuid.NewString(),
		Now:    now,
		totals: make(map[string]model.Totals),
	}
}

// Totals returns the cached totals for district, calling compute only if the
// district has not been seen in this run. A failed compute caches nothing.
// The boolean reports a cache hit.
func (r *Run) Totals(district string, compute func() (model.Totals, error)) (model.Totals, bool, error) {
	if t, ok := r.totals[district]; ok {
		return t, true, nil
	}
	t, err := compute()
	if err != nil {
		return model.Totals{}, false, fmt.Errorf("computing totals for %s: %w", district, err)
	}
	r.totals[district] = t
	return t, false, nil
}

// Cached returns the totals already computed for district, if any.
func (r *Run) Cached(district string) (model.Totals, bool) {
	t, ok := r.totals[district]
	return t, ok
}

// Districts returns the number of districts with cached totals.
func (r *Run) Districts() int {
	return len(r.totals)
}
