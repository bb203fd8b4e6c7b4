package config

import (
	"fmt"
	"time"

	"github.com/targetdigest/ietrack/internal/model"
)

// Index provides lookup over the configured trackers by name.
type Index struct {
	trackers []Tracker
	byName   map[string]Tracker
}

// NewIndex builds an Index. Later duplicates do not replace earlier entries.
func NewIndex(trackers []Tracker) *Index {
	byName := make(map[string]Tracker, len(trackers))
	for _, t := range trackers {
		if _, ok := byName[t.Name]; !ok {
			byName[t.Name] = t
		}
	}
	return &Index{trackers: trackers, byName: byName}
}

// Get returns a tracker by name.
func (x *Index) Get(name string) (Tracker, bool) {
	t, ok := x.byName[name]
	return t, ok
}

// Enabled returns the trackers with IE tracking switched on, in file order.
func (x *Index) Enabled() []Tracker {
	var result []Tracker
	for _, t := range x.trackers {
		if t.IETracking.Enabled {
			result = append(result, t)
		}
	}
	return result
}

// Entities converts the enabled trackers into tracked entities with season
// starts in loc. Opponents that are unknown or not IE-tracked are dropped and
// reported in warnings.
func (x *Index) Entities(loc *time.Location) ([]model.TrackedEntity, []string, error) {
	var (
		entities []model.TrackedEntity
		warnings []string
	)
	for _, t := range x.Enabled() {
		start, err := time.ParseInLocation(StartDateFormat, t.IETracking.StartDate, loc)
		if err != nil {
			return nil, nil, fmt.Errorf("tracker %q: parsing start_date %q: %w", t.Name, t.IETracking.StartDate, err)
		}

		e := model.TrackedEntity{
			Name:        t.Name,
			District:    t.District,
			Side:        t.Side,
			SeasonStart: start,
			IEURL:       t.IETracking.IEURL,
		}
		for _, name := range t.Opponents {
			opp, ok := x.Get(name)
			switch {
			case !ok:
				warnings = append(warnings, fmt.Sprintf("tracker %q: opponent %q not found", t.Name, name))
			case !opp.IETracking.Enabled:
				warnings = append(warnings, fmt.Sprintf("tracker %q: opponent %q has IE tracking disabled", t.Name, name))
			default:
				e.Opponents = append(e.Opponents, model.Opponent{Name: opp.Name, IEURL: opp.IETracking.IEURL})
			}
		}
		entities = append(entities, e)
	}
	return entities, warnings, nil
}
