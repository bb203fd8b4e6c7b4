package ie

import (
	"time"

	"github.com/targetdigest/ietrack/internal/model"
)

// Window is an inclusive time range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t lies in [Start, End].
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// AlertWindow returns the window for new-filing alerts: midnight of the day
// before now, through now.
func AlertWindow(now time.Time) Window {
	y, m, d := now.AddDate(0, 0, -1).Date()
	return Window{
		Start: time.Date(y, m, d, 0, 0, 0, 0, now.Location()),
		End:   now,
	}
}

// SeasonWindow returns the window used for running totals. A season start
// after now yields an empty window pinned at now.
func SeasonWindow(seasonStart, now time.Time) Window {
	if seasonStart.After(now) {
		return Window{Start: now, End: now}
	}
	return Window{Start: seasonStart, End: now}
}

// FilterWindow keeps the dated filings that fall inside w.
func FilterWindow(filings []model.Filing, w Window) []model.Filing {
	var out []model.Filing
	for _, f := range filings {
		if f.HasDate() && w.Contains(f.Date) {
			out = append(out, f)
		}
	}
	return out
}
