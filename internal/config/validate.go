package config

import (
	"fmt"
	"net/url"
	"time"
)

// ValidationError describes one problem with a tracker entry.
type ValidationError struct {
	Tracker     string
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("tracker %q: %s: %s", e.Tracker, e.Field, e.Description)
}

// Validate checks every tracker. Trackers with IE tracking disabled only need
// a unique name, a district and a valid side.
func Validate(cfg *Config) []ValidationError {
	var errs []ValidationError
	add := func(t Tracker, field, format string, args ...any) {
		errs = append(errs, ValidationError{Tracker: t.Name, Field: field, Description: fmt.Sprintf(format, args...)})
	}

	seen := make(map[string]bool, len(cfg.Trackers))
	for _, t := range cfg.Trackers {
		if t.Name == "" {
			add(t, "name", "must not be empty")
		} else if seen[t.Name] {
			add(t, "name", "duplicate tracker")
		}
		seen[t.Name] = true

		if t.District == "" {
			add(t, "district", "must not be empty")
		}
		if !t.Side.Valid() {
			add(t, "side", "must be %q or %q, got %q", "us", "them", t.Side)
		}

		if !t.IETracking.Enabled {
			continue
		}
		if u, err := url.Parse(t.IETracking.IEURL); err != nil || t.IETracking.IEURL == "" || (u.Scheme == "" && u.Path == "") {
			add(t, "ie_tracking.ie_url", "must be a URL or file path, got %q", t.IETracking.IEURL)
		}
		if _, err := time.Parse(StartDateFormat, t.IETracking.StartDate); err != nil {
			add(t, "ie_tracking.start_date", "must be YYYY-MM-DD, got %q", t.IETracking.StartDate)
		}
		for _, opp := range t.Opponents {
			if opp == t.Name {
				add(t, "opponents", "tracker lists itself as an opponent")
			}
		}
	}
	return errs
}
