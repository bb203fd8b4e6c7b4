package ie

import (
	"strings"
	"time"
)

const (
	filingDateFormat = "01/02/2006"
	rangeSeparator   = " - "
)

// ParseFilingDate parses a Cal-Access filing date such as "10/09/2024" or a
// range "10/09/2024 - 10/10/2024" (the first date wins) in loc.
// The boolean is false for anything that does not parse; such filings are excluded.
func ParseFilingDate(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	if before, _, ok := strings.Cut(raw, rangeSeparator); ok {
		raw = before
	}
	t, err := time.ParseInLocation(filingDateFormat, strings.TrimSpace(raw), loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
