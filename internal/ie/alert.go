package ie

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"

	"github.com/targetdigest/ietrack/internal/model"
)

const (
	markerUs   = "🟩"
	markerThem = "🟥"
)

// RenderAlerts renders one alert segment per filing inside window, each
// followed by the district totals. It returns false when no filing falls in
// the window; callers use that to skip alerting for the entity entirely.
// Filings must have passed CheckFilings for e.Side.
func RenderAlerts(e model.TrackedEntity, filings []model.Filing, window Window, totals model.Totals) (string, bool) {
	var segments []string
	for _, f := range FilterWindow(filings, window) {
		marker := markerThem
		if isUs(f.Position, e.Side) {
			marker = markerUs
		}
		line := fmt.Sprintf("%s %s | %s %s → [%s](%s)", marker, e.District, f.Position, e.Name, dollars(f.Amount), f.URL)
		segments = append(segments, line+"\n"+totalsLine(totals))
	}
	if len(segments) == 0 {
		return "", false
	}
	return strings.Join(segments, "\n"), true
}

// isUs is the own-page case of Attribute. Positions and sides reaching it have
// already passed CheckFilings.
func isUs(p model.Position, side model.Side) bool {
	return (p == model.PositionSupport && side == model.SideUs) ||
		(p == model.PositionOppose && side == model.SideThem)
}

func totalsLine(t model.Totals) string {
	return fmt.Sprintf("→ Totals: Team Us $%s | Team Them $%s", humanize.Comma(t.TeamUs), humanize.Comma(t.TeamThem))
}

func dollars(d decimal.Decimal) string {
	return "$" + humanize.Comma(d.IntPart())
}
