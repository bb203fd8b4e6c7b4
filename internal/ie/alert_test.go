package ie

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/targetdigest/ietrack/internal/model"
)

func TestRenderAlerts(t *testing.T) {
	e := model.TrackedEntity{Name: "Jane Doe", District: "AD-12", Side: model.SideUs}
	window := AlertWindow(time.Date(2024, 10, 9, 23, 59, 59, 0, time.UTC))
	totals := model.Totals{TeamUs: 5000, TeamThem: 1234567}
	filings := []model.Filing{
		{Date: date(2024, 10, 9), Position: model.PositionSupport, Amount: decimal.RequireFromString("12345.67"), URL: "https://example.test/1"},
		{Date: date(2024, 10, 1), Position: model.PositionSupport, Amount: decimal.NewFromInt(1), URL: "https://example.test/old"},
		{Date: date(2024, 10, 8), Position: model.PositionOppose, Amount: decimal.NewFromInt(800), URL: "https://example.test/2"},
	}

	got, ok := RenderAlerts(e, filings, window, totals)
	assert.True(t, ok)
	want := "🟩 AD-12 | SUPPORT Jane Doe → [$12,345](https://example.test/1)\n" +
		"→ Totals: Team Us $5,000 | Team Them $1,234,567\n" +
		"🟥 AD-12 | OPPOSE Jane Doe → [$800](https://example.test/2)\n" +
		"→ Totals: Team Us $5,000 | Team Them $1,234,567"
	assert.Equal(t, want, got)
}

func TestRenderAlerts_ThemSide(t *testing.T) {
	e := model.TrackedEntity{Name: "John Roe", District: "SD-4", Side: model.SideThem}
	window := AlertWindow(time.Date(2024, 10, 9, 12, 0, 0, 0, time.UTC))
	filings := []model.Filing{
		{Date: date(2024, 10, 9), Position: model.PositionOppose, Amount: decimal.NewFromInt(2500), URL: "u"},
	}

	got, ok := RenderAlerts(e, filings, window, model.Totals{})
	assert.True(t, ok)
	assert.Equal(t, "🟩 SD-4 | OPPOSE John Roe → [$2,500](u)\n→ Totals: Team Us $0 | Team Them $0", got)
}

func TestRenderAlerts_NothingInWindow(t *testing.T) {
	e := model.TrackedEntity{Name: "Jane Doe", District: "AD-12", Side: model.SideUs}
	window := AlertWindow(time.Date(2024, 10, 9, 23, 59, 59, 0, time.UTC))
	filings := []model.Filing{
		{Date: date(2024, 9, 15), Position: model.PositionSupport, Amount: decimal.NewFromInt(100)},
	}

	got, ok := RenderAlerts(e, filings, window, model.Totals{TeamUs: 100})
	assert.False(t, ok)
	assert.Empty(t, got)

	_, ok = RenderAlerts(e, nil, window, model.Totals{})
	assert.False(t, ok)
}
