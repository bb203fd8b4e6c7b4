package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/targetdigest/ietrack/internal/model"
)

func TestEntities(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	require.NoError(t, err)

	entities, warnings, err := NewIndex(cfg.Trackers).Entities(time.UTC)
	require.NoError(t, err)

	require.Len(t, entities, 2, "disabled trackers are not tracked")
	jane := entities[0]
	assert.Equal(t, "Jane Doe", jane.Name)
	assert.Equal(t, model.SideUs, jane.Side)
	assert.Equal(t, time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), jane.SeasonStart)
	assert.Equal(t, []model.Opponent{{Name: "John Roe", IEURL: "https://cal-access.sos.ca.gov/john"}}, jane.Opponents)

	assert.Equal(t, []string{
		`tracker "Jane Doe": opponent "Ghost Candidate" not found`,
		`tracker "Jane Doe": opponent "Quiet Roe" has IE tracking disabled`,
	}, warnings)
}

func TestIndexGet(t *testing.T) {
	idx := NewIndex([]Tracker{{Name: "A", District: "1"}, {Name: "A", District: "2"}})

	got, ok := idx.Get("A")
	require.True(t, ok)
	assert.Equal(t, "1", got.District)

	_, ok = idx.Get("B")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Trackers: []Tracker{
		{Name: "", District: "AD-1", Side: model.SideUs},
		{Name: "X", District: "", Side: model.SideUs},
		{Name: "X", District: "AD-2", Side: model.SideThem},
		{Name: "Y", District: "AD-3", Side: model.SideUs, Opponents: []string{"Y"},
			IETracking: IETracking{Enabled: true, IEURL: "", StartDate: "2024-01-01"}},
	}}

	var fields []string
	for _, ve := range Validate(cfg) {
		fields = append(fields, ve.Tracker+"/"+ve.Field)
	}
	assert.Equal(t, []string{
		"/name",
		"X/district",
		"X/name",
		"Y/ie_tracking.ie_url",
		"Y/opponents",
	}, fields)
}
