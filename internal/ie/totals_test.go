package ie

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/targetdigest/ietrack/internal/model"
)

func filing(pos model.Position, amount string) model.Filing {
	return model.Filing{Position: pos, Amount: decimal.RequireFromString(amount)}
}

func TestAggregate(t *testing.T) {
	tests := []struct {
		name      string
		side      model.Side
		own       []model.Filing
		opponents []model.Filing
		want      model.Totals
	}{
		{
			name: "us support own",
			side: model.SideUs,
			own:  []model.Filing{filing(model.PositionSupport, "5000")},
			want: model.Totals{TeamUs: 5000},
		},
		{
			name: "us oppose own",
			side: model.SideUs,
			own:  []model.Filing{filing(model.PositionOppose, "3000")},
			want: model.Totals{TeamThem: 3000},
		},
		{
			name:      "us oppose opponent",
			side:      model.SideUs,
			opponents: []model.Filing{filing(model.PositionOppose, "2000")},
			want:      model.Totals{TeamUs: 2000},
		},
		{
			name: "them support own",
			side: model.SideThem,
			own:  []model.Filing{filing(model.PositionSupport, "1000")},
			want: model.Totals{TeamThem: 1000},
		},
		{
			name: "mixed",
			side: model.SideThem,
			own: []model.Filing{
				filing(model.PositionSupport, "1000"),
				filing(model.PositionOppose, "250"),
			},
			opponents: []model.Filing{
				filing(model.PositionSupport, "400"),
				filing(model.PositionOppose, "75"),
			},
			want: model.Totals{TeamUs: 650, TeamThem: 1075},
		},
		{
			name: "empty",
			side: model.SideUs,
			want: model.Totals{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Aggregate(tt.side, tt.own, tt.opponents)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAggregate_SumsExactlyThenTruncates(t *testing.T) {
	own := []model.Filing{
		filing(model.PositionSupport, "0.10"),
		filing(model.PositionSupport, "0.20"),
		filing(model.PositionSupport, "0.70"),
		filing(model.PositionSupport, "99.99"),
	}
	got, err := Aggregate(model.SideUs, own, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(100), got.TeamUs)
}

func TestAggregate_OrderIndependent(t *testing.T) {
	own := []model.Filing{
		filing(model.PositionSupport, "10"),
		filing(model.PositionOppose, "20"),
		filing(model.PositionSupport, "30"),
	}
	reversed := []model.Filing{own[2], own[1], own[0]}

	a, err := Aggregate(model.SideUs, own, nil)
	require.NoError(t, err)
	b, err := Aggregate(model.SideUs, reversed, nil)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestAggregate_UnknownPositionFails(t *testing.T) {
	own := []model.Filing{
		filing(model.PositionSupport, "10"),
		filing(model.Position("OTHER"), "20"),
	}
	_, err := Aggregate(model.SideUs, own, nil)
	require.ErrorIs(t, err, ErrContractViolation)

	_, err = Aggregate(model.Side(""), []model.Filing{filing(model.PositionSupport, "1")}, nil)
	require.ErrorIs(t, err, ErrContractViolation)
}

func TestRunTotals_FirstWriterWins(t *testing.T) {
	run := NewRun(time.Now())
	calls := 0

	first, hit, err := run.Totals("AD-12", func() (model.Totals, error) {
		calls++
		return model.Totals{TeamUs: 10}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)

	second, hit, err := run.Totals("AD-12", func() (model.Totals, error) {
		calls++
		return model.Totals{TeamUs: 99, TeamThem: 99}, nil
	})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, 1, run.Districts())
}

func TestRunTotals_FailureNotCached(t *testing.T) {
	run := NewRun(time.Now())
	_, _, err := run.Totals("AD-12", func() (model.Totals, error) {
		return model.Totals{}, errors.New("boom")
	})
	require.Error(t, err)
	_, ok := run.Cached("AD-12")
	assert.False(t, ok)

	got, hit, err := run.Totals("AD-12", func() (model.Totals, error) {
		return model.Totals{TeamThem: 5}, nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, int64(5), got.TeamThem)
}

func TestNewRun_Fresh(t *testing.T) {
	a := NewRun(time.Now())
	_, _, err := a.Totals("AD-12", func() (model.Totals, error) { return model.Totals{TeamUs: 1}, nil })
	require.NoError(t, err)

	b := NewRun(time.Now())
	_, ok := b.Cached("AD-12")
	assert.False(t, ok)
	assert.NotEqual(t, a.ID, b.ID)
}
