package ie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/targetdigest/ietrack/internal/model"
)

var (
	allSides     = []model.Side{model.SideUs, model.SideThem}
	allPositions = []model.Position{model.PositionSupport, model.PositionOppose}
)

func TestAttribute(t *testing.T) {
	tests := []struct {
		role Role
		pos  model.Position
		side model.Side
		want Team
	}{
		{RoleOwn, model.PositionSupport, model.SideUs, TeamUs},
		{RoleOwn, model.PositionOppose, model.SideUs, TeamThem},
		{RoleOwn, model.PositionSupport, model.SideThem, TeamThem},
		{RoleOwn, model.PositionOppose, model.SideThem, TeamUs},
		{RoleOpponent, model.PositionOppose, model.SideUs, TeamUs},
		{RoleOpponent, model.PositionSupport, model.SideUs, TeamThem},
		{RoleOpponent, model.PositionOppose, model.SideThem, TeamThem},
		{RoleOpponent, model.PositionSupport, model.SideThem, TeamUs},
	}
	for _, tt := range tests {
		got, err := Attribute(tt.role, tt.pos, tt.side)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got, "Attribute(%s, %s, %s)", tt.role, tt.pos, tt.side)
	}
}

// Supporting the tracked entity and opposing its opponent land on the same team,
// as do opposing the entity and supporting its opponent.
func TestAttribute_Symmetry(t *testing.T) {
	for _, side := range allSides {
		ownSupport, err := Attribute(RoleOwn, model.PositionSupport, side)
		require.NoError(t, err)
		oppOppose, err := Attribute(RoleOpponent, model.PositionOppose, side)
		require.NoError(t, err)
		assert.Equal(t, ownSupport, oppOppose, "side %s", side)

		ownOppose, err := Attribute(RoleOwn, model.PositionOppose, side)
		require.NoError(t, err)
		oppSupport, err := Attribute(RoleOpponent, model.PositionSupport, side)
		require.NoError(t, err)
		assert.Equal(t, ownOppose, oppSupport, "side %s", side)

		assert.NotEqual(t, ownSupport, ownOppose)
	}
}

func TestAttribute_MatchesAlertMarker(t *testing.T) {
	for _, side := range allSides {
		for _, pos := range allPositions {
			team, err := Attribute(RoleOwn, pos, side)
			require.NoError(t, err)
			assert.Equal(t, team == TeamUs, isUs(pos, side), "%s/%s", pos, side)
		}
	}
}

func TestAttribute_ContractViolation(t *testing.T) {
	_, err := Attribute(RoleOwn, model.Position("NEUTRAL"), model.SideUs)
	require.ErrorIs(t, err, ErrContractViolation)
	assert.Contains(t, err.Error(), "NEUTRAL")

	_, err = Attribute(RoleOwn, model.PositionSupport, model.Side("maybe"))
	require.ErrorIs(t, err, ErrContractViolation)

	_, err = BenefitsTracked(Role(7), model.PositionSupport)
	require.ErrorIs(t, err, ErrContractViolation)
	assert.Contains(t, err.Error(), "Role(7)")
}

func TestCheckFilings(t *testing.T) {
	good := []model.Filing{{Position: model.PositionSupport}, {Position: model.PositionOppose}}
	for _, side := range allSides {
		require.NoError(t, CheckFilings(RoleOwn, side, good))
		require.NoError(t, CheckFilings(RoleOpponent, side, good))
	}
	require.NoError(t, CheckFilings(RoleOwn, model.SideUs, nil))

	bad := append(good, model.Filing{Position: "NEUTRAL"})
	require.ErrorIs(t, CheckFilings(RoleOwn, model.SideUs, bad), ErrContractViolation)
	require.ErrorIs(t, CheckFilings(RoleOpponent, model.SideThem, bad), ErrContractViolation)

	require.ErrorIs(t, CheckFilings(RoleOwn, model.Side("both"), good), ErrContractViolation)
}
