package ie

import (
	"errors"
	"fmt"

	"github.com/targetdigest/ietrack/internal/model"
)

// ErrContractViolation marks a filing or entity carrying a position or side
// outside the closed sets. Aggregation stops rather than misattribute dollars.
var ErrContractViolation = errors.New("contract violation")

// Role says whose IE page a filing came from.
type Role int

const (
	RoleOwn Role = iota
	RoleOpponent
)

func (r Role) String() string {
	switch r {
	case RoleOwn:
		return "own"
	case RoleOpponent:
		return "opponent"
	default:
		return fmt.Sprintf("Role(%d)", int(r))
	}
}

// Team is the aggregate bucket a dollar amount lands in.
type Team = model.Side

const (
	TeamUs   = model.SideUs
	TeamThem = model.SideThem
)

type roleKey struct {
	role     Role
	position model.Position
}

// benefits records whether a filing helps the tracked entity itself:
// supporting it directly, or opposing one of its opponents.
var benefits = map[roleKey]bool{
	{RoleOwn, model.PositionSupport}:      true,
	{RoleOwn, model.PositionOppose}:       false,
	{RoleOpponent, model.PositionSupport}: false,
	{RoleOpponent, model.PositionOppose}:  true,
}

func init() {
	for _, r := range []Role{RoleOwn, RoleOpponent} {
		for _, p := range []model.Position{model.PositionSupport, model.PositionOppose} {
			if _, ok := benefits[roleKey{r, p}]; !ok {
				panic(fmt.Sprintf("attribution table missing %s/%s", r, p))
			}
		}
	}
}

// BenefitsTracked reports whether a filing with position p, found on a page
// of the given role, works in the tracked entity's favor.
func BenefitsTracked(role Role, p model.Position) (bool, error) {
	b, ok := benefits[roleKey{role, p}]
	if !ok {
		return false, fmt.Errorf("%w: position %q on %s filing", ErrContractViolation, p, role)
	}
	return b, nil
}

// Attribute returns the team that receives a filing's dollars.
func Attribute(role Role, p model.Position, side model.Side) (Team, error) {
	if !side.Valid() {
		return "", fmt.Errorf("%w: side %q", ErrContractViolation, side)
	}
	b, err := BenefitsTracked(role, p)
	if err != nil {
		return "", err
	}
	if b {
		return side, nil
	}
	return side.Opposite(), nil
}

// CheckFilings returns the first contract violation among filings found on a
// page of the given role for an entity on side.
func CheckFilings(role Role, side model.Side, filings []model.Filing) error {
	for _, f := range filings {
		if _, err := Attribute(role, f.Position, side); err != nil {
			return err
		}
	}
	return nil
}
