package model

import "time"

// Side is the camp a tracked entity belongs to.
type Side string

const (
	SideUs   Side = "us"
	SideThem Side = "them"
)

// Valid reports whether s is one of the two recognized sides.
func (s Side) Valid() bool {
	return s == SideUs || s == SideThem
}

// Opposite returns the other side. Invalid sides are returned unchanged.
func (s Side) Opposite() Side {
	switch s {
	case SideUs:
		return SideThem
	case SideThem:
		return SideUs
	default:
		return s
	}
}

// TrackedEntity is a candidate whose IE filings are monitored.
type TrackedEntity struct {
	Name        string
	District    string
	Side        Side
	SeasonStart time.Time
	IEURL       string
	Opponents   []Opponent
}

// Opponent is a resolved opponent reference: the name from configuration plus
// the IE page to pull its filings from.
type Opponent struct {
	Name  string
	IEURL string
}

// Totals are the running dollar totals for one district, in whole dollars.
type Totals struct {
	TeamUs   int64
	TeamThem int64
}
