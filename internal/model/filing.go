package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the stance a committee declares toward a candidate in an IE filing.
type Position string

const (
	PositionSupport Position = "SUPPORT"
	PositionOppose  Position = "OPPOSE"
)

// Valid reports whether p is one of the two recognized positions.
func (p Position) Valid() bool {
	return p == PositionSupport || p == PositionOppose
}

// Filing is one independent-expenditure row as reported by a filing source.
type Filing struct {
	Date        time.Time // zero if RawDate could not be parsed
	RawDate     string
	Committee   string
	Position    Position
	Amount      decimal.Decimal // never negative
	Description string
	URL         string
}

// HasDate reports whether the filing carries a usable date.
func (f Filing) HasDate() bool {
	return !f.Date.IsZero()
}
