package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Direction represents the price movement direction
type Direction int

const (
	DirectionNeutral Direction = 0
	DirectionUp      Direction = +1
	DirectionDown    Direction = -1
)

// Display precision of quotes, cash and base asset quantities.
const (
	PricePlaces int32 = 2
	CashPlaces  int32 = 2
	AssetPlaces int32 = 8
)

func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "neutral"
	}
}

func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Direction) UnmarshalText(b []byte) error {
	switch string(b) {
	case "up":
		*d = DirectionUp
	case "down":
		*d = DirectionDown
	case "neutral", "":
		*d = DirectionNeutral
	default:
		return fmt.Errorf("unknown direction %q", string(b))
	}
	return nil
}

// DirectionOf compares a new quote against the previous one.
func DirectionOf(prev, next decimal.Decimal) Direction {
	switch next.Cmp(prev) {
	case 1:
		return DirectionUp
	case -1:
		return DirectionDown
	default:
		return DirectionNeutral
	}
}

// QuantizePrice rounds a quote to PricePlaces. Non-positive quotes are rejected.
func QuantizePrice(p decimal.Decimal) (decimal.Decimal, error) {
	q := p.Round(PricePlaces)
	if !q.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: price %s", ErrNonPositivePrice, p.String())
	}
	return q, nil
}
