package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"tradedash/internal/domain"
)

// Side 订单方向
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide normalizes a wire value into a Side.
func ParseSide(s string) (Side, error) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, nil
	case SideSell:
		return SideSell, nil
	default:
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidSide, s)
	}
}

// Status 订单状态
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Account is the authoritative cash/asset balance pair last reported by the service.
type Account struct {
	Cash  decimal.Decimal `json:"cash"`
	Asset decimal.Decimal `json:"asset"`
}

// NewAccount quantizes cash to 2 places and asset to 8 places.
func NewAccount(cash, asset decimal.Decimal) Account {
	return Account{
		Cash:  cash.Round(domain.CashPlaces),
		Asset: asset.Round(domain.AssetPlaces),
	}
}

// Negative reports whether either balance is below zero.
func (a Account) Negative() bool {
	return a.Cash.IsNegative() || a.Asset.IsNegative()
}

func (a Account) Equal(b Account) bool {
	return a.Cash.Equal(b.Cash) && a.Asset.Equal(b.Asset)
}

// Position 未平仓头寸，ID 由服务端分配
type Position struct {
	ID        int64           `json:"id"`
	Side      Side            `json:"type"`
	Price     decimal.Decimal `json:"price"`
	Amount    decimal.Decimal `json:"amount"`
	Timestamp time.Time       `json:"timestamp"` // open time
}

// Notional is Amount x Price in quote currency.
func (p Position) Notional() decimal.Decimal {
	return p.Amount.Mul(p.Price).Round(domain.CashPlaces)
}

// HistoryEntry 已平仓记录，创建后不可变
type HistoryEntry struct {
	Position
	Status     Status           `json:"status"`
	ClosePrice *decimal.Decimal `json:"close_price,omitempty"`
}

// NewHistoryEntry closes p at closedAt. Timestamp of the entry becomes the close time.
func NewHistoryEntry(p Position, closedAt time.Time, closePrice *decimal.Decimal) HistoryEntry {
	p.Timestamp = closedAt
	return HistoryEntry{Position: p, Status: StatusClosed, ClosePrice: closePrice}
}

// Snapshot is the read model handed to presentation. Slices are newest first.
type Snapshot struct {
	Price     decimal.Decimal  `json:"price"`
	Direction domain.Direction `json:"direction"`
	Account   Account          `json:"account"`
	Open      []Position       `json:"open_positions"`
	History   []HistoryEntry   `json:"history"`
}

// AssetValue values the asset balance at the current quote.
func (s Snapshot) AssetValue() decimal.Decimal {
	return s.Account.Asset.Mul(s.Price).Round(domain.CashPlaces)
}
