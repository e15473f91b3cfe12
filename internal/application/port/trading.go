package port

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"tradedash/internal/domain/model"
)

// Order is one row of the service's order listing.
type Order struct {
	ID        int64
	Side      model.Side
	Price     decimal.Decimal
	Amount    decimal.Decimal
	CreatedAt time.Time
	ClosedAt  time.Time // zero while open
	Status    model.Status
}

// TradeResult is a confirmed buy/sell.
type TradeResult struct {
	OrderID   int64
	Price     decimal.Decimal
	Timestamp time.Time
	Account   model.Account
}

// CloseResult is a confirmed close. ClosePrice is nil when the service omits it.
type CloseResult struct {
	OrderID    int64
	Timestamp  time.Time
	ClosePrice *decimal.Decimal
	Account    model.Account
}

// TradingAPI is the remote trading service.
type TradingAPI interface {
	Price(ctx context.Context) (decimal.Decimal, error)
	Account(ctx context.Context) (model.Account, error)
	Orders(ctx context.Context) ([]Order, error)
	Trade(ctx context.Context, side model.Side, amount decimal.Decimal) (*TradeResult, error)
	Close(ctx context.Context, orderID int64) (*CloseResult, error)
}

// Reporter receives failures that producers swallow locally.
type Reporter interface {
	Report(component string, err error)
}
