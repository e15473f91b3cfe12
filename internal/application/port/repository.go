package port

import (
	"context"

	"github.com/shopspring/decimal"

	"tradedash/internal/domain/model"
)

// Repository is a write-only journal of what the session observed. Nothing is read back
// into the view model.
type Repository interface {
	// Price operations
	UpsertLatestPrice(ctx context.Context, price decimal.Decimal, ts int64) error

	// Order operations
	InsertOrder(ctx context.Context, pos model.Position) error
	CloseOrder(ctx context.Context, entry model.HistoryEntry) error

	// Snapshot operations
	InsertSnapshot(ctx context.Context, ts int64, payload string) error

	// Connection management
	Close() error
}
