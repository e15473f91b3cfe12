package dashboard

import (
	"context"

	"github.com/shopspring/decimal"

	"tradedash/internal/application/port"
	"tradedash/internal/domain/model"
)

type noopRepo struct{}

func NewNoopRepo() port.Repository { return &noopRepo{} }

func (n *noopRepo) UpsertLatestPrice(ctx context.Context, price decimal.Decimal, ts int64) error {
	return nil
}
func (n *noopRepo) InsertOrder(ctx context.Context, pos model.Position) error { return nil }
func (n *noopRepo) CloseOrder(ctx context.Context, entry model.HistoryEntry) error {
	return nil
}
func (n *noopRepo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	return nil
}
func (n *noopRepo) Close() error { return nil }
