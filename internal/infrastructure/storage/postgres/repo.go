package postgres

import (
	"context"
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"

	"tradedash/internal/application/port"
	"tradedash/internal/domain/model"
)

type Repo struct {
	db *sql.DB
}

func New(dsn string) (*Repo, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS snapshots (
  id BIGSERIAL PRIMARY KEY,
  ts_ms BIGINT NOT NULL,
  payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts_ms);

CREATE TABLE IF NOT EXISTS orders (
  id BIGINT PRIMARY KEY,
  side TEXT NOT NULL,
  price NUMERIC(20, 2) NOT NULL,
  amount NUMERIC(24, 8) NOT NULL,
  status TEXT NOT NULL,
  close_price NUMERIC(20, 2),
  opened_at TIMESTAMPTZ NOT NULL,
  closed_at TIMESTAMPTZ,
  updated_at TIMESTAMPTZ NOT NULL
);
`)
	return err
}

func (r *Repo) UpsertLatestPrice(ctx context.Context, price decimal.Decimal, ts int64) error {
	// ticks stay in sqlite/redis; postgres keeps orders and snapshots only
	return nil
}

func (r *Repo) InsertOrder(ctx context.Context, pos model.Position) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders(id, side, price, amount, status, opened_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT(id) DO NOTHING
	`, pos.ID, string(pos.Side), pos.Price.String(), pos.Amount.String(), string(model.StatusOpen), pos.Timestamp, time.Now())
	return err
}

func (r *Repo) CloseOrder(ctx context.Context, entry model.HistoryEntry) error {
	var closePrice sql.NullString
	if entry.ClosePrice != nil {
		closePrice = sql.NullString{String: entry.ClosePrice.String(), Valid: true}
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders(id, side, price, amount, status, close_price, opened_at, closed_at, updated_at)
		VALUES($1, $2, $3, $4, $5, $6, $7, $7, $8)
		ON CONFLICT(id) DO UPDATE SET
		status = EXCLUDED.status, close_price = EXCLUDED.close_price, closed_at = EXCLUDED.closed_at, updated_at = EXCLUDED.updated_at
	`, entry.ID, string(entry.Side), entry.Price.String(), entry.Amount.String(), string(entry.Status), closePrice, entry.Timestamp, time.Now())
	return err
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO snapshots(ts_ms, payload) VALUES($1, $2)`, ts, payload)
	return err
}

var _ port.Repository = (*Repo)(nil)
