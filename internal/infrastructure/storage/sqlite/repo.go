package sqlite

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"tradedash/internal/application/port"
	"tradedash/internal/domain/model"
)

type Repo struct {
	db *sql.DB
}

func New(path string) (*Repo, error) {
	// ensure directory exists
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		_ = os.MkdirAll(dir, 0o755)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	r := &Repo{db: db}
	if err := r.migrate(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func (r *Repo) Close() error { return r.db.Close() }

func (r *Repo) GetDB() *sql.DB {
	return r.db
}

func (r *Repo) migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS prices (
  id INTEGER PRIMARY KEY CHECK (id = 1),
  price TEXT NOT NULL,
  ts_ms INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
  id INTEGER PRIMARY KEY,
  side TEXT NOT NULL,
  price TEXT NOT NULL,
  amount TEXT NOT NULL,
  status TEXT NOT NULL,
  close_price TEXT,
  opened_at INTEGER NOT NULL,
  closed_at INTEGER,
  updated_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

CREATE TABLE IF NOT EXISTS snapshots (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  ts_ms INTEGER NOT NULL,
  payload TEXT NOT NULL,
  created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_snapshots_ts ON snapshots(ts_ms);
`)
	return err
}

func (r *Repo) UpsertLatestPrice(ctx context.Context, price decimal.Decimal, ts int64) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO prices(id, price, ts_ms) VALUES(1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET price=excluded.price, ts_ms=excluded.ts_ms
	`, price.String(), ts)
	return err
}

func (r *Repo) InsertOrder(ctx context.Context, pos model.Position) error {
	now := time.Now().UnixMilli()
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders(id, side, price, amount, status, opened_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, pos.ID, string(pos.Side), pos.Price.String(), pos.Amount.String(), string(model.StatusOpen), pos.Timestamp.UnixMilli(), now)
	return err
}

func (r *Repo) CloseOrder(ctx context.Context, entry model.HistoryEntry) error {
	var closePrice sql.NullString
	if entry.ClosePrice != nil {
		closePrice = sql.NullString{String: entry.ClosePrice.String(), Valid: true}
	}
	now := time.Now().UnixMilli()
	// opened_at is unknown for positions never seen open in this session; the close time stands in.
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO orders(id, side, price, amount, status, close_price, opened_at, closed_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		status=excluded.status, close_price=excluded.close_price, closed_at=excluded.closed_at, updated_at=excluded.updated_at
	`, entry.ID, string(entry.Side), entry.Price.String(), entry.Amount.String(), string(entry.Status),
		closePrice, entry.Timestamp.UnixMilli(), entry.Timestamp.UnixMilli(), now)
	return err
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO snapshots(ts_ms, payload, created_at) VALUES(?, ?, ?)`, ts, payload, ts)
	return err
}

var _ port.Repository = (*Repo)(nil)
