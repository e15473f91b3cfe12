package composite

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"tradedash/internal/application/port"
	"tradedash/internal/domain/model"
)

// Repo fans every write out to all backends and reports the first failure.
type Repo struct {
	repos []port.Repository
}

func New(repos ...port.Repository) *Repo {
	// nil repos are allowed; filter in constructor for safety
	out := make([]port.Repository, 0, len(repos))
	for _, r := range repos {
		if r != nil {
			out = append(out, r)
		}
	}
	return &Repo{repos: out}
}

func (r *Repo) Len() int { return len(r.repos) }

func (r *Repo) each(fn func(port.Repository) error) error {
	var firstErr error
	for _, repo := range r.repos {
		if err := fn(repo); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (r *Repo) UpsertLatestPrice(ctx context.Context, price decimal.Decimal, ts int64) error {
	return r.each(func(repo port.Repository) error { return repo.UpsertLatestPrice(ctx, price, ts) })
}

func (r *Repo) InsertOrder(ctx context.Context, pos model.Position) error {
	return r.each(func(repo port.Repository) error { return repo.InsertOrder(ctx, pos) })
}

func (r *Repo) CloseOrder(ctx context.Context, entry model.HistoryEntry) error {
	return r.each(func(repo port.Repository) error { return repo.CloseOrder(ctx, entry) })
}

func (r *Repo) InsertSnapshot(ctx context.Context, ts int64, payload string) error {
	return r.each(func(repo port.Repository) error { return repo.InsertSnapshot(ctx, ts, payload) })
}

// Close closes every backend; all errors are joined.
func (r *Repo) Close() error {
	var errs []error
	for _, repo := range r.repos {
		if err := repo.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var _ port.Repository = (*Repo)(nil)
