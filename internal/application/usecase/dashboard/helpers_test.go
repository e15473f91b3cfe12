package dashboard

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"tradedash/internal/application/port"
	"tradedash/internal/domain/model"
)

var errNetwork = errors.New("connection refused")

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func ts(min int) time.Time { return time.Date(2024, 5, 1, 12, min, 0, 0, time.UTC) }

// MockTradingAPI is a testify mock of port.TradingAPI.
type MockTradingAPI struct {
	mock.Mock
}

func (m *MockTradingAPI) Price(ctx context.Context) (decimal.Decimal, error) {
	args := m.Called(ctx)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockTradingAPI) Account(ctx context.Context) (model.Account, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.Account), args.Error(1)
}

func (m *MockTradingAPI) Orders(ctx context.Context) ([]port.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]port.Order), args.Error(1)
}

func (m *MockTradingAPI) Trade(ctx context.Context, side model.Side, amount decimal.Decimal) (*port.TradeResult, error) {
	args := m.Called(ctx, side, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.TradeResult), args.Error(1)
}

func (m *MockTradingAPI) Close(ctx context.Context, orderID int64) (*port.CloseResult, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.CloseResult), args.Error(1)
}

// priceFeed serves scripted quotes; an entry with err set fails that call.
type priceFeed struct {
	mu    sync.Mutex
	steps []priceStep
	calls int
}

type priceStep struct {
	price string
	err   error
}

func (f *priceFeed) next() (decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.steps) == 0 {
		return decimal.Zero, errNetwork
	}
	st := f.steps[0]
	if len(f.steps) > 1 {
		f.steps = f.steps[1:]
	}
	if st.err != nil {
		return decimal.Zero, st.err
	}
	return dec(st.price), nil
}

func (f *priceFeed) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// priceOnlyAPI answers Price from a feed and fails everything else.
type priceOnlyAPI struct {
	MockTradingAPI
	feed *priceFeed
}

func (a *priceOnlyAPI) Price(ctx context.Context) (decimal.Decimal, error) { return a.feed.next() }

// reports collects swallowed failures.
type reports struct {
	mu   sync.Mutex
	errs map[string][]error
}

func newReports() *reports { return &reports{errs: make(map[string][]error)} }

func (r *reports) Report(component string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs[component] = append(r.errs[component], err)
}

func (r *reports) For(component string) []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error{}, r.errs[component]...)
}

// journal records what the issuer and poller wrote.
type journal struct {
	noopRepo
	mu     sync.Mutex
	opened []model.Position
	closed []model.HistoryEntry
	prices []decimal.Decimal
}

func (j *journal) UpsertLatestPrice(ctx context.Context, price decimal.Decimal, ts int64) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.prices = append(j.prices, price)
	return nil
}

func (j *journal) InsertOrder(ctx context.Context, pos model.Position) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.opened = append(j.opened, pos)
	return nil
}

func (j *journal) CloseOrder(ctx context.Context, entry model.HistoryEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.closed = append(j.closed, entry)
	return nil
}

func openIDs(t *testing.T, snap model.Snapshot) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(snap.Open))
	for _, p := range snap.Open {
		ids = append(ids, p.ID)
	}
	return ids
}

func historyIDs(t *testing.T, snap model.Snapshot) []int64 {
	t.Helper()
	ids := make([]int64, 0, len(snap.History))
	for _, h := range snap.History {
		ids = append(ids, h.ID)
	}
	return ids
}
