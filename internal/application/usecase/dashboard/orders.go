package dashboard

import (
	"context"
	"fmt"
	"sync"

	"tradedash/internal/application/port"
	"tradedash/internal/domain"
	"tradedash/internal/domain/model"
)

// OrderFetcher loads the order listing once per session.
type OrderFetcher struct {
	api      port.TradingAPI
	st       *State
	reporter port.Reporter

	mu     sync.Mutex
	loaded bool
}

func NewOrderFetcher(api port.TradingAPI, st *State, reporter port.Reporter) *OrderFetcher {
	return &OrderFetcher{api: api, st: st, reporter: reporter}
}

// Load fetches and partitions all orders. A second call returns ErrOrdersAlreadyLoaded
// without touching the network, whether or not the first one succeeded.
func (f *OrderFetcher) Load(ctx context.Context) error {
	f.mu.Lock()
	if f.loaded {
		f.mu.Unlock()
		return domain.ErrOrdersAlreadyLoaded
	}
	f.loaded = true
	f.mu.Unlock()

	orders, err := f.api.Orders(ctx)
	if err != nil {
		err = fmt.Errorf("fetch orders: %w", err)
		f.reporter.Report(componentOrders, err)
		return err
	}

	open, history, skipped := Partition(orders)
	for _, o := range skipped {
		f.reporter.Report(componentOrders, fmt.Errorf("order %d: unknown status %q", o.ID, o.Status))
	}
	f.st.ReplaceOrders(open, history)
	return nil
}

// Partition splits orders by status. Open positions carry their creation time, history
// entries their close time. Orders with any other status are returned as skipped.
func Partition(orders []port.Order) (open []model.Position, history []model.HistoryEntry, skipped []port.Order) {
	open = make([]model.Position, 0, len(orders))
	history = make([]model.HistoryEntry, 0, len(orders))
	for _, o := range orders {
		pos := model.Position{
			ID:        o.ID,
			Side:      o.Side,
			Price:     o.Price,
			Amount:    o.Amount,
			Timestamp: o.CreatedAt,
		}
		switch o.Status {
		case model.StatusOpen:
			open = append(open, pos)
		case model.StatusClosed:
			history = append(history, model.NewHistoryEntry(pos, o.ClosedAt, nil))
		default:
			skipped = append(skipped, o)
		}
	}
	return open, history, skipped
}
