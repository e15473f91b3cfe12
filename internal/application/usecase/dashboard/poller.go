package dashboard

import (
	"context"
	"fmt"
	"sync"
	"time"

	"tradedash/internal/application/port"
	"tradedash/internal/domain"
)

// PricePoller fetches the quote immediately and then on every tick. Each applied quote
// schedules its own direction reset after the pulse window.
type PricePoller struct {
	api      port.TradingAPI
	st       *State
	repo     port.Repository
	reporter port.Reporter

	interval time.Duration
	pulse    time.Duration

	mu      sync.Mutex
	stopped bool
	resets  map[uint64]*time.Timer
}

func NewPricePoller(api port.TradingAPI, st *State, repo port.Repository, reporter port.Reporter, interval, pulse time.Duration) *PricePoller {
	return &PricePoller{
		api:      api,
		st:       st,
		repo:     repo,
		reporter: reporter,
		interval: interval,
		pulse:    pulse,
		resets:   make(map[uint64]*time.Timer),
	}
}

// Run polls until ctx is done. Pending resets are stopped on return.
func (p *PricePoller) Run(ctx context.Context) {
	defer p.stop()

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	_ = p.Poll(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = p.Poll(ctx)
		}
	}
}

// Poll runs one fetch/publish cycle. A failed fetch leaves the state untouched.
func (p *PricePoller) Poll(ctx context.Context) error {
	raw, err := p.api.Price(ctx)
	if err != nil {
		err = fmt.Errorf("fetch price: %w", err)
		p.reporter.Report(componentPoller, err)
		return err
	}
	price, err := domain.QuantizePrice(raw)
	if err != nil {
		p.reporter.Report(componentPoller, err)
		return err
	}

	if ctx.Err() != nil {
		return ctx.Err()
	}
	_, seq, ok := p.st.SetPrice(price)
	if !ok {
		return domain.ErrSessionClosed
	}
	p.scheduleReset(seq)

	if err := p.repo.UpsertLatestPrice(ctx, price, time.Now().UnixMilli()); err != nil {
		p.reporter.Report(componentJournal, err)
	}
	return nil
}

func (p *PricePoller) scheduleReset(seq uint64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}
	p.resets[seq] = time.AfterFunc(p.pulse, func() {
		p.st.ResetDirection(seq)
		p.mu.Lock()
		delete(p.resets, seq)
		p.mu.Unlock()
	})
}

func (p *PricePoller) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	for seq, t := range p.resets {
		t.Stop()
		delete(p.resets, seq)
	}
}
