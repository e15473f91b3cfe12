package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"tradedash/internal/application/port"
	"tradedash/internal/domain"
	"tradedash/internal/domain/model"
)

type ServiceDeps struct {
	API      TradingAPI
	Sink     port.Sink
	Repo     Repository
	Reporter port.Reporter

	PollInterval  time.Duration
	Pulse         time.Duration
	SnapshotEvery time.Duration
	TradeAmount   decimal.Decimal

	Base  string
	Quote string
}

// Service is one dashboard session: it owns the state and every producer writing to it.
type Service struct {
	deps ServiceDeps
	st   *State
	fmt  *Formatter

	poller   *PricePoller
	accounts *AccountSync
	orders   *OrderFetcher
	issuer   *Issuer

	changed chan struct{}
	wg      sync.WaitGroup
}

func NewService(deps ServiceDeps) *Service {
	if deps.Repo == nil {
		deps.Repo = NewNoopRepo()
	}
	if deps.Reporter == nil {
		deps.Reporter = NewLogReporter()
	}
	if deps.PollInterval <= 0 {
		deps.PollInterval = 5 * time.Second
	}
	if deps.Pulse <= 0 {
		deps.Pulse = 500 * time.Millisecond
	}
	if deps.SnapshotEvery <= 0 {
		deps.SnapshotEvery = 5 * time.Minute
	}
	if deps.TradeAmount.IsZero() {
		deps.TradeAmount = decimal.RequireFromString("0.01")
	}

	st := NewState()
	s := &Service{
		deps:     deps,
		st:       st,
		fmt:      NewFormatter(deps.Base, deps.Quote),
		poller:   NewPricePoller(deps.API, st, deps.Repo, deps.Reporter, deps.PollInterval, deps.Pulse),
		accounts: NewAccountSync(deps.API, st, deps.Reporter),
		orders:   NewOrderFetcher(deps.API, st, deps.Reporter),
		issuer:   NewIssuer(deps.API, st, deps.Repo, deps.Reporter),
		changed:  make(chan struct{}, 1),
	}
	s.issuer.OnConfirm(s.resyncAccount)
	st.OnChange(func() {
		select {
		case s.changed <- struct{}{}:
		default:
		}
	})
	return s
}

func (s *Service) State() *State { return s.st }

func (s *Service) Snapshot() model.Snapshot { return s.st.Snapshot() }

// Run starts every producer and renders until ctx is done, then tears the state down.
// Late results of in-flight requests are dropped by the closed state.
func (s *Service) Run(ctx context.Context) error {
	if s.deps.API == nil {
		return errors.New("no trading api")
	}

	s.spawn(func() { _ = s.orders.Load(ctx) })
	s.spawn(func() { _ = s.accounts.Sync(ctx) })
	s.spawn(func() { s.poller.Run(ctx) })

	log.Info().
		Dur("poll_interval", s.deps.PollInterval).
		Dur("pulse", s.deps.Pulse).
		Str("trade_amount", s.deps.TradeAmount.String()).
		Msg("session started")

	snapTicker := time.NewTicker(s.deps.SnapshotEvery)
	defer snapTicker.Stop()

	s.writeLive()

	for {
		select {
		case <-ctx.Done():
			s.st.Close()
			s.wg.Wait()
			if s.deps.Sink != nil {
				_ = s.deps.Sink.NewLine()
			}
			return ctx.Err()

		case now := <-snapTicker.C:
			s.writeSnapshot(ctx, now)

		case <-s.changed:
			s.writeLive()
		}
	}
}

func (s *Service) spawn(fn func()) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn()
	}()
}

func (s *Service) writeLive() {
	if s.deps.Sink == nil {
		return
	}
	_ = s.deps.Sink.WriteLive(s.fmt.Render(s.st.Snapshot(), RenderLive))
}

func (s *Service) writeSnapshot(ctx context.Context, now time.Time) {
	snap := s.st.Snapshot()
	if s.deps.Sink != nil {
		_ = s.deps.Sink.WriteSnapshot(now, s.fmt.Render(snap, RenderSnapshot))
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		s.deps.Reporter.Report(componentJournal, err)
		return
	}
	if err := s.deps.Repo.InsertSnapshot(ctx, now.UnixMilli(), string(payload)); err != nil {
		s.deps.Reporter.Report(componentJournal, err)
	}
}

// resyncAccount refreshes the account after a confirmed command. It outlives the
// caller's request context; a closed state drops the result.
func (s *Service) resyncAccount(ctx context.Context) {
	ctx = context.WithoutCancel(ctx)
	go func() { _ = s.accounts.Sync(ctx) }()
}

func (s *Service) Buy(ctx context.Context) (model.Position, error) {
	return s.issuer.Buy(ctx, s.deps.TradeAmount)
}

func (s *Service) Sell(ctx context.Context) (model.Position, error) {
	return s.issuer.Sell(ctx, s.deps.TradeAmount)
}

func (s *Service) Close(ctx context.Context, pos model.Position) (model.HistoryEntry, error) {
	return s.issuer.Close(ctx, pos)
}

// CloseByID closes an open position known to the state.
func (s *Service) CloseByID(ctx context.Context, id int64) (model.HistoryEntry, error) {
	pos, ok := s.st.OpenPosition(id)
	if !ok {
		return model.HistoryEntry{}, fmt.Errorf("close %d: %w", id, domain.ErrPositionNotOpen)
	}
	return s.issuer.Close(ctx, pos)
}
