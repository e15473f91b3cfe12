package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"tradedash/internal/application/port"
	"tradedash/internal/domain"
	"tradedash/internal/domain/model"
)

// Issuer submits trade commands and applies only server-confirmed results. Nothing is
// applied optimistically, so a failed round trip never needs rolling back.
type Issuer struct {
	api      port.TradingAPI
	st       *State
	repo     port.Repository
	reporter port.Reporter

	// afterConfirm runs once a trade or close has been applied.
	afterConfirm func(ctx context.Context)
}

func NewIssuer(api port.TradingAPI, st *State, repo port.Repository, reporter port.Reporter) *Issuer {
	return &Issuer{api: api, st: st, repo: repo, reporter: reporter}
}

// OnConfirm sets the hook run after every applied trade or close.
func (i *Issuer) OnConfirm(fn func(ctx context.Context)) {
	i.afterConfirm = fn
}

func (i *Issuer) Buy(ctx context.Context, amount decimal.Decimal) (model.Position, error) {
	return i.trade(ctx, model.SideBuy, amount)
}

func (i *Issuer) Sell(ctx context.Context, amount decimal.Decimal) (model.Position, error) {
	return i.trade(ctx, model.SideSell, amount)
}

func (i *Issuer) trade(ctx context.Context, side model.Side, amount decimal.Decimal) (model.Position, error) {
	if !amount.IsPositive() {
		return model.Position{}, i.fail(fmt.Errorf("%s %s: %w", side, amount, domain.ErrInvalidAmount))
	}
	if i.st.Closed() {
		return model.Position{}, domain.ErrSessionClosed
	}

	res, err := i.api.Trade(ctx, side, amount)
	if err != nil {
		return model.Position{}, i.fail(fmt.Errorf("%s %s: %w", side, amount, err))
	}

	pos := model.Position{
		ID:        res.OrderID,
		Side:      side,
		Price:     res.Price,
		Amount:    amount,
		Timestamp: res.Timestamp,
	}
	if i.st.Closed() {
		return pos, domain.ErrSessionClosed
	}
	i.st.PrependOpen(pos)
	applyAccount(i.st, i.reporter, componentIssuer, res.Account)

	if err := i.repo.InsertOrder(ctx, pos); err != nil {
		i.reporter.Report(componentJournal, err)
	}
	i.confirmed(ctx)
	return pos, nil
}

// Close closes pos on the service. When the id is no longer open locally the account is
// still applied and ErrPositionNotOpen is returned alongside the entry.
func (i *Issuer) Close(ctx context.Context, pos model.Position) (model.HistoryEntry, error) {
	if i.st.Closed() {
		return model.HistoryEntry{}, domain.ErrSessionClosed
	}

	res, err := i.api.Close(ctx, pos.ID)
	if err != nil {
		return model.HistoryEntry{}, i.fail(fmt.Errorf("close %d: %w", pos.ID, err))
	}

	moved, ok := i.st.MoveToHistory(pos, res.Timestamp, res.ClosePrice)
	if !ok {
		return model.NewHistoryEntry(pos, res.Timestamp, res.ClosePrice), domain.ErrSessionClosed
	}
	applyAccount(i.st, i.reporter, componentIssuer, res.Account)

	if moved.Appended {
		if err := i.repo.CloseOrder(ctx, moved.Entry); err != nil {
			i.reporter.Report(componentJournal, err)
		}
	}
	i.confirmed(ctx)

	if !moved.WasOpen {
		return moved.Entry, i.fail(fmt.Errorf("close %d: %w", pos.ID, domain.ErrPositionNotOpen))
	}
	return moved.Entry, nil
}

func (i *Issuer) confirmed(ctx context.Context) {
	if i.afterConfirm != nil {
		i.afterConfirm(ctx)
	}
}

func (i *Issuer) fail(err error) error {
	i.reporter.Report(componentIssuer, err)
	return err
}
