package dashboard

import (
	"context"
	"fmt"

	"tradedash/internal/application/port"
	"tradedash/internal/domain"
	"tradedash/internal/domain/model"
)

// AccountSync overwrites the account from GET /account.
type AccountSync struct {
	api      port.TradingAPI
	st       *State
	reporter port.Reporter
}

func NewAccountSync(api port.TradingAPI, st *State, reporter port.Reporter) *AccountSync {
	return &AccountSync{api: api, st: st, reporter: reporter}
}

func (a *AccountSync) Sync(ctx context.Context) error {
	acc, err := a.api.Account(ctx)
	if err != nil {
		err = fmt.Errorf("fetch account: %w", err)
		a.reporter.Report(componentAccount, err)
		return err
	}
	applyAccount(a.st, a.reporter, componentAccount, acc)
	return nil
}

// applyAccount installs acc as reported. A negative balance is surfaced, not corrected.
func applyAccount(st *State, reporter port.Reporter, component string, acc model.Account) bool {
	acc = model.NewAccount(acc.Cash, acc.Asset)
	if acc.Negative() {
		reporter.Report(component, fmt.Errorf("%w: cash=%s asset=%s", domain.ErrNegativeBalance, acc.Cash, acc.Asset))
	}
	return st.SetAccount(acc)
}
