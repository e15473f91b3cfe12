package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tradedash/internal/domain"
	"tradedash/internal/domain/model"
)

func TestAccountSyncOverwrites(t *testing.T) {
	api := &MockTradingAPI{}
	st := NewState()
	st.SetAccount(model.NewAccount(dec("1"), dec("1")))
	api.On("Account", mock.Anything).Return(model.Account{Cash: dec("10000.004"), Asset: dec("0.123456789")}, nil).Once()

	require.NoError(t, NewAccountSync(api, st, newReports()).Sync(context.Background()))

	acc := st.Snapshot().Account
	assert.Equal(t, "10000.00", acc.Cash.StringFixed(2))
	assert.True(t, acc.Asset.Equal(dec("0.12345679")), "asset rounds to 8 places, got %s", acc.Asset)
}

func TestAccountSyncFailureRetainsAccount(t *testing.T) {
	api := &MockTradingAPI{}
	st := NewState()
	rep := newReports()
	prev := model.NewAccount(dec("500"), dec("0.2"))
	st.SetAccount(prev)
	api.On("Account", mock.Anything).Return(model.Account{}, errNetwork).Once()

	err := NewAccountSync(api, st, rep).Sync(context.Background())
	require.ErrorIs(t, err, errNetwork)
	assert.True(t, st.Snapshot().Account.Equal(prev))
	assert.Len(t, rep.For(componentAccount), 1)
}

func TestAccountSyncReportsNegativeBalance(t *testing.T) {
	api := &MockTradingAPI{}
	st := NewState()
	rep := newReports()
	api.On("Account", mock.Anything).Return(model.Account{Cash: dec("-3.5"), Asset: dec("0")}, nil).Once()

	require.NoError(t, NewAccountSync(api, st, rep).Sync(context.Background()))

	assert.True(t, st.Snapshot().Account.Cash.Equal(dec("-3.5")))
	errs := rep.For(componentAccount)
	require.Len(t, errs, 1)
	assert.ErrorIs(t, errs[0], domain.ErrNegativeBalance)
}

func TestAccountSyncLastWriteWins(t *testing.T) {
	api := &MockTradingAPI{}
	st := NewState()
	api.On("Account", mock.Anything).Return(model.Account{Cash: dec("1"), Asset: dec("0")}, nil).Once()
	api.On("Account", mock.Anything).Return(model.Account{Cash: dec("2"), Asset: dec("0")}, nil).Once()

	syncer := NewAccountSync(api, st, newReports())
	require.NoError(t, syncer.Sync(context.Background()))
	require.NoError(t, syncer.Sync(context.Background()))

	assert.True(t, st.Snapshot().Account.Cash.Equal(dec("2")))
}
