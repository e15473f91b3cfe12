package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tradedash/internal/application/port"
	"tradedash/internal/domain"
	"tradedash/internal/domain/model"
)

func TestOrderFetcherPartitionsOpenAndClosed(t *testing.T) {
	api := &MockTradingAPI{}
	api.On("Orders", mock.Anything).Return([]port.Order{
		{ID: 1, Side: model.SideBuy, Price: dec("100"), Amount: dec("0.5"), CreatedAt: ts(0), Status: model.StatusOpen},
		{ID: 2, Side: model.SideSell, Price: dec("110"), Amount: dec("0.3"), CreatedAt: ts(0), ClosedAt: ts(1), Status: model.StatusClosed},
	}, nil).Once()

	st := NewState()
	f := NewOrderFetcher(api, st, newReports())
	require.NoError(t, f.Load(context.Background()))

	snap := st.Snapshot()
	require.Len(t, snap.Open, 1)
	assert.Equal(t, model.Position{ID: 1, Side: model.SideBuy, Price: dec("100"), Amount: dec("0.5"), Timestamp: ts(0)}, snap.Open[0])

	require.Len(t, snap.History, 1)
	h := snap.History[0]
	assert.Equal(t, int64(2), h.ID)
	assert.Equal(t, model.SideSell, h.Side)
	assert.True(t, h.Price.Equal(dec("110")))
	assert.True(t, h.Amount.Equal(dec("0.3")))
	assert.Equal(t, ts(1), h.Timestamp)
	assert.Equal(t, model.StatusClosed, h.Status)

	// exactly once per session
	require.ErrorIs(t, f.Load(context.Background()), domain.ErrOrdersAlreadyLoaded)
	api.AssertExpectations(t)
}

func TestOrderFetcherFailureLeavesEmptyState(t *testing.T) {
	api := &MockTradingAPI{}
	api.On("Orders", mock.Anything).Return(nil, errNetwork).Once()

	st := NewState()
	rep := newReports()
	f := NewOrderFetcher(api, st, rep)

	require.ErrorIs(t, f.Load(context.Background()), errNetwork)
	snap := st.Snapshot()
	assert.Empty(t, snap.Open)
	assert.Empty(t, snap.History)
	assert.Len(t, rep.For(componentOrders), 1)

	// not retried
	require.ErrorIs(t, f.Load(context.Background()), domain.ErrOrdersAlreadyLoaded)
	api.AssertNumberOfCalls(t, "Orders", 1)
}

func TestPartitionSkipsUnknownStatus(t *testing.T) {
	open, history, skipped := Partition([]port.Order{
		{ID: 1, Status: model.StatusOpen},
		{ID: 2, Status: "pending"},
		{ID: 3, Status: model.StatusClosed, ClosedAt: ts(9)},
	})
	assert.Len(t, open, 1)
	require.Len(t, history, 1)
	assert.Equal(t, ts(9), history[0].Timestamp)
	require.Len(t, skipped, 1)
	assert.Equal(t, int64(2), skipped[0].ID)
}
