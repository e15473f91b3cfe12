package postgres

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedash/internal/domain/model"
)

// Runs against a live database when TRADEDASH_PG_DSN is set.
func TestRepoAgainstPostgres(t *testing.T) {
	dsn := os.Getenv("TRADEDASH_PG_DSN")
	if dsn == "" {
		t.Skip("TRADEDASH_PG_DSN not set")
	}
	ctx := context.Background()
	r, err := New(dsn)
	require.NoError(t, err)
	defer r.Close()

	id := time.Now().UnixNano()
	pos := model.Position{ID: id, Side: model.SideSell, Price: decimal.NewFromInt(100), Amount: decimal.NewFromInt(1), Timestamp: time.Now()}
	require.NoError(t, r.InsertOrder(ctx, pos))
	require.NoError(t, r.InsertOrder(ctx, pos), "duplicate insert is ignored")

	closePrice := decimal.NewFromInt(99)
	require.NoError(t, r.CloseOrder(ctx, model.NewHistoryEntry(pos, time.Now(), &closePrice)))

	var status string
	require.NoError(t, r.db.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = $1`, id).Scan(&status))
	assert.Equal(t, "closed", status)

	require.NoError(t, r.UpsertLatestPrice(ctx, decimal.NewFromInt(1), 1))
	require.NoError(t, r.InsertSnapshot(ctx, 1, `{"price":"1"}`))
}
