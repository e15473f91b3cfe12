package container

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedash/internal/infrastructure/config"
)

func TestContainerWithSQLite(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.Enabled = true
	cfg.Storage.SQLite.Enabled = true
	cfg.Storage.SQLite.Path = filepath.Join(t.TempDir(), "container.db")

	c, err := New(cfg)
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.SQLiteRepo())
	repo := c.Repository()
	require.NotNil(t, repo)
	require.NoError(t, repo.UpsertLatestPrice(context.Background(), decimal.NewFromInt(100), 1))

	var n int
	require.NoError(t, c.SQLiteRepo().GetDB().QueryRow(`SELECT COUNT(*) FROM prices`).Scan(&n))
	assert.Equal(t, 1, n)
}

func TestContainerStorageDisabled(t *testing.T) {
	cfg := &config.Config{}
	cfg.Storage.SQLite.Enabled = true // ignored while storage is disabled

	c, err := New(cfg)
	require.NoError(t, err)

	assert.Nil(t, c.SQLiteRepo())
	assert.Nil(t, c.Repository())
	assert.NoError(t, c.Close())
	assert.NoError(t, c.Close())
}
