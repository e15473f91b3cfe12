package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeDefaults(t *testing.T) {
	cfg, err := Decode("")
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.PollInterval())
	assert.Equal(t, 500*time.Millisecond, cfg.Pulse())
	assert.Equal(t, 5*time.Second, cfg.ServiceTimeout())
	assert.Equal(t, 5*time.Minute, cfg.SnapshotEvery())
	assert.Equal(t, "0.01", cfg.Trade.Amount.String())
	assert.Equal(t, "BTC", cfg.App.Base)
	assert.Equal(t, "USDT", cfg.App.Quote)
	assert.Equal(t, "http://localhost:8000", cfg.Service.BaseURL)
	assert.False(t, cfg.Storage.Enabled)
}

func TestDecodeOverrides(t *testing.T) {
	cfg, err := Decode(`
[app]
base = "eth"
quote = " usdc "

[service]
base_url = "http://trading.internal:9000"
timeout_ms = 1500

[poller]
interval_sec = 7
pulse_ms = 250

[trade]
amount = "0.25"

[storage]
enabled = true

[storage.redis]
enabled = true
addr = "127.0.0.1:6379"
`)
	require.NoError(t, err)

	assert.Equal(t, "ETH", cfg.App.Base)
	assert.Equal(t, "USDC", cfg.App.Quote)
	assert.Equal(t, 7*time.Second, cfg.PollInterval())
	assert.Equal(t, 250*time.Millisecond, cfg.Pulse())
	assert.Equal(t, 1500*time.Millisecond, cfg.ServiceTimeout())
	assert.Equal(t, "0.25", cfg.Trade.Amount.String())
	assert.Equal(t, "tradedash", cfg.Storage.Redis.Prefix)
}

func TestDecodeValidation(t *testing.T) {
	cases := map[string]string{
		"interval below range": "[poller]\ninterval_sec = 2\n",
		"interval above range": "[poller]\ninterval_sec = 11\n",
		"pulse too long":       "[poller]\ninterval_sec = 5\npulse_ms = 5000\n",
		"negative amount":      "[trade]\namount = \"-1\"\n",
		"bad url":              "[service]\nbase_url = \"localhost\"\n",
		"redis without addr":   "[storage.redis]\nenabled = true\n",
		"postgres without dsn": "[storage.postgres]\nenabled = true\n",
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(doc)
			assert.Error(t, err)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[poller]\ninterval_sec = 10\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.PollInterval())

	_, err = Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}
