package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/shopspring/decimal"
)

type Config struct {
	App struct {
		SnapshotEveryMin int    `toml:"snapshot_every_min"`
		Base             string `toml:"base"`
		Quote            string `toml:"quote"`
	} `toml:"app"`

	Log struct {
		Level string `toml:"level"`
	} `toml:"log"`

	Service struct {
		BaseURL   string `toml:"base_url"`
		TimeoutMs int    `toml:"timeout_ms"`
	} `toml:"service"`

	Poller struct {
		IntervalSec int `toml:"interval_sec"`
		PulseMs     int `toml:"pulse_ms"`
	} `toml:"poller"`

	Trade struct {
		Amount decimal.Decimal `toml:"amount"` // string, e.g. "0.01"
	} `toml:"trade"`

	Server struct {
		Enabled bool   `toml:"enabled"`
		Addr    string `toml:"addr"`
	} `toml:"server"`

	Storage struct {
		Enabled bool `toml:"enabled"`

		SQLite struct {
			Enabled bool   `toml:"enabled"`
			Path    string `toml:"path"`
		} `toml:"sqlite"`

		Redis struct {
			Enabled      bool   `toml:"enabled"`
			Addr         string `toml:"addr"`
			Password     string `toml:"password"`
			DB           int    `toml:"db"`
			Prefix       string `toml:"prefix"`
			TTLSeconds   int    `toml:"ttl_seconds"`
			EventStream  string `toml:"event_stream"`
			EventChannel string `toml:"event_channel"`
		} `toml:"redis"`

		Postgres struct {
			Enabled bool   `toml:"enabled"`
			DSN     string `toml:"dsn"`
		} `toml:"postgres"`
	} `toml:"storage"`
}

func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Decode parses TOML from a string; used by tests and embedded defaults.
func Decode(data string) (*Config, error) {
	var cfg Config
	if _, err := toml.Decode(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.App.SnapshotEveryMin <= 0 {
		cfg.App.SnapshotEveryMin = 5
	}
	if strings.TrimSpace(cfg.App.Base) == "" {
		cfg.App.Base = "BTC"
	}
	if strings.TrimSpace(cfg.App.Quote) == "" {
		cfg.App.Quote = "USDT"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if strings.TrimSpace(cfg.Service.BaseURL) == "" {
		cfg.Service.BaseURL = "http://localhost:8000"
	}
	if cfg.Service.TimeoutMs <= 0 {
		cfg.Service.TimeoutMs = 5000
	}
	if cfg.Poller.IntervalSec <= 0 {
		cfg.Poller.IntervalSec = 5
	}
	if cfg.Poller.PulseMs <= 0 {
		cfg.Poller.PulseMs = 500
	}
	if cfg.Trade.Amount.IsZero() {
		cfg.Trade.Amount = decimal.RequireFromString("0.01")
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
	if cfg.Storage.SQLite.Path == "" {
		cfg.Storage.SQLite.Path = "data/tradedash.db"
	}
	if cfg.Storage.Redis.Prefix == "" {
		cfg.Storage.Redis.Prefix = "tradedash"
	}
}

func validate(cfg *Config) error {
	cfg.App.Base = strings.ToUpper(strings.TrimSpace(cfg.App.Base))
	cfg.App.Quote = strings.ToUpper(strings.TrimSpace(cfg.App.Quote))

	u, err := url.Parse(strings.TrimSpace(cfg.Service.BaseURL))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("service.base_url invalid: %q", cfg.Service.BaseURL)
	}
	if cfg.Poller.IntervalSec < 5 || cfg.Poller.IntervalSec > 10 {
		return fmt.Errorf("poller.interval_sec must be within 5..10, got %d", cfg.Poller.IntervalSec)
	}
	if time.Duration(cfg.Poller.PulseMs)*time.Millisecond >= cfg.PollInterval() {
		return errors.New("poller.pulse_ms must be shorter than the poll interval")
	}
	if !cfg.Trade.Amount.IsPositive() {
		return errors.New("trade.amount must be positive")
	}

	if cfg.Storage.Redis.Enabled && strings.TrimSpace(cfg.Storage.Redis.Addr) == "" {
		return errors.New("storage.redis.addr empty but enabled")
	}
	if cfg.Storage.Postgres.Enabled && strings.TrimSpace(cfg.Storage.Postgres.DSN) == "" {
		return errors.New("storage.postgres.dsn empty but enabled")
	}
	return nil
}

func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Poller.IntervalSec) * time.Second
}

func (c *Config) Pulse() time.Duration {
	return time.Duration(c.Poller.PulseMs) * time.Millisecond
}

func (c *Config) ServiceTimeout() time.Duration {
	return time.Duration(c.Service.TimeoutMs) * time.Millisecond
}

func (c *Config) SnapshotEvery() time.Duration {
	return time.Duration(c.App.SnapshotEveryMin) * time.Minute
}
