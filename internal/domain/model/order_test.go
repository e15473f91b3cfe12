package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedash/internal/domain"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestParseSide(t *testing.T) {
	s, err := ParseSide(" BUY ")
	require.NoError(t, err)
	assert.Equal(t, SideBuy, s)

	s, err = ParseSide("sell")
	require.NoError(t, err)
	assert.Equal(t, SideSell, s)

	_, err = ParseSide("hold")
	assert.ErrorIs(t, err, domain.ErrInvalidSide)
}

func TestNewAccountRounding(t *testing.T) {
	a := NewAccount(d("9369.995"), d("0.123456785"))
	assert.Equal(t, "9370.00", a.Cash.StringFixed(2))
	assert.Equal(t, "0.12345679", a.Asset.StringFixed(8))

	// half away from zero on the negative side too
	assert.True(t, NewAccount(d("-0.005"), d("0")).Cash.Equal(d("-0.01")))
	assert.True(t, NewAccount(d("-0.005"), d("0")).Negative())
	assert.False(t, a.Negative())
}

func TestAccountEqualIgnoresScale(t *testing.T) {
	assert.True(t, NewAccount(d("10"), d("0.5")).Equal(Account{Cash: d("10.00"), Asset: d("0.50000000")}))
}

func TestNotionalAndAssetValue(t *testing.T) {
	p := Position{Price: d("63000.5"), Amount: d("0.01")}
	assert.Equal(t, "630.01", p.Notional().StringFixed(2))

	snap := Snapshot{Price: d("100"), Account: NewAccount(d("0"), d("0.333"))}
	assert.Equal(t, "33.30", snap.AssetValue().StringFixed(2))
}

func TestNewHistoryEntryUsesCloseTime(t *testing.T) {
	opened := Position{ID: 3, Side: SideSell}
	closePrice := d("99")
	h := NewHistoryEntry(opened, opened.Timestamp.AddDate(0, 0, 1), &closePrice)

	assert.Equal(t, StatusClosed, h.Status)
	assert.Equal(t, int64(3), h.ID)
	assert.Equal(t, opened.Timestamp.AddDate(0, 0, 1), h.Timestamp)
	assert.Same(t, &closePrice, h.ClosePrice)
}
