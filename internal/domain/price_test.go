package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectionOf(t *testing.T) {
	d := decimal.RequireFromString
	assert.Equal(t, DirectionUp, DirectionOf(decimal.Zero, d("1")))
	assert.Equal(t, DirectionDown, DirectionOf(d("2"), d("1.99")))
	assert.Equal(t, DirectionNeutral, DirectionOf(d("1.50"), d("1.5")))
}

func TestDirectionText(t *testing.T) {
	for _, dir := range []Direction{DirectionUp, DirectionDown, DirectionNeutral} {
		b, err := dir.MarshalText()
		require.NoError(t, err)

		var back Direction
		require.NoError(t, back.UnmarshalText(b))
		assert.Equal(t, dir, back)
	}

	var d Direction
	assert.Error(t, d.UnmarshalText([]byte("sideways")))
}

func TestQuantizePrice(t *testing.T) {
	q, err := QuantizePrice(decimal.RequireFromString("63000.125"))
	require.NoError(t, err)
	assert.Equal(t, "63000.13", q.StringFixed(PricePlaces))

	_, err = QuantizePrice(decimal.Zero)
	assert.ErrorIs(t, err, ErrNonPositivePrice)

	// rounds to zero
	_, err = QuantizePrice(decimal.RequireFromString("0.004"))
	assert.ErrorIs(t, err, ErrNonPositivePrice)
}
