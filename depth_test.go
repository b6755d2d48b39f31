package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDepth(t *testing.T) {
	market := NewMarket(nil)

	require.NoError(t, market.SubmitBuy(100, 1, 1))
	require.NoError(t, market.SubmitBuy(101, 3, 2))
	require.NoError(t, market.SubmitBuy(100, 2, 3))
	require.NoError(t, market.SubmitSell(104, 4, 4))
	require.NoError(t, market.SubmitSell(103, 1, 5))
	require.NoError(t, market.SubmitSell(104, 1, 6))

	assert.Equal(t, []DepthItem{
		{Price: 101, Quantity: 3, Count: 1},
		{Price: 100, Quantity: 3, Count: 2},
	}, market.Depth(Buy, 0))

	assert.Equal(t, []DepthItem{
		{Price: 103, Quantity: 1, Count: 1},
		{Price: 104, Quantity: 5, Count: 2},
	}, market.Depth(Sell, 0))

	assert.Equal(t, []DepthItem{{Price: 103, Quantity: 1, Count: 1}}, market.Depth(Sell, 1))
	assert.Len(t, market.Depth(Buy, 10), 2)
}

func TestDepthEmpty(t *testing.T) {
	market := NewMarket(nil)
	assert.Empty(t, market.Depth(Buy, 0))
	assert.Empty(t, market.Depth(Sell, 5))
}
