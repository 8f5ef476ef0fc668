package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/pkg/config"
	"github.com/betzbotz1/betzbotz-bot1/pkg/types"
)

func bidBook(tokenID, price string) *types.Orderbook {
	return &types.Orderbook{
		AssetID: tokenID,
		Bids:    []types.PriceLevel{{Price: price, Size: "1000"}},
	}
}

func TestCheckTakeProfitsFiresLowestQualifyingTier(t *testing.T) {
	gw := &fakeGateway{books: map[string]*types.Orderbook{}}
	e := New(&Config{
		Gateway:       gw,
		MaxBetPerSide: 0.50,
		Tiers: []config.TakeProfitTier{
			{Multiplier: 2, SellPercent: 25},
			{Multiplier: 3, SellPercent: 25},
		},
		Logger: zap.NewNop(),
	})

	_, err := e.ExecuteBuy(context.Background(), testOpportunity("tok-1", 1.0))
	require.NoError(t, err)

	// 2.5x sits past the 2x tier but short of 3x: only the 2x tier fires,
	// selling its 25% once.
	gw.books["tok-1"] = bidBook("tok-1", "2.5")
	e.CheckTakeProfits(context.Background())

	require.Len(t, gw.sells, 1)
	assert.Equal(t, "tok-1", gw.sells[0].tokenID)
	assert.Equal(t, 25.0, gw.sells[0].percent)

	positions := e.Positions()
	require.Len(t, positions, 1)
	assert.InDelta(t, 0.375, positions[0].Shares, 1e-9)
	assert.InDelta(t, 2.5, positions[0].CurrentPrice, 1e-9)
}

func TestCheckTakeProfitsRetriggersSameTierNextSweep(t *testing.T) {
	gw := &fakeGateway{books: map[string]*types.Orderbook{}}
	e := newTestEngine(gw)

	_, err := e.ExecuteBuy(context.Background(), testOpportunity("tok-1", 0.05))
	require.NoError(t, err)

	// The price holds above 2x across two sweeps: the 2x tier fires both
	// times, each shaving another 25% of what remains.
	gw.books["tok-1"] = bidBook("tok-1", "0.12")
	e.CheckTakeProfits(context.Background())
	e.CheckTakeProfits(context.Background())

	require.Len(t, gw.sells, 2)
	assert.Equal(t, 25.0, gw.sells[0].percent)
	assert.Equal(t, 25.0, gw.sells[1].percent)

	positions := e.Positions()
	require.Len(t, positions, 1)
	assert.InDelta(t, 10*0.75*0.75, positions[0].Shares, 1e-9)
}

func TestCheckTakeProfitsBelowFirstTierDoesNothing(t *testing.T) {
	gw := &fakeGateway{books: map[string]*types.Orderbook{}}
	e := newTestEngine(gw)

	_, err := e.ExecuteBuy(context.Background(), testOpportunity("tok-1", 0.05))
	require.NoError(t, err)

	gw.books["tok-1"] = bidBook("tok-1", "0.09")
	e.CheckTakeProfits(context.Background())

	assert.Empty(t, gw.sells)
	positions := e.Positions()
	require.Len(t, positions, 1)
	assert.InDelta(t, 10.0, positions[0].Shares, 1e-9)
	assert.InDelta(t, 0.09, positions[0].CurrentPrice, 1e-9)
}

func TestCheckTakeProfitsToleratesMissingBook(t *testing.T) {
	gw := &fakeGateway{books: map[string]*types.Orderbook{}}
	e := newTestEngine(gw)

	_, err := e.ExecuteBuy(context.Background(), testOpportunity("tok-1", 0.05))
	require.NoError(t, err)

	// No book for the token: the stale mark (the entry price, 1x) stands
	// and no tier fires.
	e.CheckTakeProfits(context.Background())

	assert.Empty(t, gw.sells)
	positions := e.Positions()
	require.Len(t, positions, 1)
	assert.InDelta(t, 0.05, positions[0].CurrentPrice, 1e-9)
}

func TestCheckTakeProfitsEmptyBidsKeepsPreviousMark(t *testing.T) {
	gw := &fakeGateway{books: map[string]*types.Orderbook{}}
	e := newTestEngine(gw)

	_, err := e.ExecuteBuy(context.Background(), testOpportunity("tok-1", 0.05))
	require.NoError(t, err)

	gw.books["tok-1"] = &types.Orderbook{AssetID: "tok-1"}
	e.CheckTakeProfits(context.Background())

	positions := e.Positions()
	require.Len(t, positions, 1)
	assert.InDelta(t, 0.05, positions[0].CurrentPrice, 1e-9)
}

func TestCheckTakeProfitsSellFailureKeepsShares(t *testing.T) {
	gw := &fakeGateway{books: map[string]*types.Orderbook{}}
	e := newTestEngine(gw)

	_, err := e.ExecuteBuy(context.Background(), testOpportunity("tok-1", 0.05))
	require.NoError(t, err)

	gw.books["tok-1"] = bidBook("tok-1", "0.15")
	gw.sellErr = types.ErrGatewayUnavailable
	e.CheckTakeProfits(context.Background())

	positions := e.Positions()
	require.Len(t, positions, 1)
	assert.InDelta(t, 10.0, positions[0].Shares, 1e-9)

	// Once the venue recovers the same tier fires again.
	gw.sellErr = nil
	e.CheckTakeProfits(context.Background())

	require.Len(t, gw.sells, 1)
	positions = e.Positions()
	require.Len(t, positions, 1)
	assert.InDelta(t, 7.5, positions[0].Shares, 1e-9)
}

func TestCheckTakeProfitsFullCloseTier(t *testing.T) {
	gw := &fakeGateway{books: map[string]*types.Orderbook{}}
	e := New(&Config{
		Gateway:       gw,
		MaxBetPerSide: 0.50,
		Tiers: []config.TakeProfitTier{
			{Multiplier: 2, SellPercent: 100},
		},
		Logger: zap.NewNop(),
	})

	_, err := e.ExecuteBuy(context.Background(), testOpportunity("tok-1", 0.05))
	require.NoError(t, err)

	gw.books["tok-1"] = bidBook("tok-1", "0.10")
	e.CheckTakeProfits(context.Background())

	assert.Zero(t, e.OpenCount())
	// 10 shares marked at 0.10 against a 0.50 basis.
	assert.InDelta(t, 0.50, e.RealizedPnLTotal(), 1e-9)
	assert.Len(t, e.History(), 1)
}

func TestCheckTakeProfitsSweepsMultiplePositions(t *testing.T) {
	gw := &fakeGateway{books: map[string]*types.Orderbook{}}
	e := newTestEngine(gw)

	_, err := e.ExecuteBuy(context.Background(), testOpportunity("tok-1", 0.05))
	require.NoError(t, err)
	_, err = e.ExecuteBuy(context.Background(), testOpportunity("tok-2", 0.05))
	require.NoError(t, err)

	gw.books["tok-1"] = bidBook("tok-1", "0.12")
	gw.books["tok-2"] = bidBook("tok-2", "0.06")
	e.CheckTakeProfits(context.Background())

	require.Len(t, gw.sells, 1)
	assert.Equal(t, "tok-1", gw.sells[0].tokenID)
}
