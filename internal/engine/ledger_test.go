package engine

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/betzbotz1/betzbotz-bot1/pkg/types"
)

func openPosition(tokenID string, entry, shares, current float64) *Position {
	return &Position{
		TokenID:        tokenID,
		MarketID:       "market-" + tokenID,
		MarketQuestion: "Will it happen?",
		Side:           types.SideBuy,
		EntryPrice:     entry,
		Shares:         shares,
		CurrentPrice:   current,
		CreatedAt:      time.Date(2026, 1, 15, 12, 0, 0, 0, time.UTC),
		Status:         StatusOpen,
	}
}

func TestLedgerInsertRejectsDuplicate(t *testing.T) {
	l := newLedger()

	require.NoError(t, l.insert(openPosition("tok-1", 0.05, 10, 0.05)))

	err := l.insert(openPosition("tok-1", 0.04, 12, 0.04))
	assert.ErrorIs(t, err, types.ErrDuplicatePosition)
	assert.Len(t, l.order, 1)
}

func TestLedgerOpenPositionsInsertionOrder(t *testing.T) {
	l := newLedger()

	for _, id := range []string{"tok-c", "tok-a", "tok-b"} {
		require.NoError(t, l.insert(openPosition(id, 0.05, 10, 0.05)))
	}

	positions := l.openPositions()
	require.Len(t, positions, 3)
	assert.Equal(t, "tok-c", positions[0].TokenID)
	assert.Equal(t, "tok-a", positions[1].TokenID)
	assert.Equal(t, "tok-b", positions[2].TokenID)
}

func TestLedgerCloseRealizesPnL(t *testing.T) {
	l := newLedger()

	// Cost basis 0.50, current value 1.25: unrealized PnL 0.75.
	require.NoError(t, l.insert(openPosition("tok-1", 0.05, 10, 0.125)))

	closedAt := time.Date(2026, 2, 1, 9, 30, 0, 0, time.UTC)
	record, ok := l.close("tok-1", closedAt)
	require.True(t, ok)

	assert.InDelta(t, 0.75, l.realized, 1e-9)
	assert.Equal(t, StatusClosed, record.Status)
	require.NotNil(t, record.ClosedAt)
	assert.Equal(t, closedAt, *record.ClosedAt)

	assert.Nil(t, l.findOpen("tok-1"))
	assert.Empty(t, l.order)
	require.Len(t, l.history, 1)
	assert.Equal(t, "tok-1", l.history[0].TokenID)
}

func TestLedgerCloseAccumulatesRealized(t *testing.T) {
	l := newLedger()

	require.NoError(t, l.insert(openPosition("tok-1", 0.05, 10, 0.10))) // +0.50
	require.NoError(t, l.insert(openPosition("tok-2", 0.10, 5, 0.05)))  // -0.25

	now := time.Now()
	_, ok := l.close("tok-1", now)
	require.True(t, ok)
	_, ok = l.close("tok-2", now)
	require.True(t, ok)

	assert.InDelta(t, 0.25, l.realized, 1e-9)
	assert.Len(t, l.history, 2)
}

func TestLedgerCloseUnknownToken(t *testing.T) {
	l := newLedger()

	_, ok := l.close("tok-missing", time.Now())
	assert.False(t, ok)
	assert.Zero(t, l.realized)
	assert.Empty(t, l.history)
}

func TestLedgerReduceKeepsPositionOpen(t *testing.T) {
	l := newLedger()

	require.NoError(t, l.insert(openPosition("tok-1", 0.05, 10, 0.15)))

	require.True(t, l.reduce("tok-1", 0.5))

	p := l.findOpen("tok-1")
	require.NotNil(t, p)
	assert.InDelta(t, 5.0, p.Shares, 1e-9)
	assert.Equal(t, StatusOpen, p.Status)

	// A partial close moves nothing into realized PnL or history.
	assert.Zero(t, l.realized)
	assert.Empty(t, l.history)
}

func TestLedgerReduceUnknownToken(t *testing.T) {
	l := newLedger()
	assert.False(t, l.reduce("tok-missing", 0.25))
}

func TestLedgerOpenTokenIDsIsACopy(t *testing.T) {
	l := newLedger()

	require.NoError(t, l.insert(openPosition("tok-1", 0.05, 10, 0.05)))
	require.NoError(t, l.insert(openPosition("tok-2", 0.05, 10, 0.05)))

	ids := l.openTokenIDs()
	_, ok := l.close("tok-1", time.Now())
	require.True(t, ok)

	// The snapshot taken before the close is unaffected.
	assert.Equal(t, []string{"tok-1", "tok-2"}, ids)
	assert.Equal(t, []string{"tok-2"}, l.order)
}

func TestPositionMath(t *testing.T) {
	p := openPosition("tok-1", 0.04, 12.5, 0.10)

	assert.InDelta(t, 0.50, p.CostBasis(), 1e-9)
	assert.InDelta(t, 1.25, p.CurrentValue(), 1e-9)
	assert.InDelta(t, 0.75, p.UnrealizedPnL(), 1e-9)
	assert.InDelta(t, 150.0, p.UnrealizedPnLPct(), 1e-9)
}

func TestPositionPnLPctZeroBasis(t *testing.T) {
	p := openPosition("tok-1", 0, 0, 0.10)
	assert.Zero(t, p.UnrealizedPnLPct())
}

func TestTruncateQuestionRuneBoundaries(t *testing.T) {
	long := strings.Repeat("ü", 45)
	got := truncateQuestion(long, 40)

	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("ü", 40)+"...", got)

	short := "Will it happen?"
	assert.Equal(t, short, truncateQuestion(short, 40))
}

func TestSnapshotRounding(t *testing.T) {
	p := openPosition("tok-1", 0.03, 16.666667, 0.07)

	snap := p.Snapshot()
	assert.InDelta(t, 0.67, snap.UnrealizedPnL, 1e-9)
	assert.InDelta(t, 133.3, snap.UnrealizedPnLPct, 1e-9)
	assert.Equal(t, p.Shares, snap.Shares)
}
