package engine

import (
	"time"

	"github.com/betzbotz1/betzbotz-bot1/pkg/types"
)

// ledger is the in-process registry of open positions and closed-trade
// history. Lookups go through a map keyed by token ID; a parallel slice
// preserves insertion order for iteration. Not safe for concurrent use:
// the engine's mutex is the single serialization point.
type ledger struct {
	byToken  map[string]*Position
	order    []string // token IDs, insertion order
	history  []TradeRecord
	realized float64 // accumulated PnL from fully closed positions
}

func newLedger() *ledger {
	return &ledger{
		byToken: make(map[string]*Position),
	}
}

// insert appends a position to the open set. At most one open position
// may exist per token ID.
func (l *ledger) insert(p *Position) error {
	if _, exists := l.byToken[p.TokenID]; exists {
		return types.ErrDuplicatePosition
	}

	l.byToken[p.TokenID] = p
	l.order = append(l.order, p.TokenID)
	return nil
}

// findOpen returns the open position for a token, or nil.
func (l *ledger) findOpen(tokenID string) *Position {
	return l.byToken[tokenID]
}

// openPositions returns the open positions in insertion order.
func (l *ledger) openPositions() []*Position {
	positions := make([]*Position, 0, len(l.order))
	for _, tokenID := range l.order {
		if p, ok := l.byToken[tokenID]; ok {
			positions = append(positions, p)
		}
	}
	return positions
}

// openTokenIDs returns a copy of the open token IDs in insertion order.
// Callers iterate the copy so closes during iteration are safe.
func (l *ledger) openTokenIDs() []string {
	ids := make([]string, len(l.order))
	copy(ids, l.order)
	return ids
}

// close fully liquidates a position: its unrealized PnL is folded into
// the realized total, a closed snapshot is appended to history, and the
// position leaves the open set. Returns the history record.
func (l *ledger) close(tokenID string, closedAt time.Time) (TradeRecord, bool) {
	p, ok := l.byToken[tokenID]
	if !ok {
		return TradeRecord{}, false
	}

	l.realized += p.UnrealizedPnL()

	p.Status = StatusClosed
	record := p.Snapshot()
	record.ClosedAt = &closedAt
	l.history = append(l.history, record)

	delete(l.byToken, tokenID)
	for i, id := range l.order {
		if id == tokenID {
			l.order = append(l.order[:i], l.order[i+1:]...)
			break
		}
	}

	return record, true
}

// reduce shrinks a position's shares by the given fraction of the current
// holding. The position stays open. Realized PnL is NOT credited for the
// sold fraction; only a full close realizes PnL.
func (l *ledger) reduce(tokenID string, fraction float64) bool {
	p, ok := l.byToken[tokenID]
	if !ok {
		return false
	}

	p.Shares -= p.Shares * fraction
	return true
}

// snapshotHistory returns a copy of the closed-trade history.
func (l *ledger) snapshotHistory() []TradeRecord {
	records := make([]TradeRecord, len(l.history))
	copy(records, l.history)
	return records
}
