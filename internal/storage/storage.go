// Package storage persists closed-trade records. The engine treats its
// in-memory ledger as the source of truth; storage is a best-effort sink
// for reporting and post-mortems.
package storage

import (
	"context"

	"github.com/betzbotz1/betzbotz-bot1/internal/engine"
)

// Storage is the sink for closed trades.
type Storage interface {
	// StoreTrade records a fully closed trade.
	StoreTrade(ctx context.Context, record *engine.TradeRecord) error

	// Close closes the storage connection.
	Close() error
}
