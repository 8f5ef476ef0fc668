// Package engine owns the position lifecycle: it sizes and opens
// positions for scanned opportunities, runs the tiered take-profit sweep,
// and keeps the ledger of open positions and realized PnL.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/internal/scanner"
	"github.com/betzbotz1/betzbotz-bot1/pkg/config"
	"github.com/betzbotz1/betzbotz-bot1/pkg/types"
)

// Gateway is the venue surface the engine needs.
type Gateway interface {
	GetOrderbook(ctx context.Context, tokenID string) (*types.Orderbook, error)
	PlaceOrder(ctx context.Context, tokenID, side string, price, size float64) (*types.OrderResult, error)
	SellPosition(ctx context.Context, tokenID string, percent float64) (*types.SellResult, error)
}

// Storage receives closed-trade records. Writes are best effort; the
// in-memory ledger remains the source of truth.
type Storage interface {
	StoreTrade(ctx context.Context, record *TradeRecord) error
	Close() error
}

// SellConfirmation is returned by ExecuteSell.
type SellConfirmation struct {
	Status  string  `json:"status"`
	Percent float64 `json:"percent"`
}

// Engine orchestrates buys, sells, and the take-profit sweep. All state
// mutation is serialized through one mutex: the scan loop, the sweep
// loop, and REST handlers never interleave inside the ledger.
type Engine struct {
	gateway       Gateway
	storage       Storage
	maxBetPerSide float64
	tiers         []config.TakeProfitTier
	logger        *zap.Logger
	now           func() time.Time

	mu     sync.Mutex
	ledger *ledger
}

// Config holds engine configuration.
type Config struct {
	Gateway       Gateway
	Storage       Storage // optional
	MaxBetPerSide float64
	// Tiers must ascend by multiplier; the sweep fires the first tier
	// the price multiplier meets.
	Tiers  []config.TakeProfitTier
	Logger *zap.Logger
}

// New creates a new trading engine with an empty ledger.
func New(cfg *Config) *Engine {
	return &Engine{
		gateway:       cfg.Gateway,
		storage:       cfg.Storage,
		maxBetPerSide: cfg.MaxBetPerSide,
		tiers:         cfg.Tiers,
		logger:        cfg.Logger,
		now:           time.Now,
		ledger:        newLedger(),
	}
}

// ExecuteBuy sizes and places a buy order for the opportunity and, on
// success, records the new position. A gateway failure leaves no partial
// state behind.
func (e *Engine) ExecuteBuy(ctx context.Context, opp *scanner.Opportunity) (*Position, error) {
	if opp.EntryPrice <= 0 {
		e.logger.Warn("invalid-entry-price",
			zap.String("token-id", opp.TokenID),
			zap.Float64("entry-price", opp.EntryPrice))
		return nil, fmt.Errorf("execute buy %s: %w", opp.TokenID, types.ErrInvalidSize)
	}

	size := e.maxBetPerSide / opp.EntryPrice

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ledger.findOpen(opp.TokenID) != nil {
		return nil, fmt.Errorf("execute buy %s: %w", opp.TokenID, types.ErrDuplicatePosition)
	}

	result, err := e.gateway.PlaceOrder(ctx, opp.TokenID, types.SideBuy, opp.EntryPrice, size)
	if err != nil {
		e.logger.Error("buy-order-failed",
			zap.String("token-id", opp.TokenID),
			zap.Error(err))
		return nil, err
	}

	position := &Position{
		TokenID:        opp.TokenID,
		MarketID:       opp.MarketID,
		MarketQuestion: opp.MarketQuestion,
		Side:           opp.Side,
		EntryPrice:     opp.EntryPrice,
		Shares:         size,
		CurrentPrice:   opp.EntryPrice,
		CreatedAt:      e.now(),
		Status:         StatusOpen,
	}

	if err := e.ledger.insert(position); err != nil {
		return nil, fmt.Errorf("execute buy %s: %w", opp.TokenID, err)
	}

	BuysExecutedTotal.Inc()
	PositionsOpen.Set(float64(len(e.ledger.order)))

	e.logger.Info("position-opened",
		zap.String("token-id", opp.TokenID),
		zap.String("question", truncateQuestion(opp.MarketQuestion, 40)),
		zap.Float64("entry-price", opp.EntryPrice),
		zap.Float64("shares", size),
		zap.String("order-id", result.OrderID))

	return position, nil
}

// ExecuteSell liquidates percent of the open position for tokenID.
// percent is the caller's contract: [1,100], validated at the API
// boundary. percent >= 100 closes the position fully and realizes its
// PnL; anything less only reduces shares.
func (e *Engine) ExecuteSell(ctx context.Context, tokenID string, percent float64) (*SellConfirmation, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.executeSellLocked(ctx, tokenID, percent)
}

func (e *Engine) executeSellLocked(ctx context.Context, tokenID string, percent float64) (*SellConfirmation, error) {
	position := e.ledger.findOpen(tokenID)
	if position == nil {
		e.logger.Warn("position-not-found", zap.String("token-id", tokenID))
		return nil, fmt.Errorf("execute sell %s: %w", tokenID, types.ErrPositionNotFound)
	}

	// Ledger state is only touched after the gateway confirms; a failed
	// sell leaves the position exactly as it was.
	if _, err := e.gateway.SellPosition(ctx, tokenID, percent); err != nil {
		e.logger.Error("sell-order-failed",
			zap.String("token-id", tokenID),
			zap.Error(err))
		return nil, err
	}

	if percent >= 100 {
		record, ok := e.ledger.close(tokenID, e.now())
		if ok {
			RealizedPnL.Set(e.ledger.realized)
			SellsExecutedTotal.WithLabelValues("full").Inc()
			e.storeTrade(ctx, &record)
		}
	} else {
		e.ledger.reduce(tokenID, percent/100)
		SellsExecutedTotal.WithLabelValues("partial").Inc()
	}

	PositionsOpen.Set(float64(len(e.ledger.order)))

	e.logger.Info("position-sold",
		zap.String("token-id", tokenID),
		zap.Float64("percent", percent))

	return &SellConfirmation{Status: "sold", Percent: percent}, nil
}

// storeTrade writes a closed trade to storage. Failures are logged only.
func (e *Engine) storeTrade(ctx context.Context, record *TradeRecord) {
	if e.storage == nil {
		return
	}

	if err := e.storage.StoreTrade(ctx, record); err != nil {
		e.logger.Error("trade-store-failed",
			zap.String("token-id", record.TokenID),
			zap.Error(err))
	}
}

// CheckTakeProfits is the tiered exit sweep. Each open position is
// re-priced from the best bid (stale data tolerated when the book is
// unavailable), then at most one tier fires per position per sweep: the
// first configured tier whose multiplier the price has reached. A
// position that jumped past several tiers still sells only the first
// tier's percentage this cycle; later sweeps catch the rest.
func (e *Engine) CheckTakeProfits(ctx context.Context) {
	start := time.Now()
	defer func() {
		SweepDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, tokenID := range e.ledger.openTokenIDs() {
		position := e.ledger.findOpen(tokenID)
		if position == nil {
			continue
		}

		e.repriceLocked(ctx, position)

		var multiplier float64
		if position.EntryPrice > 0 {
			multiplier = position.CurrentPrice / position.EntryPrice
		}

		for _, tier := range e.tiers {
			if multiplier >= tier.Multiplier {
				e.logger.Info("take-profit-triggered",
					zap.String("token-id", tokenID),
					zap.Float64("multiplier", tier.Multiplier),
					zap.Float64("sell-percent", tier.SellPercent))
				TierTriggersTotal.WithLabelValues(fmt.Sprintf("%gx", tier.Multiplier)).Inc()

				// Failure is already logged; the position keeps its
				// shares and the next sweep retries.
				_, _ = e.executeSellLocked(ctx, tokenID, tier.SellPercent)
				break
			}
		}
	}
}

// repriceLocked refreshes a position's mark from the best bid. When the
// book is missing or has no bids the previous price stands.
func (e *Engine) repriceLocked(ctx context.Context, position *Position) {
	book, err := e.gateway.GetOrderbook(ctx, position.TokenID)
	if err != nil {
		e.logger.Debug("reprice-failed",
			zap.String("token-id", position.TokenID),
			zap.Error(err))
		return
	}

	if bid, _, ok := book.BestBid(); ok {
		position.CurrentPrice = bid
	}
}

// Positions returns snapshots of all open positions in insertion order.
func (e *Engine) Positions() []TradeRecord {
	e.mu.Lock()
	defer e.mu.Unlock()

	positions := e.ledger.openPositions()
	records := make([]TradeRecord, 0, len(positions))
	for _, p := range positions {
		records = append(records, p.Snapshot())
	}
	return records
}

// History returns the closed-trade history, oldest first.
func (e *Engine) History() []TradeRecord {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.snapshotHistory()
}

// TotalValue returns the summed current value of open positions.
func (e *Engine) TotalValue() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	var total float64
	for _, p := range e.ledger.openPositions() {
		total += p.CurrentValue()
	}
	return total
}

// TotalPnL returns realized PnL plus the unrealized PnL of open positions.
func (e *Engine) TotalPnL() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	total := e.ledger.realized
	for _, p := range e.ledger.openPositions() {
		total += p.UnrealizedPnL()
	}
	return total
}

// RealizedPnLTotal returns PnL locked in by full closes.
func (e *Engine) RealizedPnLTotal() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.ledger.realized
}

// OpenCount returns the number of open positions.
func (e *Engine) OpenCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.ledger.order)
}
