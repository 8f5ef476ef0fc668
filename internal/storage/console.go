package storage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/internal/engine"
)

// ConsoleStorage implements Storage by pretty-printing to console.
type ConsoleStorage struct {
	logger *zap.Logger
}

// NewConsoleStorage creates a new console storage.
func NewConsoleStorage(logger *zap.Logger) *ConsoleStorage {
	logger.Info("console-storage-initialized")
	return &ConsoleStorage{
		logger: logger,
	}
}

// StoreTrade pretty-prints a closed trade to console.
func (c *ConsoleStorage) StoreTrade(ctx context.Context, record *engine.TradeRecord) error {
	outcome := "✅ WIN"
	if record.UnrealizedPnL < 0 {
		outcome = "❌ LOSS"
	}

	fmt.Println("\n" + "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("💼 POSITION CLOSED\n")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("Token:    %s\n", record.TokenID)
	fmt.Printf("Market:   %s\n", record.MarketQuestion)
	fmt.Printf("Opened:   %s\n", record.CreatedAt.Format("2006-01-02 15:04:05"))
	if record.ClosedAt != nil {
		fmt.Printf("Closed:   %s\n", record.ClosedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("📊 FILL\n")
	fmt.Printf("  Entry:   %.4f x %.2f shares\n", record.EntryPrice, record.Shares)
	fmt.Printf("  Exit:    %.4f\n", record.CurrentPrice)
	fmt.Printf("  Basis:   $%.2f\n", record.CostBasis)
	fmt.Printf("  Value:   $%.2f\n", record.CurrentValue)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("💰 RESULT\n")
	fmt.Printf("  PnL:     $%.2f (%.1f%%)\n", record.UnrealizedPnL, record.UnrealizedPnLPct)
	fmt.Printf("  %s\n", outcome)
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	TradesStoredTotal.WithLabelValues("console").Inc()

	return nil
}

// Close is a no-op for console storage.
func (c *ConsoleStorage) Close() error {
	c.logger.Info("closing-console-storage")
	return nil
}
