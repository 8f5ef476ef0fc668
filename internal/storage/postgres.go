package storage

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/internal/engine"
)

// PostgresStorage implements Storage using PostgreSQL.
type PostgresStorage struct {
	db     *sql.DB
	logger *zap.Logger
}

// PostgresConfig holds PostgreSQL configuration.
type PostgresConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Database string
	SSLMode  string
	Logger   *zap.Logger
}

// NewPostgresStorage creates a new PostgreSQL storage.
func NewPostgresStorage(cfg *PostgresConfig) (*PostgresStorage, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Database, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	cfg.Logger.Info("postgres-storage-connected",
		zap.String("host", cfg.Host),
		zap.String("database", cfg.Database))

	return &PostgresStorage{
		db:     db,
		logger: cfg.Logger,
	}, nil
}

// StoreTrade inserts a closed trade into the closed_trades table.
func (p *PostgresStorage) StoreTrade(ctx context.Context, record *engine.TradeRecord) error {
	query := `
		INSERT INTO closed_trades (
			token_id, market_id, market_question, side,
			entry_price, shares, exit_price, cost_basis, exit_value,
			realized_pnl, realized_pnl_pct, opened_at, closed_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`

	_, err := p.db.ExecContext(ctx, query,
		record.TokenID,
		record.MarketID,
		record.MarketQuestion,
		record.Side,
		record.EntryPrice,
		record.Shares,
		record.CurrentPrice,
		record.CostBasis,
		record.CurrentValue,
		record.UnrealizedPnL,
		record.UnrealizedPnLPct,
		record.CreatedAt,
		record.ClosedAt,
	)

	if err != nil {
		return fmt.Errorf("insert trade: %w", err)
	}

	TradesStoredTotal.WithLabelValues("postgres").Inc()

	p.logger.Debug("trade-stored",
		zap.String("token-id", record.TokenID),
		zap.String("market-id", record.MarketID),
		zap.Float64("realized-pnl", record.UnrealizedPnL))

	return nil
}

// Close closes the database connection.
func (p *PostgresStorage) Close() error {
	p.logger.Info("closing-postgres-storage")
	return p.db.Close()
}
