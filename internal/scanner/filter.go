package scanner

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/pkg/types"
)

// BookFetcher supplies per-token orderbook snapshots.
type BookFetcher interface {
	GetOrderbook(ctx context.Context, tokenID string) (*types.Orderbook, error)
}

// FilterConfig holds the admissibility and entry criteria.
type FilterConfig struct {
	MinVolume        float64
	MaxEntryPrice    float64
	MinHoursToExpiry int
	MaxDaysToExpiry  int
}

// Filter decides whether a market is tradeable and which outcome token to
// enter. Admissibility is cheap and runs first; candidate selection hits
// the venue for orderbooks and stops at the first acceptable price.
type Filter struct {
	books  BookFetcher
	cfg    FilterConfig
	logger *zap.Logger
	now    func() time.Time
}

// NewFilter creates a new opportunity filter.
func NewFilter(books BookFetcher, cfg FilterConfig, logger *zap.Logger) *Filter {
	return &Filter{
		books:  books,
		cfg:    cfg,
		logger: logger,
		now:    time.Now,
	}
}

// Evaluate runs both stages and returns the trade candidate, or
// ErrMarketRejected (wrapped with the failing stage) when the market is
// not tradeable.
func (f *Filter) Evaluate(ctx context.Context, market *types.Market) (*Opportunity, error) {
	if !f.PassesFilters(market) {
		MarketsRejectedTotal.WithLabelValues("admissibility").Inc()
		return nil, fmt.Errorf("admissibility: %w", types.ErrMarketRejected)
	}

	opp := f.AnalyzeMarket(ctx, market)
	if opp == nil {
		MarketsRejectedTotal.WithLabelValues("no-candidate").Inc()
		return nil, fmt.Errorf("no candidate token: %w", types.ErrMarketRejected)
	}

	return opp, nil
}

// PassesFilters checks the market against volume, expiry-window, and
// token-presence criteria. A missing or unparseable end date disables the
// expiry check rather than rejecting the market.
func (f *Filter) PassesFilters(market *types.Market) bool {
	if market == nil {
		return false
	}

	if market.Volume < f.cfg.MinVolume {
		return false
	}

	if market.EndDate != "" {
		expiry, err := time.Parse(time.RFC3339, market.EndDate)
		if err == nil {
			hoursToExpiry := expiry.Sub(f.now()).Hours()

			if hoursToExpiry < float64(f.cfg.MinHoursToExpiry) {
				return false
			}

			if hoursToExpiry > float64(f.cfg.MaxDaysToExpiry)*24 {
				return false
			}
		} else {
			f.logger.Debug("unparseable-end-date",
				zap.String("market-id", market.ID),
				zap.String("end-date", market.EndDate))
		}
	}

	if len(market.Tokens) == 0 {
		return false
	}

	return true
}

// AnalyzeMarket walks the outcome tokens in listing order and returns an
// opportunity for the first one whose best ask is at or below the max
// entry price. First match wins; no later token is considered even if it
// is cheaper.
func (f *Filter) AnalyzeMarket(ctx context.Context, market *types.Market) *Opportunity {
	for _, token := range market.Tokens {
		book, err := f.books.GetOrderbook(ctx, token.TokenID)
		if err != nil {
			f.logger.Debug("orderbook-fetch-failed",
				zap.String("token-id", token.TokenID),
				zap.Error(err))
			continue
		}

		bestAsk, _, ok := book.BestAsk()
		if !ok {
			continue
		}

		if bestAsk > 0 && bestAsk <= f.cfg.MaxEntryPrice {
			return newOpportunity(
				market.ID,
				market.Question,
				token.TokenID,
				token.Outcome,
				bestAsk,
				market.Volume,
				market.EndDate,
			)
		}
	}

	return nil
}
