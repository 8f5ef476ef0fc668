// Package scanner polls the venue for newly listed markets and filters
// them into actionable trade candidates.
package scanner

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/pkg/cache"
	"github.com/betzbotz1/betzbotz-bot1/pkg/types"
)

// Gateway is the venue surface the scanner needs.
type Gateway interface {
	GetMarkets(ctx context.Context, limit int, active bool) ([]types.Market, error)
	BookFetcher
}

// Scanner iterates active markets and feeds unseen ones through the
// filter. A market is evaluated at most once per process lifetime: the
// seen-set only grows.
type Scanner struct {
	gateway     Gateway
	filter      *Filter
	marketCache cache.Cache
	limit       int
	logger      *zap.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

// Config holds scanner configuration.
type Config struct {
	Gateway     Gateway
	Filter      *Filter
	MarketCache cache.Cache
	MarketLimit int
	Logger      *zap.Logger
}

// New creates a new market scanner.
func New(cfg *Config) *Scanner {
	return &Scanner{
		gateway:     cfg.Gateway,
		filter:      cfg.Filter,
		marketCache: cfg.MarketCache,
		limit:       cfg.MarketLimit,
		logger:      cfg.Logger,
		seen:        make(map[string]struct{}),
	}
}

// ScanNewMarkets fetches a page of active markets and returns
// opportunities for the unseen ones that pass the filter. A gateway
// failure degrades to an empty result.
func (s *Scanner) ScanNewMarkets(ctx context.Context) []*Opportunity {
	start := time.Now()
	defer func() {
		ScanDurationSeconds.Observe(time.Since(start).Seconds())
	}()

	markets, err := s.gateway.GetMarkets(ctx, s.limit, true)
	if err != nil {
		ScanErrorsTotal.Inc()
		s.logger.Error("market-fetch-failed", zap.Error(err))
		return nil
	}

	MarketsScannedTotal.Add(float64(len(markets)))

	var opportunities []*Opportunity

	for i := range markets {
		market := &markets[i]

		if market.ID == "" || !s.markSeen(market.ID) {
			continue
		}

		s.cacheMarket(market)

		opp, err := s.filter.Evaluate(ctx, market)
		if err != nil {
			s.logger.Debug("market-rejected",
				zap.String("market-id", market.ID),
				zap.Error(err))
			continue
		}

		OpportunitiesFoundTotal.Inc()
		opportunities = append(opportunities, opp)

		s.logger.Info("new-opportunity",
			zap.String("market-id", market.ID),
			zap.String("question", truncateQuestion(market.Question, 50)),
			zap.String("token-id", opp.TokenID),
			zap.Float64("entry-price", opp.EntryPrice))
	}

	s.logger.Debug("scan-complete",
		zap.Int("markets", len(markets)),
		zap.Int("opportunities", len(opportunities)),
		zap.Duration("duration", time.Since(start)))

	return opportunities
}

// markSeen records the market ID. Returns false when it was already seen.
// Marking happens before filtering so a market is never evaluated twice,
// even if evaluation fails midway.
func (s *Scanner) markSeen(marketID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[marketID]; exists {
		return false
	}

	s.seen[marketID] = struct{}{}
	return true
}

// SeenCount returns the number of markets evaluated so far.
func (s *Scanner) SeenCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

const marketCacheTTL = 24 * time.Hour

func (s *Scanner) cacheMarket(market *types.Market) {
	if s.marketCache == nil {
		return
	}

	if !s.marketCache.Set(market.ID, market, marketCacheTTL) {
		s.logger.Debug("market-cache-set-failed", zap.String("market-id", market.ID))
	}
}

// GetMarket retrieves a previously scanned market from the cache, or nil.
func (s *Scanner) GetMarket(marketID string) *types.Market {
	if s.marketCache == nil {
		return nil
	}

	value, found := s.marketCache.Get(marketID)
	if !found {
		return nil
	}

	market, ok := value.(*types.Market)
	if !ok {
		return nil
	}

	return market
}
