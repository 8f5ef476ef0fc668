package scanner

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/pkg/types"
)

// fakeGateway serves canned market lists and orderbooks.
type fakeGateway struct {
	fakeBooks
	markets    []types.Market
	marketsErr error
}

func (f *fakeGateway) GetMarkets(_ context.Context, _ int, _ bool) ([]types.Market, error) {
	if f.marketsErr != nil {
		return nil, f.marketsErr
	}
	return f.markets, nil
}

func newTestScanner(gw *fakeGateway) *Scanner {
	filter := NewFilter(&gw.fakeBooks, defaultFilterConfig(), zap.NewNop())
	return New(&Config{
		Gateway:     gw,
		Filter:      filter,
		MarketLimit: 50,
		Logger:      zap.NewNop(),
	})
}

func TestScanNewMarkets_DeduplicatesAcrossCycles(t *testing.T) {
	gw := &fakeGateway{
		fakeBooks: fakeBooks{books: map[string]*types.Orderbook{
			"t1": askBook("t1", "0.03"),
			"t2": askBook("t2", "0.04"),
		}},
		markets: []types.Market{
			*testMarket("m1", 1000, endDate(72), types.Token{TokenID: "t1", Outcome: "Yes"}),
			*testMarket("m2", 2000, endDate(72), types.Token{TokenID: "t2", Outcome: "Yes"}),
		},
	}
	s := newTestScanner(gw)

	// Pre-seed m1 as already seen; only m2 should surface.
	if !s.markSeen("m1") {
		t.Fatal("pre-seeding m1 failed")
	}

	opps := s.ScanNewMarkets(context.Background())
	if len(opps) != 1 {
		t.Fatalf("expected 1 opportunity, got %d", len(opps))
	}
	if opps[0].MarketID != "m2" {
		t.Errorf("expected opportunity for m2, got %s", opps[0].MarketID)
	}

	// A second scan of the same input yields nothing new.
	if opps := s.ScanNewMarkets(context.Background()); len(opps) != 0 {
		t.Errorf("expected 0 opportunities on rescan, got %d", len(opps))
	}
}

func TestScanNewMarkets_RejectedMarketsStaySeen(t *testing.T) {
	gw := &fakeGateway{
		fakeBooks: fakeBooks{books: map[string]*types.Orderbook{}},
		markets: []types.Market{
			// Admissible but no orderbook: evaluation yields nothing.
			*testMarket("m1", 1000, endDate(72), types.Token{TokenID: "t1", Outcome: "Yes"}),
		},
	}
	s := newTestScanner(gw)

	if opps := s.ScanNewMarkets(context.Background()); len(opps) != 0 {
		t.Fatalf("expected no opportunities, got %d", len(opps))
	}

	// The book appears later, but the market was already evaluated once.
	gw.books["t1"] = askBook("t1", "0.02")
	if opps := s.ScanNewMarkets(context.Background()); len(opps) != 0 {
		t.Errorf("expected market to remain consumed, got %d opportunities", len(opps))
	}

	if s.SeenCount() != 1 {
		t.Errorf("expected seen count 1, got %d", s.SeenCount())
	}
}

func TestScanNewMarkets_GatewayFailureDegrades(t *testing.T) {
	gw := &fakeGateway{marketsErr: types.ErrGatewayUnavailable}
	s := newTestScanner(gw)

	if opps := s.ScanNewMarkets(context.Background()); opps != nil {
		t.Errorf("expected nil on gateway failure, got %v", opps)
	}

	// Failure must not mark anything seen.
	if s.SeenCount() != 0 {
		t.Errorf("expected empty seen set, got %d", s.SeenCount())
	}
}

func TestScanNewMarkets_SkipsMarketsWithoutID(t *testing.T) {
	gw := &fakeGateway{
		fakeBooks: fakeBooks{books: map[string]*types.Orderbook{
			"t1": askBook("t1", "0.03"),
		}},
		markets: []types.Market{
			*testMarket("", 1000, endDate(72), types.Token{TokenID: "t1", Outcome: "Yes"}),
		},
	}
	s := newTestScanner(gw)

	if opps := s.ScanNewMarkets(context.Background()); len(opps) != 0 {
		t.Errorf("expected no opportunities for ID-less market, got %d", len(opps))
	}
}
