package scanner

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/pkg/types"
)

// fakeBooks serves canned orderbooks and records fetch order.
type fakeBooks struct {
	books   map[string]*types.Orderbook
	err     error
	fetched []string
}

func (f *fakeBooks) GetOrderbook(_ context.Context, tokenID string) (*types.Orderbook, error) {
	f.fetched = append(f.fetched, tokenID)
	if f.err != nil {
		return nil, f.err
	}
	book, ok := f.books[tokenID]
	if !ok {
		return nil, fmt.Errorf("no book for %s: %w", tokenID, types.ErrGatewayUnavailable)
	}
	return book, nil
}

func askBook(tokenID, price string) *types.Orderbook {
	return &types.Orderbook{
		AssetID: tokenID,
		Asks:    []types.PriceLevel{{Price: price, Size: "1000"}},
	}
}

func defaultFilterConfig() FilterConfig {
	return FilterConfig{
		MinVolume:        500,
		MaxEntryPrice:    0.05,
		MinHoursToExpiry: 48,
		MaxDaysToExpiry:  90,
	}
}

func endDate(hoursFromNow float64) string {
	return time.Now().Add(time.Duration(hoursFromNow * float64(time.Hour))).UTC().Format(time.RFC3339)
}

func testMarket(id string, volume float64, end string, tokens ...types.Token) *types.Market {
	return &types.Market{
		ID:       id,
		Question: "Will something happen?",
		Volume:   volume,
		EndDate:  end,
		Tokens:   tokens,
	}
}

func TestPassesFilters_VolumeBelowMinimum(t *testing.T) {
	f := NewFilter(&fakeBooks{}, defaultFilterConfig(), zap.NewNop())

	m := testMarket("m1", 499.99, endDate(72), types.Token{TokenID: "t1", Outcome: "Yes"})
	if f.PassesFilters(m) {
		t.Error("expected rejection below minimum volume")
	}

	m.Volume = 500
	if !f.PassesFilters(m) {
		t.Error("expected pass at exactly minimum volume")
	}
}

func TestPassesFilters_ExpiryWindow(t *testing.T) {
	f := NewFilter(&fakeBooks{}, defaultFilterConfig(), zap.NewNop())
	tok := types.Token{TokenID: "t1", Outcome: "Yes"}

	tests := []struct {
		name  string
		hours float64
		want  bool
	}{
		{"expires too soon", 24, false},
		{"just inside lower bound", 49, true},
		{"well inside window", 30 * 24, true},
		{"beyond max days", 91 * 24, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := testMarket("m1", 1000, endDate(tt.hours), tok)
			if got := f.PassesFilters(m); got != tt.want {
				t.Errorf("hours=%v: expected %v, got %v", tt.hours, tt.want, got)
			}
		})
	}
}

func TestPassesFilters_MissingEndDateSkipsExpiryCheck(t *testing.T) {
	f := NewFilter(&fakeBooks{}, defaultFilterConfig(), zap.NewNop())
	tok := types.Token{TokenID: "t1", Outcome: "Yes"}

	if !f.PassesFilters(testMarket("m1", 1000, "", tok)) {
		t.Error("expected pass when end date is absent")
	}

	// Same for an unparseable date: the expiry check is skipped.
	if !f.PassesFilters(testMarket("m1", 1000, "next tuesday", tok)) {
		t.Error("expected pass when end date is unparseable")
	}
}

func TestPassesFilters_NoTokens(t *testing.T) {
	f := NewFilter(&fakeBooks{}, defaultFilterConfig(), zap.NewNop())

	if f.PassesFilters(testMarket("m1", 1000, endDate(72))) {
		t.Error("expected rejection with no outcome tokens")
	}

	if f.PassesFilters(nil) {
		t.Error("expected rejection for nil market")
	}
}

func TestAnalyzeMarket_FirstMatchWins(t *testing.T) {
	books := &fakeBooks{books: map[string]*types.Orderbook{
		"t1": askBook("t1", "0.04"), // qualifies
		"t2": askBook("t2", "0.01"), // cheaper, but listed later
	}}
	f := NewFilter(books, defaultFilterConfig(), zap.NewNop())

	m := testMarket("m1", 1000, endDate(72),
		types.Token{TokenID: "t1", Outcome: "Yes"},
		types.Token{TokenID: "t2", Outcome: "No"},
	)

	opp := f.AnalyzeMarket(context.Background(), m)
	if opp == nil {
		t.Fatal("expected an opportunity")
	}

	if opp.TokenID != "t1" {
		t.Errorf("expected first qualifying token t1, got %s", opp.TokenID)
	}
	if opp.EntryPrice != 0.04 {
		t.Errorf("expected entry price 0.04, got %f", opp.EntryPrice)
	}
	if opp.Side != "Yes" {
		t.Errorf("expected side Yes, got %s", opp.Side)
	}

	// Iteration must stop at the first match.
	if len(books.fetched) != 1 {
		t.Errorf("expected 1 orderbook fetch, got %d", len(books.fetched))
	}
}

func TestAnalyzeMarket_SkipsDeadTokens(t *testing.T) {
	books := &fakeBooks{books: map[string]*types.Orderbook{
		// t1 has no book at all, t2 has an empty ask side, t3 qualifies.
		"t2": {AssetID: "t2"},
		"t3": askBook("t3", "0.03"),
	}}
	f := NewFilter(books, defaultFilterConfig(), zap.NewNop())

	m := testMarket("m1", 1000, endDate(72),
		types.Token{TokenID: "t1", Outcome: "A"},
		types.Token{TokenID: "t2", Outcome: "B"},
		types.Token{TokenID: "t3", Outcome: "C"},
	)

	opp := f.AnalyzeMarket(context.Background(), m)
	if opp == nil {
		t.Fatal("expected an opportunity")
	}
	if opp.TokenID != "t3" {
		t.Errorf("expected t3, got %s", opp.TokenID)
	}
}

func TestAnalyzeMarket_NoQualifyingPrice(t *testing.T) {
	books := &fakeBooks{books: map[string]*types.Orderbook{
		"t1": askBook("t1", "0.20"),
		"t2": askBook("t2", "0.80"),
	}}
	f := NewFilter(books, defaultFilterConfig(), zap.NewNop())

	m := testMarket("m1", 1000, endDate(72),
		types.Token{TokenID: "t1", Outcome: "Yes"},
		types.Token{TokenID: "t2", Outcome: "No"},
	)

	if opp := f.AnalyzeMarket(context.Background(), m); opp != nil {
		t.Errorf("expected no opportunity, got %+v", opp)
	}
}

func TestEvaluate_InadmissibleSkipsOrderbooks(t *testing.T) {
	books := &fakeBooks{books: map[string]*types.Orderbook{
		"t1": askBook("t1", "0.01"),
	}}
	f := NewFilter(books, defaultFilterConfig(), zap.NewNop())

	// Volume too low: candidate selection must not run.
	m := testMarket("m1", 10, endDate(72), types.Token{TokenID: "t1", Outcome: "Yes"})

	opp, err := f.Evaluate(context.Background(), m)
	if opp != nil {
		t.Errorf("expected nil for inadmissible market, got %+v", opp)
	}
	if !errors.Is(err, types.ErrMarketRejected) {
		t.Errorf("expected ErrMarketRejected, got %v", err)
	}
	if len(books.fetched) != 0 {
		t.Errorf("expected no orderbook fetches, got %d", len(books.fetched))
	}
}

func TestEvaluate_RejectionsCarrySentinel(t *testing.T) {
	books := &fakeBooks{books: map[string]*types.Orderbook{
		"t1": askBook("t1", "0.50"),
	}}
	f := NewFilter(books, defaultFilterConfig(), zap.NewNop())

	// Admissible market whose only token is too expensive: rejected at
	// candidate selection, same sentinel.
	m := testMarket("m1", 1000, endDate(72), types.Token{TokenID: "t1", Outcome: "Yes"})

	opp, err := f.Evaluate(context.Background(), m)
	if opp != nil {
		t.Errorf("expected no opportunity, got %+v", opp)
	}
	if !errors.Is(err, types.ErrMarketRejected) {
		t.Errorf("expected ErrMarketRejected, got %v", err)
	}

	// A qualifying market yields an opportunity and no error.
	books.books["t2"] = askBook("t2", "0.02")
	m2 := testMarket("m2", 1000, endDate(72), types.Token{TokenID: "t2", Outcome: "Yes"})

	opp, err = f.Evaluate(context.Background(), m2)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if opp == nil || opp.TokenID != "t2" {
		t.Errorf("expected opportunity for t2, got %+v", opp)
	}
}
