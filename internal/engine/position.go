package engine

import (
	"math"
	"time"
)

// Position status values.
const (
	StatusOpen   = "open"
	StatusClosed = "closed"
)

// Position is an open stake in a specific outcome token. The ledger owns
// all Position state; nothing outside the engine mutates one.
type Position struct {
	TokenID        string
	MarketID       string
	MarketQuestion string
	Side           string
	EntryPrice     float64 // fixed at open time
	Shares         float64 // reduced on partial close
	CurrentPrice   float64 // refreshed by the sweep; may be stale
	CreatedAt      time.Time
	Status         string
}

// CostBasis returns entry price times shares.
func (p *Position) CostBasis() float64 {
	return p.EntryPrice * p.Shares
}

// CurrentValue returns current price times shares.
func (p *Position) CurrentValue() float64 {
	return p.CurrentPrice * p.Shares
}

// UnrealizedPnL returns current value minus cost basis.
func (p *Position) UnrealizedPnL() float64 {
	return p.CurrentValue() - p.CostBasis()
}

// UnrealizedPnLPct returns the unrealized PnL as a percentage of cost
// basis, or 0 when the cost basis is 0.
func (p *Position) UnrealizedPnLPct() float64 {
	basis := p.CostBasis()
	if basis == 0 {
		return 0
	}
	return (p.UnrealizedPnL() / basis) * 100
}

// TradeRecord is a point-in-time snapshot of a position: served over the
// REST facade for open positions, and appended to history (immutably) when
// a position fully closes.
type TradeRecord struct {
	TokenID          string     `json:"token_id"`
	MarketID         string     `json:"market_id"`
	MarketQuestion   string     `json:"market_question"`
	Side             string     `json:"side"`
	EntryPrice       float64    `json:"entry_price"`
	Shares           float64    `json:"shares"`
	CurrentPrice     float64    `json:"current_price"`
	CostBasis        float64    `json:"cost_basis"`
	CurrentValue     float64    `json:"current_value"`
	UnrealizedPnL    float64    `json:"unrealized_pnl"`
	UnrealizedPnLPct float64    `json:"unrealized_pnl_pct"`
	CreatedAt        time.Time  `json:"created_at"`
	ClosedAt         *time.Time `json:"closed_at,omitempty"`
	Status           string     `json:"status"`
}

// Snapshot captures the position's current state. PnL figures are rounded
// for presentation: cents for dollar amounts, one decimal for percent.
func (p *Position) Snapshot() TradeRecord {
	return TradeRecord{
		TokenID:          p.TokenID,
		MarketID:         p.MarketID,
		MarketQuestion:   p.MarketQuestion,
		Side:             p.Side,
		EntryPrice:       p.EntryPrice,
		Shares:           p.Shares,
		CurrentPrice:     p.CurrentPrice,
		CostBasis:        p.CostBasis(),
		CurrentValue:     p.CurrentValue(),
		UnrealizedPnL:    round2(p.UnrealizedPnL()),
		UnrealizedPnLPct: round1(p.UnrealizedPnLPct()),
		CreatedAt:        p.CreatedAt,
		Status:           p.Status,
	}
}

// truncateQuestion shortens a market question for log lines. Cuts on rune
// boundaries so multi-byte questions stay valid UTF-8.
func truncateQuestion(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
