package scanner

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Opportunity is a candidate trade surfaced by the filter: a specific
// outcome token that can be entered at or below the configured maximum
// price. It has not been acted upon yet.
type Opportunity struct {
	ID             string
	MarketID       string
	MarketQuestion string
	TokenID        string
	Side           string // Outcome label, e.g. "Yes"
	EntryPrice     float64
	Volume         float64
	EndDate        string
	DetectedAt     time.Time
}

func newOpportunity(marketID, question, tokenID, side string, entryPrice, volume float64, endDate string) *Opportunity {
	return &Opportunity{
		ID:             uuid.New().String(),
		MarketID:       marketID,
		MarketQuestion: question,
		TokenID:        tokenID,
		Side:           side,
		EntryPrice:     entryPrice,
		Volume:         volume,
		EndDate:        endDate,
		DetectedAt:     time.Now(),
	}
}

// String returns a human-readable representation of the opportunity.
func (o *Opportunity) String() string {
	return fmt.Sprintf("Opportunity[%s] %s %s @ %.4f (%s)",
		o.ID[:8], o.TokenID, o.Side, o.EntryPrice, truncateQuestion(o.MarketQuestion, 50))
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
