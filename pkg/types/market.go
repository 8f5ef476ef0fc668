package types

import (
	"strconv"

	json "github.com/goccy/go-json"
)

// Market represents a Polymarket market from the Gamma API.
type Market struct {
	ID          string  `json:"id"`
	Question    string  `json:"question"`
	Slug        string  `json:"slug"`
	Active      bool    `json:"active"`
	Closed      bool    `json:"closed"`
	Volume      float64 `json:"-"`       // Parsed from string or number via UnmarshalJSON
	EndDate     string  `json:"endDate"` // RFC3339; kept raw, parsed by the filter
	Description string  `json:"description"`
	Tokens      []Token `json:"-"`            // Populated from outcomes + clobTokenIds
	Outcomes    string  `json:"outcomes"`     // JSON string: "[\"Yes\", \"No\"]"
	ClobTokens  string  `json:"clobTokenIds"` // JSON string: "[\"token1\", \"token2\"]"
}

// UnmarshalJSON handles the Gamma API quirks: volume arrives as either a
// string or a number, and outcome tokens arrive as two parallel
// JSON-encoded string arrays.
func (m *Market) UnmarshalJSON(data []byte) error {
	type Alias Market
	aux := &struct {
		Volume json.RawMessage `json:"volume"`
		*Alias
	}{
		Alias: (*Alias)(m),
	}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	m.Volume = parseFlexibleFloat(aux.Volume)

	// Parse outcomes and clobTokenIds to populate Tokens
	if m.Outcomes != "" && m.ClobTokens != "" {
		var outcomes []string
		var tokenIDs []string

		if err := json.Unmarshal([]byte(m.Outcomes), &outcomes); err == nil {
			if err := json.Unmarshal([]byte(m.ClobTokens), &tokenIDs); err == nil {
				m.Tokens = make([]Token, 0, len(outcomes))
				for i, outcome := range outcomes {
					if i < len(tokenIDs) {
						m.Tokens = append(m.Tokens, Token{
							TokenID: tokenIDs[i],
							Outcome: outcome,
						})
					}
				}
			}
		}
	}

	return nil
}

// parseFlexibleFloat parses a JSON value that may be a number, a quoted
// number, or absent. Unparseable values yield 0.
func parseFlexibleFloat(raw json.RawMessage) float64 {
	if len(raw) == 0 {
		return 0
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		parsed, err := strconv.ParseFloat(asString, 64)
		if err == nil {
			return parsed
		}
	}

	return 0
}

// Token represents a market outcome token.
type Token struct {
	TokenID string `json:"token_id"`
	Outcome string `json:"outcome"`
}

// VenuePosition is a raw position record as reported by the Polymarket
// Data API, before the engine takes ownership of local state.
type VenuePosition struct {
	TokenID      string  `json:"asset"`
	ConditionID  string  `json:"conditionId"`
	MarketSlug   string  `json:"slug"`
	Title        string  `json:"title"`
	Outcome      string  `json:"outcome"`
	Size         float64 `json:"size"`
	AvgPrice     float64 `json:"avgPrice"`
	CurrentValue float64 `json:"currentValue"`
	InitialValue float64 `json:"initialValue"`
	CashPnL      float64 `json:"cashPnl"`
	PercentPnL   float64 `json:"percentPnl"`
}
