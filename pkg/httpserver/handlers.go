package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/pkg/healthprobe"
	"github.com/betzbotz1/betzbotz-bot1/pkg/types"
)

// apiHandler serves the /api routes.
type apiHandler struct {
	trading  TradingService
	balance  BalanceProvider
	scanner  ScanStats
	settings map[string]interface{}
	health   *healthprobe.HealthChecker
	logger   *zap.Logger
}

func newAPIHandler(cfg *Config) *apiHandler {
	return &apiHandler{
		trading:  cfg.Trading,
		balance:  cfg.Balance,
		scanner:  cfg.Scanner,
		settings: cfg.Settings,
		health:   cfg.HealthChecker,
		logger:   cfg.Logger,
	}
}

// ErrorResponse represents an HTTP error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse summarizes the running bot.
type StatusResponse struct {
	Status        string  `json:"status"`
	UptimeSeconds float64 `json:"uptime_seconds"`
	MarketsSeen   int     `json:"markets_seen"`
	OpenPositions int     `json:"open_positions"`
	TotalValue    float64 `json:"total_value"`
	TotalPnL      float64 `json:"total_pnl"`
	RealizedPnL   float64 `json:"realized_pnl"`
}

// handleStatus handles GET /api/status.
func (h *apiHandler) handleStatus(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, StatusResponse{
		Status:        "running",
		UptimeSeconds: h.health.Uptime().Seconds(),
		MarketsSeen:   h.scanner.SeenCount(),
		OpenPositions: h.trading.OpenCount(),
		TotalValue:    h.trading.TotalValue(),
		TotalPnL:      h.trading.TotalPnL(),
		RealizedPnL:   h.trading.RealizedPnLTotal(),
	})
}

// BalanceResponse carries the wallet's USDC balance.
type BalanceResponse struct {
	BalanceUSDC float64 `json:"balance_usdc"`
}

// handleBalance handles GET /api/balance.
func (h *apiHandler) handleBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.balance.GetBalance(r.Context())
	if err != nil {
		h.logger.Error("balance-fetch-failed", zap.Error(err))
		h.writeError(w, "balance unavailable", http.StatusBadGateway)
		return
	}

	h.writeJSON(w, http.StatusOK, BalanceResponse{BalanceUSDC: balance})
}

// PositionsResponse lists open positions with their aggregate valuation.
type PositionsResponse struct {
	Positions  []any   `json:"positions"`
	Count      int     `json:"count"`
	TotalValue float64 `json:"total_value"`
	TotalPnL   float64 `json:"total_pnl"`
}

// handlePositions handles GET /api/positions.
func (h *apiHandler) handlePositions(w http.ResponseWriter, r *http.Request) {
	positions := h.trading.Positions()

	out := make([]any, 0, len(positions))
	for _, p := range positions {
		out = append(out, p)
	}

	h.writeJSON(w, http.StatusOK, PositionsResponse{
		Positions:  out,
		Count:      len(positions),
		TotalValue: h.trading.TotalValue(),
		TotalPnL:   h.trading.TotalPnL(),
	})
}

// StatsResponse aggregates trading performance.
type StatsResponse struct {
	OpenPositions int     `json:"open_positions"`
	ClosedTrades  int     `json:"closed_trades"`
	WinRate       float64 `json:"win_rate"`
	TotalValue    float64 `json:"total_value"`
	TotalPnL      float64 `json:"total_pnl"`
	RealizedPnL   float64 `json:"realized_pnl"`
}

// handleStats handles GET /api/stats. Win rate counts only fully closed
// trades; a flat close counts as a loss.
func (h *apiHandler) handleStats(w http.ResponseWriter, r *http.Request) {
	history := h.trading.History()

	var wins int
	for _, record := range history {
		if record.UnrealizedPnL > 0 {
			wins++
		}
	}

	var winRate float64
	if len(history) > 0 {
		winRate = float64(wins) / float64(len(history)) * 100
	}

	h.writeJSON(w, http.StatusOK, StatsResponse{
		OpenPositions: h.trading.OpenCount(),
		ClosedTrades:  len(history),
		WinRate:       winRate,
		TotalValue:    h.trading.TotalValue(),
		TotalPnL:      h.trading.TotalPnL(),
		RealizedPnL:   h.trading.RealizedPnLTotal(),
	})
}

// handleSettings handles GET /api/settings. Credentials never appear here.
func (h *apiHandler) handleSettings(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, h.settings)
}

// SellRequest is the body of POST /api/sell.
type SellRequest struct {
	TokenID string  `json:"token_id"`
	Percent float64 `json:"percent"`
}

// handleSell handles POST /api/sell: a manual liquidation of percent of
// the position held in token_id.
func (h *apiHandler) handleSell(w http.ResponseWriter, r *http.Request) {
	var req SellRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	if req.TokenID == "" {
		h.writeError(w, "missing required field: token_id", http.StatusBadRequest)
		return
	}

	if req.Percent < 1 || req.Percent > 100 {
		h.writeError(w, "percent must be between 1 and 100", http.StatusBadRequest)
		return
	}

	confirmation, err := h.trading.ExecuteSell(r.Context(), req.TokenID, req.Percent)
	if err != nil {
		switch {
		case errors.Is(err, types.ErrPositionNotFound):
			h.writeError(w, "no open position for token", http.StatusNotFound)
		case errors.Is(err, types.ErrGatewayUnavailable):
			h.writeError(w, "venue unavailable", http.StatusBadGateway)
		default:
			h.logger.Error("manual-sell-failed",
				zap.String("token-id", req.TokenID),
				zap.Error(err))
			h.writeError(w, "sell failed", http.StatusInternalServerError)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, confirmation)
}

// writeJSON writes a JSON response.
func (h *apiHandler) writeJSON(w http.ResponseWriter, statusCode int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed-to-encode-response", zap.Error(err))
	}
}

// writeError writes a JSON error response.
func (h *apiHandler) writeError(w http.ResponseWriter, message string, statusCode int) {
	h.writeJSON(w, statusCode, ErrorResponse{Error: message})
}
