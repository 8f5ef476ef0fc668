package httpserver

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsPushInterval = 5 * time.Second
	wsWriteTimeout = 10 * time.Second
	wsPongTimeout  = 60 * time.Second
)

//nolint:gochecknoglobals // shared upgrader
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The API key middleware already gates this route.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// PositionsPush is the message streamed to websocket clients.
type PositionsPush struct {
	Type       string    `json:"type"`
	Positions  []any     `json:"positions"`
	Count      int       `json:"count"`
	TotalValue float64   `json:"total_value"`
	TotalPnL   float64   `json:"total_pnl"`
	Timestamp  time.Time `json:"timestamp"`
}

// handleWebsocket handles GET /api/ws: a push feed of open-position
// snapshots, sent on connect and then every few seconds.
func (h *apiHandler) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("websocket-upgrade-failed", zap.Error(err))
		return
	}
	defer conn.Close()

	h.logger.Info("websocket-client-connected", zap.String("remote", conn.RemoteAddr().String()))

	// Reader only services control frames; client messages are ignored.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(wsPongTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	if err := h.pushPositions(conn); err != nil {
		return
	}

	ticker := time.NewTicker(wsPushInterval)
	defer ticker.Stop()

	pinger := time.NewTicker(wsPongTimeout / 2)
	defer pinger.Stop()

	for {
		select {
		case <-done:
			h.logger.Info("websocket-client-disconnected")
			return
		case <-r.Context().Done():
			return
		case <-pinger.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ticker.C:
			if err := h.pushPositions(conn); err != nil {
				h.logger.Debug("websocket-push-failed", zap.Error(err))
				return
			}
		}
	}
}

func (h *apiHandler) pushPositions(conn *websocket.Conn) error {
	positions := h.trading.Positions()

	out := make([]any, 0, len(positions))
	for _, p := range positions {
		out = append(out, p)
	}

	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return conn.WriteJSON(PositionsPush{
		Type:       "positions",
		Positions:  out,
		Count:      len(positions),
		TotalValue: h.trading.TotalValue(),
		TotalPnL:   h.trading.TotalPnL(),
		Timestamp:  time.Now().UTC(),
	})
}
