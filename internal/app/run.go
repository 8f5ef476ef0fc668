package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/pkg/types"
)

// Run starts the application and blocks until shutdown.
func (a *App) Run() error {
	a.logger.Info("application-starting",
		zap.Float64("max-bet-per-side", a.cfg.MaxBetPerSide),
		zap.Float64("max-entry-price", a.cfg.MaxEntryPrice),
		zap.Duration("scan-interval", a.cfg.ScanInterval),
		zap.String("log-level", a.cfg.LogLevel))

	a.startComponents()

	a.healthChecker.SetReady(true)

	a.logger.Info("application-ready",
		zap.String("http-addr", ":"+a.cfg.HTTPPort),
		zap.String("storage-mode", a.cfg.StorageMode))

	return a.waitForShutdown()
}

func (a *App) startComponents() {
	a.wg.Add(1)
	go a.runHTTPServer()

	// Give HTTP server a moment to start
	time.Sleep(100 * time.Millisecond)

	a.wg.Add(1)
	go a.runScanLoop()

	a.wg.Add(1)
	go a.runSweepLoop()
}

func (a *App) runHTTPServer() {
	defer a.wg.Done()
	err := a.httpServer.Start()
	if err != nil {
		a.logger.Error("http-server-error", zap.Error(err))
	}
}

// runScanLoop scans for new markets on a fixed cadence, starting with an
// immediate pass.
func (a *App) runScanLoop() {
	defer a.wg.Done()

	a.scanCycle(a.ctx)

	ticker := time.NewTicker(a.cfg.ScanInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.scanCycle(a.ctx)
		}
	}
}

// scanCycle runs one scan pass and opens a position for every
// opportunity it produced. A failed buy never stops the rest of the
// batch.
func (a *App) scanCycle(ctx context.Context) {
	opportunities := a.scanner.ScanNewMarkets(ctx)

	for _, opp := range opportunities {
		_, err := a.engine.ExecuteBuy(ctx, opp)
		if err != nil {
			if errors.Is(err, types.ErrDuplicatePosition) {
				a.logger.Debug("already-holding-token",
					zap.String("token-id", opp.TokenID))
				continue
			}
			a.logger.Error("buy-failed",
				zap.String("token-id", opp.TokenID),
				zap.Error(err))
		}
	}
}

// runSweepLoop runs the take-profit sweep on a fixed cadence.
func (a *App) runSweepLoop() {
	defer a.wg.Done()

	ticker := time.NewTicker(a.cfg.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-a.ctx.Done():
			return
		case <-ticker.C:
			a.engine.CheckTakeProfits(a.ctx)
		}
	}
}

func (a *App) waitForShutdown() error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		a.logger.Info("shutdown-signal-received", zap.String("signal", sig.String()))
	case <-a.ctx.Done():
		a.logger.Info("context-cancelled")
	}

	return a.Shutdown()
}
