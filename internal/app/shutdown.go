package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Shutdown gracefully shuts down the application.
func (a *App) Shutdown() error {
	a.logger.Info("application-shutting-down")

	a.healthChecker.SetReady(false)

	// Cancel context to signal the loops
	a.cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http-server-shutdown-error", zap.Error(err))
	}

	if err := a.storage.Close(); err != nil {
		a.logger.Error("storage-close-error", zap.Error(err))
	}

	a.marketCache.Close()

	// Wait for all goroutines
	a.wg.Wait()

	a.logger.Info("application-shutdown-complete")

	return nil
}
