// Package app wires the bot together and runs its two loops: the market
// scan loop that opens positions and the take-profit sweep loop that
// exits them.
package app

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/betzbotz1/betzbotz-bot1/internal/engine"
	"github.com/betzbotz1/betzbotz-bot1/internal/gateway"
	"github.com/betzbotz1/betzbotz-bot1/internal/scanner"
	"github.com/betzbotz1/betzbotz-bot1/internal/storage"
	"github.com/betzbotz1/betzbotz-bot1/pkg/cache"
	"github.com/betzbotz1/betzbotz-bot1/pkg/config"
	"github.com/betzbotz1/betzbotz-bot1/pkg/healthprobe"
	"github.com/betzbotz1/betzbotz-bot1/pkg/httpserver"
)

// App is the main application orchestrator.
type App struct {
	cfg           *config.Config
	logger        *zap.Logger
	healthChecker *healthprobe.HealthChecker
	httpServer    *httpserver.Server
	gateway       *gateway.Client
	scanner       *scanner.Scanner
	engine        *engine.Engine
	storage       storage.Storage
	marketCache   cache.Cache
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
}
