package app

import (
	"context"
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/opentalent/talentgraph-backend/internal/jobs"
	"github.com/opentalent/talentgraph-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Clients  Clients
	Services Services
	Router   *gin.Engine

	rematcher *jobs.Rematcher
	cancel    context.CancelFunc
}

func New() (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading configuration...")
	cfg := LoadConfig(log)

	clients, err := wireClients(context.Background(), log)
	if err != nil {
		log.Sync()
		return nil, err
	}

	svcs := wireServices(clients, cfg, log)
	handlers := wireHandlers(log, svcs)
	router := wireRouter(log, handlers)

	rematcher := jobs.NewRematcher(clients.Store, svcs.Matching, log, cfg.RematchSchedule, cfg.RematchConcurrency)

	return &App{
		Log:       log,
		Cfg:       cfg,
		Clients:   clients,
		Services:  svcs,
		Router:    router,
		rematcher: rematcher,
	}, nil
}

// Start launches the background rematcher. Safe to call once.
func (a *App) Start() error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	return a.rematcher.Start(ctx)
}

func (a *App) Run(addr string) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	return a.Router.Run(addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.rematcher != nil {
		a.rematcher.Stop()
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close(context.Background())
	if a.Log != nil {
		a.Log.Sync()
	}
}
