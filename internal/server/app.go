// Package server initializes and runs the application server: it opens the
// database, applies migrations, wires the services and starts the HTTP API,
// handling graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/savekeeper/internal/logging"
	"github.com/dmitrijs2005/savekeeper/internal/server/config"
	"github.com/dmitrijs2005/savekeeper/internal/server/httpapi"
	"github.com/dmitrijs2005/savekeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/savekeeper/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, slog.LevelInfo)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(context.Background(), db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	saveService := services.NewSaveService(db, rm)
	shareService := services.NewShareService(db, rm)
	toolService := services.NewToolService(db, rm)
	snapshotService := services.NewSnapshotService(db, rm, c)

	srv := httpapi.NewServer(c.EndpointAddrHTTP, logger, []byte(c.SecretKey), c.CORSAllowedOrigins,
		saveService, shareService, toolService, snapshotService)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "starting app")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "error closing db", "error", err)
	}
}
