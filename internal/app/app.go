// Package app provides application-level wiring for the trade statistics
// API: repositories, cache, service, and HTTP router.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"

	"secex-api/internal/api"
	"secex-api/internal/cache"
	"secex-api/internal/config"
	internaldb "secex-api/internal/db"
	"secex-api/internal/db/repository"
	"secex-api/internal/domain"
	"secex-api/internal/seed"
	"secex-api/internal/service"
)

// Deps holds the external dependencies that main() must provide: config,
// database handles, and the logger.
type Deps struct {
	Cfg     *config.Config
	WriteDB *sql.DB
	ReadDB  *sql.DB
	Logger  *slog.Logger
}

// App is the fully-wired application.
type App struct {
	Data    *service.DataService
	Handler *api.Handler
	Router  http.Handler
}

// New wires repositories, cache, service, and router from the provided
// deps. Request-path queries run on the read pool only.
func New(deps Deps) *App {
	attrRepo := repository.NewAttrRepo(deps.ReadDB)
	factRepo := repository.NewFactRepo(deps.ReadDB)

	var respCache domain.ResponseCache
	if deps.Cfg.CacheEnabled {
		respCache = cache.NewMemory()
	}

	data := service.NewDataService(attrRepo, factRepo, respCache,
		deps.Logger.With("component", "data-service"))
	handler := api.NewHandler(data, api.BuildRoutes(), deps.Logger.With("component", "api"))

	return &App{
		Data:    data,
		Handler: handler,
		Router:  api.NewRouter(deps.Cfg, handler),
	}
}

// Prepare runs pending migrations on the write pool and, when configured,
// loads the embedded demo dataset.
func Prepare(ctx context.Context, deps Deps) error {
	if err := internaldb.RunMigrations(deps.WriteDB); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	if deps.Cfg.SeedOnStart {
		if err := seed.Run(ctx, deps.WriteDB, deps.Logger.With("component", "seed")); err != nil {
			return fmt.Errorf("seed: %w", err)
		}
	}
	return nil
}
