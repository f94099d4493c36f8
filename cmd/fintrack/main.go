package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"fintrack/internal/config"
	"fintrack/internal/handlers"
	"fintrack/internal/logger"
	"fintrack/internal/repository"
	"fintrack/internal/server"
	"fintrack/internal/service"
)

// @title                       fintrack API
// @version                     1.0
// @description                 Personal income and expense ledger.
// @BasePath                    /
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New(logger.InfoLevel, logger.ConsoleEncoding).Fatalw("error reading config", "err", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Encoding)
	defer func() { _ = log.Sync() }()

	if err := cfg.Validate(); err != nil {
		log.Fatalw("invalid config", "err", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := repository.Open(ctx, cfg.Store)
	if err != nil {
		log.Fatalw("failed to open store", "backend", cfg.Store.Backend, "err", err)
	}
	defer func() {
		if cerr := repos.Close(); cerr != nil {
			log.Errorw("failed to close store", "err", cerr)
		}
	}()

	services := service.NewService(repos, cfg.Auth)
	apiHandler := handlers.NewHandler(services, log)
	srv := server.New(cfg.Port, apiHandler.InitRoutes())

	log.Infow("server_starting", "addr", srv.Addr(), "backend", cfg.Store.Backend)
	if err := srv.Run(ctx); err != nil {
		log.Errorw("server stopped", "err", err)
		return
	}
	log.Infow("server_stopped")
}
