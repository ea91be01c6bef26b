// Retailboard - Retail Analytics Dashboard Backend
// Copyright 2026 Retailboard Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/retailboard/retailboard

// Package main is the entry point for the Retailboard server.
//
// Retailboard serves retail analytics over a star schema of invoice
// lines: revenue KPIs, repeat-purchase rate, monthly revenue series,
// top-N rankings, RFM segmentation, and cohort retention. The fact and
// dimension tables are populated by an external ingestion job; this
// process issues read-only queries.
//
// The server initializes components in order:
//
//  1. Configuration: Koanf v2 layered sources (defaults < config.yaml < RETAILBOARD_* env)
//  2. Logging: zerolog, JSON or console format
//  3. Database: single DuckDB handle, star schema ensured at startup
//  4. Result cache: in-memory TTL cache shared by all analytics endpoints
//  5. HTTP server: Chi router with graceful shutdown on SIGINT/SIGTERM
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/retailboard/retailboard/internal/api"
	"github.com/retailboard/retailboard/internal/cache"
	"github.com/retailboard/retailboard/internal/config"
	"github.com/retailboard/retailboard/internal/database"
	"github.com/retailboard/retailboard/internal/logging"
)

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.LoadWithKoanf()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("db_path", cfg.Database.Path).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("Configuration loaded")

	// A missing or unopenable data source is a terminal configuration
	// error: fail before serving rather than per request.
	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized successfully")

	resultCache := cache.New(cfg.Cache.TTL)
	defer resultCache.Close()

	handler := api.NewHandler(db, resultCache, cfg)
	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      api.NewRouter(handler, cfg),
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		serverErr <- server.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("HTTP server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	} else {
		logging.Info().Msg("Server stopped")
	}
}
