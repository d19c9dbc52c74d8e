package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/edgex-Tech/edgex-sdk-go/internal/recorder"
	"github.com/edgex-Tech/edgex-sdk-go/internal/rest"
	"github.com/edgex-Tech/edgex-sdk-go/internal/version"
	"github.com/edgex-Tech/edgex-sdk-go/metadata"
	"github.com/edgex-Tech/edgex-sdk-go/quote"
)

func main() {
	configPath := flag.String("config", "configs/recorder.local.yaml", "path to config file")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	// .env values feed the ${VAR} substitutions in the config file.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logger.Warn("failed to load .env file", "error", err)
	}

	logger.Info("starting recorder",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Load configuration
	cfg, err := recorder.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger.Info("configuration loaded",
		"instance_id", cfg.Instance.ID,
		"api_url", cfg.API.BaseURL,
	)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Connect to database
	logger.Info("connecting to database",
		"host", cfg.Database.Host,
		"port", cfg.Database.Port,
		"database", cfg.Database.Name,
	)

	pool, err := recorder.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	logger.Info("database connected")

	// Public endpoints only, no account or signer needed.
	restClient := rest.NewClient(
		cfg.API.BaseURL,
		0,
		nil,
		rest.WithLogger(logger),
		rest.WithTimeout(cfg.API.Timeout),
		rest.WithRetries(cfg.API.MaxRetries, time.Second),
	)
	quoteClient := quote.NewClient(restClient)

	// Resolve contract IDs from exchange metadata when none are configured.
	contractIDs := cfg.Poll.ContractIDs
	if len(contractIDs) == 0 {
		metaClient := metadata.NewClient(restClient)
		meta, err := metaClient.GetMetaData(ctx)
		if err != nil {
			logger.Error("failed to fetch exchange metadata", "error", err)
			os.Exit(1)
		}
		for _, contract := range meta.ContractList {
			contractIDs = append(contractIDs, contract.ContractID)
		}
		logger.Info("resolved contracts from metadata", "contracts", len(contractIDs))
	}
	if len(contractIDs) == 0 {
		logger.Error("no contracts to record")
		os.Exit(1)
	}

	// Create and start the writer before the poller so snapshots have a
	// consumer from the first poll cycle.
	tickerWriter := recorder.NewTickerWriter(cfg.Writer, pool, logger)

	logger.Info("starting ticker writer...")
	if err := tickerWriter.Start(ctx); err != nil {
		logger.Error("failed to start ticker writer", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		tickerWriter.Stop(shutdownCtx)
	}()

	pollCfg := cfg.Poll
	pollCfg.ContractIDs = contractIDs

	input := tickerWriter.Input()
	poller := recorder.NewPoller(pollCfg, quoteClient, recorder.SnapshotHandlerFunc(func(snap recorder.TickerSnapshot) error {
		select {
		case input <- snap:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}), logger)

	logger.Info("starting quote poller...")
	if err := poller.Start(ctx); err != nil {
		logger.Error("failed to start quote poller", "error", err)
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		poller.Stop(shutdownCtx)
	}()

	// Health server
	healthServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Health.Port),
		Handler: createHealthHandler(pool, tickerWriter, len(contractIDs)),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting health server", "port", cfg.Health.Port)
		if err := healthServer.ListenAndServe(); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return healthServer.Shutdown(shutdownCtx)
	})

	logger.Info("recorder running",
		"instance_id", cfg.Instance.ID,
		"contracts", len(contractIDs),
		"health_url", fmt.Sprintf("http://localhost:%d/health", cfg.Health.Port),
	)

	if err := g.Wait(); err != nil && err != context.Canceled {
		logger.Error("recorder error", "error", err)
		os.Exit(1)
	}

	logger.Info("recorder stopped")
}

// createHealthHandler creates the HTTP handler for health checks.
func createHealthHandler(pool *pgxpool.Pool, writer *recorder.TickerWriter, contracts int) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		health := struct {
			Status     string                 `json:"status"`
			Components map[string]interface{} `json:"components"`
		}{
			Status:     "healthy",
			Components: make(map[string]interface{}),
		}

		// Check database
		if err := pool.Ping(ctx); err != nil {
			health.Status = "unhealthy"
			health.Components["postgres"] = map[string]string{
				"status": "disconnected",
				"error":  err.Error(),
			}
		} else {
			health.Components["postgres"] = "connected"
		}

		stats := writer.Stats()
		health.Components["ticker_writer"] = map[string]interface{}{
			"inserts":   stats.Inserts,
			"conflicts": stats.Conflicts,
			"flushes":   stats.Flushes,
			"errors":    stats.Errors,
		}
		health.Components["contracts"] = contracts

		w.Header().Set("Content-Type", "application/json")
		if health.Status == "unhealthy" {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(health)
	})

	return mux
}
