// Command mulligan-trainer runs the mulligan practice API server: decklist
// parsing, Scryfall card resolution, and the draw simulation.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mulligan-trainer/internal/api"
	"mulligan-trainer/internal/cards"
	"mulligan-trainer/internal/config"
	"mulligan-trainer/internal/scryfall"
	"mulligan-trainer/internal/simulation"
	"mulligan-trainer/internal/stats"
)

var (
	configPath = flag.String("config", "config.toml", "Path to TOML config file")
	port       = flag.Int("port", 0, "Override the configured server port")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid config", "error", err)
		os.Exit(1)
	}

	cacheTTL, err := cfg.GetCacheTTL()
	if err != nil {
		slog.Error("invalid cache TTL", "error", err)
		os.Exit(1)
	}
	requestTimeout, err := cfg.GetRequestTimeout()
	if err != nil {
		slog.Error("invalid request timeout", "error", err)
		os.Exit(1)
	}

	client := scryfall.NewClient(scryfall.ClientOptions{
		BaseURL:   cfg.Scryfall.BaseURL,
		UserAgent: cfg.Scryfall.UserAgent,
	})
	resolver := cards.NewResolver(client, cards.ResolverOptions{TTL: cacheTTL})
	engine := simulation.NewEngine()
	store := stats.NewStore()

	server := api.NewServer(&api.Config{
		Port:           cfg.Server.Port,
		RequestTimeout: requestTimeout,
	}, resolver, engine, store)

	server.Start()
	slog.Info("mulligan trainer ready", "port", cfg.Server.Port, "cache_ttl", cacheTTL.String())

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}
