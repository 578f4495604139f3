package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"party-planner/ai"
	"party-planner/infrastructure/source"
	"party-planner/infrastructure/transport"
	"party-planner/internal"
	"party-planner/internal/ui"
	"party-planner/repositories"
	"party-planner/runtime"
	"party-planner/services"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run wires everything and owns the lifecycle, so every defer (the Badger
// close in particular) executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.applyDefaults(); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := internal.NewLogger(config.LogLevel)

	// 2. Contact cache (BadgerDB)
	if err := os.MkdirAll(config.CacheDir, 0o755); err != nil {
		return fmt.Errorf("cache directory: %w", err)
	}
	db, err := badger.Open(badger.DefaultOptions(config.CacheDir).
		WithLoggingLevel(badger.ERROR))
	if err != nil {
		return fmt.Errorf("cache opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing contact cache...")
		_ = db.Close()
	}()

	// 3. Repositories & Services
	lists, err := repositories.NewListStore(config.ListsDir, log)
	if err != nil {
		return fmt.Errorf("list store: %w", err)
	}
	contacts := source.NewMacContacts(log, config.SyncTimeout)
	service := services.NewPlannerService(log, repositories.NewContactCache(db, log), lists, contacts)

	var drafter *ai.Drafter
	if config.GeminiAPIKey != "" {
		drafter = ai.NewDrafter(config.GeminiAPIKey)
	}

	// 4. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 5. Interactive loop
	console := ui.NewConsole(os.Stdin, os.Stdout)
	app := runtime.NewApp(log, console, service, transport.NewIMessage(log, config.SendTimeout), drafter)
	if err := app.Run(ctx); err != nil {
		return err
	}

	log.Info("Program stopped cleanly")
	return nil
}
