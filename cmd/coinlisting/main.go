package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"coinlisting/internal/adapter/gate"
	"coinlisting/internal/adapter/generator"
	"coinlisting/internal/adapter/handler"
	"coinlisting/internal/adapter/listing"
	"coinlisting/internal/adapter/storage"
	"coinlisting/internal/application/service"
	"coinlisting/internal/application/usecase"
	"coinlisting/internal/domain/port"
	"coinlisting/internal/infrastructure/config"
	"coinlisting/internal/infrastructure/logger"
	"coinlisting/internal/infrastructure/server"
	"coinlisting/internal/presentation/theme"
)

var (
	configPath = flag.String("config", "configs/config.yaml", "Path to the YAML config")
	portFlag   = flag.Int("port", 0, "Port number")
	helpFlag   = flag.Bool("help", false, "Show help")
)

type App struct {
	config  *config.Config
	logger  *slog.Logger
	server  *server.Server
	journal port.JournalPort
	gate    port.RefreshGate
}

func main() {
	flag.Parse()

	if *helpFlag {
		printUsage()
		os.Exit(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *portFlag != 0 {
		cfg.Server.Port = *portFlag
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log.Info("starting coinlisting", "version", "1.0.0", "sites", len(cfg.Sites), "mode", cfg.Mode)

	app := &App{config: cfg, logger: log}

	app.journal, err = openJournal(cfg, log)
	if err != nil {
		log.Error("failed to initialize load journal", "driver", cfg.Journal.Driver, "error", err)
		os.Exit(1)
	}

	app.gate, err = openGate(cfg, log)
	if err != nil {
		log.Error("failed to initialize refresh gate", "error", err)
		app.journal.Close()
		os.Exit(1)
	}

	renderer, err := theme.NewRenderer()
	if err != nil {
		log.Error("failed to parse templates", "error", err)
		app.close()
		os.Exit(1)
	}

	modeService := service.NewModeService(cfg.DataMode(), log)
	viewStore := service.NewViewStore(cfg.Views.TTL, cfg.Views.MaxViews, log)

	sources := usecase.Sources{
		Live: listing.NewHTTPSource(listing.Options{
			URL:           cfg.Listing.URL,
			Headers:       cfg.ListingHeaders(),
			QuoteCurrency: cfg.Listing.QuoteCurrency,
			Timeout:       cfg.Listing.Timeout,
		}, log),
		Test: generator.NewTestGenerator("generator", cfg.TestGenerator.Seed, log),
	}

	listingUseCase := usecase.NewListingUseCase(
		cfg.SiteList(),
		sources,
		modeService,
		viewStore,
		app.journal,
		app.gate,
		cfg.Refresh.Cooldown,
		log,
	)

	router := handler.NewRouter(
		handler.NewSiteHandler(listingUseCase, renderer, modeService, log),
		handler.NewAPIHandler(listingUseCase, log),
		handler.NewModeHandler(modeService, nil, log),
		handler.NewHealthHandler(app.journal, app.gate, log),
	)

	app.server = server.NewServer(cfg.Server.Port, server.Timeouts{
		Read:  cfg.Server.ReadTimeout,
		Write: cfg.Server.WriteTimeout,
		Idle:  cfg.Server.IdleTimeout,
	}, router, log)

	go func() {
		if err := app.server.Start(); err != nil {
			log.Error("server error", "error", err)
			app.close()
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	log.Info("shutting down gracefully")
	app.shutdown()
}

func openJournal(cfg *config.Config, log *slog.Logger) (port.JournalPort, error) {
	if cfg.Journal.Driver == storage.DriverNone {
		log.Info("load journal disabled")
		return storage.NopJournal{}, nil
	}

	journal, err := storage.NewSQLJournal(cfg.Journal.Driver, cfg.JournalDSN())
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := journal.InitSchema(ctx); err != nil {
		journal.Close()
		return nil, fmt.Errorf("init journal schema: %w", err)
	}

	log.Info("load journal ready", "driver", cfg.Journal.Driver)
	return journal, nil
}

func openGate(cfg *config.Config, log *slog.Logger) (port.RefreshGate, error) {
	if !cfg.Redis.Enabled {
		log.Info("using in-memory refresh gate")
		return gate.NewMemoryGate(), nil
	}

	g, err := gate.NewRedisGate(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		return nil, err
	}
	log.Info("using redis refresh gate", "addr", cfg.RedisAddr())
	return g, nil
}

func (a *App) close() {
	if a.gate != nil {
		if err := a.gate.Close(); err != nil {
			a.logger.Error("failed to close refresh gate", "error", err)
		}
	}
	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.logger.Error("failed to close load journal", "error", err)
		}
	}
}

func (a *App) shutdown() {
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("shutdown error", "error", err)
	}

	a.close()
	a.logger.Info("shutdown complete")
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  coinlisting [--config <path>] [--port <N>]")
	fmt.Println("  coinlisting --help")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --config PATH  Path to the YAML config (default configs/config.yaml)")
	fmt.Println("  --port N       Port number")
}
