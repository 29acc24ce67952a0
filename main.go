package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gavelhouse/gavel/gavel"
	"github.com/gavelhouse/gavel/gavel/agent"
	"github.com/gavelhouse/gavel/gavel/auction"
	"github.com/gavelhouse/gavel/gavel/database"
	"github.com/gavelhouse/gavel/gavel/database/repositories"
	"github.com/gavelhouse/gavel/gavel/logger"
	"github.com/gavelhouse/gavel/gavel/server"
	"github.com/gavelhouse/gavel/gavel/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

// newLogHandler builds the configured slog handler: the colored console
// handler by default, or plain JSON when log.format = "json".
func newLogHandler(cfg gavel.LogConfig) slog.Handler {
	opts := &slog.HandlerOptions{Level: cfg.Level, AddSource: cfg.AddSource}
	if cfg.Format == "json" {
		return slog.NewJSONHandler(os.Stdout, opts)
	}
	return logger.NewHandler("Gavel", opts)
}

func main() {
	slog.SetDefault(slog.New(logger.NewHandler("Gavel", nil)))

	slog.Info("Starting Gavel auction daemon",
		slog.String("version", version),
		slog.String("commit", commit))

	path := flag.String("config", "config.toml", "path to config")
	seedPlayers := flag.Bool("seed-players", true, "seed the player catalog if empty")
	flag.Parse()

	cfg, err := gavel.LoadConfig(*path)
	if err != nil {
		logger.LogError("Failed to load configuration", err)
		os.Exit(-1)
	}
	slog.SetDefault(slog.New(newLogHandler(cfg.Log)))
	logger.LogSystem("Configuration loaded successfully")

	slog.Info("Initializing database connection...")
	dbStartTime := time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.String("error", err.Error()))
		os.Exit(-1)
	}
	if *seedPlayers {
		if err := db.InitializePlayerData(ctx); err != nil {
			slog.Error("Failed to seed player catalog", slog.String("error", err.Error()))
			os.Exit(-1)
		}
	}

	roomRepo := repositories.NewRoomRepository(db.BunDB())
	teamRepo := repositories.NewTeamRepository(db.BunDB())
	playerRepo := repositories.NewPlayerRepository(db.BunDB())
	auctionRepo := repositories.NewAuctionRepository(db.BunDB())

	engine := auction.NewEngine(auctionRepo)
	searchService := services.NewSearchService(playerRepo)

	scheduler := auction.NewScheduler(engine, time.Second)
	scheduler.Start()
	defer scheduler.Shutdown()

	runner := agent.NewRunner(
		engine,
		roomRepo,
		teamRepo,
		playerRepo,
		auctionRepo,
		agent.NewHeuristic(time.Now().UnixNano()),
		agent.Config{
			TickInterval:    cfg.Agent.TickInterval,
			NominationDelay: time.Duration(cfg.Agent.NominationDelayMS) * time.Millisecond,
			BidWindow:       time.Duration(cfg.Agent.BidWindowMS) * time.Millisecond,
			Jitter:          time.Duration(cfg.Agent.JitterMS) * time.Millisecond,
		},
	)
	runner.Start()
	defer runner.Shutdown()

	srv := server.New(engine, roomRepo, teamRepo, playerRepo, auctionRepo, searchService, cfg.Auction)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := srv.Listen(address); err != nil {
			slog.Error("HTTP server failed", slog.String("error", err.Error()))
			os.Exit(-1)
		}
	}()

	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s

	logger.LogSystem("Shutting down Gavel...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server shutdown error", slog.String("error", err.Error()))
	}
	slog.Info("Shutdown complete")
}
