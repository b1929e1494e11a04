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

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/handler"

	"github.com/wordlestats/wordle-stats-bot/wordlestats"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/commands"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/database"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/database/repositories"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/handlers"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/logger"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	logger.LogSystem("Starting Wordle Stats Bot",
		slog.String("version", version),
		slog.String("commit", commit))

	shouldSyncCommands := flag.Bool("sync-commands", false, "Whether to sync commands to discord")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := wordlestats.LoadConfig(*path)
	if err != nil {
		logger.LogError("Failed to load configuration", err)
		os.Exit(-1)
	}
	logger.LogSystem("Configuration loaded successfully")

	b := wordlestats.New(*cfg, version, commit)

	// The bot degrades to command-and-parse-only mode without a database:
	// announcements still classify and log, nothing persists.
	if cfg.DB.Host != "" {
		dbStartTime := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)

		db, err := database.New(ctx, cfg.DB)
		if err != nil {
			cancel()
			slog.Error("Database connection failed",
				slog.String("type", "db"),
				slog.Any("error", err),
				slog.Duration("attempted_for", time.Since(dbStartTime)))
			os.Exit(-1)
		}

		if err := db.InitializeSchema(ctx); err != nil {
			cancel()
			slog.Error("Failed to initialize database schema",
				slog.String("type", "db"),
				slog.Any("error", err))
			os.Exit(-1)
		}

		if err := db.Ping(ctx); err != nil {
			cancel()
			slog.Error("Database health check failed",
				slog.String("type", "db"),
				slog.Any("error", err))
			os.Exit(-1)
		}
		cancel()

		slog.Info("Database connected successfully",
			slog.String("type", "db"),
			slog.String("database", cfg.DB.Database),
			slog.Duration("took", time.Since(dbStartTime)))

		b.DB = db
		b.StatsRepository = repositories.NewPlayerStatsRepository(db.BunDB())
		defer db.Close()
	} else {
		slog.Warn("No database configured, stats will not be persisted",
			slog.String("type", "sys"))
	}

	h := handler.New()
	h.Command("/setup", handlers.WrapWithLogging("setup", commands.SetupHandler(b)))
	h.Command("/stats", handlers.WrapWithLogging("stats", commands.StatsHandler(b)))
	h.Command("/leaderboard", handlers.WrapWithLogging("leaderboard", commands.LeaderboardHandler(b)))
	h.Command("/ping", handlers.WrapWithLogging("ping", commands.PingHandler(b)))
	h.Command("/help", handlers.WrapWithLogging("help", commands.HelpHandler(b)))

	if err = b.SetupBot(h, bot.NewListenerFunc(b.OnReady)); err != nil {
		slog.Error("Failed to setup bot",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("error_details", fmt.Sprintf("%+v", err)),
			slog.String("component", "bot_setup"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	// The directory cache and services need the client, so they are wired
	// after SetupBot and the live listener is registered afterwards.
	b.Directories = services.NewDirectoryCache(b.Client)
	b.Tracker = services.NewTracker(b.StatsRepository, b.Directories, b.Locks)
	b.Backfill = services.NewBackfillService(b.Client, b.StatsRepository, b.Directories, b.Locks)
	b.Client.AddEventListeners(handlers.NewMessageHandler(b.Tracker))

	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		b.Client.Close(ctx)
	}()

	if *shouldSyncCommands {
		slog.Info("Syncing commands",
			slog.String("type", "sys"),
			slog.Any("guild_ids", cfg.Bot.DevGuilds),
		)
		if err = handler.SyncCommands(b.Client, commands.Commands, cfg.Bot.DevGuilds); err != nil {
			slog.Error("Failed to sync commands",
				slog.String("type", "sys"),
				slog.Any("error", err),
				slog.String("component", "command_sync"),
				slog.String("status", "failed"),
			)
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err = b.Client.OpenGateway(ctx); err != nil {
		slog.Error("Failed to open gateway",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.String("component", "gateway"),
			slog.String("status", "failed"),
		)
		os.Exit(-1)
	}

	slog.Info("Bot is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	slog.Info("Shutting down bot...")
}
