package wordlestats

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo"
	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/cache"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/gateway"
	"github.com/disgoorg/paginator"

	"github.com/wordlestats/wordle-stats-bot/wordlestats/database"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/database/repositories"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/services"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/wordle"
)

func New(cfg Config, version string, commit string) *Bot {
	return &Bot{
		Cfg:       cfg,
		Paginator: paginator.New(),
		Version:   version,
		Commit:    commit,
		Locks:     wordle.NewLockRegistry(),
	}
}

type Bot struct {
	Cfg             Config
	Client          bot.Client
	Paginator       *paginator.Manager
	Version         string
	Commit          string
	DB              *database.DB
	StatsRepository repositories.PlayerStatsRepository
	Directories     *services.DirectoryCache
	Locks           *wordle.LockRegistry
	Tracker         *services.Tracker
	Backfill        *services.BackfillService
}

func (b *Bot) SetupBot(listeners ...bot.EventListener) error {
	client, err := disgo.New(b.Cfg.Bot.Token,
		bot.WithGatewayConfigOpts(gateway.WithIntents(gateway.IntentGuilds, gateway.IntentGuildMessages, gateway.IntentMessageContent)),
		bot.WithCacheConfigOpts(cache.WithCaches(cache.FlagGuilds)),
		bot.WithEventListeners(b.Paginator),
		bot.WithEventListeners(listeners...),
	)
	if err != nil {
		return err
	}

	b.Client = client
	return nil
}

func (b *Bot) OnReady(_ *events.Ready) {
	slog.Info("Wordle stats bot is now ready",
		slog.String("type", "sys"),
		slog.String("version", b.Version),
		slog.String("commit", b.Commit))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := b.Client.SetPresence(ctx,
		gateway.WithWatchingActivity("Wordle results"),
		gateway.WithOnlineStatus(discord.OnlineStatusOnline)); err != nil {
		slog.Error("Failed to set presence", slog.Any("error", err))
	}
}
