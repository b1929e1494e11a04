package handlers

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/events"

	"github.com/wordlestats/wordle-stats-bot/wordlestats/services"
)

// processTimeout caps how long handling one live announcement may take,
// member directory load included.
const processTimeout = 2 * time.Minute

// NewMessageHandler returns the gateway listener that feeds live
// announcement messages into the tracker. Only messages authored by the
// announcement bot inside a guild are considered; everything else is dropped
// before any parsing happens.
func NewMessageHandler(tracker *services.Tracker) bot.EventListener {
	return bot.NewListenerFunc(func(e *events.MessageCreate) {
		if e.GuildID == nil {
			return
		}
		if !services.IsAnnouncementAuthor(e.Message.Author) {
			return
		}

		guildID := *e.GuildID
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), processTimeout)
			defer cancel()

			if err := tracker.ProcessMessage(ctx, guildID, e.Message); err != nil {
				slog.Error("Failed to process announcement",
					slog.String("type", "error"),
					slog.String("guild_id", guildID.String()),
					slog.String("message_id", e.Message.ID.String()),
					slog.Any("error", err))
			}
		}()
	})
}
