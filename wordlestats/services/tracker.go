package services

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/wordlestats/wordle-stats-bot/wordlestats/database/repositories"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/wordle"
)

// AnnouncementBotID is the Wordle announcement bot whose daily messages are
// the only input this service trusts.
const AnnouncementBotID = snowflake.ID(1211781489931452447)

// IsAnnouncementAuthor reports whether a message author is the announcement
// bot, by id or by the bot's account name. Everything else, including our own
// messages, is ignored upstream.
func IsAnnouncementAuthor(author discord.User) bool {
	return author.ID == AnnouncementBotID || author.Username == "Wordle"
}

// Tracker applies live announcement messages to persisted stats as they
// arrive. Messages for the same guild are serialized through the lock
// registry so two announcements can never interleave their read-modify-write
// cycles.
type Tracker struct {
	repo        repositories.PlayerStatsRepository
	directories *DirectoryCache
	locks       *wordle.LockRegistry
}

func NewTracker(repo repositories.PlayerStatsRepository, directories *DirectoryCache, locks *wordle.LockRegistry) *Tracker {
	return &Tracker{
		repo:        repo,
		directories: directories,
		locks:       locks,
	}
}

// ProcessMessage classifies one announcement and folds its outcomes into the
// store. Unrecognized messages return immediately without taking the guild
// lock.
func (t *Tracker) ProcessMessage(ctx context.Context, guildID snowflake.ID, message discord.Message) error {
	classification := wordle.ClassifyMessage(message.Content)
	if classification == wordle.Unrecognized {
		return nil
	}

	unlock := t.locks.AcquireFor(guildID)
	defer unlock()

	dir, err := t.directories.Get(ctx, guildID)
	if err != nil {
		return fmt.Errorf("failed to load member directory: %w", err)
	}

	mentions := MentionedMembers(message.Mentions)

	var outcomes []wordle.Outcome
	switch classification {
	case wordle.Results:
		outcomes = wordle.ParseResults(ctx, message.Content, mentions, dir)
	case wordle.NoWinner:
		outcomes = wordle.ParseNoWinner(ctx, message.Content, mentions, dir)
	}

	if len(outcomes) == 0 {
		slog.Warn("Announcement matched but no players resolved",
			slog.String("type", "sys"),
			slog.String("guild_id", guildID.String()),
			slog.String("classification", classification.String()),
			slog.String("message_id", message.ID.String()))
		return nil
	}

	if t.repo == nil {
		slog.Warn("No database configured, dropping live outcomes",
			slog.String("type", "sys"),
			slog.String("guild_id", guildID.String()),
			slog.Int("outcomes", len(outcomes)))
		return nil
	}

	applied := 0
	for _, outcome := range outcomes {
		if err := t.repo.IncrementGame(ctx, outcome, message.CreatedAt); err != nil {
			slog.Error("Failed to apply outcome",
				slog.String("type", "error"),
				slog.String("guild_id", guildID.String()),
				slog.String("user_id", outcome.PlayerID.String()),
				slog.Any("error", err))
			continue
		}
		applied++
	}

	slog.Info("Processed announcement",
		slog.String("type", "sys"),
		slog.String("guild_id", guildID.String()),
		slog.String("classification", classification.String()),
		slog.Int("outcomes", len(outcomes)),
		slog.Int("applied", applied))
	return nil
}
