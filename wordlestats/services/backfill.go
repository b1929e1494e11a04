package services

import (
	"context"
	"fmt"
	"time"

	"log/slog"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"

	"github.com/wordlestats/wordle-stats-bot/wordlestats/database/models"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/database/repositories"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/wordle"
)

const (
	historyPageSize = 100
	probePageSize   = 10
)

// BackfillReport summarizes one full-history scan.
type BackfillReport struct {
	MessagesScanned  int
	ResultsMessages  int
	NoWinnerMessages int
	Players          int
	Merge            wordle.MergeReport
}

// BackfillService rebuilds statistics from a channel's full message history.
// A run holds the guild lock end to end, so live announcements arriving
// mid-scan queue up behind it instead of racing the bulk write.
type BackfillService struct {
	client      bot.Client
	repo        repositories.PlayerStatsRepository
	directories *DirectoryCache
	locks       *wordle.LockRegistry
}

func NewBackfillService(client bot.Client, repo repositories.PlayerStatsRepository, directories *DirectoryCache, locks *wordle.LockRegistry) *BackfillService {
	return &BackfillService{
		client:      client,
		repo:        repo,
		directories: directories,
		locks:       locks,
	}
}

// HasAnnouncements probes a channel for announcement-bot messages: a cheap
// recent-messages look first, then one full page before giving up.
func (s *BackfillService) HasAnnouncements(ctx context.Context, channelID snowflake.ID) (bool, error) {
	for _, limit := range []int{probePageSize, historyPageSize} {
		messages, err := s.client.Rest().GetMessages(channelID, 0, 0, 0, limit)
		if err != nil {
			return false, fmt.Errorf("failed to probe channel %s: %w", channelID, err)
		}
		for _, msg := range messages {
			if IsAnnouncementAuthor(msg.Author) {
				return true, nil
			}
		}
		if len(messages) < limit {
			// The channel has no more history to look at.
			return false, nil
		}
	}
	return false, nil
}

// Run scans the channel's entire history, aggregates every announcement, and
// merges the totals into the store.
func (s *BackfillService) Run(ctx context.Context, guildID, channelID snowflake.ID) (*BackfillReport, error) {
	unlock := s.locks.AcquireFor(guildID)
	defer unlock()

	dir, err := s.directories.Get(ctx, guildID)
	if err != nil {
		return nil, fmt.Errorf("failed to load member directory: %w", err)
	}

	start := time.Now()
	report := &BackfillReport{}
	accs := make(map[snowflake.ID]*wordle.Accumulator)

	var before snowflake.ID
	for {
		messages, err := s.client.Rest().GetMessages(channelID, 0, before, 0, historyPageSize)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch message history: %w", err)
		}
		if len(messages) == 0 {
			break
		}

		for _, msg := range messages {
			report.MessagesScanned++
			if !IsAnnouncementAuthor(msg.Author) {
				continue
			}
			s.aggregateMessage(ctx, msg, dir, accs, report)
		}

		before = messages[len(messages)-1].ID
		if len(messages) < historyPageSize {
			break
		}
	}

	report.Players = len(accs)

	merge, err := s.storeStats(ctx, accs)
	if err != nil {
		return nil, err
	}
	report.Merge = merge

	slog.Info("Backfill complete",
		slog.String("type", "sys"),
		slog.String("guild_id", guildID.String()),
		slog.String("channel_id", channelID.String()),
		slog.Int("messages", report.MessagesScanned),
		slog.Int("players", report.Players),
		slog.Int("added", merge.Added),
		slog.Int("updated", merge.Updated),
		slog.Int("skipped", merge.Skipped),
		slog.Duration("took", time.Since(start)))
	return report, nil
}

func (s *BackfillService) aggregateMessage(ctx context.Context, msg discord.Message, dir *GuildDirectory, accs map[snowflake.ID]*wordle.Accumulator, report *BackfillReport) {
	mentions := MentionedMembers(msg.Mentions)

	switch wordle.ClassifyMessage(msg.Content) {
	case wordle.Results:
		report.ResultsMessages++
		wordle.Aggregate(accs, wordle.ParseResults(ctx, msg.Content, mentions, dir))
	case wordle.NoWinner:
		report.NoWinnerMessages++
		wordle.Aggregate(accs, wordle.ParseNoWinner(ctx, msg.Content, mentions, dir))
	}
}

// storeStats reconciles the aggregated pass against the persisted snapshot
// and writes only the rows the merge decided to advance.
func (s *BackfillService) storeStats(ctx context.Context, accs map[snowflake.ID]*wordle.Accumulator) (wordle.MergeReport, error) {
	if len(accs) == 0 {
		return wordle.MergeReport{}, nil
	}
	if s.repo == nil {
		slog.Warn("No database configured, dropping backfill results",
			slog.String("type", "sys"),
			slog.Int("players", len(accs)))
		return wordle.MergeReport{}, nil
	}

	userIDs := make([]string, 0, len(accs))
	for id := range accs {
		userIDs = append(userIDs, id.String())
	}

	rows, err := s.repo.GetByUserIDs(ctx, userIDs)
	if err != nil {
		return wordle.MergeReport{}, fmt.Errorf("failed to read persisted stats: %w", err)
	}

	persisted := make(map[snowflake.ID]wordle.StatsRecord, len(rows))
	for _, row := range rows {
		record, err := modelToRecord(row)
		if err != nil {
			slog.Warn("Skipping malformed persisted record",
				slog.String("type", "db"),
				slog.String("user_id", row.UserID),
				slog.Any("error", err))
			continue
		}
		persisted[record.PlayerID] = record
	}

	writeSet, merge := wordle.Reconcile(accs, persisted, time.Now())
	if len(writeSet) == 0 {
		return merge, nil
	}

	records := make([]*models.PlayerStats, 0, len(writeSet))
	for _, rec := range writeSet {
		records = append(records, recordToModel(rec))
	}
	if err := s.repo.UpsertBatch(ctx, records); err != nil {
		return wordle.MergeReport{}, fmt.Errorf("failed to write merged stats: %w", err)
	}
	return merge, nil
}

func modelToRecord(m *models.PlayerStats) (wordle.StatsRecord, error) {
	playerID, err := snowflake.Parse(m.UserID)
	if err != nil {
		return wordle.StatsRecord{}, fmt.Errorf("invalid user id %q: %w", m.UserID, err)
	}
	return wordle.StatsRecord{
		RecordID:     m.ID,
		PlayerID:     playerID,
		Username:     m.Username,
		TotalGames:   m.TotalGames,
		TotalGuesses: m.TotalGuesses,
		Wins:         m.Wins,
		Losses:       m.Losses,
		WinRate:      m.WinRate,
		LossRate:     m.LossRate,
		AvgGuess:     m.AvgGuess,
		LastUpdated:  m.LastUpdatedDate,
	}, nil
}

func recordToModel(rec wordle.StatsRecord) *models.PlayerStats {
	return &models.PlayerStats{
		ID:              rec.RecordID,
		UserID:          rec.PlayerID.String(),
		Username:        rec.Username,
		TotalGames:      rec.TotalGames,
		TotalGuesses:    rec.TotalGuesses,
		Wins:            rec.Wins,
		Losses:          rec.Losses,
		WinRate:         rec.WinRate,
		LossRate:        rec.LossRate,
		AvgGuess:        rec.AvgGuess,
		LastUpdatedDate: rec.LastUpdated,
	}
}
