package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/uptrace/bun"

	"github.com/wordlestats/wordle-stats-bot/wordlestats/database/models"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/wordle"
)

// statsBatchSize bounds the number of ids per IN-query so request sizes stay
// predictable no matter how many players a scan found.
const statsBatchSize = 50

type PlayerStatsRepository interface {
	GetByUserID(ctx context.Context, userID string) (*models.PlayerStats, error)
	GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*models.PlayerStats, error)
	GetLeaderboard(ctx context.Context, userIDs []string, sortBy string, minGames int) ([]*models.PlayerStats, error)
	UpsertBatch(ctx context.Context, records []*models.PlayerStats) error
	IncrementGame(ctx context.Context, outcome wordle.Outcome, messageDate time.Time) error
}

type playerStatsRepository struct {
	db *bun.DB
}

func NewPlayerStatsRepository(db *bun.DB) PlayerStatsRepository {
	return &playerStatsRepository{db: db}
}

// GetByUserID returns the stored record for one player, or nil when none
// exists.
func (r *playerStatsRepository) GetByUserID(ctx context.Context, userID string) (*models.PlayerStats, error) {
	stats := new(models.PlayerStats)
	err := r.db.NewSelect().
		Model(stats).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		slog.Error("Failed to fetch player stats",
			slog.String("type", "db"),
			slog.String("operation", "GetByUserID"),
			slog.String("user_id", userID),
			slog.Any("error", err))
		return nil, err
	}
	return stats, nil
}

// GetByUserIDs reads records for the given players in fixed-size batches and
// returns them keyed by user id. Players without a record are absent from
// the map.
func (r *playerStatsRepository) GetByUserIDs(ctx context.Context, userIDs []string) (map[string]*models.PlayerStats, error) {
	result := make(map[string]*models.PlayerStats, len(userIDs))

	for start := 0; start < len(userIDs); start += statsBatchSize {
		end := min(start+statsBatchSize, len(userIDs))
		batch := userIDs[start:end]

		var rows []*models.PlayerStats
		err := r.db.NewSelect().
			Model(&rows).
			Where("user_id IN (?)", bun.In(batch)).
			Scan(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch stats batch: %w", err)
		}
		for _, row := range rows {
			result[row.UserID] = row
		}
	}

	return result, nil
}

// GetLeaderboard returns the ranked board for the given players only, so one
// guild's board never surfaces another guild's records. Rows are read with
// the same batched id lookup the reconciliation path uses, then ranked in
// memory.
func (r *playerStatsRepository) GetLeaderboard(ctx context.Context, userIDs []string, sortBy string, minGames int) ([]*models.PlayerStats, error) {
	rows, err := r.GetByUserIDs(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	return rankLeaderboard(rows, sortBy, minGames), nil
}

// rankLeaderboard filters and orders stats rows for display. Unknown sort
// keys fall back to games played; ties always break on games, then name, so
// page order is stable across refreshes.
func rankLeaderboard(rows map[string]*models.PlayerStats, sortBy string, minGames int) []*models.PlayerStats {
	ranked := make([]*models.PlayerStats, 0, len(rows))
	for _, row := range rows {
		if row.TotalGames >= minGames {
			ranked = append(ranked, row)
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch sortBy {
		case "win_rate":
			if a.WinRate != b.WinRate {
				return a.WinRate > b.WinRate
			}
		case "avg_guess":
			if a.AvgGuess != b.AvgGuess {
				return a.AvgGuess < b.AvgGuess
			}
		}
		if a.TotalGames != b.TotalGames {
			return a.TotalGames > b.TotalGames
		}
		return a.Username < b.Username
	})
	return ranked
}

// UpsertBatch writes a reconciliation write-set in a single statement,
// keyed on the deterministic record id.
func (r *playerStatsRepository) UpsertBatch(ctx context.Context, records []*models.PlayerStats) error {
	if len(records) == 0 {
		return nil
	}

	_, err := r.db.NewInsert().
		Model(&records).
		On("CONFLICT (id) DO UPDATE").
		Set("user_id = EXCLUDED.user_id").
		Set("username = EXCLUDED.username").
		Set("total_games = EXCLUDED.total_games").
		Set("total_guesses = EXCLUDED.total_guesses").
		Set("wins = EXCLUDED.wins").
		Set("losses = EXCLUDED.losses").
		Set("win_rate = EXCLUDED.win_rate").
		Set("loss_rate = EXCLUDED.loss_rate").
		Set("avg_guess = EXCLUDED.avg_guess").
		Set("last_updated_date = EXCLUDED.last_updated_date").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert stats records: %w", err)
	}
	return nil
}

// incrementSQL applies one game outcome server-side in a single statement.
// The date guard suppresses duplicates: a row already updated on the
// message's calendar day is left untouched, which is why bulk writes
// backdate last_updated_date by a day.
const incrementSQL = `
INSERT INTO user_stats AS ust (
	id, user_id, username, total_games, total_guesses, wins, losses,
	win_rate, loss_rate, avg_guess, last_updated_date
) VALUES (?, ?, ?, 1, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (user_id) DO UPDATE SET
	username = EXCLUDED.username,
	total_games = ust.total_games + 1,
	total_guesses = ust.total_guesses + EXCLUDED.total_guesses,
	wins = ust.wins + EXCLUDED.wins,
	losses = ust.losses + EXCLUDED.losses,
	win_rate = ROUND((ust.wins + EXCLUDED.wins)::numeric * 100 / (ust.total_games + 1), 2),
	loss_rate = ROUND((ust.losses + EXCLUDED.losses)::numeric * 100 / (ust.total_games + 1), 2),
	avg_guess = ROUND((ust.total_guesses + EXCLUDED.total_guesses)::numeric / (ust.total_games + 1), 2),
	last_updated_date = EXCLUDED.last_updated_date
WHERE ust.last_updated_date::date < EXCLUDED.last_updated_date::date
`

// IncrementGame atomically folds a single live outcome into the player's
// record, creating it if absent.
func (r *playerStatsRepository) IncrementGame(ctx context.Context, outcome wordle.Outcome, messageDate time.Time) error {
	wins, losses := 0, 1
	winRate, lossRate := 0.0, 100.0
	if outcome.Won {
		wins, losses = 1, 0
		winRate, lossRate = 100.0, 0.0
	}

	start := time.Now()
	_, err := r.db.ExecContext(ctx, incrementSQL,
		wordle.RecordID(outcome.PlayerID),
		outcome.PlayerID.String(),
		outcome.Username,
		outcome.Guesses,
		wins,
		losses,
		winRate,
		lossRate,
		float64(outcome.Guesses),
		messageDate,
	)
	if err != nil {
		slog.Error("Failed to increment player stats",
			slog.String("type", "db"),
			slog.String("operation", "IncrementGame"),
			slog.String("user_id", outcome.PlayerID.String()),
			slog.Duration("took", time.Since(start)),
			slog.Any("error", err))
		return fmt.Errorf("failed to increment stats for %s: %w", outcome.PlayerID, err)
	}

	slog.Debug("Player stats incremented",
		slog.String("type", "db"),
		slog.String("operation", "IncrementGame"),
		slog.String("user_id", outcome.PlayerID.String()),
		slog.Duration("took", time.Since(start)))
	return nil
}
