package services

import (
	"context"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"

	"github.com/wordlestats/wordle-stats-bot/wordlestats/database/models"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/wordle"
)

type fakeStatsRepo struct {
	rows     map[string]*models.PlayerStats
	upserted []*models.PlayerStats
}

func (r *fakeStatsRepo) GetByUserID(_ context.Context, userID string) (*models.PlayerStats, error) {
	return r.rows[userID], nil
}

func (r *fakeStatsRepo) GetByUserIDs(_ context.Context, userIDs []string) (map[string]*models.PlayerStats, error) {
	result := make(map[string]*models.PlayerStats)
	for _, id := range userIDs {
		if row, ok := r.rows[id]; ok {
			result[id] = row
		}
	}
	return result, nil
}

func (r *fakeStatsRepo) GetLeaderboard(_ context.Context, _ []string, _ string, _ int) ([]*models.PlayerStats, error) {
	return nil, nil
}

func (r *fakeStatsRepo) UpsertBatch(_ context.Context, records []*models.PlayerStats) error {
	r.upserted = append(r.upserted, records...)
	return nil
}

func (r *fakeStatsRepo) IncrementGame(_ context.Context, _ wordle.Outcome, _ time.Time) error {
	return nil
}

func TestStoreStats_WritesNewAndAdvancedPlayers(t *testing.T) {
	repo := &fakeStatsRepo{
		rows: map[string]*models.PlayerStats{
			"222": {
				ID:         wordle.RecordID(222),
				UserID:     "222",
				Username:   "bobsmith",
				TotalGames: 9,
			},
		},
	}
	svc := &BackfillService{repo: repo}

	accs := map[snowflake.ID]*wordle.Accumulator{
		111: {PlayerID: 111, Username: "alice", TotalGames: 4, TotalGuesses: 14, Wins: 3, Losses: 1},
		222: {PlayerID: 222, Username: "bobsmith", TotalGames: 2, TotalGuesses: 8, Wins: 1, Losses: 1},
	}

	merge, err := svc.storeStats(context.Background(), accs)
	if err != nil {
		t.Fatalf("storeStats() error = %v", err)
	}

	if merge != (wordle.MergeReport{Added: 1, Skipped: 1}) {
		t.Errorf("merge = %+v, want 1 added 1 skipped", merge)
	}
	if len(repo.upserted) != 1 {
		t.Fatalf("upserted %d rows, want 1", len(repo.upserted))
	}

	row := repo.upserted[0]
	if row.UserID != "111" || row.TotalGames != 4 || row.Wins != 3 {
		t.Errorf("unexpected upserted row: %+v", row)
	}
	if row.WinRate != 75.0 {
		t.Errorf("WinRate = %v, want 75", row.WinRate)
	}
	if row.ID != wordle.RecordID(111) {
		t.Errorf("record id = %s, want %s", row.ID, wordle.RecordID(111))
	}
}

func TestStoreStats_NothingToWrite(t *testing.T) {
	repo := &fakeStatsRepo{}
	svc := &BackfillService{repo: repo}

	merge, err := svc.storeStats(context.Background(), nil)
	if err != nil {
		t.Fatalf("storeStats() error = %v", err)
	}
	if merge != (wordle.MergeReport{}) {
		t.Errorf("merge = %+v, want zero", merge)
	}
	if len(repo.upserted) != 0 {
		t.Errorf("upserted %d rows, want 0", len(repo.upserted))
	}
}

func TestStoreStats_NoRepositoryDegradesToNoop(t *testing.T) {
	svc := &BackfillService{}

	accs := map[snowflake.ID]*wordle.Accumulator{
		111: {PlayerID: 111, Username: "alice", TotalGames: 1, Wins: 1, TotalGuesses: 3},
	}

	merge, err := svc.storeStats(context.Background(), accs)
	if err != nil {
		t.Fatalf("storeStats() error = %v", err)
	}
	if merge != (wordle.MergeReport{}) {
		t.Errorf("merge = %+v, want zero without a repository", merge)
	}
}

func TestRecordModelRoundTrip(t *testing.T) {
	rec := wordle.StatsRecord{
		RecordID:     wordle.RecordID(111),
		PlayerID:     111,
		Username:     "alice",
		TotalGames:   4,
		TotalGuesses: 14,
		Wins:         3,
		Losses:       1,
		WinRate:      75,
		LossRate:     25,
		AvgGuess:     3.5,
		LastUpdated:  time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC),
	}

	back, err := modelToRecord(recordToModel(rec))
	if err != nil {
		t.Fatalf("modelToRecord() error = %v", err)
	}
	if back != rec {
		t.Errorf("round trip changed record: %+v != %+v", back, rec)
	}
}

func TestModelToRecord_RejectsMalformedUserID(t *testing.T) {
	_, err := modelToRecord(&models.PlayerStats{UserID: "not-a-snowflake"})
	if err == nil {
		t.Fatal("modelToRecord() accepted a malformed user id")
	}
}
