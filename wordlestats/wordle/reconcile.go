package wordle

import (
	"math"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
)

// StatsRecord is the persisted-record-shaped row the reconciliation engine
// produces. The rate and average fields are a denormalized cache of the raw
// counters, rounded to two decimals.
type StatsRecord struct {
	RecordID     string
	PlayerID     snowflake.ID
	Username     string
	TotalGames   int
	TotalGuesses int
	Wins         int
	Losses       int
	WinRate      float64
	LossRate     float64
	AvgGuess     float64
	LastUpdated  time.Time
}

// MergeReport counts what a reconciliation pass decided per player.
type MergeReport struct {
	Added   int
	Updated int
	Skipped int
}

// RecordID derives the stable persisted-record key for a player: a UUIDv5 of
// the player id, so reprocessing the same history always targets the same
// row.
func RecordID(playerID snowflake.ID) string {
	return uuid.NewSHA1(uuid.NameSpaceDNS, []byte(playerID.String())).String()
}

// Reconcile merges locally computed stats against the persisted snapshot.
// A player is written when no record exists or when the local pass saw
// strictly more games than the stored record; otherwise the stored row is at
// least as complete and is left untouched, so a partial re-scan can never
// clobber good data. The write timestamp is backdated a full day so a live
// update arriving today is not rejected by the date-based duplicate
// suppression on the increment path.
func Reconcile(local map[snowflake.ID]*Accumulator, persisted map[snowflake.ID]StatsRecord, now time.Time) ([]StatsRecord, MergeReport) {
	lastUpdated := now.Add(-24 * time.Hour)

	var writeSet []StatsRecord
	var report MergeReport
	for id, acc := range local {
		prev, exists := persisted[id]
		if exists && prev.TotalGames >= acc.TotalGames {
			report.Skipped++
			continue
		}
		writeSet = append(writeSet, buildRecord(acc, lastUpdated))
		if exists {
			report.Updated++
		} else {
			report.Added++
		}
	}
	return writeSet, report
}

func buildRecord(acc *Accumulator, lastUpdated time.Time) StatsRecord {
	derived := Derive(acc)
	return StatsRecord{
		RecordID:     RecordID(acc.PlayerID),
		PlayerID:     acc.PlayerID,
		Username:     acc.Username,
		TotalGames:   acc.TotalGames,
		TotalGuesses: acc.TotalGuesses,
		Wins:         acc.Wins,
		Losses:       acc.Losses,
		WinRate:      round2(derived.WinRate),
		LossRate:     round2(derived.LossRate),
		AvgGuess:     round2(derived.AvgGuess),
		LastUpdated:  lastUpdated,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
