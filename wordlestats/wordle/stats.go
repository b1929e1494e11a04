package wordle

import "github.com/disgoorg/snowflake/v2"

// Accumulator holds running counters for one player within a single
// aggregation pass. It is never persisted directly; the reconciliation
// engine turns it into records.
type Accumulator struct {
	PlayerID     snowflake.ID
	Username     string
	TotalGames   int
	TotalGuesses int
	Wins         int
	Losses       int
}

// Aggregate folds outcomes into the per-player accumulator map, creating
// entries on first sight. There is no deduplication here: callers must feed
// each real game event exactly once.
func Aggregate(accs map[snowflake.ID]*Accumulator, outcomes []Outcome) {
	for _, o := range outcomes {
		acc, ok := accs[o.PlayerID]
		if !ok {
			acc = &Accumulator{PlayerID: o.PlayerID, Username: o.Username}
			accs[o.PlayerID] = acc
		}
		acc.TotalGames++
		if o.Won {
			acc.Wins++
		} else {
			acc.Losses++
		}
		acc.TotalGuesses += o.Guesses
	}
}

// DerivedStats are computed on demand from the raw counters and never stored
// as ground truth ahead of them.
type DerivedStats struct {
	WinRate  float64
	LossRate float64
	AvgGuess float64
}

// Derive computes rate and average fields from an accumulator. Values are
// unrounded; rounding happens when persisted records are built.
func Derive(acc *Accumulator) DerivedStats {
	if acc.TotalGames == 0 {
		return DerivedStats{}
	}
	games := float64(acc.TotalGames)
	return DerivedStats{
		WinRate:  float64(acc.Wins) / games * 100,
		LossRate: float64(acc.Losses) / games * 100,
		AvgGuess: float64(acc.TotalGuesses) / games,
	}
}
