package models

import (
	"time"

	"github.com/uptrace/bun"
)

// PlayerStats is the durable per-player statistics record. The
// reconciliation engine is its only writer on the bulk path; the live path
// mutates it through the repository's atomic increment.
type PlayerStats struct {
	bun.BaseModel `bun:"table:user_stats,alias:ust"`

	ID              string    `bun:"id,pk"`
	UserID          string    `bun:"user_id,notnull,unique"`
	Username        string    `bun:"username,notnull"`
	TotalGames      int       `bun:"total_games,notnull,default:0"`
	TotalGuesses    int       `bun:"total_guesses,notnull,default:0"`
	Wins            int       `bun:"wins,notnull,default:0"`
	Losses          int       `bun:"losses,notnull,default:0"`
	WinRate         float64   `bun:"win_rate,notnull,default:0"`
	LossRate        float64   `bun:"loss_rate,notnull,default:0"`
	AvgGuess        float64   `bun:"avg_guess,notnull,default:0"`
	LastUpdatedDate time.Time `bun:"last_updated_date,notnull"`
}
