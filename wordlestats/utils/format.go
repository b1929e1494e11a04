package utils

import (
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"

	"github.com/wordlestats/wordle-stats-bot/wordlestats/database/models"
)

// FormatStatsEmbed renders one player's statistics card.
func FormatStatsEmbed(stats *models.PlayerStats, requestedBy string) discord.Embed {
	description := fmt.Sprintf("```ansi\n"+
		"\x1b[1;36mGames Played:\x1b[0m %d\n"+
		"\x1b[1;32mWins:\x1b[0m %d (%.2f%%)\n"+
		"\x1b[1;31mLosses:\x1b[0m %d (%.2f%%)\n"+
		"\x1b[1;35mAvg Guesses:\x1b[0m %.2f\n"+
		"\x1b[0;37m%s\x1b[0m\n"+
		"```",
		stats.TotalGames,
		stats.Wins,
		stats.WinRate,
		stats.Losses,
		stats.LossRate,
		stats.AvgGuess,
		winRateBar(stats.WinRate),
	)

	now := time.Now()
	return discord.Embed{
		Title:       fmt.Sprintf("📊 Wordle Stats — %s", stats.Username),
		Description: description,
		Color:       InfoColor,
		Footer: &discord.EmbedFooter{
			Text: fmt.Sprintf("Requested by %s", requestedBy),
		},
		Timestamp: &now,
	}
}

func winRateBar(winRate float64) string {
	const barLength = 10

	progress := winRate / 100
	if progress > 1.0 {
		progress = 1.0
	}
	filled := int(progress * float64(barLength))

	var bar strings.Builder
	bar.WriteString("[")
	for i := 0; i < barLength; i++ {
		if i < filled {
			bar.WriteString("■")
		} else {
			bar.WriteString("□")
		}
	}
	bar.WriteString(fmt.Sprintf("] %.1f%% wins", winRate))

	return bar.String()
}

// FormatLeaderboardEntry renders a single ranked line, surfacing the metric
// the board is sorted by.
func FormatLeaderboardEntry(rank int, stats *models.PlayerStats, sortBy string) string {
	var metric string
	switch sortBy {
	case "win_rate":
		metric = fmt.Sprintf("%.2f%% wins", stats.WinRate)
	case "avg_guess":
		metric = fmt.Sprintf("%.2f avg guesses", stats.AvgGuess)
	default:
		metric = fmt.Sprintf("%d games", stats.TotalGames)
	}
	return fmt.Sprintf("%s \x1b[32m%s\x1b[0m — %s (%d games)\n",
		rankBadge(rank), stats.Username, metric, stats.TotalGames)
}

func rankBadge(rank int) string {
	switch rank {
	case 1:
		return "🥇"
	case 2:
		return "🥈"
	case 3:
		return "🥉"
	default:
		return fmt.Sprintf("#%d", rank)
	}
}
