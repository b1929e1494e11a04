package repositories

import (
	"testing"

	"github.com/wordlestats/wordle-stats-bot/wordlestats/database/models"
)

func boardRows() map[string]*models.PlayerStats {
	return map[string]*models.PlayerStats{
		"111": {UserID: "111", Username: "alice", TotalGames: 20, WinRate: 90, AvgGuess: 3.8},
		"222": {UserID: "222", Username: "bobsmith", TotalGames: 30, WinRate: 80, AvgGuess: 4.1},
		"333": {UserID: "333", Username: "carol", TotalGames: 5, WinRate: 100, AvgGuess: 2.0},
		"444": {UserID: "444", Username: "dave", TotalGames: 20, WinRate: 90, AvgGuess: 3.8},
	}
}

func usernames(rows []*models.PlayerStats) []string {
	names := make([]string, 0, len(rows))
	for _, row := range rows {
		names = append(names, row.Username)
	}
	return names
}

func TestRankLeaderboard_FiltersByMinGames(t *testing.T) {
	ranked := rankLeaderboard(boardRows(), "games", 10)

	for _, row := range ranked {
		if row.TotalGames < 10 {
			t.Errorf("player %s with %d games below the threshold made the board", row.Username, row.TotalGames)
		}
	}
	if len(ranked) != 3 {
		t.Errorf("board has %d players, want 3", len(ranked))
	}
}

func TestRankLeaderboard_OnlyGivenPlayersAppear(t *testing.T) {
	// The rows map is already scoped to one guild's member ids by the
	// batched lookup; ranking must never surface anyone else.
	rows := map[string]*models.PlayerStats{
		"111": {UserID: "111", Username: "alice", TotalGames: 20},
	}
	ranked := rankLeaderboard(rows, "games", 0)

	if len(ranked) != 1 || ranked[0].UserID != "111" {
		t.Errorf("ranked = %v, want only the scoped player", usernames(ranked))
	}
}

func TestRankLeaderboard_SortOrders(t *testing.T) {
	tests := []struct {
		sortBy string
		want   []string
	}{
		// ties on the metric break on games, then name
		{"games", []string{"bobsmith", "alice", "dave", "carol"}},
		{"win_rate", []string{"carol", "alice", "dave", "bobsmith"}},
		{"avg_guess", []string{"carol", "alice", "dave", "bobsmith"}},
		{"bogus", []string{"bobsmith", "alice", "dave", "carol"}},
	}

	for _, tt := range tests {
		t.Run(tt.sortBy, func(t *testing.T) {
			got := usernames(rankLeaderboard(boardRows(), tt.sortBy, 0))
			if len(got) != len(tt.want) {
				t.Fatalf("ranked %d players, want %d", len(got), len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Fatalf("order = %v, want %v", got, tt.want)
				}
			}
		})
	}
}
