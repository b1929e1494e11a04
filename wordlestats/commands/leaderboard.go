package commands

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/paginator"

	"github.com/wordlestats/wordle-stats-bot/wordlestats"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/utils"
)

const defaultMinGames = 10

var Leaderboard = discord.SlashCommandCreate{
	Name:        "leaderboard",
	Description: "🏆 Server-wide Wordle leaderboard",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "sort_by",
			Description: "Metric to rank by",
			Choices: []discord.ApplicationCommandOptionChoiceString{
				{Name: "Games played", Value: "games"},
				{Name: "Win rate", Value: "win_rate"},
				{Name: "Average guesses", Value: "avg_guess"},
			},
		},
		discord.ApplicationCommandOptionInt{
			Name:        "min_games",
			Description: "Minimum games required to qualify (default 10)",
		},
	},
}

func LeaderboardHandler(b *wordlestats.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		data := e.SlashCommandInteractionData()

		sortBy := "games"
		if v, ok := data.OptString("sort_by"); ok {
			sortBy = v
		}
		minGames := defaultMinGames
		if v, ok := data.OptInt("min_games"); ok {
			minGames = v
		}

		if e.GuildID() == nil {
			return utils.EH.CreateErrorEmbed(e, "This command only works in a server.")
		}
		if b.StatsRepository == nil {
			return utils.EH.CreateErrorEmbed(e, "Stats storage is not configured.")
		}

		// First use in a guild loads the full member list.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		dir, err := b.Directories.Get(ctx, *e.GuildID())
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to load the member list. Please try again later.")
		}
		members := dir.Members()
		userIDs := make([]string, 0, len(members))
		for _, m := range members {
			userIDs = append(userIDs, m.ID.String())
		}

		players, err := b.StatsRepository.GetLeaderboard(ctx, userIDs, sortBy, minGames)
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch the leaderboard. Please try again later.")
		}
		if len(players) == 0 {
			return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("Nobody has played %d or more games yet. Lower `min_games` or run `/setup` to scan the announcement channel.", minGames))
		}

		totalPages := int(math.Ceil(float64(len(players)) / float64(utils.PlayersPerPage)))

		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				startIdx := page * utils.PlayersPerPage
				endIdx := min(startIdx+utils.PlayersPerPage, len(players))

				var description strings.Builder
				description.WriteString("```ansi\n")
				for i, stats := range players[startIdx:endIdx] {
					description.WriteString(utils.FormatLeaderboardEntry(startIdx+i+1, stats, sortBy))
				}
				description.WriteString("```")

				embed.
					SetTitle("🏆 Wordle Leaderboard").
					SetDescription(description.String()).
					SetColor(utils.InfoColor).
					SetFooter(fmt.Sprintf("Page %d/%d • %d players • min %d games", page+1, totalPages, len(players), minGames), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}
