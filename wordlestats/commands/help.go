package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/wordlestats/wordle-stats-bot/wordlestats"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/utils"
)

var Help = discord.SlashCommandCreate{
	Name:        "help",
	Description: "❓ How the Wordle stats bot works",
}

func HelpHandler(b *wordlestats.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title: "❓ Wordle Stats Bot",
				Description: "I watch the daily Wordle announcement messages and keep per-player statistics.\n\n" +
					"**/setup** — scan a channel's full history and rebuild stats (Manage Server only)\n" +
					"**/stats** — show your stats, or another player's\n" +
					"**/leaderboard** — rank players by games, win rate, or average guesses\n" +
					"**/ping** — check the bot is alive\n\n" +
					"New announcements are tracked automatically as they arrive; `/setup` is only needed once per channel, or after downtime.",
				Color: utils.InfoColor,
			}},
		})
	}
}
