package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/wordlestats/wordle-stats-bot/wordlestats"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/utils"
)

var Stats = discord.SlashCommandCreate{
	Name:        "stats",
	Description: "📊 View Wordle statistics for yourself or another player",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "Player to look up (defaults to you)",
		},
	},
}

func StatsHandler(b *wordlestats.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		target := e.User()
		self := true
		if user, ok := e.SlashCommandInteractionData().OptUser("user"); ok {
			target = user
			self = target.ID == e.User().ID
		}

		if b.StatsRepository == nil {
			return utils.EH.CreateErrorEmbed(e, "Stats storage is not configured.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		stats, err := b.StatsRepository.GetByUserID(ctx, target.ID.String())
		if err != nil {
			return utils.EH.CreateErrorEmbed(e, "Failed to fetch stats. Please try again later.")
		}
		if stats == nil {
			if self {
				return utils.EH.CreateInfoEmbed(e, "You have no recorded Wordle games yet. If this server has Wordle history, ask an admin to run `/setup` on the announcement channel.")
			}
			return utils.EH.CreateInfoEmbed(e, fmt.Sprintf("**%s** has no recorded Wordle games yet.", target.EffectiveName()))
		}

		return e.CreateMessage(discord.MessageCreate{
			Embeds: []discord.Embed{utils.FormatStatsEmbed(stats, e.User().Username)},
		})
	}
}
