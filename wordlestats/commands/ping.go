package commands

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"

	"github.com/wordlestats/wordle-stats-bot/wordlestats"
	"github.com/wordlestats/wordle-stats-bot/wordlestats/utils"
)

var Ping = discord.SlashCommandCreate{
	Name:        "ping",
	Description: "🏓 Check whether the bot is alive",
}

func PingHandler(b *wordlestats.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return utils.EH.CreateSuccessEmbed(e, fmt.Sprintf("🏓 Pong! Gateway latency: **%s**",
			e.Client().Gateway().Latency().Round(time.Millisecond)))
	}
}
