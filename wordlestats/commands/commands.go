package commands

import "github.com/disgoorg/disgo/discord"

var Commands = []discord.ApplicationCommandCreate{
	Setup,
	Stats,
	Leaderboard,
	Ping,
	Help,
}
