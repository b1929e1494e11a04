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

var Setup = discord.SlashCommandCreate{
	Name:        "setup",
	Description: "🔧 Scan a channel's Wordle history and rebuild statistics",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionChannel{
			Name:        "channel",
			Description: "Channel to scan (defaults to the current one)",
		},
	},
}

func SetupHandler(b *wordlestats.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if e.GuildID() == nil {
			return utils.EH.CreateErrorEmbed(e, "This command only works in a server.")
		}
		if member := e.Member(); member == nil || !member.Permissions.Has(discord.PermissionManageGuild) {
			return utils.EH.CreateEphemeralError(e, "🚫 You need the **Manage Server** permission to run a scan.")
		}
		if b.Backfill == nil {
			return utils.EH.CreateErrorEmbed(e, "Stats storage is not configured, scanning is unavailable.")
		}

		guildID := *e.GuildID()
		channelID := e.ChannelID()
		if ch, ok := e.SlashCommandInteractionData().OptChannel("channel"); ok {
			channelID = ch.ID
		}

		// A full history scan can run for minutes on busy channels.
		if err := e.DeferCreateMessage(false); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 4*time.Minute)
		defer cancel()

		found, err := b.Backfill.HasAnnouncements(ctx, channelID)
		if err != nil {
			_, updErr := e.CreateFollowupMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Description: fmt.Sprintf("Failed to read <#%s>. Do I have access to that channel?", channelID),
					Color:       utils.ErrorColor,
				}},
			})
			if updErr != nil {
				return updErr
			}
			return err
		}
		if !found {
			_, err := e.CreateFollowupMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Description: fmt.Sprintf("⚠️ No Wordle announcements found in the recent history of <#%s>. Pick the channel where the daily results are posted.", channelID),
					Color:       utils.WarningColor,
				}},
			})
			return err
		}

		report, err := b.Backfill.Run(ctx, guildID, channelID)
		if err != nil {
			_, updErr := e.CreateFollowupMessage(discord.MessageCreate{
				Embeds: []discord.Embed{{
					Description: "❌ The scan failed partway through. Already-merged stats are kept; run `/setup` again to finish.",
					Color:       utils.ErrorColor,
				}},
			})
			if updErr != nil {
				return updErr
			}
			return err
		}

		description := fmt.Sprintf("```ansi\n"+
			"\x1b[1;36mMessages scanned:\x1b[0m %d\n"+
			"\x1b[1;36mResult days:\x1b[0m %d\n"+
			"\x1b[1;36mNo-winner days:\x1b[0m %d\n"+
			"\x1b[1;36mPlayers found:\x1b[0m %d\n"+
			"\n"+
			"\x1b[1;32mAdded:\x1b[0m %d  \x1b[1;33mUpdated:\x1b[0m %d  \x1b[0;37mUnchanged:\x1b[0m %d\n"+
			"```",
			report.MessagesScanned,
			report.ResultsMessages,
			report.NoWinnerMessages,
			report.Players,
			report.Merge.Added,
			report.Merge.Updated,
			report.Merge.Skipped,
		)

		now := time.Now()
		_, err = e.CreateFollowupMessage(discord.MessageCreate{
			Embeds: []discord.Embed{{
				Title:       "✅ Scan Complete",
				Description: description,
				Color:       utils.SuccessColor,
				Footer: &discord.EmbedFooter{
					Text: fmt.Sprintf("Requested by %s", e.User().Username),
				},
				Timestamp: &now,
			}},
		})
		return err
	}
}
