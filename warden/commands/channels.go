package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	"github.com/wardenbot/warden/warden"
	"github.com/wardenbot/warden/warden/database/models"
	"github.com/wardenbot/warden/warden/moderation"
	"github.com/wardenbot/warden/warden/utils"
)

var Lock = discord.SlashCommandCreate{
	Name:        "lock",
	Description: "Lock a channel so only staff can write",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionChannel{
			Name:        "channel",
			Description: "The channel to lock, defaults to the current one",
		},
		discord.ApplicationCommandOptionString{
			Name:        "duration",
			Description: "How long to keep it locked; omit for indefinite",
		},
	},
}

func LockHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isStaff(b, e) {
			return createNoPermission(e)
		}

		data := e.SlashCommandInteractionData()
		channelID := e.ChannelID()
		if channel, ok := data.OptChannel("channel"); ok {
			channelID = channel.ID
		}

		var duration time.Duration
		if durationStr, ok := data.OptString("duration"); ok {
			var err error
			if duration, err = utils.ParseDuration(durationStr); err != nil || duration <= 0 {
				return createError(e, "Invalid Duration", "Use a duration like `2h` or `30m`.")
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// Deny send for @everyone; its role id equals the guild id.
		if err := b.Client.Rest().UpdatePermissionOverwrite(channelID, *e.GuildID(),
			discord.RolePermissionOverwriteUpdate{
				Deny: json.Ptr(discord.PermissionSendMessages),
			}, rest.WithCtx(ctx)); err != nil {
			return createError(e, "Error", "Failed to lock the channel.")
		}

		if duration == 0 {
			return createSuccess(e, "Channel Locked", fmt.Sprintf("<#%s> is locked.", channelID))
		}

		unlockAt := time.Now().Add(duration)
		if err := b.GrantRepository.Add(ctx, models.Grant{
			Kind:      models.GrantLockedChannel,
			SubjectID: channelID,
			ExpiresAt: unlockAt,
		}); err != nil {
			return createError(e, "Error", "Channel locked, but scheduling the unlock failed.")
		}
		return createSuccess(e, "Channel Locked", fmt.Sprintf(
			"<#%s> is locked until %s.", channelID, utils.FormatTimestamp(unlockAt, "F")))
	}
}

var Unlock = discord.SlashCommandCreate{
	Name:        "unlock",
	Description: "Unlock a channel ahead of time",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionChannel{
			Name:        "channel",
			Description: "The channel to unlock, defaults to the current one",
		},
	},
}

func UnlockHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isStaff(b, e) {
			return createNoPermission(e)
		}

		channelID := e.ChannelID()
		if channel, ok := e.SlashCommandInteractionData().OptChannel("channel"); ok {
			channelID = channel.ID
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if outcome := b.Adapter.UnlockChannel(ctx, channelID); outcome == moderation.OutcomeTransient {
			return createError(e, "Error", "Failed to unlock the channel.")
		}
		if err := b.GrantRepository.DeleteBySubject(ctx, models.GrantLockedChannel, channelID); err != nil {
			slog.Error("Failed to clear lock grant", slog.Any("error", err))
		}
		return createSuccess(e, "Channel Unlocked", fmt.Sprintf("<#%s> is open again.", channelID))
	}
}

var Slowmode = discord.SlashCommandCreate{
	Name:        "slowmode",
	Description: "Set the slowmode interval of a channel",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "seconds",
			Description: "Seconds between messages, 0 disables slowmode",
			Required:    true,
			MinValue:    json.Ptr(0),
			MaxValue:    json.Ptr(21600),
		},
		discord.ApplicationCommandOptionChannel{
			Name:        "channel",
			Description: "The channel to change, defaults to the current one",
		},
	},
}

func SlowmodeHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isStaff(b, e) {
			return createNoPermission(e)
		}

		data := e.SlashCommandInteractionData()
		seconds := data.Int("seconds")
		channelID := e.ChannelID()
		if channel, ok := data.OptChannel("channel"); ok {
			channelID = channel.ID
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := b.Client.Rest().UpdateChannel(channelID, discord.GuildTextChannelUpdate{
			RateLimitPerUser: json.Ptr(seconds),
		}, rest.WithCtx(ctx)); err != nil {
			return createError(e, "Error", "Failed to update the slowmode.")
		}

		if seconds == 0 {
			return createSuccess(e, "Slowmode Disabled", fmt.Sprintf("<#%s> has no slowmode anymore.", channelID))
		}
		return createSuccess(e, "Slowmode Set", fmt.Sprintf(
			"<#%s> now has a slowmode of %s.", channelID, utils.FormatDuration(time.Duration(seconds)*time.Second)))
	}
}

var Purge = discord.SlashCommandCreate{
	Name:        "purge",
	Description: "Bulk delete recent messages in this channel",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "How many messages to delete",
			Required:    true,
			MinValue:    json.Ptr(1),
			MaxValue:    json.Ptr(100),
		},
	},
}

func PurgeHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isStaff(b, e) {
			return createNoPermission(e)
		}

		amount := e.SlashCommandInteractionData().Int("amount")
		channelID := e.ChannelID()

		if err := e.DeferCreateMessage(true); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		messages, err := b.Client.Rest().GetMessages(channelID, 0, 0, 0, amount, rest.WithCtx(ctx))
		if err != nil {
			return fmt.Errorf("failed to fetch messages: %w", err)
		}

		ids := make([]snowflake.ID, 0, len(messages))
		for _, message := range messages {
			ids = append(ids, message.ID)
		}

		switch len(ids) {
		case 0:
		case 1:
			err = b.Client.Rest().DeleteMessage(channelID, ids[0], rest.WithCtx(ctx))
		default:
			err = b.Client.Rest().BulkDeleteMessages(channelID, ids, rest.WithCtx(ctx))
		}
		if err != nil {
			return fmt.Errorf("failed to delete messages: %w", err)
		}

		_, err = e.UpdateInteractionResponse(discord.NewMessageUpdateBuilder().
			SetContentf("Deleted **%d** messages.", len(ids)).
			Build())
		return err
	}
}
