package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	"github.com/google/uuid"
	"github.com/wardenbot/warden/warden"
)

// ButtonRolePrefix is the custom id route under which role buttons live.
const ButtonRolePrefix = "/buttonrole/"

var AddButtonRole = discord.SlashCommandCreate{
	Name:        "addbuttonrole",
	Description: "Attach a self-assign role button to a message",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "message_id",
			Description: "The message to attach the button to",
			Required:    true,
		},
		discord.ApplicationCommandOptionRole{
			Name:        "role",
			Description: "The role the button toggles",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "label",
			Description: "The button label, defaults to the role name",
		},
		discord.ApplicationCommandOptionChannel{
			Name:        "channel",
			Description: "The channel of the message, defaults to the current one",
		},
	},
}

func AddButtonRoleHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isAdmin(b, e) {
			return createNoPermission(e)
		}

		data := e.SlashCommandInteractionData()
		role := data.Role("role")
		label, ok := data.OptString("label")
		if !ok {
			label = role.Name
		}
		channelID := e.ChannelID()
		if channel, ok := data.OptChannel("channel"); ok {
			channelID = channel.ID
		}
		messageID, err := snowflake.Parse(data.String("message_id"))
		if err != nil {
			return createError(e, "Invalid Message", "That is not a message id.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		message, err := b.Client.Rest().GetMessage(channelID, messageID, rest.WithCtx(ctx))
		if err != nil {
			return createError(e, "Not Found", "Could not fetch that message; check the channel and id.")
		}
		if message.Author.ID != e.ApplicationID() {
			return createError(e, "Not Mine", "Buttons can only be attached to my own messages, use /say first.")
		}

		customID := ButtonRolePrefix + uuid.NewString()
		rows, err := appendButton(message.Components, discord.NewPrimaryButton(label, customID))
		if err != nil {
			return createError(e, "Full", "This message has no space for another button.")
		}

		if _, err = b.Client.Rest().UpdateMessage(channelID, messageID, discord.NewMessageUpdateBuilder().
			SetContainerComponents(rows...).
			Build(), rest.WithCtx(ctx)); err != nil {
			return createError(e, "Error", "Failed to update the message.")
		}

		if err = b.ButtonRoleRepository.Add(ctx, strings.TrimPrefix(customID, ButtonRolePrefix), role.ID, messageID); err != nil {
			slog.Error("Failed to store button role binding", slog.Any("error", err))
			return createError(e, "Error", "Button added, but storing the binding failed.")
		}
		return createSuccess(e, "Button Added", fmt.Sprintf(
			"The **%s** button now toggles <@&%s>.", label, role.ID))
	}
}

var RemoveButtonRole = discord.SlashCommandCreate{
	Name:        "removebuttonrole",
	Description: "Remove all role buttons from a message",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "message_id",
			Description: "The message to strip",
			Required:    true,
		},
		discord.ApplicationCommandOptionChannel{
			Name:        "channel",
			Description: "The channel of the message, defaults to the current one",
		},
	},
}

func RemoveButtonRoleHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isAdmin(b, e) {
			return createNoPermission(e)
		}

		data := e.SlashCommandInteractionData()
		channelID := e.ChannelID()
		if channel, ok := data.OptChannel("channel"); ok {
			channelID = channel.ID
		}
		messageID, err := snowflake.Parse(data.String("message_id"))
		if err != nil {
			return createError(e, "Invalid Message", "That is not a message id.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err = b.Client.Rest().UpdateMessage(channelID, messageID, discord.NewMessageUpdateBuilder().
			SetContainerComponents().
			Build(), rest.WithCtx(ctx)); err != nil {
			return createError(e, "Error", "Failed to strip the message.")
		}
		if err = b.ButtonRoleRepository.ClearMessage(ctx, messageID); err != nil {
			return createError(e, "Error", "Buttons removed, but clearing the bindings failed.")
		}
		return createSuccess(e, "Buttons Removed", "All role buttons on that message are gone.")
	}
}

// appendButton places the button in the last action row with space, or opens
// a new row.
func appendButton(components []discord.ContainerComponent, button discord.ButtonComponent) ([]discord.ContainerComponent, error) {
	rows := make([]discord.ContainerComponent, len(components))
	copy(rows, components)

	if len(rows) > 0 {
		if row, ok := rows[len(rows)-1].(discord.ActionRowComponent); ok && len(row.Components()) < 5 {
			rows[len(rows)-1] = row.AddComponents(button)
			return rows, nil
		}
	}
	if len(rows) >= 5 {
		return nil, fmt.Errorf("message component limit reached")
	}
	return append(rows, discord.NewActionRow(button)), nil
}
