package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
	"github.com/wardenbot/warden/warden"
)

var AFK = discord.SlashCommandCreate{
	Name:        "afk",
	Description: "Mark yourself as AFK",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "message",
			Description: "What to tell people who ping you",
		},
	},
}

func AFKHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		message, ok := e.SlashCommandInteractionData().OptString("message")
		if !ok {
			message = "AFK"
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := b.AFKRepository.Set(ctx, e.User().ID, message); err != nil {
			return createError(e, "Error", "Failed to set your AFK.")
		}
		return createSuccess(e, "AFK Set", fmt.Sprintf("You are now AFK: %s", message))
	}
}

var Say = discord.SlashCommandCreate{
	Name:        "say",
	Description: "Send a message as the bot",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "text",
			Description: "What to say",
			Required:    true,
		},
		discord.ApplicationCommandOptionChannel{
			Name:        "channel",
			Description: "Where to say it, defaults to the current channel",
		},
	},
}

func SayHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isAdmin(b, e) {
			return createNoPermission(e)
		}

		data := e.SlashCommandInteractionData()
		channelID := e.ChannelID()
		if channel, ok := data.OptChannel("channel"); ok {
			channelID = channel.ID
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := b.Client.Rest().CreateMessage(channelID, discord.NewMessageCreateBuilder().
			SetContent(data.String("text")).
			Build(), rest.WithCtx(ctx)); err != nil {
			return createError(e, "Error", "Failed to send the message.")
		}
		return createSuccess(e, "Sent", fmt.Sprintf("Message sent to <#%s>.", channelID))
	}
}
