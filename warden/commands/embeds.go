package commands

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/wardenbot/warden/warden/utils"
)

func createSuccess(e *handler.CommandEvent, title, description string) error {
	return e.CreateMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(discord.NewEmbedBuilder().
			SetTitle("✅ " + title).
			SetDescription(description).
			SetColor(utils.SuccessColor).
			Build()).
		Build())
}

func createError(e *handler.CommandEvent, title, description string) error {
	return e.CreateMessage(discord.NewMessageCreateBuilder().
		SetEmbeds(discord.NewEmbedBuilder().
			SetTitle("❌ " + title).
			SetDescription(description).
			SetColor(utils.ErrorColor).
			Build()).
		SetEphemeral(true).
		Build())
}

func createNoPermission(e *handler.CommandEvent) error {
	return createError(e, "No Permission", "You are not allowed to use this command.")
}
