package services

import (
	"context"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
)

// ChannelNotifier returns a notify func that posts plain messages to one
// channel.
func ChannelNotifier(client bot.Client, channelID snowflake.ID) func(ctx context.Context, content string) error {
	return func(ctx context.Context, content string) error {
		_, err := client.Rest().CreateMessage(channelID, discord.NewMessageCreateBuilder().
			SetContent(content).
			Build(), rest.WithCtx(ctx))
		return err
	}
}
