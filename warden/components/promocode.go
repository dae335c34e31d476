package components

import (
	"context"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
	"github.com/wardenbot/warden/warden"
)

// PromocodeClaimHandler hands out one promocode per claim to members whose
// weekly score clears the configured bar. The code is sent by DM so it never
// appears in the channel.
func PromocodeClaimHandler(b *warden.Bot) handler.ComponentHandler {
	return func(e *handler.ComponentEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		userID := e.User().ID
		score, err := b.ScoreRepository.Get(ctx, userID)
		if err != nil {
			return ephemeral(e, "Something went wrong, try again later.")
		}
		if score.ScoreWeekly < b.Cfg.XP.PromoRequiredScore {
			return ephemeral(e, "You need more weekly score to claim a promocode. Keep chatting!")
		}

		code, err := b.PromocodeRepository.PopOne(ctx)
		if err != nil {
			return ephemeral(e, "Something went wrong, try again later.")
		}
		if code == "" {
			return ephemeral(e, "There are no promocodes left right now, check back later.")
		}

		dmChannel, err := b.Client.Rest().CreateDMChannel(userID, rest.WithCtx(ctx))
		if err == nil {
			_, err = b.Client.Rest().CreateMessage(dmChannel.ID(), discord.NewMessageCreateBuilder().
				SetContentf("Your promocode: `%s`", code).
				Build(), rest.WithCtx(ctx))
		}
		if err != nil {
			slog.Error("Failed to DM promocode",
				slog.String("user_id", userID.String()),
				slog.Any("error", err))
			// The code is already consumed, surface it in the ephemeral
			// reply instead of losing it.
			return ephemeral(e, "I could not DM you, here is your code: `"+code+"`")
		}
		return ephemeral(e, "Check your DMs!")
	}
}

func ephemeral(e *handler.ComponentEvent, content string) error {
	return e.CreateMessage(discord.NewMessageCreateBuilder().
		SetContent(content).
		SetEphemeral(true).
		Build())
}
