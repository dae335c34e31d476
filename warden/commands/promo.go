package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/disgo/rest"
	"github.com/wardenbot/warden/warden"
	"github.com/wardenbot/warden/warden/database/models"
	"github.com/wardenbot/warden/warden/database/repositories"
	"github.com/wardenbot/warden/warden/utils"
)

const promocodeLength = 8

var AddPromo = discord.SlashCommandCreate{
	Name:        "addpromo",
	Description: "Add a promocode to the claimable stock",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionString{
			Name:        "code",
			Description: "The promocode, exactly 8 characters",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "valid_for",
			Description: "How long the code stays valid, e.g. 14d",
			Required:    true,
		},
	},
}

func AddPromoHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isAdmin(b, e) {
			return createNoPermission(e)
		}

		data := e.SlashCommandInteractionData()
		code := data.String("code")
		if len(code) != promocodeLength {
			return createError(e, "Invalid Code", fmt.Sprintf(
				"Promocodes must be exactly %d characters long.", promocodeLength))
		}

		// Notification dedup state clears on Monday; stocking codes during
		// the Sunday window would let members claim twice.
		if time.Now().Weekday() == time.Sunday {
			return createError(e, "Not Now", "Promocodes cannot be added on Sunday, try again after the weekly reset.")
		}

		validFor, err := utils.ParseDuration(data.String("valid_for"))
		if err != nil || validFor <= 0 {
			return createError(e, "Invalid Duration", "Use a duration like `14d` or `7d12h`.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		expiresAt := time.Now().Add(validFor)
		if err = b.PromocodeRepository.Add(ctx, models.Promocode{
			Code:      code,
			ExpiresAt: expiresAt,
		}); err != nil {
			if errors.Is(err, repositories.ErrPromocodeExists) {
				return createError(e, "Duplicate", "This promocode is already stocked.")
			}
			return createError(e, "Error", "Failed to add the promocode.")
		}

		remaining, err := b.PromocodeRepository.CountRemaining(ctx)
		if err != nil {
			return createError(e, "Error", "Code added, but counting the stock failed.")
		}
		return createSuccess(e, "Promocode Added", fmt.Sprintf(
			"Code stocked, valid until %s. **%d** codes remaining.",
			utils.FormatTimestamp(expiresAt, "F"), remaining))
	}
}

var SetupPromo = discord.SlashCommandCreate{
	Name:        "setuppromo",
	Description: "Post the promocode claim message in the promocode channel",
}

func SetupPromoHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isAdmin(b, e) {
			return createNoPermission(e)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		embed := discord.NewEmbedBuilder().
			SetTitle("Weekly Promocode").
			SetDescription(fmt.Sprintf(
				"Reach **%d** weekly score and press the button below to claim a promocode. One code per member per week.",
				b.Cfg.XP.PromoRequiredScore)).
			SetColor(utils.InfoColor).
			Build()

		if _, err := b.Client.Rest().CreateMessage(b.Cfg.Channels.Promocode,
			discord.NewMessageCreateBuilder().
				SetEmbeds(embed).
				AddActionRow(discord.NewPrimaryButton("Claim", "/promocode/claim")).
				Build(), rest.WithCtx(ctx)); err != nil {
			return createError(e, "Error", "Failed to post the claim message.")
		}
		return createSuccess(e, "Claim Message Posted", fmt.Sprintf(
			"The claim message is live in <#%s>.", b.Cfg.Channels.Promocode))
	}
}
