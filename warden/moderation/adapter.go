package moderation

import (
	"context"
	"errors"
	"net/http"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
)

// Outcome classifies one restoration attempt against the live platform.
type Outcome int

const (
	// OutcomeSuccess means the default state was restored.
	OutcomeSuccess Outcome = iota
	// OutcomeNotFound means the target entity no longer exists or the
	// condition was already cleared; treated as already satisfied.
	OutcomeNotFound
	// OutcomeTransient is a communication fault with the platform. The
	// sweep logs it and moves on; it never blocks record deletion.
	OutcomeTransient
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeNotFound:
		return "not_found"
	case OutcomeTransient:
		return "transient_failure"
	default:
		return "unknown"
	}
}

// ExternalStateAdapter applies a reconciliation decision against the live
// platform. Every method is idempotent: calling it when the condition is
// already cleared returns OutcomeSuccess or OutcomeNotFound, never an
// outcome that blocks deleting the grant.
type ExternalStateAdapter interface {
	RevokeRole(ctx context.Context, userID, roleID snowflake.ID) Outcome
	UnlockChannel(ctx context.Context, channelID snowflake.ID) Outcome
	LiftBan(ctx context.Context, userID snowflake.ID) Outcome
}

type discordAdapter struct {
	client  bot.Client
	guildID snowflake.ID
}

func NewDiscordAdapter(client bot.Client, guildID snowflake.ID) ExternalStateAdapter {
	return &discordAdapter{client: client, guildID: guildID}
}

func (a *discordAdapter) RevokeRole(ctx context.Context, userID, roleID snowflake.ID) Outcome {
	return outcomeOf(a.client.Rest().RemoveMemberRole(a.guildID, userID, roleID, rest.WithCtx(ctx)))
}

func (a *discordAdapter) UnlockChannel(ctx context.Context, channelID snowflake.ID) Outcome {
	// Resetting the @everyone overwrite to neutral reopens the channel; the
	// @everyone role id equals the guild id.
	err := a.client.Rest().UpdatePermissionOverwrite(channelID, a.guildID, discord.RolePermissionOverwriteUpdate{
		Allow: json.Ptr(discord.PermissionsNone),
		Deny:  json.Ptr(discord.PermissionsNone),
	}, rest.WithCtx(ctx))
	return outcomeOf(err)
}

func (a *discordAdapter) LiftBan(ctx context.Context, userID snowflake.ID) Outcome {
	return outcomeOf(a.client.Rest().DeleteBan(a.guildID, userID, rest.WithCtx(ctx)))
}

func outcomeOf(err error) Outcome {
	if err == nil {
		return OutcomeSuccess
	}
	var restErr rest.Error
	if errors.As(err, &restErr) && restErr.Response != nil && restErr.Response.StatusCode == http.StatusNotFound {
		return OutcomeNotFound
	}
	return OutcomeTransient
}
