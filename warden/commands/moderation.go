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
	"github.com/disgoorg/json"
	"github.com/disgoorg/paginator"
	"github.com/disgoorg/snowflake/v2"
	"github.com/wardenbot/warden/warden"
	"github.com/wardenbot/warden/warden/database/models"
	"github.com/wardenbot/warden/warden/utils"
)

const warnsPerPage = 5

var Warn = discord.SlashCommandCreate{
	Name:        "warn",
	Description: "Warn a member for breaking a rule",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to warn",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:         "rule",
			Description:  "The rule that was broken",
			Required:     true,
			Autocomplete: true,
		},
	},
}

func WarnHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isStaff(b, e) {
			return createNoPermission(e)
		}

		data := e.SlashCommandInteractionData()
		target := data.User("user")
		ruleID := data.String("rule")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		rule, ok, err := b.RuleRepository.Get(ctx, ruleID)
		if err != nil {
			return createError(e, "Error", "Failed to look up the rule.")
		}
		if !ok {
			return createError(e, "Unknown Rule", fmt.Sprintf("Rule `%s` does not exist.", ruleID))
		}

		if err = b.WarnRepository.Add(ctx, target.ID, e.User().ID, rule.ID); err != nil {
			return createError(e, "Error", "Failed to record the warning.")
		}

		total, err := b.WarnRepository.CountByTarget(ctx, target.ID)
		if err != nil {
			return createError(e, "Error", "Failed to count warnings.")
		}
		sameRule, err := b.WarnRepository.CountByTargetAndRule(ctx, target.ID, rule.ID)
		if err != nil {
			return createError(e, "Error", "Failed to count warnings.")
		}

		dmUser(ctx, b, target.ID, fmt.Sprintf(
			"You have been warned for breaking rule `%s`: %s\nThis is your %s warning.",
			rule.ID, rule.Content, utils.Ordinal(total)))

		return createSuccess(e, "Member Warned", fmt.Sprintf(
			"<@%s> has been warned for rule `%s`.\nWarnings: **%d** total, **%d** for this rule.",
			target.ID, rule.ID, total, sameRule))
	}
}

var Warns = discord.SlashCommandCreate{
	Name:        "warns",
	Description: "List the warnings of a member",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to inspect",
			Required:    true,
		},
	},
}

func WarnsHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isStaff(b, e) {
			return createNoPermission(e)
		}

		data := e.SlashCommandInteractionData()
		target := data.User("user")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		warns, err := b.WarnRepository.GetByTarget(ctx, target.ID)
		if err != nil {
			return createError(e, "Error", "Failed to load warnings.")
		}
		if len(warns) == 0 {
			return createSuccess(e, "No Warnings", fmt.Sprintf("<@%s> has no warnings on record.", target.ID))
		}

		totalPages := (len(warns) + warnsPerPage - 1) / warnsPerPage
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				start := page * warnsPerPage
				end := min(start+warnsPerPage, len(warns))

				var description strings.Builder
				for _, warn := range warns[start:end] {
					description.WriteString(fmt.Sprintf("**#%d** rule `%s` by <@%d> %s\n",
						warn.ID, warn.RuleViolated, warn.IssuerID,
						utils.FormatTimestamp(warn.IssuedAt, "R")))
				}

				embed.
					SetTitle(fmt.Sprintf("Warnings for %s", target.Username)).
					SetDescription(description.String()).
					SetColor(utils.WarningColor).
					SetFooter(fmt.Sprintf("Page %d/%d • Total Warnings: %d", page+1, totalPages, len(warns)), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

var Delwarn = discord.SlashCommandCreate{
	Name:        "delwarn",
	Description: "Delete a single warning by its id",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionInt{
			Name:        "id",
			Description: "The warning id shown in /warns",
			Required:    true,
		},
	},
}

func DelwarnHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isStaff(b, e) {
			return createNoPermission(e)
		}

		id := e.SlashCommandInteractionData().Int("id")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		existed, err := b.WarnRepository.DeleteByID(ctx, int64(id))
		if err != nil {
			return createError(e, "Error", "Failed to delete the warning.")
		}
		if !existed {
			return createError(e, "Not Found", fmt.Sprintf("No warning with id **%d**.", id))
		}
		return createSuccess(e, "Warning Deleted", fmt.Sprintf("Warning **#%d** has been deleted.", id))
	}
}

var Delwarns = discord.SlashCommandCreate{
	Name:        "delwarns",
	Description: "Delete all warnings of a member",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to clear",
			Required:    true,
		},
	},
}

func DelwarnsHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isStaff(b, e) {
			return createNoPermission(e)
		}

		target := e.SlashCommandInteractionData().User("user")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		deleted, err := b.WarnRepository.DeleteByTarget(ctx, target.ID)
		if err != nil {
			return createError(e, "Error", "Failed to delete warnings.")
		}
		return createSuccess(e, "Warnings Cleared", fmt.Sprintf(
			"Deleted **%d** warnings of <@%s>.", deleted, target.ID))
	}
}

var TempRole = discord.SlashCommandCreate{
	Name:        "temprole",
	Description: "Give a member a role for a limited time",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to give the role to",
			Required:    true,
		},
		discord.ApplicationCommandOptionRole{
			Name:        "role",
			Description: "The role to give",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "duration",
			Description: "How long to keep the role, e.g. 2d or 12h30m",
			Required:    true,
		},
	},
}

func TempRoleHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isStaff(b, e) {
			return createNoPermission(e)
		}

		data := e.SlashCommandInteractionData()
		target := data.User("user")
		role := data.Role("role")

		duration, err := utils.ParseDuration(data.String("duration"))
		if err != nil || duration <= 0 {
			return createError(e, "Invalid Duration", "Use a duration like `2d`, `12h` or `1d6h30m`.")
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err = b.Client.Rest().AddMemberRole(*e.GuildID(), target.ID, role.ID, rest.WithCtx(ctx)); err != nil {
			return createError(e, "Error", "Failed to add the role.")
		}

		expiresAt := time.Now().Add(duration)
		if err = b.GrantRepository.Add(ctx, models.Grant{
			Kind:      models.GrantTempRole,
			SubjectID: target.ID,
			ExtraID:   role.ID,
			ExpiresAt: expiresAt,
		}); err != nil {
			return createError(e, "Error", "Role added, but scheduling its removal failed.")
		}

		return createSuccess(e, "Temporary Role Added", fmt.Sprintf(
			"<@%s> now has <@&%s> until %s.", target.ID, role.ID, utils.FormatTimestamp(expiresAt, "F")))
	}
}

var Ban = discord.SlashCommandCreate{
	Name:        "ban",
	Description: "Ban a member, permanently or for a limited time",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to ban",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "reason",
			Description: "Why the member is banned",
		},
		discord.ApplicationCommandOptionString{
			Name:        "duration",
			Description: "Ban length, e.g. 7d; omit for a permanent ban",
		},
		discord.ApplicationCommandOptionInt{
			Name:        "delete_days",
			Description: "Days of message history to delete (0-7)",
			MinValue:    json.Ptr(0),
			MaxValue:    json.Ptr(7),
		},
	},
}

func BanHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isStaff(b, e) {
			return createNoPermission(e)
		}

		data := e.SlashCommandInteractionData()
		target := data.User("user")
		reason, _ := data.OptString("reason")
		deleteDays, _ := data.OptInt("delete_days")

		var expiresAt time.Time
		if durationStr, ok := data.OptString("duration"); ok {
			duration, err := utils.ParseDuration(durationStr)
			if err != nil || duration <= 0 {
				return createError(e, "Invalid Duration", "Use a duration like `7d` or `12h`.")
			}
			expiresAt = time.Now().Add(duration)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		// DM before the ban lands, afterwards the user is unreachable.
		notice := "You have been banned"
		if !expiresAt.IsZero() {
			notice += " until " + utils.FormatTimestamp(expiresAt, "F")
		}
		if reason != "" {
			notice += "\nReason: " + reason
		}
		dmUser(ctx, b, target.ID, notice)

		opts := []rest.RequestOpt{rest.WithCtx(ctx)}
		if reason != "" {
			opts = append(opts, rest.WithReason(reason))
		}
		if err := b.Client.Rest().AddBan(*e.GuildID(), target.ID,
			time.Duration(deleteDays)*24*time.Hour, opts...); err != nil {
			return createError(e, "Error", "Failed to ban the member.")
		}

		if expiresAt.IsZero() {
			return createSuccess(e, "Member Banned", fmt.Sprintf("<@%s> has been banned permanently.", target.ID))
		}

		if err := b.GrantRepository.Add(ctx, models.Grant{
			Kind:      models.GrantTempBan,
			SubjectID: target.ID,
			ExpiresAt: expiresAt,
		}); err != nil {
			return createError(e, "Error", "Member banned, but scheduling the unban failed.")
		}
		return createSuccess(e, "Member Banned", fmt.Sprintf(
			"<@%s> has been banned until %s.", target.ID, utils.FormatTimestamp(expiresAt, "F")))
	}
}

var Unban = discord.SlashCommandCreate{
	Name:        "unban",
	Description: "Lift a ban ahead of time",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The banned user",
			Required:    true,
		},
	},
}

func UnbanHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isStaff(b, e) {
			return createNoPermission(e)
		}

		target := e.SlashCommandInteractionData().User("user")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := b.Client.Rest().DeleteBan(*e.GuildID(), target.ID, rest.WithCtx(ctx)); err != nil {
			return createError(e, "Error", "Failed to unban; is the user actually banned?")
		}
		// A pending temp ban grant would otherwise re-trigger on its expiry.
		if err := b.GrantRepository.DeleteBySubject(ctx, models.GrantTempBan, target.ID); err != nil {
			slog.Error("Failed to clear temp ban grant", slog.Any("error", err))
		}
		return createSuccess(e, "Member Unbanned", fmt.Sprintf("<@%s> has been unbanned.", target.ID))
	}
}

var Kick = discord.SlashCommandCreate{
	Name:        "kick",
	Description: "Kick a member from the server",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to kick",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "reason",
			Description: "Why the member is kicked",
		},
	},
}

func KickHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isStaff(b, e) {
			return createNoPermission(e)
		}

		data := e.SlashCommandInteractionData()
		target := data.User("user")
		reason, _ := data.OptString("reason")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		opts := []rest.RequestOpt{rest.WithCtx(ctx)}
		if reason != "" {
			opts = append(opts, rest.WithReason(reason))
		}
		if err := b.Client.Rest().RemoveMember(*e.GuildID(), target.ID, opts...); err != nil {
			return createError(e, "Error", "Failed to kick the member.")
		}
		return createSuccess(e, "Member Kicked", fmt.Sprintf("<@%s> has been kicked.", target.ID))
	}
}

var Filemute = discord.SlashCommandCreate{
	Name:        "filemute",
	Description: "Stop a member from posting attachments",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to filemute",
			Required:    true,
		},
		discord.ApplicationCommandOptionString{
			Name:        "duration",
			Description: "How long the filemute lasts; omit for indefinite",
		},
	},
}

func FilemuteHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isStaff(b, e) {
			return createNoPermission(e)
		}

		data := e.SlashCommandInteractionData()
		target := data.User("user")

		var duration time.Duration
		if durationStr, ok := data.OptString("duration"); ok {
			var err error
			if duration, err = utils.ParseDuration(durationStr); err != nil || duration <= 0 {
				return createError(e, "Invalid Duration", "Use a duration like `2d` or `12h`.")
			}
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := b.Client.Rest().AddMemberRole(*e.GuildID(), target.ID, b.Cfg.Roles.Filemuted, rest.WithCtx(ctx)); err != nil {
			return createError(e, "Error", "Failed to add the filemuted role.")
		}

		if duration == 0 {
			return createSuccess(e, "Member Filemuted", fmt.Sprintf("<@%s> can no longer post attachments.", target.ID))
		}

		expiresAt := time.Now().Add(duration)
		if err := b.GrantRepository.Add(ctx, models.Grant{
			Kind:      models.GrantTempRole,
			SubjectID: target.ID,
			ExtraID:   b.Cfg.Roles.Filemuted,
			ExpiresAt: expiresAt,
		}); err != nil {
			return createError(e, "Error", "Filemuted, but scheduling the removal failed.")
		}
		return createSuccess(e, "Member Filemuted", fmt.Sprintf(
			"<@%s> can no longer post attachments until %s.", target.ID, utils.FormatTimestamp(expiresAt, "F")))
	}
}

var Unfilemute = discord.SlashCommandCreate{
	Name:        "unfilemute",
	Description: "Allow a member to post attachments again",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to unfilemute",
			Required:    true,
		},
	},
}

func UnfilemuteHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isStaff(b, e) {
			return createNoPermission(e)
		}

		target := e.SlashCommandInteractionData().User("user")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := b.Client.Rest().RemoveMemberRole(*e.GuildID(), target.ID, b.Cfg.Roles.Filemuted, rest.WithCtx(ctx)); err != nil {
			return createError(e, "Error", "Failed to remove the filemuted role.")
		}
		return createSuccess(e, "Member Unfilemuted", fmt.Sprintf("<@%s> can post attachments again.", target.ID))
	}
}

func dmUser(ctx context.Context, b *warden.Bot, userID snowflake.ID, content string) {
	dmChannel, err := b.Client.Rest().CreateDMChannel(userID, rest.WithCtx(ctx))
	if err != nil {
		slog.Warn("Failed to create DM channel", slog.String("user_id", userID.String()))
		return
	}
	if _, err = b.Client.Rest().CreateMessage(dmChannel.ID(), discord.NewMessageCreateBuilder().
		SetContent(content).
		Build(), rest.WithCtx(ctx)); err != nil {
		slog.Warn("Failed to DM user", slog.String("user_id", userID.String()))
	}
}
