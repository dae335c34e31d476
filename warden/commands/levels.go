package commands

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/handler"
	"github.com/disgoorg/json"
	"github.com/disgoorg/paginator"
	"github.com/wardenbot/warden/warden"
	"github.com/wardenbot/warden/warden/database/models"
	"github.com/wardenbot/warden/warden/database/repositories"
	"github.com/wardenbot/warden/warden/utils"
)

var Rank = discord.SlashCommandCreate{
	Name:        "rank",
	Description: "Show the score and rank of a member",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to inspect, defaults to you",
		},
	},
}

func RankHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		target := e.User()
		if user, ok := e.SlashCommandInteractionData().OptUser("user"); ok {
			target = user
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		score, err := b.ScoreRepository.Get(ctx, target.ID)
		if err != nil {
			return createError(e, "Error", "Failed to load the score.")
		}
		rank, err := b.ScoreRepository.Rank(ctx, score.ScoreTotal)
		if err != nil {
			return createError(e, "Error", "Failed to compute the rank.")
		}

		return e.CreateMessage(discord.NewMessageCreateBuilder().
			SetEmbeds(discord.NewEmbedBuilder().
				SetTitle(fmt.Sprintf("Rank of %s", target.Username)).
				SetDescription(fmt.Sprintf(
					"Rank: **#%d**\nTotal score: **%d**\nThis week: **%d**\nToday: **%d**",
					rank, score.ScoreTotal, score.ScoreWeekly, score.ScoreDaily)).
				SetColor(utils.InfoColor).
				Build()).
			Build())
	}
}

var Leaderboard = discord.SlashCommandCreate{
	Name:        "leaderboard",
	Description: "Show the score leaderboard",
}

func LeaderboardHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		active, err := b.ScoreRepository.CountActive(ctx)
		if err != nil {
			return createError(e, "Error", "Failed to load the leaderboard.")
		}
		if active == 0 {
			return createError(e, "Empty", "Nobody has scored yet.")
		}

		totalPages := (active + repositories.TopPageSize - 1) / repositories.TopPageSize
		return b.Paginator.Create(e.Respond, paginator.Pages{
			ID:      e.ID().String(),
			Creator: e.User().ID,
			PageFunc: func(page int, embed *discord.EmbedBuilder) {
				pageCtx, pageCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer pageCancel()

				scores, err := b.ScoreRepository.Top(pageCtx, page)
				if err != nil {
					embed.SetDescription("Failed to load this page.").SetColor(utils.ErrorColor)
					return
				}

				var description strings.Builder
				for i, score := range scores {
					description.WriteString(fmt.Sprintf("**#%d** <@%d> — %d\n",
						page*repositories.TopPageSize+i+1, score.ID, score.ScoreTotal))
				}

				embed.
					SetTitle("Leaderboard").
					SetDescription(description.String()).
					SetColor(utils.InfoColor).
					SetFooter(fmt.Sprintf("Page %d/%d • Total Members: %d", page+1, totalPages, active), "")
			},
			Pages:      totalPages,
			ExpireMode: paginator.ExpireModeAfterLastUsage,
		}, false)
	}
}

var Levels = discord.SlashCommandCreate{
	Name:        "levels",
	Description: "List the level roles and their required scores",
}

func LevelsHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		levels, err := b.LevelRepository.All(ctx)
		if err != nil {
			return createError(e, "Error", "Failed to load the levels.")
		}
		if len(levels) == 0 {
			return createError(e, "Empty", "No level roles are configured.")
		}

		var description strings.Builder
		for _, level := range levels {
			description.WriteString(fmt.Sprintf("<@&%d> — **%d** score\n", level.RoleID, level.RequiredScore))
		}

		return e.CreateMessage(discord.NewMessageCreateBuilder().
			SetEmbeds(discord.NewEmbedBuilder().
				SetTitle("Level Roles").
				SetDescription(description.String()).
				SetColor(utils.InfoColor).
				Build()).
			Build())
	}
}

var AddLevel = discord.SlashCommandCreate{
	Name:        "addlevel",
	Description: "Add a level role",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionRole{
			Name:        "role",
			Description: "The role to hand out",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "score",
			Description: "The total score required for the role",
			Required:    true,
			MinValue:    json.Ptr(1),
		},
	},
}

func AddLevelHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isAdmin(b, e) {
			return createNoPermission(e)
		}

		data := e.SlashCommandInteractionData()
		role := data.Role("role")
		score := data.Int("score")

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := b.LevelRepository.Add(ctx, int64(role.ID), int64(score)); err != nil {
			return createError(e, "Error", "Failed to add the level role.")
		}
		return createSuccess(e, "Level Added", fmt.Sprintf(
			"<@&%s> is now granted at **%d** score.", role.ID, score))
	}
}

var RemoveLevel = discord.SlashCommandCreate{
	Name:        "removelevel",
	Description: "Remove a level role",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionSubCommand{
			Name:        "role",
			Description: "Remove a level by its role",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionRole{
					Name:        "role",
					Description: "The level role to remove",
					Required:    true,
				},
			},
		},
		discord.ApplicationCommandOptionSubCommand{
			Name:        "score",
			Description: "Remove a level by its required score",
			Options: []discord.ApplicationCommandOption{
				discord.ApplicationCommandOptionInt{
					Name:        "score",
					Description: "The required score of the level to remove",
					Required:    true,
				},
			},
		},
	},
}

func RemoveLevelHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isAdmin(b, e) {
			return createNoPermission(e)
		}

		data := e.SlashCommandInteractionData()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		var removed *models.Level
		var err error
		switch *data.SubCommandName {
		case "role":
			removed, err = b.LevelRepository.RemoveByRole(ctx, int64(data.Role("role").ID))
		case "score":
			removed, err = b.LevelRepository.RemoveByScore(ctx, int64(data.Int("score")))
		}
		if err != nil {
			return createError(e, "Error", "Failed to remove the level.")
		}
		if removed == nil {
			return createError(e, "Not Found", "No matching level role.")
		}
		return createSuccess(e, "Level Removed", fmt.Sprintf(
			"<@&%d> at **%d** score is no longer a level role.", removed.RoleID, removed.RequiredScore))
	}
}

var AddScore = discord.SlashCommandCreate{
	Name:        "addscore",
	Description: "Add score to a member",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to adjust",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "The score to add",
			Required:    true,
			MinValue:    json.Ptr(1),
		},
	},
}

func AddScoreHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isAdmin(b, e) {
			return createNoPermission(e)
		}
		return adjustScore(b, e, 1)
	}
}

var RemoveScore = discord.SlashCommandCreate{
	Name:        "removescore",
	Description: "Remove score from a member",
	Options: []discord.ApplicationCommandOption{
		discord.ApplicationCommandOptionUser{
			Name:        "user",
			Description: "The member to adjust",
			Required:    true,
		},
		discord.ApplicationCommandOptionInt{
			Name:        "amount",
			Description: "The score to remove",
			Required:    true,
			MinValue:    json.Ptr(1),
		},
	},
}

func RemoveScoreHandler(b *warden.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		if !isAdmin(b, e) {
			return createNoPermission(e)
		}
		return adjustScore(b, e, -1)
	}
}

// adjustScore applies an admin score change; it never moves the daily or
// weekly counters.
func adjustScore(b *warden.Bot, e *handler.CommandEvent, sign int64) error {
	data := e.SlashCommandInteractionData()
	target := data.User("user")
	amount := int64(data.Int("amount"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := b.ScoreRepository.AddScore(ctx, target.ID, sign*amount, false); err != nil {
		return createError(e, "Error", "Failed to adjust the score.")
	}

	verb := "added to"
	if sign < 0 {
		verb = "removed from"
	}
	return createSuccess(e, "Score Adjusted", fmt.Sprintf(
		"**%d** score %s <@%s>.", amount, verb, target.ID))
}
