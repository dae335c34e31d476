package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/wardenbot/warden/warden"
	"github.com/wardenbot/warden/warden/utils"
)

const listenerTimeout = 10 * time.Second

// Listeners holds the gateway event handlers that are not slash commands:
// join/leave messages, the file mute, AFK bookkeeping and organic score.
type Listeners struct {
	bot *warden.Bot
}

func NewListeners(b *warden.Bot) *Listeners {
	return &Listeners{bot: b}
}

func (l *Listeners) OnGuildMemberJoin(event *events.GuildMemberJoin) {
	guild, ok := l.bot.Client.Caches().Guild(event.GuildID)
	if !ok {
		return
	}

	content := fmt.Sprintf("Welcome <@%s>, you are our %s member!",
		event.Member.User.ID, utils.Ordinal(guild.MemberCount))
	if _, err := l.bot.Client.Rest().CreateMessage(l.bot.Cfg.Channels.Welcome,
		discord.NewMessageCreateBuilder().SetContent(content).Build()); err != nil {
		slog.Error("Failed to send welcome message", slog.Any("error", err))
	}
}

func (l *Listeners) OnGuildMemberLeave(event *events.GuildMemberLeave) {
	ctx, cancel := context.WithTimeout(context.Background(), listenerTimeout)
	defer cancel()

	// Leavers keep their score but drop off the leaderboard.
	if err := l.bot.ScoreRepository.SetLeft(ctx, event.User.ID, true); err != nil {
		slog.Error("Failed to mark member as left", slog.Any("error", err))
	}

	content := fmt.Sprintf("**%s** has left the server.", event.User.Username)
	if _, err := l.bot.Client.Rest().CreateMessage(l.bot.Cfg.Channels.Goodbye,
		discord.NewMessageCreateBuilder().SetContent(content).Build()); err != nil {
		slog.Error("Failed to send goodbye message", slog.Any("error", err))
	}
}

func (l *Listeners) OnMessageCreate(event *events.MessageCreate) {
	if event.Message.Author.Bot || event.GuildID == nil {
		return
	}

	if l.enforceFilemute(event) {
		return
	}
	l.handleAFK(event)
	l.bot.XP.HandleMessage(event)
}

// OnMessageDelete drops button role bindings attached to the deleted message.
func (l *Listeners) OnMessageDelete(event *events.MessageDelete) {
	ctx, cancel := context.WithTimeout(context.Background(), listenerTimeout)
	defer cancel()

	if err := l.bot.ButtonRoleRepository.ClearMessage(ctx, event.MessageID); err != nil {
		slog.Error("Failed to clear button role bindings", slog.Any("error", err))
	}
}

// enforceFilemute deletes attachments posted by filemuted members and reports
// whether the message was removed.
func (l *Listeners) enforceFilemute(event *events.MessageCreate) bool {
	if len(event.Message.Attachments) == 0 || event.Message.Member == nil {
		return false
	}

	filemuted := false
	for _, roleID := range event.Message.Member.RoleIDs {
		if roleID == l.bot.Cfg.Roles.Filemuted {
			filemuted = true
			break
		}
	}
	if !filemuted {
		return false
	}

	if err := l.bot.Client.Rest().DeleteMessage(event.ChannelID, event.MessageID); err != nil {
		slog.Error("Failed to delete filemuted attachment", slog.Any("error", err))
		return false
	}
	return true
}

func (l *Listeners) handleAFK(event *events.MessageCreate) {
	ctx, cancel := context.WithTimeout(context.Background(), listenerTimeout)
	defer cancel()

	authorID := event.Message.Author.ID
	if _, ok, err := l.bot.AFKRepository.Get(ctx, authorID); err == nil && ok {
		if err = l.bot.AFKRepository.Clear(ctx, authorID); err != nil {
			slog.Error("Failed to clear AFK", slog.Any("error", err))
		} else {
			l.reply(event, fmt.Sprintf("Welcome back <@%s>, your AFK has been removed.", authorID))
		}
	}

	for _, mention := range event.Message.Mentions {
		if mention.ID == authorID {
			continue
		}
		afk, ok, err := l.bot.AFKRepository.Get(ctx, mention.ID)
		if err != nil || !ok {
			continue
		}
		l.reply(event, fmt.Sprintf("**%s** is AFK since %s: %s",
			mention.Username, utils.FormatTimestamp(afk.SetAt, "R"), afk.AFK))
	}
}

func (l *Listeners) reply(event *events.MessageCreate, content string) {
	if _, err := l.bot.Client.Rest().CreateMessage(event.ChannelID, discord.NewMessageCreateBuilder().
		SetContent(content).
		SetMessageReferenceByID(event.MessageID).
		Build(), rest.WithCtx(context.Background())); err != nil {
		slog.Error("Failed to send reply", slog.Any("error", err))
	}
}
