package services

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"slices"
	"sync"
	"time"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/events"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"
	"github.com/wardenbot/warden/warden/database/models"
)

const xpTimeout = 10 * time.Second

type XPSettings struct {
	MinGain            int64
	MaxGain            int64
	Cooldown           time.Duration
	IgnoredChannels    []snowflake.ID
	PromoRequiredScore int64
	PromoNotifications []int64
	PromoChannelID     snowflake.ID
}

type XPScoreStore interface {
	Get(ctx context.Context, id snowflake.ID) (*models.Score, error)
	AddScore(ctx context.Context, id snowflake.ID, delta int64, organic bool) error
}

type XPLevelStore interface {
	All(ctx context.Context) ([]models.Level, error)
}

type XPPromoStore interface {
	NotifiedScores(ctx context.Context, id snowflake.ID) ([]int64, error)
	MarkNotified(ctx context.Context, id snowflake.ID, score int64) error
}

// XPService awards score for organic chat activity. Consecutive messages by
// the same author in a channel only score once, and each author sits out a
// cooldown between gains.
type XPService struct {
	client   bot.Client
	scores   XPScoreStore
	levels   XPLevelStore
	promos   XPPromoStore
	guildID  snowflake.ID
	settings XPSettings

	cooldowns *lru.Cache

	mu         sync.Mutex
	lastAuthor map[snowflake.ID]snowflake.ID
}

func NewXPService(client bot.Client, scores XPScoreStore, levels XPLevelStore, promos XPPromoStore, guildID snowflake.ID, settings XPSettings) *XPService {
	cooldowns, _ := lru.New(2048)
	return &XPService{
		client:     client,
		scores:     scores,
		levels:     levels,
		promos:     promos,
		guildID:    guildID,
		settings:   settings,
		cooldowns:  cooldowns,
		lastAuthor: make(map[snowflake.ID]snowflake.ID),
	}
}

func (s *XPService) HandleMessage(event *events.MessageCreate) {
	if event.Message.Author.Bot || event.GuildID == nil {
		return
	}
	if slices.Contains(s.settings.IgnoredChannels, event.ChannelID) {
		return
	}

	authorID := event.Message.Author.ID
	if !s.shouldScore(event.ChannelID, authorID) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), xpTimeout)
	defer cancel()

	gain := s.settings.MinGain
	if spread := s.settings.MaxGain - s.settings.MinGain; spread > 0 {
		gain += rand.Int63n(spread + 1)
	}

	if err := s.scores.AddScore(ctx, authorID, gain, true); err != nil {
		slog.Error("Failed to award score",
			slog.String("type", "err"),
			slog.String("user_id", authorID.String()),
			slog.Any("error", err))
		return
	}

	score, err := s.scores.Get(ctx, authorID)
	if err != nil {
		slog.Error("Failed to load score",
			slog.String("type", "err"),
			slog.String("user_id", authorID.String()),
			slog.Any("error", err))
		return
	}

	if err := s.syncLevelRoles(ctx, authorID, score.ScoreTotal); err != nil {
		slog.Error("Failed to sync level roles",
			slog.String("type", "err"),
			slog.String("user_id", authorID.String()),
			slog.Any("error", err))
	}

	s.notifyThresholds(ctx, authorID, score.ScoreWeekly)
}

// shouldScore enforces the repeat-author and cooldown rules.
func (s *XPService) shouldScore(channelID, authorID snowflake.ID) bool {
	s.mu.Lock()
	last := s.lastAuthor[channelID]
	s.lastAuthor[channelID] = authorID
	s.mu.Unlock()
	if last == authorID {
		return false
	}

	if at, ok := s.cooldowns.Get(authorID); ok && time.Since(at.(time.Time)) < s.settings.Cooldown {
		return false
	}
	s.cooldowns.Add(authorID, time.Now())
	return true
}

// syncLevelRoles grants every level role the total qualifies for and strips
// the ones it no longer does.
func (s *XPService) syncLevelRoles(ctx context.Context, userID snowflake.ID, scoreTotal int64) error {
	levels, err := s.levels.All(ctx)
	if err != nil {
		return err
	}
	if len(levels) == 0 {
		return nil
	}

	member, err := s.client.Rest().GetMember(s.guildID, userID, rest.WithCtx(ctx))
	if err != nil {
		return err
	}

	for _, level := range levels {
		roleID := snowflake.ID(level.RoleID)
		hasRole := slices.Contains(member.RoleIDs, roleID)
		earned := scoreTotal >= level.RequiredScore

		switch {
		case earned && !hasRole:
			err = s.client.Rest().AddMemberRole(s.guildID, userID, roleID, rest.WithCtx(ctx))
		case !earned && hasRole:
			err = s.client.Rest().RemoveMemberRole(s.guildID, userID, roleID, rest.WithCtx(ctx))
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *XPService) notifyThresholds(ctx context.Context, userID snowflake.ID, scoreWeekly int64) {
	if len(s.settings.PromoNotifications) == 0 || s.settings.PromoChannelID == 0 {
		return
	}

	notified, err := s.promos.NotifiedScores(ctx, userID)
	if err != nil {
		slog.Error("Failed to load notified thresholds",
			slog.String("type", "err"),
			slog.Any("error", err))
		return
	}

	for _, threshold := range s.settings.PromoNotifications {
		if scoreWeekly < threshold || slices.Contains(notified, threshold) {
			continue
		}
		if err := s.promos.MarkNotified(ctx, userID, threshold); err != nil {
			slog.Error("Failed to mark threshold notified",
				slog.String("type", "err"),
				slog.Any("error", err))
			continue
		}

		content := fmt.Sprintf("<@%s> you reached **%d** weekly score!", userID, threshold)
		if threshold >= s.settings.PromoRequiredScore {
			content += " You can now claim a promocode."
		}
		if _, err := s.client.Rest().CreateMessage(s.settings.PromoChannelID, discord.NewMessageCreateBuilder().
			SetContent(content).
			Build(), rest.WithCtx(ctx)); err != nil {
			slog.Error("Failed to send threshold notice",
				slog.String("type", "err"),
				slog.Any("error", err))
		}
	}
}
