package services

import (
	"context"
	"fmt"

	"github.com/disgoorg/disgo/bot"
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/disgo/rest"
	"github.com/disgoorg/json"
	"github.com/disgoorg/snowflake/v2"
	"golang.org/x/sync/errgroup"
)

type ScoreTotals interface {
	TotalDaily(ctx context.Context) (int64, error)
}

// StatsTracker renames the counter voice channels to show the member count
// and the total score gained today.
type StatsTracker struct {
	client           bot.Client
	scores           ScoreTotals
	guildID          snowflake.ID
	membersChannelID snowflake.ID
	dailyChannelID   snowflake.ID
}

func NewStatsTracker(client bot.Client, scores ScoreTotals, guildID, membersChannelID, dailyChannelID snowflake.ID) *StatsTracker {
	return &StatsTracker{
		client:           client,
		scores:           scores,
		guildID:          guildID,
		membersChannelID: membersChannelID,
		dailyChannelID:   dailyChannelID,
	}
}

func (s *StatsTracker) Refresh(ctx context.Context) error {
	guild, err := s.client.Rest().GetGuild(s.guildID, true, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("fetch guild counts: %w", err)
	}

	totalDaily, err := s.scores.TotalDaily(ctx)
	if err != nil {
		return fmt.Errorf("sum daily scores: %w", err)
	}

	var eg errgroup.Group
	eg.Go(func() error {
		return s.rename(ctx, s.membersChannelID, fmt.Sprintf("Members: %d", guild.ApproximateMemberCount))
	})
	eg.Go(func() error {
		return s.rename(ctx, s.dailyChannelID, fmt.Sprintf("Daily Score: %d", totalDaily))
	})
	return eg.Wait()
}

func (s *StatsTracker) rename(ctx context.Context, channelID snowflake.ID, name string) error {
	_, err := s.client.Rest().UpdateChannel(channelID, discord.GuildVoiceChannelUpdate{
		Name: json.Ptr(name),
	}, rest.WithCtx(ctx))
	if err != nil {
		return fmt.Errorf("rename channel %s: %w", channelID, err)
	}
	return nil
}
