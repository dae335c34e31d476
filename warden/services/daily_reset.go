package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/disgoorg/snowflake/v2"
)

type ScoreResets interface {
	ResetDaily(ctx context.Context) error
	ResetWeekly(ctx context.Context) error
}

type PromoStock interface {
	CountRemaining(ctx context.Context) (int, error)
	ClearNotifications(ctx context.Context) error
}

// DailyReset clears the daily score counters at midnight, the weekly ones on
// Monday, and pings the admins when the promocode stock has run dry.
type DailyReset struct {
	scores      ScoreResets
	promos      PromoStock
	notify      func(ctx context.Context, content string) error
	adminRoleID snowflake.ID
	now         func() time.Time
}

func NewDailyReset(scores ScoreResets, promos PromoStock, adminRoleID snowflake.ID, notify func(ctx context.Context, content string) error) *DailyReset {
	return &DailyReset{
		scores:      scores,
		promos:      promos,
		notify:      notify,
		adminRoleID: adminRoleID,
		now:         time.Now,
	}
}

func (d *DailyReset) Run(ctx context.Context) error {
	if err := d.scores.ResetDaily(ctx); err != nil {
		return fmt.Errorf("reset daily scores: %w", err)
	}

	if d.now().Weekday() == time.Monday {
		if err := d.scores.ResetWeekly(ctx); err != nil {
			return fmt.Errorf("reset weekly scores: %w", err)
		}
		if err := d.promos.ClearNotifications(ctx); err != nil {
			return fmt.Errorf("clear promo notifications: %w", err)
		}
	}

	remaining, err := d.promos.CountRemaining(ctx)
	if err != nil {
		return fmt.Errorf("count promocodes: %w", err)
	}
	if remaining == 0 {
		content := fmt.Sprintf("<@&%s> there are no promocodes left, please add more", d.adminRoleID)
		if err := d.notify(ctx, content); err != nil {
			slog.Error("Failed to send promocode stock alert",
				slog.String("type", "err"),
				slog.Any("error", err))
		}
	}
	return nil
}
