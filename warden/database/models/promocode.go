package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Promocode struct {
	bun.BaseModel `bun:"table:promocodes,alias:pc"`

	Code      string    `bun:"code,pk"`
	ExpiresAt time.Time `bun:"expires_at,notnull"`
}

// PromoNotification records that a member was already congratulated for
// reaching a weekly-score threshold, so the notice is sent once.
type PromoNotification struct {
	bun.BaseModel `bun:"table:promo_notifications,alias:pn"`

	ID    int64 `bun:"id,pk"`
	Score int64 `bun:"score,pk"`
}
