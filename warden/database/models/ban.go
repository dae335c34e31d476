package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Ban struct {
	bun.BaseModel `bun:"table:bans,alias:b"`

	ID      int64     `bun:"id,notnull"`
	UnbanAt time.Time `bun:"unban_at,notnull"`
}
