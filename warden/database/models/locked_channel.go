package models

import (
	"time"

	"github.com/uptrace/bun"
)

type LockedChannel struct {
	bun.BaseModel `bun:"table:locked_channels,alias:lc"`

	ID       int64     `bun:"id,notnull"`
	UnlockAt time.Time `bun:"unlock_at,notnull"`
}
