package models

import (
	"time"

	"github.com/uptrace/bun"
)

type AFK struct {
	bun.BaseModel `bun:"table:afks,alias:a"`

	ID    int64     `bun:"id,pk"`
	AFK   string    `bun:"afk,notnull"`
	SetAt time.Time `bun:"set_at,notnull"`
}
