package models

import (
	"github.com/uptrace/bun"
)

type ButtonRole struct {
	bun.BaseModel `bun:"table:button_roles,alias:br"`

	ID        string `bun:"id,pk"`
	RoleID    int64  `bun:"role_id,notnull"`
	MessageID int64  `bun:"message_id,notnull"`
}
