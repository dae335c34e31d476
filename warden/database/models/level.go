package models

import (
	"github.com/uptrace/bun"
)

type Level struct {
	bun.BaseModel `bun:"table:levels,alias:l"`

	RoleID        int64 `bun:"role_id,pk"`
	RequiredScore int64 `bun:"required_score,notnull"`
}
