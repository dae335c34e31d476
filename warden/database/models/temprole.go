package models

import (
	"time"

	"github.com/uptrace/bun"
)

// TempRole has no primary key on purpose: the same member may hold several
// temporary roles, or even the same role twice, and each row is reconciled
// independently.
type TempRole struct {
	bun.BaseModel `bun:"table:temproles,alias:tr"`

	ID       int64     `bun:"id,notnull"`
	RoleID   int64     `bun:"role_id,notnull"`
	RemoveAt time.Time `bun:"remove_at,notnull"`
}
