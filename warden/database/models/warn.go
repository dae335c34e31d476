package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Warn struct {
	bun.BaseModel `bun:"table:warns,alias:w"`

	ID           int64     `bun:"id,pk,autoincrement"`
	TargetID     int64     `bun:"target_id,notnull"`
	IssuerID     int64     `bun:"issuer_id,notnull"`
	IssuedAt     time.Time `bun:"issued_at,notnull"`
	RuleViolated string    `bun:"rule_violated,notnull"`
}
