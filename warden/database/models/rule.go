package models

import (
	"github.com/uptrace/bun"
)

type Rule struct {
	bun.BaseModel `bun:"table:rules,alias:r"`

	ID      string `bun:"id,pk"`
	Content string `bun:"content,notnull"`
}

func (r Rule) String() string {
	return r.ID + " " + r.Content
}
