package models

import (
	"github.com/uptrace/bun"
)

type Score struct {
	bun.BaseModel `bun:"table:scores,alias:s"`

	ID          int64 `bun:"id,pk"`
	ScoreTotal  int64 `bun:"score_total,notnull,default:0"`
	ScoreDaily  int64 `bun:"score_daily,notnull,default:0"`
	ScoreWeekly int64 `bun:"score_weekly,notnull,default:0"`
	LeftServer  bool  `bun:"left_server,notnull,default:false"`
}
