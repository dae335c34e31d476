package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/warden/database/models"
)

const TopPageSize = 10

type ScoreRepository interface {
	Get(ctx context.Context, id snowflake.ID) (*models.Score, error)
	// AddScore upserts the member's total; daily/weekly counters only move
	// for organic gains, not admin adjustments.
	AddScore(ctx context.Context, id snowflake.ID, delta int64, organic bool) error
	ResetDaily(ctx context.Context) error
	ResetWeekly(ctx context.Context) error
	TotalDaily(ctx context.Context) (int64, error)
	// Rank returns the 1-based leaderboard position for a total score.
	Rank(ctx context.Context, scoreTotal int64) (int, error)
	Top(ctx context.Context, page int) ([]models.Score, error)
	CountActive(ctx context.Context) (int, error)
	SetLeft(ctx context.Context, id snowflake.ID, left bool) error
}

type scoreRepository struct {
	db *bun.DB
}

func NewScoreRepository(db *bun.DB) ScoreRepository {
	return &scoreRepository{db: db}
}

func (r *scoreRepository) Get(ctx context.Context, id snowflake.ID) (*models.Score, error) {
	score := new(models.Score)
	err := r.db.NewSelect().Model(score).
		Where("id = ?", int64(id)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return &models.Score{ID: int64(id)}, nil
	}
	return score, err
}

func (r *scoreRepository) AddScore(ctx context.Context, id snowflake.ID, delta int64, organic bool) error {
	score := &models.Score{
		ID:         int64(id),
		ScoreTotal: delta,
	}
	if organic && delta > 0 {
		score.ScoreDaily = delta
		score.ScoreWeekly = delta
	}

	_, err := r.db.NewInsert().Model(score).
		On("CONFLICT (id) DO UPDATE").
		Set("score_total = s.score_total + EXCLUDED.score_total").
		Set("score_daily = s.score_daily + EXCLUDED.score_daily").
		Set("score_weekly = s.score_weekly + EXCLUDED.score_weekly").
		Set("left_server = FALSE").
		Exec(ctx)
	return err
}

func (r *scoreRepository) ResetDaily(ctx context.Context) error {
	_, err := r.db.NewUpdate().Model((*models.Score)(nil)).
		Set("score_daily = 0").
		Where("TRUE").
		Exec(ctx)
	return err
}

func (r *scoreRepository) ResetWeekly(ctx context.Context) error {
	_, err := r.db.NewUpdate().Model((*models.Score)(nil)).
		Set("score_weekly = 0").
		Where("TRUE").
		Exec(ctx)
	return err
}

func (r *scoreRepository) TotalDaily(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.NewSelect().Model((*models.Score)(nil)).
		ColumnExpr("COALESCE(SUM(score_daily), 0)").
		Scan(ctx, &total)
	return total, err
}

func (r *scoreRepository) Rank(ctx context.Context, scoreTotal int64) (int, error) {
	count, err := r.db.NewSelect().Model((*models.Score)(nil)).
		Where("score_total > ?", scoreTotal).
		Where("NOT left_server").
		Count(ctx)
	return count + 1, err
}

func (r *scoreRepository) Top(ctx context.Context, page int) ([]models.Score, error) {
	var scores []models.Score
	err := r.db.NewSelect().Model(&scores).
		Where("NOT left_server").
		Order("score_total DESC").
		Limit(TopPageSize).
		Offset(page * TopPageSize).
		Scan(ctx)
	return scores, err
}

func (r *scoreRepository) CountActive(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*models.Score)(nil)).
		Where("NOT left_server").
		Count(ctx)
}

func (r *scoreRepository) SetLeft(ctx context.Context, id snowflake.ID, left bool) error {
	_, err := r.db.NewUpdate().Model((*models.Score)(nil)).
		Set("left_server = ?", left).
		Where("id = ?", int64(id)).
		Exec(ctx)
	return err
}
