package repositories

import (
	"context"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/warden/database/models"
)

type WarnRepository interface {
	Add(ctx context.Context, targetID, issuerID snowflake.ID, ruleViolated string) error
	GetByTarget(ctx context.Context, targetID snowflake.ID) ([]models.Warn, error)
	CountByTarget(ctx context.Context, targetID snowflake.ID) (int, error)
	CountByTargetAndRule(ctx context.Context, targetID snowflake.ID, ruleViolated string) (int, error)
	// DeleteByID reports whether the warning existed.
	DeleteByID(ctx context.Context, id int64) (bool, error)
	// DeleteByTarget returns the amount of warnings cleared.
	DeleteByTarget(ctx context.Context, targetID snowflake.ID) (int64, error)
	// DeleteOlderThan is the retention sweep: one bulk delete, no per-record
	// side effect and no notification.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

type warnRepository struct {
	db *bun.DB
}

func NewWarnRepository(db *bun.DB) WarnRepository {
	return &warnRepository{db: db}
}

func (r *warnRepository) Add(ctx context.Context, targetID, issuerID snowflake.ID, ruleViolated string) error {
	_, err := r.db.NewInsert().Model(&models.Warn{
		TargetID:     int64(targetID),
		IssuerID:     int64(issuerID),
		IssuedAt:     time.Now(),
		RuleViolated: ruleViolated,
	}).Exec(ctx)
	return err
}

func (r *warnRepository) GetByTarget(ctx context.Context, targetID snowflake.ID) ([]models.Warn, error) {
	var warns []models.Warn
	err := r.db.NewSelect().Model(&warns).
		Where("target_id = ?", int64(targetID)).
		Order("issued_at ASC").
		Scan(ctx)
	return warns, err
}

func (r *warnRepository) CountByTarget(ctx context.Context, targetID snowflake.ID) (int, error) {
	return r.db.NewSelect().Model((*models.Warn)(nil)).
		Where("target_id = ?", int64(targetID)).
		Count(ctx)
}

func (r *warnRepository) CountByTargetAndRule(ctx context.Context, targetID snowflake.ID, ruleViolated string) (int, error) {
	return r.db.NewSelect().Model((*models.Warn)(nil)).
		Where("target_id = ?", int64(targetID)).
		Where("rule_violated = ?", ruleViolated).
		Count(ctx)
}

func (r *warnRepository) DeleteByID(ctx context.Context, id int64) (bool, error) {
	result, err := r.db.NewDelete().Model((*models.Warn)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	return affected > 0, err
}

func (r *warnRepository) DeleteByTarget(ctx context.Context, targetID snowflake.ID) (int64, error) {
	result, err := r.db.NewDelete().Model((*models.Warn)(nil)).
		Where("target_id = ?", int64(targetID)).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *warnRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.NewDelete().Model((*models.Warn)(nil)).
		Where("issued_at < ?", cutoff).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
