package repositories

import (
	"context"
	"database/sql"
	"errors"

	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/warden/database/models"
)

const levelCacheKey = "levels"

// LevelRepository maps required scores to level roles. The full list is read
// on every scored message, so it sits behind a small cache invalidated on
// writes.
type LevelRepository interface {
	All(ctx context.Context) ([]models.Level, error)
	Add(ctx context.Context, roleID int64, requiredScore int64) error
	// RemoveByRole and RemoveByScore return the removed level, or nil when
	// nothing matched.
	RemoveByRole(ctx context.Context, roleID int64) (*models.Level, error)
	RemoveByScore(ctx context.Context, requiredScore int64) (*models.Level, error)
}

type levelRepository struct {
	db    *bun.DB
	cache *lru.Cache
}

func NewLevelRepository(db *bun.DB) LevelRepository {
	cache, _ := lru.New(4)
	return &levelRepository{db: db, cache: cache}
}

func (r *levelRepository) All(ctx context.Context) ([]models.Level, error) {
	if cached, ok := r.cache.Get(levelCacheKey); ok {
		return cached.([]models.Level), nil
	}

	var levels []models.Level
	if err := r.db.NewSelect().Model(&levels).
		Order("required_score ASC").
		Scan(ctx); err != nil {
		return nil, err
	}
	r.cache.Add(levelCacheKey, levels)
	return levels, nil
}

func (r *levelRepository) Add(ctx context.Context, roleID int64, requiredScore int64) error {
	_, err := r.db.NewInsert().Model(&models.Level{
		RoleID:        roleID,
		RequiredScore: requiredScore,
	}).Exec(ctx)
	if err == nil {
		r.cache.Remove(levelCacheKey)
	}
	return err
}

func (r *levelRepository) RemoveByRole(ctx context.Context, roleID int64) (*models.Level, error) {
	return r.remove(ctx, "role_id = ?", roleID)
}

func (r *levelRepository) RemoveByScore(ctx context.Context, requiredScore int64) (*models.Level, error) {
	return r.remove(ctx, "required_score = ?", requiredScore)
}

func (r *levelRepository) remove(ctx context.Context, where string, arg int64) (*models.Level, error) {
	level := new(models.Level)
	err := r.db.NewSelect().Model(level).Where(where, arg).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if _, err := r.db.NewDelete().Model((*models.Level)(nil)).
		Where(where, arg).
		Exec(ctx); err != nil {
		return nil, err
	}
	r.cache.Remove(levelCacheKey)
	return level, nil
}
