package repositories

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/warden/database/models"
)

type AFKRepository interface {
	Get(ctx context.Context, id snowflake.ID) (*models.AFK, bool, error)
	Set(ctx context.Context, id snowflake.ID, message string) error
	Clear(ctx context.Context, id snowflake.ID) error
}

type afkRepository struct {
	db *bun.DB
}

func NewAFKRepository(db *bun.DB) AFKRepository {
	return &afkRepository{db: db}
}

func (r *afkRepository) Get(ctx context.Context, id snowflake.ID) (*models.AFK, bool, error) {
	afk := new(models.AFK)
	err := r.db.NewSelect().Model(afk).
		Where("id = ?", int64(id)).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return afk, true, nil
}

func (r *afkRepository) Set(ctx context.Context, id snowflake.ID, message string) error {
	_, err := r.db.NewInsert().Model(&models.AFK{
		ID:    int64(id),
		AFK:   message,
		SetAt: time.Now(),
	}).
		On("CONFLICT (id) DO UPDATE").
		Set("afk = EXCLUDED.afk").
		Set("set_at = EXCLUDED.set_at").
		Exec(ctx)
	return err
}

func (r *afkRepository) Clear(ctx context.Context, id snowflake.ID) error {
	_, err := r.db.NewDelete().Model((*models.AFK)(nil)).
		Where("id = ?", int64(id)).
		Exec(ctx)
	return err
}
