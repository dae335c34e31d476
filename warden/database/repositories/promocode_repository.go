package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/warden/database/models"
)

var ErrPromocodeExists = errors.New("promocode already exists")

type PromocodeRepository interface {
	Add(ctx context.Context, promocode models.Promocode) error
	// CountRemaining reports the unconsumed promocode stock checked by the
	// daily reset.
	CountRemaining(ctx context.Context) (int, error)
	// PopOne consumes and returns the promocode expiring soonest, or ""
	// when the stock is empty.
	PopOne(ctx context.Context) (string, error)
	NotifiedScores(ctx context.Context, id snowflake.ID) ([]int64, error)
	MarkNotified(ctx context.Context, id snowflake.ID, score int64) error
	ClearNotifications(ctx context.Context) error
}

type promocodeRepository struct {
	db *bun.DB
}

func NewPromocodeRepository(db *bun.DB) PromocodeRepository {
	return &promocodeRepository{db: db}
}

func (r *promocodeRepository) Add(ctx context.Context, promocode models.Promocode) error {
	result, err := r.db.NewInsert().Model(&promocode).
		On("CONFLICT (code) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrPromocodeExists
	}
	return nil
}

func (r *promocodeRepository) CountRemaining(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*models.Promocode)(nil)).Count(ctx)
}

func (r *promocodeRepository) PopOne(ctx context.Context) (string, error) {
	var code string
	err := r.db.NewRaw(
		`DELETE FROM promocodes WHERE code = (SELECT code FROM promocodes ORDER BY expires_at ASC LIMIT 1) RETURNING code`,
	).Scan(ctx, &code)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return code, err
}

func (r *promocodeRepository) NotifiedScores(ctx context.Context, id snowflake.ID) ([]int64, error) {
	var scores []int64
	err := r.db.NewSelect().Model((*models.PromoNotification)(nil)).
		Column("score").
		Where("id = ?", int64(id)).
		Scan(ctx, &scores)
	return scores, err
}

func (r *promocodeRepository) MarkNotified(ctx context.Context, id snowflake.ID, score int64) error {
	_, err := r.db.NewInsert().Model(&models.PromoNotification{
		ID:    int64(id),
		Score: score,
	}).On("CONFLICT DO NOTHING").Exec(ctx)
	return err
}

func (r *promocodeRepository) ClearNotifications(ctx context.Context) error {
	_, err := r.db.NewDelete().Model((*models.PromoNotification)(nil)).
		Where("TRUE").
		Exec(ctx)
	return err
}
