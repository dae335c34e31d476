package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/warden/database/models"
)

type ButtonRoleRepository interface {
	Add(ctx context.Context, id string, roleID, messageID snowflake.ID) error
	// Get resolves a button custom id to its bound role; ok is false for
	// buttons this bot does not manage.
	Get(ctx context.Context, id string) (roleID snowflake.ID, ok bool, err error)
	Remove(ctx context.Context, id string) error
	// ClearMessage drops every binding on a deleted message.
	ClearMessage(ctx context.Context, messageID snowflake.ID) error
}

type buttonRoleRepository struct {
	db *bun.DB
}

func NewButtonRoleRepository(db *bun.DB) ButtonRoleRepository {
	return &buttonRoleRepository{db: db}
}

func (r *buttonRoleRepository) Add(ctx context.Context, id string, roleID, messageID snowflake.ID) error {
	_, err := r.db.NewInsert().Model(&models.ButtonRole{
		ID:        id,
		RoleID:    int64(roleID),
		MessageID: int64(messageID),
	}).Exec(ctx)
	return err
}

func (r *buttonRoleRepository) Get(ctx context.Context, id string) (snowflake.ID, bool, error) {
	buttonRole := new(models.ButtonRole)
	err := r.db.NewSelect().Model(buttonRole).
		Where("id = ?", id).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return snowflake.ID(buttonRole.RoleID), true, nil
}

func (r *buttonRoleRepository) Remove(ctx context.Context, id string) error {
	_, err := r.db.NewDelete().Model((*models.ButtonRole)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	return err
}

func (r *buttonRoleRepository) ClearMessage(ctx context.Context, messageID snowflake.ID) error {
	_, err := r.db.NewDelete().Model((*models.ButtonRole)(nil)).
		Where("message_id = ?", int64(messageID)).
		Exec(ctx)
	return err
}
