package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/uptrace/bun"
	"github.com/wardenbot/warden/warden/database/models"
)

// GrantRepository stores the outstanding time-bounded grants for every
// GrantKind. There is deliberately no uniqueness constraint on the subject:
// duplicate grants coexist and are reconciled independently.
type GrantRepository interface {
	Add(ctx context.Context, grant models.Grant) error
	// Due returns a snapshot of all grants with expiry before now. Grants
	// inserted while a sweep iterates this slice only show up next cycle.
	Due(ctx context.Context, kind models.GrantKind, now time.Time) ([]models.Grant, error)
	// DeleteDue bulk-deletes by re-evaluating the same expiry predicate used
	// by Due, not by the id set Due returned. A grant that becomes due
	// between the two calls is therefore removed without its restoration
	// action having run; the action is idempotent and the next lock/role/ban
	// issuance starts a fresh grant, so this is tolerated.
	DeleteDue(ctx context.Context, kind models.GrantKind, now time.Time) (int64, error)
	// DeleteBySubject removes every grant of one kind held by a subject,
	// used when a moderator manually restores state ahead of the expiry.
	DeleteBySubject(ctx context.Context, kind models.GrantKind, subjectID snowflake.ID) error
}

type grantRepository struct {
	db *bun.DB
}

func NewGrantRepository(db *bun.DB) GrantRepository {
	return &grantRepository{db: db}
}

func (r *grantRepository) Add(ctx context.Context, grant models.Grant) error {
	var err error
	switch grant.Kind {
	case models.GrantTempRole:
		_, err = r.db.NewInsert().Model(&models.TempRole{
			ID:       int64(grant.SubjectID),
			RoleID:   int64(grant.ExtraID),
			RemoveAt: grant.ExpiresAt,
		}).Exec(ctx)
	case models.GrantLockedChannel:
		_, err = r.db.NewInsert().Model(&models.LockedChannel{
			ID:       int64(grant.SubjectID),
			UnlockAt: grant.ExpiresAt,
		}).Exec(ctx)
	case models.GrantTempBan:
		_, err = r.db.NewInsert().Model(&models.Ban{
			ID:      int64(grant.SubjectID),
			UnbanAt: grant.ExpiresAt,
		}).Exec(ctx)
	default:
		return fmt.Errorf("unknown grant kind %d", grant.Kind)
	}
	if err != nil {
		return fmt.Errorf("failed to add %s grant: %w", grant.Kind, err)
	}
	return nil
}

func (r *grantRepository) Due(ctx context.Context, kind models.GrantKind, now time.Time) ([]models.Grant, error) {
	var grants []models.Grant

	switch kind {
	case models.GrantTempRole:
		var rows []models.TempRole
		if err := r.db.NewSelect().Model(&rows).
			Where("remove_at < ?", now).
			Scan(ctx); err != nil {
			return nil, err
		}
		for _, row := range rows {
			grants = append(grants, models.Grant{
				Kind:      kind,
				SubjectID: snowflake.ID(row.ID),
				ExtraID:   snowflake.ID(row.RoleID),
				ExpiresAt: row.RemoveAt,
			})
		}
	case models.GrantLockedChannel:
		var rows []models.LockedChannel
		if err := r.db.NewSelect().Model(&rows).
			Where("unlock_at < ?", now).
			Scan(ctx); err != nil {
			return nil, err
		}
		for _, row := range rows {
			grants = append(grants, models.Grant{
				Kind:      kind,
				SubjectID: snowflake.ID(row.ID),
				ExpiresAt: row.UnlockAt,
			})
		}
	case models.GrantTempBan:
		var rows []models.Ban
		if err := r.db.NewSelect().Model(&rows).
			Where("unban_at < ?", now).
			Scan(ctx); err != nil {
			return nil, err
		}
		for _, row := range rows {
			grants = append(grants, models.Grant{
				Kind:      kind,
				SubjectID: snowflake.ID(row.ID),
				ExpiresAt: row.UnbanAt,
			})
		}
	default:
		return nil, fmt.Errorf("unknown grant kind %d", kind)
	}

	return grants, nil
}

func (r *grantRepository) DeleteDue(ctx context.Context, kind models.GrantKind, now time.Time) (int64, error) {
	var query *bun.DeleteQuery
	switch kind {
	case models.GrantTempRole:
		query = r.db.NewDelete().Model((*models.TempRole)(nil)).Where("remove_at < ?", now)
	case models.GrantLockedChannel:
		query = r.db.NewDelete().Model((*models.LockedChannel)(nil)).Where("unlock_at < ?", now)
	case models.GrantTempBan:
		query = r.db.NewDelete().Model((*models.Ban)(nil)).Where("unban_at < ?", now)
	default:
		return 0, fmt.Errorf("unknown grant kind %d", kind)
	}

	result, err := query.Exec(ctx)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func (r *grantRepository) DeleteBySubject(ctx context.Context, kind models.GrantKind, subjectID snowflake.ID) error {
	var err error
	switch kind {
	case models.GrantTempRole:
		_, err = r.db.NewDelete().Model((*models.TempRole)(nil)).Where("id = ?", int64(subjectID)).Exec(ctx)
	case models.GrantLockedChannel:
		_, err = r.db.NewDelete().Model((*models.LockedChannel)(nil)).Where("id = ?", int64(subjectID)).Exec(ctx)
	case models.GrantTempBan:
		_, err = r.db.NewDelete().Model((*models.Ban)(nil)).Where("id = ?", int64(subjectID)).Exec(ctx)
	default:
		return fmt.Errorf("unknown grant kind %d", kind)
	}
	return err
}
