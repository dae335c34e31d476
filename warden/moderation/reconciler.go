package moderation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wardenbot/warden/warden/database/models"
)

// WarnRetention is how long warnings stay on record before the sweep
// expunges them.
const WarnRetention = 30 * 24 * time.Hour

// GrantStore is the slice of grant storage the reconciler needs.
type GrantStore interface {
	Due(ctx context.Context, kind models.GrantKind, now time.Time) ([]models.Grant, error)
	DeleteDue(ctx context.Context, kind models.GrantKind, now time.Time) (int64, error)
}

// WarnStore is the slice of warning storage the reconciler needs.
type WarnStore interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Reconciler restores external platform state when time-bounded moderation
// grants expire. Each sweep snapshots the due records, applies the matching
// restoration through the adapter, then bulk-deletes with the same reference
// time. A restoration that fails transiently is logged and its record is
// deleted anyway; the next manual action wins over a retry storm.
type Reconciler struct {
	grants  GrantStore
	warns   WarnStore
	adapter ExternalStateAdapter
}

func NewReconciler(grants GrantStore, warns WarnStore, adapter ExternalStateAdapter) *Reconciler {
	return &Reconciler{grants: grants, warns: warns, adapter: adapter}
}

// SweepExpiredGrants handles the frequent cadence: temp roles first, then
// locked channels.
func (r *Reconciler) SweepExpiredGrants(ctx context.Context) error {
	if err := r.SweepTempRoles(ctx); err != nil {
		return err
	}
	return r.SweepLockedChannels(ctx)
}

func (r *Reconciler) SweepTempRoles(ctx context.Context) error {
	return r.sweep(ctx, models.GrantTempRole)
}

func (r *Reconciler) SweepLockedChannels(ctx context.Context) error {
	return r.sweep(ctx, models.GrantLockedChannel)
}

func (r *Reconciler) SweepTempBans(ctx context.Context) error {
	return r.sweep(ctx, models.GrantTempBan)
}

// SweepWarnings expunges warnings older than the retention window.
func (r *Reconciler) SweepWarnings(ctx context.Context) error {
	deleted, err := r.warns.DeleteOlderThan(ctx, time.Now().Add(-WarnRetention))
	if err != nil {
		return fmt.Errorf("expunge warnings: %w", err)
	}
	if deleted > 0 {
		slog.Info("Expunged aged warnings",
			slog.String("type", "sweep"),
			slog.Int64("deleted", deleted))
	}
	return nil
}

func (r *Reconciler) sweep(ctx context.Context, kind models.GrantKind) error {
	now := time.Now()

	due, err := r.grants.Due(ctx, kind, now)
	if err != nil {
		return fmt.Errorf("load due %s grants: %w", kind, err)
	}

	for _, grant := range due {
		if outcome := r.apply(ctx, grant); outcome == OutcomeTransient {
			slog.Warn("Failed to restore state for expired grant",
				slog.String("type", "sweep"),
				slog.String("kind", grant.Kind.String()),
				slog.String("subject_id", grant.SubjectID.String()))
		}
	}

	deleted, err := r.grants.DeleteDue(ctx, kind, now)
	if err != nil {
		return fmt.Errorf("delete due %s grants: %w", kind, err)
	}
	if deleted > 0 {
		slog.Info("Swept expired grants",
			slog.String("type", "sweep"),
			slog.String("kind", kind.String()),
			slog.Int64("deleted", deleted))
	}
	return nil
}

func (r *Reconciler) apply(ctx context.Context, grant models.Grant) Outcome {
	switch grant.Kind {
	case models.GrantTempRole:
		return r.adapter.RevokeRole(ctx, grant.SubjectID, grant.ExtraID)
	case models.GrantLockedChannel:
		return r.adapter.UnlockChannel(ctx, grant.SubjectID)
	case models.GrantTempBan:
		return r.adapter.LiftBan(ctx, grant.SubjectID)
	default:
		return OutcomeNotFound
	}
}
