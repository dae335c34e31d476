package moderation

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wardenbot/warden/warden/database/models"
)

type fakeGrantStore struct {
	mu     sync.Mutex
	grants []models.Grant
}

func (s *fakeGrantStore) add(grant models.Grant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grants = append(s.grants, grant)
}

func (s *fakeGrantStore) Due(_ context.Context, kind models.GrantKind, now time.Time) ([]models.Grant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var due []models.Grant
	for _, grant := range s.grants {
		if grant.Kind == kind && grant.ExpiresAt.Before(now) {
			due = append(due, grant)
		}
	}
	return due, nil
}

func (s *fakeGrantStore) DeleteDue(_ context.Context, kind models.GrantKind, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var kept []models.Grant
	var deleted int64
	for _, grant := range s.grants {
		if grant.Kind == kind && grant.ExpiresAt.Before(now) {
			deleted++
			continue
		}
		kept = append(kept, grant)
	}
	s.grants = kept
	return deleted, nil
}

func (s *fakeGrantStore) remaining(kind models.GrantKind) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int
	for _, grant := range s.grants {
		if grant.Kind == kind {
			count++
		}
	}
	return count
}

type adapterCall struct {
	method    string
	subjectID snowflake.ID
	extraID   snowflake.ID
}

type fakeAdapter struct {
	mu       sync.Mutex
	outcome  Outcome
	calls    []adapterCall
	onRevoke func()
}

func (a *fakeAdapter) record(call adapterCall) Outcome {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, call)
	return a.outcome
}

func (a *fakeAdapter) RevokeRole(_ context.Context, userID, roleID snowflake.ID) Outcome {
	if a.onRevoke != nil {
		a.onRevoke()
	}
	return a.record(adapterCall{method: "RevokeRole", subjectID: userID, extraID: roleID})
}

func (a *fakeAdapter) UnlockChannel(_ context.Context, channelID snowflake.ID) Outcome {
	return a.record(adapterCall{method: "UnlockChannel", subjectID: channelID})
}

func (a *fakeAdapter) LiftBan(_ context.Context, userID snowflake.ID) Outcome {
	return a.record(adapterCall{method: "LiftBan", subjectID: userID})
}

func (a *fakeAdapter) callCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.calls)
}

type fakeWarnStore struct {
	cutoff  time.Time
	deleted int64
}

func (s *fakeWarnStore) DeleteOlderThan(_ context.Context, cutoff time.Time) (int64, error) {
	s.cutoff = cutoff
	return s.deleted, nil
}

type logCapture struct {
	mu      sync.Mutex
	records []slog.Record
}

func (c *logCapture) Enabled(context.Context, slog.Level) bool { return true }

func (c *logCapture) Handle(_ context.Context, record slog.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, record)
	return nil
}

func (c *logCapture) WithAttrs([]slog.Attr) slog.Handler { return c }
func (c *logCapture) WithGroup(string) slog.Handler      { return c }

func (c *logCapture) warnings() []slog.Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	var warnings []slog.Record
	for _, record := range c.records {
		if record.Level == slog.LevelWarn {
			warnings = append(warnings, record)
		}
	}
	return warnings
}

func captureLogs(t *testing.T) *logCapture {
	t.Helper()
	capture := &logCapture{}
	previous := slog.Default()
	slog.SetDefault(slog.New(capture))
	t.Cleanup(func() { slog.SetDefault(previous) })
	return capture
}

func TestSweepRevokesDueTempRoles(t *testing.T) {
	captureLogs(t)

	store := &fakeGrantStore{}
	store.add(models.Grant{
		Kind:      models.GrantTempRole,
		SubjectID: 100,
		ExtraID:   200,
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	store.add(models.Grant{
		Kind:      models.GrantTempRole,
		SubjectID: 101,
		ExtraID:   201,
		ExpiresAt: time.Now().Add(time.Hour),
	})

	adapter := &fakeAdapter{outcome: OutcomeSuccess}
	reconciler := NewReconciler(store, &fakeWarnStore{}, adapter)

	require.NoError(t, reconciler.SweepTempRoles(context.Background()))

	require.Equal(t, 1, adapter.callCount())
	assert.Equal(t, adapterCall{method: "RevokeRole", subjectID: 100, extraID: 200}, adapter.calls[0])
	assert.Equal(t, 1, store.remaining(models.GrantTempRole))

	// The surviving grant is not yet due, so a second sweep is a no-op.
	require.NoError(t, reconciler.SweepTempRoles(context.Background()))
	assert.Equal(t, 1, adapter.callCount())
}

func TestSweepTreatsNotFoundAsRestored(t *testing.T) {
	capture := captureLogs(t)

	store := &fakeGrantStore{}
	store.add(models.Grant{
		Kind:      models.GrantTempBan,
		SubjectID: 100,
		ExpiresAt: time.Now().Add(-time.Minute),
	})

	adapter := &fakeAdapter{outcome: OutcomeNotFound}
	reconciler := NewReconciler(store, &fakeWarnStore{}, adapter)

	require.NoError(t, reconciler.SweepTempBans(context.Background()))

	assert.Equal(t, 0, store.remaining(models.GrantTempBan))
	assert.Empty(t, capture.warnings())
}

func TestSweepDeletesGrantAfterTransientFailure(t *testing.T) {
	capture := captureLogs(t)

	store := &fakeGrantStore{}
	store.add(models.Grant{
		Kind:      models.GrantLockedChannel,
		SubjectID: 99,
		ExpiresAt: time.Now().Add(-time.Minute),
	})

	adapter := &fakeAdapter{outcome: OutcomeTransient}
	reconciler := NewReconciler(store, &fakeWarnStore{}, adapter)

	require.NoError(t, reconciler.SweepLockedChannels(context.Background()))

	// The record is gone despite the failed restoration; the failure is
	// surfaced once in the log and never retried.
	assert.Equal(t, 0, store.remaining(models.GrantLockedChannel))

	warnings := capture.warnings()
	require.Len(t, warnings, 1)
	var subjectID string
	warnings[0].Attrs(func(attr slog.Attr) bool {
		if attr.Key == "subject_id" {
			subjectID = attr.Value.String()
		}
		return true
	})
	assert.Equal(t, "99", subjectID)

	require.NoError(t, reconciler.SweepLockedChannels(context.Background()))
	assert.Equal(t, 1, adapter.callCount())
}

func TestSweepDeletesGrantsThatBecameDueMidSweep(t *testing.T) {
	captureLogs(t)

	store := &fakeGrantStore{}
	store.add(models.Grant{
		Kind:      models.GrantTempRole,
		SubjectID: 100,
		ExtraID:   200,
		ExpiresAt: time.Now().Add(-time.Minute),
	})

	adapter := &fakeAdapter{outcome: OutcomeSuccess}
	// A grant that was already past expiry lands in the store while the
	// sweep is mid-flight, after the due snapshot was taken.
	adapter.onRevoke = func() {
		adapter.onRevoke = nil
		store.add(models.Grant{
			Kind:      models.GrantTempRole,
			SubjectID: 101,
			ExtraID:   201,
			ExpiresAt: time.Now().Add(-2 * time.Hour),
		})
	}

	reconciler := NewReconciler(store, &fakeWarnStore{}, adapter)
	require.NoError(t, reconciler.SweepTempRoles(context.Background()))

	// The late grant is deleted by the bulk pass without its role ever
	// having been revoked.
	assert.Equal(t, 0, store.remaining(models.GrantTempRole))
	assert.Equal(t, 1, adapter.callCount())
}

func TestSweepProcessesDuplicateGrantsIndependently(t *testing.T) {
	captureLogs(t)

	store := &fakeGrantStore{}
	expiry := time.Now().Add(-time.Minute)
	store.add(models.Grant{Kind: models.GrantTempRole, SubjectID: 100, ExtraID: 200, ExpiresAt: expiry})
	store.add(models.Grant{Kind: models.GrantTempRole, SubjectID: 100, ExtraID: 200, ExpiresAt: expiry})

	adapter := &fakeAdapter{outcome: OutcomeSuccess}
	reconciler := NewReconciler(store, &fakeWarnStore{}, adapter)

	require.NoError(t, reconciler.SweepTempRoles(context.Background()))

	assert.Equal(t, 2, adapter.callCount())
	assert.Equal(t, 0, store.remaining(models.GrantTempRole))
}

func TestSweepExpiredGrantsCoversRolesAndChannels(t *testing.T) {
	captureLogs(t)

	store := &fakeGrantStore{}
	store.add(models.Grant{
		Kind:      models.GrantTempRole,
		SubjectID: 100,
		ExtraID:   200,
		ExpiresAt: time.Now().Add(-time.Minute),
	})
	store.add(models.Grant{
		Kind:      models.GrantLockedChannel,
		SubjectID: 300,
		ExpiresAt: time.Now().Add(-time.Minute),
	})

	adapter := &fakeAdapter{outcome: OutcomeSuccess}
	reconciler := NewReconciler(store, &fakeWarnStore{}, adapter)

	require.NoError(t, reconciler.SweepExpiredGrants(context.Background()))

	require.Equal(t, 2, adapter.callCount())
	assert.Equal(t, "RevokeRole", adapter.calls[0].method)
	assert.Equal(t, "UnlockChannel", adapter.calls[1].method)
}

func TestSweepWarningsUsesRetentionCutoff(t *testing.T) {
	captureLogs(t)

	warns := &fakeWarnStore{deleted: 3}
	reconciler := NewReconciler(&fakeGrantStore{}, warns, &fakeAdapter{})

	before := time.Now().Add(-WarnRetention)
	require.NoError(t, reconciler.SweepWarnings(context.Background()))
	after := time.Now().Add(-WarnRetention)

	assert.False(t, warns.cutoff.Before(before))
	assert.False(t, warns.cutoff.After(after))
}
