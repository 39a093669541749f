package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/internal/rules"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
)

func newSessionService(users *fakeUsers, now time.Time) *SessionService {
	svc := NewSessionService(users, zap.NewNop())
	svc.now = fixedClock(now)
	svc.intn = func(int) int { return 234 }
	return svc
}

func TestSessionResolveUnknownProfile(t *testing.T) {
	svc := newSessionService(newFakeUsers(), time.Now())

	_, err := svc.Resolve(context.Background(), "missing")
	require.Error(t, err)
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestSessionResolveInactive(t *testing.T) {
	svc := newSessionService(newFakeUsers(models.User{ID: "u1", Email: "a@campus.edu", Role: models.RoleStudent}), time.Now())

	_, err := svc.Resolve(context.Background(), "u1")
	assert.ErrorIs(t, err, appErrors.ErrInactiveAccount)
}

func TestSessionResolveLiftsExpiredSuspension(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	until := now.Add(-time.Minute)
	users := newFakeUsers(models.User{
		ID: "u1", Email: "a@campus.edu", Role: models.RoleStudent, IsActive: true,
		Username: strPtr("alice"), UsernameVerified: true,
		IsSuspended: true, SuspendedUntil: &until, SuspendedReason: strPtr("spam"),
	})
	svc := newSessionService(users, now)

	session, err := svc.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "u1", session.UserID)
	assert.Contains(t, users.writes, "lift_suspension")
	assert.False(t, users.users["u1"].IsSuspended)
}

func TestSessionResolveActiveSuspension(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	until := now.Add(48 * time.Hour)
	users := newFakeUsers(models.User{
		ID: "u1", Email: "a@campus.edu", Role: models.RoleStudent, IsActive: true,
		IsSuspended: true, SuspendedUntil: &until,
	})
	svc := newSessionService(users, now)

	_, err := svc.Resolve(context.Background(), "u1")
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrAccountSuspended.Code, appErr.Code)
	assert.Equal(t, rules.DefaultSuspensionReason, appErr.Meta["reason"])
	assert.Equal(t, until, appErr.Meta["suspended_until"])
	assert.Empty(t, users.writes)
}

func TestSessionResolveSeedsTempUsername(t *testing.T) {
	users := newFakeUsers(models.User{ID: "u1", Email: "Jane.Doe@campus.edu", Role: models.RoleStudent, IsActive: true})
	users.taken["janedoe_1234"] = true
	svc := newSessionService(users, time.Now())
	calls := 0
	svc.intn = func(int) int {
		calls++
		if calls == 1 {
			return 234
		}
		return 235
	}

	session, err := svc.Resolve(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, session.UsernameVerified)
	require.NotNil(t, users.users["u1"].RequestedUsername)
	assert.Equal(t, "janedoe_1235", *users.users["u1"].RequestedUsername)
	assert.False(t, rules.CanParticipate(*session))
}

func TestSessionResolveSkipsSeedForPresident(t *testing.T) {
	users := newFakeUsers(models.User{ID: "p1", Email: "pres@campus.edu", Role: models.RolePresident, IsActive: true})
	svc := newSessionService(users, time.Now())

	session, err := svc.Resolve(context.Background(), "p1")
	require.NoError(t, err)
	assert.Empty(t, users.writes)
	assert.True(t, rules.CanParticipate(*session))
}
