package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-paws-api/internal/models"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
)

type fakeAdminService struct {
	filter models.UserFilter
	hidden *bool
	audit  models.AuditFilter
}

func (f *fakeAdminService) ListUsers(_ context.Context, _ models.Session, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	f.filter = filter
	return []models.User{{ID: "u1"}}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: 1}, nil
}

func (f *fakeAdminService) UpdateRole(context.Context, models.Session, models.RequestMeta, string, models.UpdateRoleRequest) (*models.Outcome[models.User], error) {
	return nil, appErrors.Clone(appErrors.ErrForbidden, "cannot change your own role")
}

func (f *fakeAdminService) Suspend(context.Context, models.Session, models.RequestMeta, string, models.SuspendUserRequest) (*models.Outcome[models.User], error) {
	return &models.Outcome[models.User]{}, nil
}

func (f *fakeAdminService) Unsuspend(context.Context, models.Session, models.RequestMeta, string) (*models.Outcome[models.User], error) {
	return &models.Outcome[models.User]{}, nil
}

func (f *fakeAdminService) SetHidden(_ context.Context, _ models.Session, _ models.RequestMeta, _ string, hidden bool) (*models.Outcome[models.User], error) {
	f.hidden = &hidden
	return &models.Outcome[models.User]{}, nil
}

func (f *fakeAdminService) Delete(context.Context, models.Session, models.RequestMeta, string) (*models.Outcome[models.User], error) {
	return &models.Outcome[models.User]{}, nil
}

func (f *fakeAdminService) AuditTrail(_ context.Context, _ models.Session, filter models.AuditFilter) ([]models.AuditLog, error) {
	f.audit = filter
	return []models.AuditLog{}, nil
}

func superAdmin() *models.Session {
	return &models.Session{UserID: "a1", Role: models.RoleAdmin, IsSuperAdmin: true}
}

func TestAdminHandlerListUsersPagination(t *testing.T) {
	svc := &fakeAdminService{}
	c, rec := newContext(http.MethodGet, "/admin/users?page=2&page_size=10&role=president&search=%20ann%20", nil, superAdmin())

	NewAdminHandler(svc).ListUsers(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, svc.filter.Page)
	assert.Equal(t, 10, svc.filter.PageSize)
	assert.Equal(t, models.RolePresident, *svc.filter.Role)
	assert.Equal(t, "ann", svc.filter.Search)
	assert.Contains(t, rec.Body.String(), `"total_count":1`)
}

func TestAdminHandlerHideAndUnhide(t *testing.T) {
	svc := &fakeAdminService{}
	h := NewAdminHandler(svc)

	c, _ := newContext(http.MethodPost, "/admin/users/u1/hide", nil, superAdmin())
	h.Hide(c)
	require.NotNil(t, svc.hidden)
	assert.True(t, *svc.hidden)

	c, _ = newContext(http.MethodPost, "/admin/users/u1/unhide", nil, superAdmin())
	h.Unhide(c)
	assert.False(t, *svc.hidden)
}

func TestAdminHandlerUpdateRoleForbidden(t *testing.T) {
	c, rec := newContext(http.MethodPut, "/admin/users/a1/role", jsonBody(map[string]string{"role": "student"}), superAdmin())

	NewAdminHandler(&fakeAdminService{}).UpdateRole(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminHandlerAuditFilter(t *testing.T) {
	svc := &fakeAdminService{}
	c, rec := newContext(http.MethodGet, "/admin/audit?resource=dog&actor_id=p1&limit=bad", nil, superAdmin())

	NewAdminHandler(svc).AuditTrail(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, models.AuditFilter{Resource: "dog", ActorID: "p1"}, svc.audit)
}
