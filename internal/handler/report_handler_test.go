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

type fakeReportService struct {
	filter    models.ReportFilter
	action    models.ResolveReportRequest
	createErr error
}

func (f *fakeReportService) Create(context.Context, models.Session, models.CreateReportRequest) (*models.Outcome[models.UserReport], error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &models.Outcome[models.UserReport]{Result: models.UserReport{ID: "rep-1"}}, nil
}

func (f *fakeReportService) List(_ context.Context, _ models.Session, filter models.ReportFilter) ([]models.ReportWithNames, error) {
	f.filter = filter
	return []models.ReportWithNames{}, nil
}

func (f *fakeReportService) Dismiss(context.Context, models.Session, models.RequestMeta, string) (*models.Outcome[models.UserReport], error) {
	return nil, appErrors.ErrInvalidTransition
}

func (f *fakeReportService) TakeAction(_ context.Context, _ models.Session, _ models.RequestMeta, _ string, req models.ResolveReportRequest) (*models.Outcome[models.UserReport], error) {
	f.action = req
	return &models.Outcome[models.UserReport]{}, nil
}

func (f *fakeReportService) Restore(context.Context, models.Session, models.RequestMeta, string) (*models.Outcome[models.UserReport], error) {
	return &models.Outcome[models.UserReport]{}, nil
}

func TestReportHandlerCreateRateLimited(t *testing.T) {
	svc := &fakeReportService{createErr: appErrors.ErrRateLimited}
	c, rec := newContext(http.MethodPost, "/reports", jsonBody(map[string]string{"target_type": "image", "reason": "spam"}), student("s1"))

	NewReportHandler(svc).Create(c)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestReportHandlerListParsesFilter(t *testing.T) {
	svc := &fakeReportService{}
	c, rec := newContext(http.MethodGet, "/admin/reports?status=pending&target_type=image&limit=5", nil, president("p1"))

	NewReportHandler(svc).List(c)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.filter.Status)
	assert.Equal(t, models.ReportPending, *svc.filter.Status)
	assert.Equal(t, models.ReportTargetImage, *svc.filter.TargetType)
	assert.Equal(t, 5, svc.filter.Limit)
}

func TestReportHandlerTakeActionBodyOptional(t *testing.T) {
	svc := &fakeReportService{}
	c, rec := newContext(http.MethodPost, "/admin/reports/r1/action", nil, president("p1"))
	withParam(c, "id", "r1")

	NewReportHandler(svc).TakeAction(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, svc.action.HideUser)

	c, rec = newContext(http.MethodPost, "/admin/reports/r1/action", jsonBody(map[string]bool{"hide_user": true}), president("p1"))
	NewReportHandler(svc).TakeAction(c)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, svc.action.HideUser)
}

func TestReportHandlerDismissTransition(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/admin/reports/r1/dismiss", nil, president("p1"))

	NewReportHandler(&fakeReportService{}).Dismiss(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "INVALID_TRANSITION", decode(t, rec).Error["code"])
}
