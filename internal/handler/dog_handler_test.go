package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-paws-api/internal/dto"
	"github.com/noah-isme/campus-paws-api/internal/models"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
)

type fakeDogService struct {
	filter      models.DogFilter
	approveReq  models.ApproveDogRequest
	approveErr  error
	meta        models.RequestMeta
	reportCalls int
	outcome     *models.Outcome[models.Dog]
}

func (f *fakeDogService) List(_ context.Context, filter models.DogFilter) ([]dto.DogView, error) {
	f.filter = filter
	return []dto.DogView{}, nil
}

func (f *fakeDogService) Get(_ context.Context, id string) (*dto.DogDetail, error) {
	return nil, appErrors.Clone(appErrors.ErrNotFound, "dog not found")
}

func (f *fakeDogService) GetByQRCode(context.Context, string) (*dto.DogDetail, error) {
	return nil, appErrors.ErrNotFound
}

func (f *fakeDogService) ReportStray(_ context.Context, _ models.Session, req models.ReportDogRequest) (*models.Outcome[models.Dog], error) {
	f.reportCalls++
	return f.outcome, nil
}

func (f *fakeDogService) Register(context.Context, models.Session, models.RequestMeta, models.RegisterDogRequest) (*models.Outcome[models.Dog], error) {
	return f.outcome, nil
}

func (f *fakeDogService) Approve(_ context.Context, _ models.Session, meta models.RequestMeta, _ string, req models.ApproveDogRequest) (*models.Outcome[models.Dog], error) {
	f.meta = meta
	f.approveReq = req
	if f.approveErr != nil {
		return nil, f.approveErr
	}
	return f.outcome, nil
}

func (f *fakeDogService) Reject(context.Context, models.Session, models.RequestMeta, string) (*models.Outcome[models.Dog], error) {
	return f.outcome, nil
}

func (f *fakeDogService) Name(context.Context, models.Session, models.RequestMeta, string, models.NameDogRequest) (*models.Outcome[models.Dog], error) {
	return f.outcome, nil
}

func (f *fakeDogService) ListPending(context.Context, models.Session) ([]models.Dog, error) {
	return []models.Dog{{ID: "d1"}}, nil
}

func (f *fakeDogService) ListNeedsNaming(context.Context, models.Session) ([]models.Dog, error) {
	return []models.Dog{}, nil
}

func TestDogHandlerListTrimsSearch(t *testing.T) {
	svc := &fakeDogService{}
	c, rec := newContext(http.MethodGet, "/dogs?search=%20bis%20", nil, nil)

	NewDogHandler(svc).List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "bis", svc.filter.Search)
}

func TestDogHandlerGetNotFound(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/dogs/d1", nil, nil)
	withParam(c, "id", "d1")

	NewDogHandler(&fakeDogService{}).Get(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decode(t, rec).Error["code"])
}

func TestDogHandlerReportStrayRequiresSession(t *testing.T) {
	svc := &fakeDogService{}
	c, rec := newContext(http.MethodPost, "/dogs/report", jsonBody(map[string]string{"temporary_name": "Spot"}), nil)

	NewDogHandler(svc).ReportStray(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Zero(t, svc.reportCalls)
}

func TestDogHandlerReportStraySurfacesFailedSideEffects(t *testing.T) {
	outcome := &models.Outcome[models.Dog]{Result: models.Dog{ID: "d9"}}
	outcome.Record(models.EffectAwardPoints, appErrors.ErrInternal)
	svc := &fakeDogService{outcome: outcome}
	c, rec := newContext(http.MethodPost, "/dogs/report", jsonBody(map[string]string{"temporary_name": "Spot"}), student("s1"))

	NewDogHandler(svc).ReportStray(c)

	require.Equal(t, http.StatusCreated, rec.Code)
	env := decode(t, rec)
	var dog models.Dog
	require.NoError(t, json.Unmarshal(env.Data, &dog))
	assert.Equal(t, "d9", dog.ID)
	effects := env.Meta["side_effects"].([]interface{})
	require.Len(t, effects, 1)
	assert.Equal(t, models.EffectAwardPoints, effects[0].(map[string]interface{})["name"])
}

func TestDogHandlerApprove(t *testing.T) {
	svc := &fakeDogService{outcome: &models.Outcome[models.Dog]{Result: models.Dog{ID: "d1"}}}
	c, rec := newContext(http.MethodPost, "/admin/dogs/d1/approve", jsonBody(map[string]string{"qr_code": "QR-1"}), president("p1"))
	c.Request.Header.Set("User-Agent", "paws-admin")
	withParam(c, "id", "d1")

	NewDogHandler(svc).Approve(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "QR-1", svc.approveReq.QRCode)
	assert.Equal(t, "paws-admin", svc.meta.UserAgent)
	assert.Nil(t, decode(t, rec).Meta)
}

func TestDogHandlerApproveConflict(t *testing.T) {
	svc := &fakeDogService{approveErr: appErrors.ErrQRConflict}
	c, rec := newContext(http.MethodPost, "/admin/dogs/d1/approve", jsonBody(map[string]string{"qr_code": "QR-1"}), president("p1"))
	withParam(c, "id", "d1")

	NewDogHandler(svc).Approve(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "QR_CONFLICT", decode(t, rec).Error["code"])
}

func TestDogHandlerApproveRejectsMalformedBody(t *testing.T) {
	c, rec := newContext(http.MethodPost, "/admin/dogs/d1/approve", jsonBody("not-an-object"), president("p1"))

	NewDogHandler(&fakeDogService{}).Approve(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
