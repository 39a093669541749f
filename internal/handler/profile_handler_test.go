package handler

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/campus-paws-api/internal/dto"
	"github.com/noah-isme/campus-paws-api/internal/models"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
)

type fakeProfileService struct {
	privileged bool
	err        error
}

func (f *fakeProfileService) Me(_ context.Context, session models.Session) (*dto.ProfileResponse, error) {
	return &dto.ProfileResponse{User: models.User{ID: session.UserID}}, nil
}

func (f *fakeProfileService) RequestUsername(_ context.Context, _ models.Session, req models.RequestUsernameRequest) (*models.Outcome[models.User], error) {
	if f.err != nil {
		return nil, f.err
	}
	user := models.User{ID: "s1"}
	if f.privileged {
		user.Username = &req.Username
	} else {
		user.RequestedUsername = &req.Username
	}
	return &models.Outcome[models.User]{Result: user}, nil
}

func (f *fakeProfileService) UpdateBirthdate(context.Context, models.Session, models.UpdateBirthdateRequest) (*models.User, error) {
	return nil, f.err
}

func (f *fakeProfileService) UploadAvatar(context.Context, models.Session, models.UploadInput, io.Reader) (*models.Outcome[models.User], error) {
	return &models.Outcome[models.User]{}, nil
}

func TestProfileHandlerRequestUsernameQueued(t *testing.T) {
	c, rec := newContext(http.MethodPut, "/me/username", jsonBody(map[string]string{"username": "paw_friend"}), student("s1"))

	NewProfileHandler(&fakeProfileService{}).RequestUsername(c)

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestProfileHandlerRequestUsernameCommitted(t *testing.T) {
	c, rec := newContext(http.MethodPut, "/me/username", jsonBody(map[string]string{"username": "paw_friend"}), president("p1"))

	NewProfileHandler(&fakeProfileService{privileged: true}).RequestUsername(c)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestProfileHandlerCooldownMeta(t *testing.T) {
	cooldown := appErrors.ErrCooldownActive.WithMeta("days_remaining", 3)
	c, rec := newContext(http.MethodPut, "/me/username", jsonBody(map[string]string{"username": "paw_friend"}), student("s1"))

	NewProfileHandler(&fakeProfileService{err: cooldown}).RequestUsername(c)

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	env := decode(t, rec)
	assert.Equal(t, "COOLDOWN_ACTIVE", env.Error["code"])
	assert.EqualValues(t, 3, env.Meta["days_remaining"])
}

func TestProfileHandlerMeRequiresSession(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/me", nil, nil)

	NewProfileHandler(&fakeProfileService{}).Me(c)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
