package service

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/internal/rules"
	"github.com/noah-isme/campus-paws-api/pkg/database"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
)

// UsernameSetupPath is where clients send users that still need a verified username.
const UsernameSetupPath = "/username-setup"

// RequireParticipant enforces the participation gate before any shared-content write.
func RequireParticipant(s models.Session) error {
	if rules.CanParticipate(s) {
		return nil
	}
	return appErrors.ErrUsernameRequired.WithMeta("redirect", UsernameSetupPath)
}

// RequireModerator allows presidents and admins.
func RequireModerator(s models.Session) error {
	if rules.CanModerate(s) {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "moderator role required")
}

// RequireSuperAdmin allows super admins only.
func RequireSuperAdmin(s models.Session) error {
	if rules.CanAdminister(s) {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden, "super admin required")
}

func lookupError(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, entity+" not found")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load "+entity)
}

func internalError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
}

func validationError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, message)
}

func transitionError(entity string) error {
	return appErrors.Clone(appErrors.ErrInvalidTransition, fmt.Sprintf("%s is not in a state that allows this action", entity))
}

func isUniqueViolation(err error) bool {
	return database.IsUniqueViolation(err)
}
