package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-paws-api/internal/dto"
	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/internal/rules"
	appErrors "github.com/noah-isme/campus-paws-api/pkg/errors"
	"github.com/noah-isme/campus-paws-api/pkg/storage"
)

const approvedGalleryLimit = 60

type galleryRepository interface {
	Create(ctx context.Context, img *models.GalleryImage) error
	FindByID(ctx context.Context, id string) (*models.GalleryImage, error)
	ListApproved(ctx context.Context, limit int) ([]models.GalleryImageWithUploader, error)
	ListPending(ctx context.Context) ([]models.GalleryImageWithUploader, error)
	Approve(ctx context.Context, id, filePath string) error
	Delete(ctx context.Context, id string) error
}

type previewSigner interface {
	Generate(subject, key string) (string, time.Time, error)
	Parse(token string) (subject, key string, expiresAt time.Time, err error)
}

// UploadPolicy bounds what uploads are accepted.
type UploadPolicy struct {
	MaxFileSize  int64
	AllowedMIMEs []string
}

// check validates size and sniffed content and returns the MIME type and extension to store under.
func (p UploadPolicy) check(in models.UploadInput) (string, string, error) {
	if in.Size <= 0 {
		return "", "", appErrors.Clone(appErrors.ErrValidation, "file is empty")
	}
	if p.MaxFileSize > 0 && in.Size > p.MaxFileSize {
		return "", "", appErrors.ErrFileTooLarge.WithMeta("max_bytes", p.MaxFileSize)
	}
	mime, ext, err := storage.SniffImage(in.Header, p.AllowedMIMEs)
	if err != nil {
		return "", "", appErrors.ErrUnsupportedMediaType.WithMeta("allowed", p.AllowedMIMEs)
	}
	return mime, ext, nil
}

// GalleryService runs photo uploads, the image moderation workflow and moderator previews.
type GalleryService struct {
	images      galleryRepository
	store       storage.ObjectStore
	signer      previewSigner
	policy      UploadPolicy
	previewBase string
	cache       *CacheService
	cacheTTL    time.Duration
	effects     *SideEffects
	logger      *zap.Logger
}

// NewGalleryService constructs a GalleryService. previewBase is the path preview tokens are appended to.
func NewGalleryService(images galleryRepository, store storage.ObjectStore, signer previewSigner, policy UploadPolicy, previewBase string, cache *CacheService, cacheTTL time.Duration, effects *SideEffects, logger *zap.Logger) *GalleryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GalleryService{
		images:      images,
		store:       store,
		signer:      signer,
		policy:      policy,
		previewBase: strings.TrimRight(previewBase, "/") + "/",
		cache:       cache,
		cacheTTL:    cacheTTL,
		effects:     effects,
		logger:      logger,
	}
}

// Upload stores a photo. Moderator uploads are published directly; everyone
// else lands in the pending queue.
func (s *GalleryService) Upload(ctx context.Context, session models.Session, in models.UploadInput, body io.Reader) (*models.Outcome[models.GalleryImage], error) {
	if err := RequireParticipant(session); err != nil {
		return nil, err
	}
	mime, ext, err := s.policy.check(in)
	if err != nil {
		return nil, err
	}

	status := models.ImagePending
	prefix := models.GalleryPendingPrefix
	if rules.CanModerate(session) {
		status = models.ImageApproved
		prefix = models.GalleryApprovedPrefix
	}
	key := fmt.Sprintf("%s%s.%s", prefix, uuid.NewString(), ext)
	if err := s.store.Put(ctx, key, body, in.Size, mime); err != nil {
		return nil, internalError(err, "failed to store image")
	}

	img := &models.GalleryImage{UserID: session.UserID, DogID: in.DogID, FilePath: key, Status: status}
	if err := s.images.Create(ctx, img); err != nil {
		if rmErr := s.store.Remove(ctx, key); rmErr != nil {
			s.logger.Warn("failed to remove orphaned upload", zap.String("key", key), zap.Error(rmErr))
		}
		return nil, internalError(err, "failed to save image")
	}

	outcome := &models.Outcome[models.GalleryImage]{Result: *img}
	s.effects.Publish(ctx, outcome, models.ChangeImageUploaded, img.ID, session.UserID)
	return outcome, nil
}

// Approve publishes a pending image. The object move from the pending to the
// approved prefix is best-effort: when it fails the row keeps its old path.
func (s *GalleryService) Approve(ctx context.Context, session models.Session, meta models.RequestMeta, id string) (*models.Outcome[models.GalleryImage], error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	img, err := s.images.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "image")
	}
	if err := rules.CanApproveImage(*img); err != nil {
		return nil, transitionError("image")
	}

	outcome := &models.Outcome[models.GalleryImage]{}
	path := img.FilePath
	if strings.HasPrefix(path, models.GalleryPendingPrefix) {
		dst := models.GalleryApprovedPrefix + strings.TrimPrefix(path, models.GalleryPendingPrefix)
		err := s.store.Move(ctx, path, dst)
		s.effects.Track(outcome, models.EffectMoveObject, err)
		if err == nil {
			path = dst
		}
	}
	if err := s.images.Approve(ctx, img.ID, path); err != nil {
		return nil, internalError(err, "failed to approve image")
	}
	previous := img.FilePath
	img.FilePath = path
	img.Status = models.ImageApproved
	outcome.Result = *img

	s.effects.Transition("image", "approve")
	s.effects.Audit(ctx, outcome, session, meta, models.AuditActionImageApprove, "gallery_image", img.ID, map[string]string{"file_path": previous}, map[string]string{"file_path": path})
	s.effects.Publish(ctx, outcome, models.ChangeImageApproved, img.ID, session.UserID)
	return outcome, nil
}

// Reject deletes a pending image. Removing the stored object is best-effort.
func (s *GalleryService) Reject(ctx context.Context, session models.Session, meta models.RequestMeta, id string) (*models.Outcome[models.GalleryImage], error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	img, err := s.images.FindByID(ctx, id)
	if err != nil {
		return nil, lookupError(err, "image")
	}
	if err := rules.CanRejectImage(*img); err != nil {
		return nil, transitionError("image")
	}

	outcome := &models.Outcome[models.GalleryImage]{Result: *img}
	s.effects.Track(outcome, models.EffectRemoveObject, s.store.Remove(ctx, img.FilePath))
	if err := s.images.Delete(ctx, img.ID); err != nil {
		return nil, internalError(err, "failed to reject image")
	}

	s.effects.Transition("image", "reject")
	s.effects.Audit(ctx, outcome, session, meta, models.AuditActionImageReject, "gallery_image", img.ID, map[string]string{"file_path": img.FilePath}, nil)
	s.effects.Publish(ctx, outcome, models.ChangeImageRejected, img.ID, session.UserID)
	return outcome, nil
}

// ListApproved returns the public gallery, newest first.
func (s *GalleryService) ListApproved(ctx context.Context) ([]models.GalleryImageWithUploader, error) {
	return remember(ctx, s.cache, CacheKeyGalleryApproved, s.cacheTTL, func() ([]models.GalleryImageWithUploader, error) {
		images, err := s.images.ListApproved(ctx, approvedGalleryLimit)
		if err != nil {
			return nil, internalError(err, "failed to list gallery")
		}
		for i := range images {
			images[i].URL = s.store.URL(images[i].FilePath)
			if images[i].AvatarURL != nil {
				url := s.store.URL(*images[i].AvatarURL)
				images[i].AvatarURL = &url
			}
		}
		if images == nil {
			images = []models.GalleryImageWithUploader{}
		}
		return images, nil
	})
}

// ListPending returns the image moderation queue with signed preview links.
func (s *GalleryService) ListPending(ctx context.Context, session models.Session) ([]dto.PendingImage, error) {
	if err := RequireModerator(session); err != nil {
		return nil, err
	}
	images, err := s.images.ListPending(ctx)
	if err != nil {
		return nil, internalError(err, "failed to list pending images")
	}
	out := make([]dto.PendingImage, 0, len(images))
	for _, img := range images {
		preview, err := s.Preview(session, img.FilePath)
		if err != nil {
			return nil, err
		}
		out = append(out, dto.PendingImage{GalleryImageWithUploader: img, Preview: preview})
	}
	return out, nil
}

// Preview mints a signed link to key for the moderator in session.
func (s *GalleryService) Preview(session models.Session, key string) (dto.PreviewURL, error) {
	token, expiresAt, err := s.signer.Generate(session.UserID, key)
	if err != nil {
		return dto.PreviewURL{}, internalError(err, "failed to sign preview")
	}
	return dto.PreviewURL{URL: s.previewBase + token, ExpiresAt: expiresAt.Unix()}, nil
}

// OpenPreview validates a preview token and opens the object it grants.
func (s *GalleryService) OpenPreview(ctx context.Context, token string) (io.ReadCloser, string, error) {
	_, key, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrForbidden.Code, appErrors.ErrForbidden.Status, "invalid or expired preview link")
	}
	rc, err := s.store.Open(ctx, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", appErrors.Clone(appErrors.ErrNotFound, "object not found")
		}
		return nil, "", internalError(err, "failed to open object")
	}
	return rc, key, nil
}
