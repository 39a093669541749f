package service

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/lib/pq"

	"github.com/noah-isme/campus-paws-api/internal/models"
	"github.com/noah-isme/campus-paws-api/pkg/storage"
)

var errBoom = errors.New("boom")

var uniqueViolation = &pq.Error{Code: "23505"}

func strPtr(s string) *string { return &s }

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func studentSession(id string, verified bool) models.Session {
	username := "student_" + id
	return models.Session{UserID: id, Email: id + "@campus.edu", Role: models.RoleStudent, Username: &username, UsernameVerified: verified}
}

func presidentSession(id string) models.Session {
	return models.Session{UserID: id, Email: id + "@campus.edu", Role: models.RolePresident, UsernameVerified: true}
}

// fakeUsers is an in-memory user store covering every user repository interface.
type fakeUsers struct {
	users      map[string]*models.User
	taken      map[string]bool
	findErr    error
	pointsErr  error
	higher     int
	writes     []string
	leaderRows []models.LeaderboardEntry
	requests   []models.UsernameRequest
}

func newFakeUsers(users ...models.User) *fakeUsers {
	f := &fakeUsers{users: map[string]*models.User{}, taken: map[string]bool{}}
	for i := range users {
		u := users[i]
		f.users[u.ID] = &u
	}
	return f
}

func (f *fakeUsers) get(id string) (*models.User, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id string) (*models.User, error) {
	u, err := f.get(id)
	if err != nil {
		return nil, err
	}
	copy := *u
	return &copy, nil
}

func (f *fakeUsers) LiftSuspension(_ context.Context, id string, _ time.Time) error {
	f.writes = append(f.writes, "lift_suspension")
	u, err := f.get(id)
	if err != nil {
		return err
	}
	u.IsSuspended, u.SuspendedUntil, u.SuspendedReason = false, nil, nil
	return nil
}

func (f *fakeUsers) UsernameTaken(_ context.Context, username, _ string) (bool, error) {
	return f.taken[username], nil
}

func (f *fakeUsers) SetRequestedUsername(_ context.Context, id, username string, _ time.Time) error {
	f.writes = append(f.writes, "set_requested_username")
	u, err := f.get(id)
	if err != nil {
		return err
	}
	u.RequestedUsername = &username
	return nil
}

func (f *fakeUsers) CommitUsername(_ context.Context, id, username string, next *time.Time, _ time.Time) error {
	f.writes = append(f.writes, "commit_username")
	u, err := f.get(id)
	if err != nil {
		return err
	}
	u.Username, u.RequestedUsername, u.UsernameVerified = &username, nil, true
	if next != nil {
		u.NextUsernameChange = next
	}
	return nil
}

func (f *fakeUsers) ClearRequestedUsername(_ context.Context, id string, _ time.Time) error {
	f.writes = append(f.writes, "clear_requested_username")
	u, err := f.get(id)
	if err != nil {
		return err
	}
	u.RequestedUsername = nil
	return nil
}

func (f *fakeUsers) ListUsernameRequests(context.Context) ([]models.UsernameRequest, error) {
	return f.requests, nil
}

func (f *fakeUsers) UpdateBirthdate(_ context.Context, id string, birthdate time.Time, now time.Time) error {
	f.writes = append(f.writes, "update_birthdate")
	u, err := f.get(id)
	if err != nil {
		return err
	}
	u.Birthdate, u.BirthdateUpdatedAt = &birthdate, &now
	return nil
}

func (f *fakeUsers) UpdateAvatar(_ context.Context, id, path string, status models.AvatarStatus, _ time.Time) error {
	f.writes = append(f.writes, "update_avatar")
	u, err := f.get(id)
	if err != nil {
		return err
	}
	u.AvatarURL, u.AvatarStatus = &path, &status
	return nil
}

func (f *fakeUsers) ResolveAvatar(_ context.Context, id string, status models.AvatarStatus, _ time.Time) error {
	f.writes = append(f.writes, "resolve_avatar")
	u, err := f.get(id)
	if err != nil {
		return err
	}
	u.AvatarStatus = &status
	if status == models.AvatarRejected {
		u.AvatarURL = nil
	}
	return nil
}

func (f *fakeUsers) ListPendingAvatars(context.Context) ([]models.User, error) {
	var out []models.User
	for _, u := range f.users {
		if u.AvatarStatus != nil && *u.AvatarStatus == models.AvatarPending && u.AvatarURL != nil {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUsers) AddPoints(_ context.Context, id string, points int) (int, error) {
	f.writes = append(f.writes, "add_points")
	if f.pointsErr != nil {
		return 0, f.pointsErr
	}
	u, err := f.get(id)
	if err != nil {
		return 0, err
	}
	u.Points += points
	return u.Points, nil
}

func (f *fakeUsers) CountHigherRanked(context.Context, int) (int, error) {
	return f.higher, nil
}

func (f *fakeUsers) Leaderboard(_ context.Context, limit int) ([]models.LeaderboardEntry, error) {
	rows := append([]models.LeaderboardEntry(nil), f.leaderRows...)
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (f *fakeUsers) List(context.Context, models.UserFilter) ([]models.User, int, error) {
	var out []models.User
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, len(out), nil
}

func (f *fakeUsers) UpdateRole(_ context.Context, id string, role models.UserRole, _ time.Time) error {
	f.writes = append(f.writes, "update_role")
	u, err := f.get(id)
	if err != nil {
		return err
	}
	u.Role = role
	return nil
}

func (f *fakeUsers) Suspend(_ context.Context, id, reason string, until *time.Time, _ time.Time) error {
	f.writes = append(f.writes, "suspend")
	u, err := f.get(id)
	if err != nil {
		return err
	}
	u.IsSuspended, u.SuspendedReason, u.SuspendedUntil = true, &reason, until
	return nil
}

func (f *fakeUsers) SetHidden(_ context.Context, id string, hidden bool, _ time.Time) error {
	f.writes = append(f.writes, "set_hidden")
	u, err := f.get(id)
	if err != nil {
		return err
	}
	u.IsHidden = hidden
	return nil
}

func (f *fakeUsers) Delete(_ context.Context, id string) error {
	f.writes = append(f.writes, "delete")
	delete(f.users, id)
	return nil
}

// fakeDogs is an in-memory dog store.
type fakeDogs struct {
	dogs      map[string]*models.Dog
	summaries map[string]models.DogSummary
	verifyErr error
	createErr error
	hidden    []string
}

func newFakeDogs(dogs ...models.Dog) *fakeDogs {
	f := &fakeDogs{dogs: map[string]*models.Dog{}, summaries: map[string]models.DogSummary{}}
	for i := range dogs {
		d := dogs[i]
		f.dogs[d.ID] = &d
	}
	return f
}

func (f *fakeDogs) Create(_ context.Context, dog *models.Dog) error {
	if f.createErr != nil {
		return f.createErr
	}
	if dog.ID == "" {
		dog.ID = "dog-new"
	}
	copy := *dog
	f.dogs[dog.ID] = &copy
	return nil
}

func (f *fakeDogs) FindByID(_ context.Context, id string) (*models.Dog, error) {
	d, ok := f.dogs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *d
	return &copy, nil
}

func (f *fakeDogs) FindByQRCode(_ context.Context, code string) (*models.Dog, error) {
	for _, d := range f.dogs {
		if d.QRCode != nil && *d.QRCode == code && d.Verified && d.IsActive {
			copy := *d
			return &copy, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeDogs) ListPublic(_ context.Context, filter models.DogFilter) ([]models.Dog, error) {
	var out []models.Dog
	for _, d := range f.dogs {
		if !d.Verified || !d.IsActive || d.IsHidden {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(d.DisplayName()), filter.Search) {
			continue
		}
		out = append(out, *d)
	}
	return out, nil
}

func (f *fakeDogs) ListPending(context.Context) ([]models.Dog, error) {
	var out []models.Dog
	for _, d := range f.dogs {
		if !d.Verified && d.IsActive {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDogs) ListNeedsNaming(context.Context) ([]models.Dog, error) {
	var out []models.Dog
	for _, d := range f.dogs {
		if d.Verified && d.IsActive && (d.OfficialName == nil || *d.OfficialName == "") {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDogs) Verify(_ context.Context, id, qr string, name *string, _ time.Time) error {
	if f.verifyErr != nil {
		return f.verifyErr
	}
	d := f.dogs[id]
	d.Verified, d.QRCode = true, &qr
	if name != nil {
		d.OfficialName, d.NameLocked = name, true
	}
	return nil
}

func (f *fakeDogs) SetOfficialName(_ context.Context, id, name string, _ time.Time) (bool, error) {
	d := f.dogs[id]
	if d.NameLocked {
		return false, nil
	}
	d.OfficialName, d.NameLocked = &name, true
	return true, nil
}

func (f *fakeDogs) Deactivate(_ context.Context, id string, _ time.Time) error {
	f.dogs[id].IsActive = false
	return nil
}

func (f *fakeDogs) SetHidden(_ context.Context, id string, hidden bool, _ time.Time) error {
	f.hidden = append(f.hidden, id)
	if d, ok := f.dogs[id]; ok {
		d.IsHidden = hidden
	}
	return nil
}

func (f *fakeDogs) Restore(_ context.Context, id string, _ time.Time) error {
	f.dogs[id].IsHidden = false
	return nil
}

func (f *fakeDogs) FindSummary(_ context.Context, id string) (*models.DogSummary, error) {
	s, ok := f.summaries[id]
	if !ok {
		s = models.DogSummary{DogID: id}
	}
	return &s, nil
}

func (f *fakeDogs) FindSummaries(_ context.Context, ids []string) (map[string]models.DogSummary, error) {
	out := map[string]models.DogSummary{}
	for _, id := range ids {
		if s, ok := f.summaries[id]; ok {
			out[id] = s
		}
	}
	return out, nil
}

// fakeInteractions records appended interactions.
type fakeInteractions struct {
	created []models.DogInteraction
	recent  []models.InteractionWithNames
}

func (f *fakeInteractions) Create(_ context.Context, in *models.DogInteraction) error {
	in.ID = "int-1"
	f.created = append(f.created, *in)
	return nil
}

func (f *fakeInteractions) ListByDog(context.Context, string, int) ([]models.InteractionWithNames, error) {
	return f.recent, nil
}

func (f *fakeInteractions) ListByUser(context.Context, string, int) ([]models.InteractionWithNames, error) {
	return f.recent, nil
}

// fakeGallery is an in-memory gallery store.
type fakeGallery struct {
	images map[string]*models.GalleryImage
	hidden []string
}

func newFakeGallery(images ...models.GalleryImage) *fakeGallery {
	f := &fakeGallery{images: map[string]*models.GalleryImage{}}
	for i := range images {
		img := images[i]
		f.images[img.ID] = &img
	}
	return f
}

func (f *fakeGallery) Create(_ context.Context, img *models.GalleryImage) error {
	if img.ID == "" {
		img.ID = "img-new"
	}
	copy := *img
	f.images[img.ID] = &copy
	return nil
}

func (f *fakeGallery) FindByID(_ context.Context, id string) (*models.GalleryImage, error) {
	img, ok := f.images[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *img
	return &copy, nil
}

func (f *fakeGallery) ListApproved(context.Context, int) ([]models.GalleryImageWithUploader, error) {
	var out []models.GalleryImageWithUploader
	for _, img := range f.images {
		if img.Status == models.ImageApproved && !img.IsHidden {
			out = append(out, models.GalleryImageWithUploader{GalleryImage: *img})
		}
	}
	return out, nil
}

func (f *fakeGallery) ListPending(context.Context) ([]models.GalleryImageWithUploader, error) {
	var out []models.GalleryImageWithUploader
	for _, img := range f.images {
		if img.Status == models.ImagePending {
			out = append(out, models.GalleryImageWithUploader{GalleryImage: *img})
		}
	}
	return out, nil
}

func (f *fakeGallery) Approve(_ context.Context, id, path string) error {
	img := f.images[id]
	img.Status, img.FilePath = models.ImageApproved, path
	return nil
}

func (f *fakeGallery) SetHidden(_ context.Context, id string, hidden bool) error {
	f.hidden = append(f.hidden, id)
	if img, ok := f.images[id]; ok {
		img.IsHidden = hidden
	}
	return nil
}

func (f *fakeGallery) Restore(_ context.Context, id string) error {
	f.images[id].IsHidden = false
	return nil
}

func (f *fakeGallery) Delete(_ context.Context, id string) error {
	delete(f.images, id)
	return nil
}

// fakeStore is an in-memory object store.
type fakeStore struct {
	objects   map[string][]byte
	moveErr   error
	removeErr error
	removed   []string
}

var _ storage.ObjectStore = (*fakeStore)(nil)

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	f.objects[key] = data
	return nil
}

func (f *fakeStore) Move(_ context.Context, src, dst string) error {
	if f.moveErr != nil {
		return f.moveErr
	}
	data, ok := f.objects[src]
	if !ok {
		return storage.ErrObjectNotFound
	}
	f.objects[dst] = data
	delete(f.objects, src)
	return nil
}

func (f *fakeStore) Remove(_ context.Context, key string) error {
	f.removed = append(f.removed, key)
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.objects, key)
	return nil
}

func (f *fakeStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	data, ok := f.objects[key]
	if !ok {
		return nil, storage.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeStore) URL(key string) string {
	return "https://cdn.test/" + key
}

// fakeReports is an in-memory report store.
type fakeReports struct {
	reports   map[string]*models.UserReport
	createErr error
}

func newFakeReports(reports ...models.UserReport) *fakeReports {
	f := &fakeReports{reports: map[string]*models.UserReport{}}
	for i := range reports {
		r := reports[i]
		f.reports[r.ID] = &r
	}
	return f
}

func (f *fakeReports) Create(_ context.Context, r *models.UserReport) error {
	if f.createErr != nil {
		return f.createErr
	}
	r.ID = "rep-new"
	copy := *r
	f.reports[r.ID] = &copy
	return nil
}

func (f *fakeReports) FindByID(_ context.Context, id string) (*models.UserReport, error) {
	r, ok := f.reports[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *r
	return &copy, nil
}

func (f *fakeReports) List(context.Context, models.ReportFilter) ([]models.ReportWithNames, error) {
	var out []models.ReportWithNames
	for _, r := range f.reports {
		out = append(out, models.ReportWithNames{UserReport: *r})
	}
	return out, nil
}

func (f *fakeReports) UpdateStatus(_ context.Context, id string, status models.ReportStatus, _ time.Time) error {
	f.reports[id].Status = status
	return nil
}

// recordingPublisher captures change events.
type recordingPublisher struct {
	events []models.ChangeEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evt models.ChangeEvent) error {
	p.events = append(p.events, evt)
	return nil
}

func (p *recordingPublisher) kinds() []models.ChangeKind {
	out := make([]models.ChangeKind, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Kind)
	}
	return out
}

// recordingAudit captures audit entries.
type recordingAudit struct {
	logs []*models.AuditLog
	err  error
}

func (a *recordingAudit) Create(_ context.Context, log *models.AuditLog) error {
	if a.err != nil {
		return a.err
	}
	a.logs = append(a.logs, log)
	return nil
}

func (a *recordingAudit) List(context.Context, models.AuditFilter) ([]models.AuditLog, error) {
	out := make([]models.AuditLog, 0, len(a.logs))
	for _, l := range a.logs {
		out = append(out, *l)
	}
	return out, nil
}

func newEffects() (*SideEffects, *recordingPublisher, *recordingAudit) {
	pub := &recordingPublisher{}
	audit := &recordingAudit{}
	return NewSideEffects(audit, pub, nil, nil), pub, audit
}
