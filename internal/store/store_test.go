package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonathan/jobtracker/internal/schemas"
	"github.com/jonathan/jobtracker/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(s.Close)

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}
	return s
}

func version(name string) types.ResumeVersion {
	f := types.NewResumeForm()
	f.Name = name
	return types.ResumeVersion{
		SourceType: types.SourceForm,
		ResumeForm: f,
		Meta: types.VersionMeta{
			SchemaVersion:        types.SchemaVersion,
			NormalizationVersion: types.NormalizationVersion,
		},
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "")
	assert.Error(t, err)
}

func TestMigrate_UnsupportedDriver(t *testing.T) {
	_, err := Migrate(context.Background(), nil, "oracle")
	assert.Error(t, err)
}

func TestSQLiteStore_CreateAndFetch(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	initial := version("Jane Doe")
	created, err := s.CreateResume(ctx, types.CreateResumeRequest{
		UserID:         "u1",
		Title:          "Default Resume",
		MakeActive:     true,
		InitialVersion: &initial,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ResumeID)
	assert.True(t, created.IsActive)

	latest, err := s.LatestForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, created.ResumeID, latest.ResumeID)
	assert.Equal(t, "Default Resume", latest.Title)
	require.NotNil(t, latest.CurrentVersion)
	assert.Equal(t, "Jane Doe", latest.CurrentVersion.ResumeForm.Name)
	assert.Equal(t, created.ResumeID, latest.CurrentVersion.ResumeID)
	assert.Equal(t, "u1", latest.CurrentVersion.UserID)
}

func TestSQLiteStore_AddVersionNumbersSequentially(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	initial := version("v1")
	created, err := s.CreateResume(ctx, types.CreateResumeRequest{UserID: "u1", Title: "T", InitialVersion: &initial})
	require.NoError(t, err)

	v := version("v2")
	v.ResumeID = created.ResumeID
	stored, err := s.AddVersion(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, 2, stored.VersionNumber)

	v = version("v3")
	v.ResumeID = created.ResumeID
	stored, err = s.AddVersion(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, 3, stored.VersionNumber)

	latest, err := s.LatestForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "v3", latest.CurrentVersion.ResumeForm.Name)
}

func TestSQLiteStore_CreateWithoutInitialVersion(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	created, err := s.CreateResume(ctx, types.CreateResumeRequest{UserID: "u1", Title: "Empty"})
	require.NoError(t, err)

	latest, err := s.LatestForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, created.ResumeID, latest.ResumeID)
	assert.Nil(t, latest.CurrentVersion)

	v := version("first")
	v.ResumeID = created.ResumeID
	stored, err := s.AddVersion(ctx, v)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.VersionNumber)
}

func TestSQLiteStore_ActiveResumeWins(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	first, err := s.CreateResume(ctx, types.CreateResumeRequest{UserID: "u1", Title: "First", MakeActive: true})
	require.NoError(t, err)
	second, err := s.CreateResume(ctx, types.CreateResumeRequest{UserID: "u1", Title: "Second", MakeActive: true})
	require.NoError(t, err)

	latest, err := s.LatestForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ResumeID, latest.ResumeID)

	// A newer version on the inactive résumé does not make it current.
	v := version("old")
	v.ResumeID = first.ResumeID
	_, err = s.AddVersion(ctx, v)
	require.NoError(t, err)

	latest, err = s.LatestForUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, second.ResumeID, latest.ResumeID)
}

func TestSQLiteStore_NotFound(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	_, err := s.LatestForUser(ctx, "nobody")
	var nf *NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "nobody", nf.ID)

	v := version("x")
	v.ResumeID = "missing"
	_, err = s.AddVersion(ctx, v)
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "resume not found: missing", nf.Error())
}

func TestSQLiteStore_RejectsInvalidVersion(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	created, err := s.CreateResume(ctx, types.CreateResumeRequest{UserID: "u1", Title: "T"})
	require.NoError(t, err)

	v := version("x")
	v.ResumeID = created.ResumeID
	v.SourceType = "fax"
	_, err = s.AddVersion(ctx, v)
	var validationErr *schemas.ValidationError
	require.True(t, errors.As(err, &validationErr))

	bad := version("x")
	bad.Meta.SchemaVersion = 0
	_, err = s.CreateResume(ctx, types.CreateResumeRequest{UserID: "u1", Title: "T", InitialVersion: &bad})
	require.True(t, errors.As(err, &validationErr))
}

func TestSQLiteStore_CreateRequiresUserAndTitle(t *testing.T) {
	s := newSQLiteStore(t)
	_, err := s.CreateResume(context.Background(), types.CreateResumeRequest{Title: "T"})
	assert.Error(t, err)
	_, err = s.CreateResume(context.Background(), types.CreateResumeRequest{UserID: "u1"})
	assert.Error(t, err)
}

func TestError(t *testing.T) {
	cause := errors.New("disk full")
	err := &Error{Op: "add version", Cause: cause}
	assert.Equal(t, "store add version failed: disk full", err.Error())
	assert.ErrorIs(t, err, cause)
}
