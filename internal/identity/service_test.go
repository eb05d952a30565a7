package identity_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"stagelink/internal/auth"
	"stagelink/internal/errs"
	"stagelink/internal/identity"
	"stagelink/internal/logger"
	"stagelink/internal/models"
)

// Mock implementations
type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Profile), args.Error(1)
}

func (m *MockDBLayer) CreateProfile(ctx context.Context, profile models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockDBLayer) UpdateProfile(ctx context.Context, profile models.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

func (m *MockDBLayer) UpdateVerification(ctx context.Context, profileID, status string) error {
	args := m.Called(ctx, profileID, status)
	return args.Error(0)
}

func (m *MockDBLayer) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Artist), args.Error(1)
}

func (m *MockDBLayer) ArtistExists(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockDBLayer) CreateArtist(ctx context.Context, artist models.Artist) error {
	args := m.Called(ctx, artist)
	return args.Error(0)
}

func (m *MockDBLayer) UpdateArtist(ctx context.Context, artist models.Artist) error {
	args := m.Called(ctx, artist)
	return args.Error(0)
}

func newTestService() (*identity.Service, *MockDBLayer) {
	db := new(MockDBLayer)
	return identity.NewService(db, logger.NewLogger()), db
}

func artistProfile() *models.Profile {
	return &models.Profile{
		ID:           "artist001",
		Role:         models.RoleArtist,
		DisplayName:  "Night Owls",
		ContactEmail: "band@nightowls.example",
	}
}

func TestResolveBuildsSessionFromProfile(t *testing.T) {
	svc, db := newTestService()

	owner := &models.Profile{
		ID:                 "owner001",
		Role:               models.RoleVenueOwner,
		VerificationStatus: models.VerificationApproved,
	}
	db.On("GetProfile", mock.Anything, "owner001").Return(owner, nil)

	ctx := auth.WithPrincipalID(context.Background(), "owner001")
	session, err := svc.Resolve(ctx)

	assert.NoError(t, err)
	assert.Equal(t, "owner001", session.PrincipalID)
	assert.Equal(t, models.RoleVenueOwner, session.Role)
	assert.Equal(t, models.VerificationApproved, session.VerificationStatus)
	assert.False(t, session.Degraded)
}

func TestResolveDegradesToAudienceOnLookupFailure(t *testing.T) {
	svc, db := newTestService()

	db.On("GetProfile", mock.Anything, "owner001").Return(nil, errors.New("db unavailable"))

	ctx := auth.WithPrincipalID(context.Background(), "owner001")
	session, err := svc.Resolve(ctx)

	assert.NoError(t, err)
	assert.Equal(t, models.RoleAudience, session.Role)
	assert.True(t, session.Degraded)
}

func TestResolveRequiresPrincipal(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Resolve(context.Background())
	assert.ErrorIs(t, err, errs.ErrNotAuthenticated)
}

func TestCreateProfileRejectsUnknownRole(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateProfile(context.Background(), "user001", models.ProfileCreateRequest{
		Role:         "promoter",
		DisplayName:  "Somebody",
		ContactEmail: "somebody@example.com",
	})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestCreateProfileVenueOwnerStartsPending(t *testing.T) {
	svc, db := newTestService()

	db.On("GetProfile", mock.Anything, "owner001").Return(nil, errs.ErrNotFound)
	db.On("CreateProfile", mock.Anything, mock.AnythingOfType("models.Profile")).Return(nil)

	profile, err := svc.CreateProfile(context.Background(), "owner001", models.ProfileCreateRequest{
		Role:         models.RoleVenueOwner,
		DisplayName:  "The Velvet Room",
		ContactEmail: "booking@velvetroom.example",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.VerificationPending, profile.VerificationStatus)
}

func TestCreateProfileAudienceSkipsVerification(t *testing.T) {
	svc, db := newTestService()

	db.On("GetProfile", mock.Anything, "fan001").Return(nil, errs.ErrNotFound)
	db.On("CreateProfile", mock.Anything, mock.AnythingOfType("models.Profile")).Return(nil)

	profile, err := svc.CreateProfile(context.Background(), "fan001", models.ProfileCreateRequest{
		Role:         models.RoleAudience,
		DisplayName:  "Sam",
		ContactEmail: "sam@example.com",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.VerificationNone, profile.VerificationStatus)
}

func TestCreateProfileConflictsOnExisting(t *testing.T) {
	svc, db := newTestService()

	db.On("GetProfile", mock.Anything, "artist001").Return(artistProfile(), nil)

	_, err := svc.CreateProfile(context.Background(), "artist001", models.ProfileCreateRequest{
		Role:         models.RoleArtist,
		DisplayName:  "Night Owls",
		ContactEmail: "band@nightowls.example",
	})
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestSetVerificationApprovesPendingOwner(t *testing.T) {
	svc, db := newTestService()

	pending := &models.Profile{
		ID:                 "owner001",
		Role:               models.RoleVenueOwner,
		VerificationStatus: models.VerificationPending,
	}
	db.On("GetProfile", mock.Anything, "owner001").Return(pending, nil)
	db.On("UpdateVerification", mock.Anything, "owner001", models.VerificationApproved).Return(nil)

	err := svc.SetVerification(context.Background(), "owner001", models.VerificationApproved)
	assert.NoError(t, err)
	db.AssertExpectations(t)
}

func TestSetVerificationRejectsDecidedProfile(t *testing.T) {
	svc, db := newTestService()

	approved := &models.Profile{
		ID:                 "owner001",
		Role:               models.RoleVenueOwner,
		VerificationStatus: models.VerificationApproved,
	}
	db.On("GetProfile", mock.Anything, "owner001").Return(approved, nil)

	err := svc.SetVerification(context.Background(), "owner001", models.VerificationRejected)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestSetVerificationRejectsNonOwner(t *testing.T) {
	svc, db := newTestService()

	db.On("GetProfile", mock.Anything, "artist001").Return(artistProfile(), nil)

	err := svc.SetVerification(context.Background(), "artist001", models.VerificationApproved)
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestSetVerificationRejectsBogusStatus(t *testing.T) {
	svc, _ := newTestService()

	err := svc.SetVerification(context.Background(), "owner001", "maybe")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestEnsureArtistProfileCreatesOnce(t *testing.T) {
	svc, db := newTestService()

	db.On("GetProfile", mock.Anything, "artist001").Return(artistProfile(), nil)
	db.On("ArtistExists", mock.Anything, "artist001").Return(false, nil)
	db.On("CreateArtist", mock.Anything, mock.AnythingOfType("models.Artist")).Return(nil)

	err := svc.EnsureArtistProfile(context.Background(), "artist001")
	assert.NoError(t, err)
	db.AssertExpectations(t)
}

func TestEnsureArtistProfileIdempotent(t *testing.T) {
	svc, db := newTestService()

	db.On("GetProfile", mock.Anything, "artist001").Return(artistProfile(), nil)
	db.On("ArtistExists", mock.Anything, "artist001").Return(true, nil)

	err := svc.EnsureArtistProfile(context.Background(), "artist001")
	assert.NoError(t, err)
	db.AssertNotCalled(t, "CreateArtist", mock.Anything, mock.Anything)
}

func TestEnsureArtistProfileRejectsNonArtist(t *testing.T) {
	svc, db := newTestService()

	fan := &models.Profile{ID: "fan001", Role: models.RoleAudience}
	db.On("GetProfile", mock.Anything, "fan001").Return(fan, nil)

	err := svc.EnsureArtistProfile(context.Background(), "fan001")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestUpdateArtistProvisionsThenUpdates(t *testing.T) {
	svc, db := newTestService()

	db.On("GetProfile", mock.Anything, "artist001").Return(artistProfile(), nil)
	db.On("ArtistExists", mock.Anything, "artist001").Return(true, nil)
	db.On("GetArtist", mock.Anything, "artist001").Return(&models.Artist{ID: "artist001"}, nil)
	db.On("UpdateArtist", mock.Anything, mock.AnythingOfType("models.Artist")).Return(nil)

	session := &identity.Session{PrincipalID: "artist001", Role: models.RoleArtist}
	artist, err := svc.UpdateArtist(context.Background(), session, models.ArtistUpdateRequest{
		Bio:    "Indie four-piece from Rotterdam",
		Genres: []string{"indie", "rock"},
	})

	assert.NoError(t, err)
	assert.Equal(t, "Indie four-piece from Rotterdam", artist.Bio)
	assert.Equal(t, []string{"indie", "rock"}, artist.Genres)
}

func TestUpdateArtistRequiresArtistRole(t *testing.T) {
	svc, _ := newTestService()

	session := &identity.Session{PrincipalID: "fan001", Role: models.RoleAudience}
	_, err := svc.UpdateArtist(context.Background(), session, models.ArtistUpdateRequest{Bio: "nope"})
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
}
