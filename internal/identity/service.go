package identity

import (
	"context"
	"fmt"
	"time"

	"stagelink/internal/auth"
	"stagelink/internal/errs"
	"stagelink/internal/logger"
	"stagelink/internal/models"
)

type DBLayer interface {
	GetProfile(ctx context.Context, id string) (*models.Profile, error)
	CreateProfile(ctx context.Context, profile models.Profile) error
	UpdateProfile(ctx context.Context, profile models.Profile) error
	UpdateVerification(ctx context.Context, profileID, status string) error
	GetArtist(ctx context.Context, id string) (*models.Artist, error)
	ArtistExists(ctx context.Context, id string) (bool, error)
	CreateArtist(ctx context.Context, artist models.Artist) error
	UpdateArtist(ctx context.Context, artist models.Artist) error
}

type Service struct {
	DB     DBLayer
	Logger *logger.Logger
}

func NewService(db DBLayer, log *logger.Logger) *Service {
	return &Service{DB: db, Logger: log}
}

// Resolve builds the session for the authenticated principal. A
// profile lookup failure does not block the request: the session
// degrades to audience role so read access stays available.
func (s *Service) Resolve(ctx context.Context) (*Session, error) {
	principalID := auth.PrincipalID(ctx)
	if principalID == "" {
		return nil, errs.ErrNotAuthenticated
	}

	profile, err := s.DB.GetProfile(ctx, principalID)
	if err != nil {
		s.Logger.Warn("IDENTITY", fmt.Sprintf("profile lookup failed for %s, degrading to audience session: %v", principalID, err))
		return &Session{
			PrincipalID:        principalID,
			Role:               models.RoleAudience,
			VerificationStatus: models.VerificationNone,
			Degraded:           true,
		}, nil
	}

	return &Session{
		PrincipalID:        principalID,
		Role:               profile.Role,
		VerificationStatus: profile.VerificationStatus,
	}, nil
}

func (s *Service) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	return s.DB.GetProfile(ctx, id)
}

// CreateProfile registers the principal's profile at signup. The role
// is chosen once here and can never change. Venue owners start in
// pending verification and stay locked out of venue mutation until an
// admin approves them.
func (s *Service) CreateProfile(ctx context.Context, principalID string, req models.ProfileCreateRequest) (*models.Profile, error) {
	switch req.Role {
	case models.RoleArtist, models.RoleVenueOwner, models.RoleAudience:
	default:
		return nil, fmt.Errorf("unknown role %q: %w", req.Role, errs.ErrInvalidInput)
	}
	if req.DisplayName == "" || req.ContactEmail == "" {
		return nil, fmt.Errorf("display name and contact email are required: %w", errs.ErrInvalidInput)
	}

	if _, err := s.DB.GetProfile(ctx, principalID); err == nil {
		return nil, fmt.Errorf("profile %s already exists: %w", principalID, errs.ErrConflict)
	}

	verification := models.VerificationNone
	if req.Role == models.RoleVenueOwner {
		verification = models.VerificationPending
	}

	profile := models.Profile{
		ID:                 principalID,
		Role:               req.Role,
		DisplayName:        req.DisplayName,
		ContactEmail:       req.ContactEmail,
		AvatarURL:          req.AvatarURL,
		VerificationStatus: verification,
		CreatedAt:          time.Now(),
	}

	if err := s.DB.CreateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	s.Logger.Info("IDENTITY", fmt.Sprintf("profile created: %s role=%s", principalID, req.Role))
	return &profile, nil
}

func (s *Service) UpdateProfile(ctx context.Context, principalID string, req models.ProfileUpdateRequest) (*models.Profile, error) {
	profile, err := s.DB.GetProfile(ctx, principalID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != "" {
		profile.DisplayName = req.DisplayName
	}
	if req.ContactEmail != "" {
		profile.ContactEmail = req.ContactEmail
	}
	if req.AvatarURL != "" {
		profile.AvatarURL = req.AvatarURL
	}
	profile.UpdatedAt = time.Now()

	if err := s.DB.UpdateProfile(ctx, *profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return profile, nil
}

// SetVerification applies the admin review decision. Only
// pending -> approved/rejected is a legal transition.
func (s *Service) SetVerification(ctx context.Context, profileID, status string) error {
	if status != models.VerificationApproved && status != models.VerificationRejected {
		return fmt.Errorf("verification status must be approved or rejected: %w", errs.ErrInvalidInput)
	}

	profile, err := s.DB.GetProfile(ctx, profileID)
	if err != nil {
		return err
	}
	if profile.Role != models.RoleVenueOwner {
		return fmt.Errorf("profile %s is not a venue owner: %w", profileID, errs.ErrInvalidInput)
	}
	if profile.VerificationStatus != models.VerificationPending {
		return fmt.Errorf("verification already decided (%s): %w", profile.VerificationStatus, errs.ErrConflict)
	}

	if err := s.DB.UpdateVerification(ctx, profileID, status); err != nil {
		return fmt.Errorf("failed to update verification: %w", err)
	}
	s.Logger.Info("IDENTITY", fmt.Sprintf("verification for %s set to %s", profileID, status))
	return nil
}

// EnsureArtistProfile creates an empty artist row for an artist-role
// profile if one does not exist yet. Request creation calls this
// deliberately instead of relying on an implicit insert side effect.
func (s *Service) EnsureArtistProfile(ctx context.Context, artistID string) error {
	profile, err := s.DB.GetProfile(ctx, artistID)
	if err != nil {
		return err
	}
	if profile.Role != models.RoleArtist {
		return fmt.Errorf("profile %s is not an artist: %w", artistID, errs.ErrInvalidInput)
	}

	exists, err := s.DB.ArtistExists(ctx, artistID)
	if err != nil {
		return fmt.Errorf("failed to check artist %s: %w", artistID, err)
	}
	if exists {
		return nil
	}

	artist := models.Artist{
		ID:        artistID,
		CreatedAt: time.Now(),
	}
	if err := s.DB.CreateArtist(ctx, artist); err != nil {
		return fmt.Errorf("failed to create artist %s: %w", artistID, err)
	}
	s.Logger.Info("IDENTITY", fmt.Sprintf("artist profile provisioned for %s", artistID))
	return nil
}

func (s *Service) GetArtist(ctx context.Context, id string) (*models.Artist, error) {
	return s.DB.GetArtist(ctx, id)
}

// UpdateArtist lets an artist edit their own extension record. The
// row is provisioned first in case the artist never created one.
func (s *Service) UpdateArtist(ctx context.Context, session *Session, req models.ArtistUpdateRequest) (*models.Artist, error) {
	if err := session.RequireArtist(); err != nil {
		return nil, err
	}
	if err := s.EnsureArtistProfile(ctx, session.PrincipalID); err != nil {
		return nil, err
	}

	artist, err := s.DB.GetArtist(ctx, session.PrincipalID)
	if err != nil {
		return nil, err
	}

	artist.Bio = req.Bio
	artist.Experience = req.Experience
	if req.Genres != nil {
		artist.Genres = req.Genres
	}
	artist.IntroVideoURL = req.IntroVideoURL
	artist.UpdatedAt = time.Now()

	if err := s.DB.UpdateArtist(ctx, *artist); err != nil {
		return nil, fmt.Errorf("failed to update artist: %w", err)
	}
	return artist, nil
}
