package identity

import (
	"fmt"

	"stagelink/internal/errs"
	"stagelink/internal/models"
)

// Session is the explicit per-request principal context. It is built
// once per request by Service.Resolve and passed into the components
// that need it; there is no ambient global auth state.
type Session struct {
	PrincipalID        string
	Role               string
	VerificationStatus string

	// Degraded marks a session whose profile lookup failed during
	// bootstrap. The principal is known but the role defaulted to
	// audience, trading strict correctness for read availability.
	Degraded bool
}

func (s *Session) IsArtist() bool     { return s.Role == models.RoleArtist }
func (s *Session) IsVenueOwner() bool { return s.Role == models.RoleVenueOwner }
func (s *Session) IsAudience() bool   { return s.Role == models.RoleAudience }

// RequireApprovedVenueOwner gates every venue/event mutation: the
// caller must be a venue owner whose verification has been approved.
func (s *Session) RequireApprovedVenueOwner() error {
	if !s.IsVenueOwner() {
		return fmt.Errorf("venue owner role required: %w", errs.ErrNotAuthorized)
	}
	if s.VerificationStatus != models.VerificationApproved {
		return fmt.Errorf("venue owner not approved (status %s): %w", s.VerificationStatus, errs.ErrNotAuthorized)
	}
	return nil
}

// RequireAudience gates booking: only audience members buy tickets.
func (s *Session) RequireAudience() error {
	if !s.IsAudience() {
		return fmt.Errorf("audience role required: %w", errs.ErrNotAuthorized)
	}
	return nil
}

// RequireArtist gates artist profile mutation and artist-initiated
// requests.
func (s *Session) RequireArtist() error {
	if !s.IsArtist() {
		return fmt.Errorf("artist role required: %w", errs.ErrNotAuthorized)
	}
	return nil
}
