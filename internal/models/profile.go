package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Roles a profile can hold. The role is fixed at signup and never
// changes afterwards.
const (
	RoleArtist     = "artist"
	RoleVenueOwner = "venue_owner"
	RoleAudience   = "audience"
)

// Verification states for venue owners. Only none -> pending ->
// approved/rejected transitions are allowed, driven by an admin.
const (
	VerificationNone     = "none"
	VerificationPending  = "pending"
	VerificationApproved = "approved"
	VerificationRejected = "rejected"
)

type Profile struct {
	bun.BaseModel `bun:"table:profiles"`

	ID                 string    `bun:"id,pk" json:"id"`
	Role               string    `bun:"role,notnull" json:"role"`
	DisplayName        string    `bun:"display_name,notnull" json:"display_name"`
	ContactEmail       string    `bun:"contact_email,notnull" json:"contact_email"`
	AvatarURL          string    `bun:"avatar_url,nullzero" json:"avatar_url,omitempty"`
	VerificationStatus string    `bun:"verification_status,notnull,default:'none'" json:"verification_status"`
	CreatedAt          time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt          time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`
}

type ProfileCreateRequest struct {
	Role         string `json:"role"`
	DisplayName  string `json:"display_name"`
	ContactEmail string `json:"contact_email"`
	AvatarURL    string `json:"avatar_url"`
}

type ProfileUpdateRequest struct {
	DisplayName  string `json:"display_name"`
	ContactEmail string `json:"contact_email"`
	AvatarURL    string `json:"avatar_url"`
}

type VerificationUpdateRequest struct {
	Status string `json:"status"` // approved or rejected
}
