package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Performance request statuses. The lifecycle is monotonic:
// pending -> accepted | rejected, with no way back.
const (
	RequestPending  = "pending"
	RequestAccepted = "accepted"
	RequestRejected = "rejected"
)

// Initiator values for a performance request.
const (
	InitiatorArtist = "artist"
	InitiatorVenue  = "venue"
)

// PerformanceRequest relates one artist to one venue. Only the
// counterpart of the initiator may change its status. An accepted
// request unlocks the chat thread for its two participants.
type PerformanceRequest struct {
	bun.BaseModel `bun:"table:performance_requests"`

	ID           string    `bun:"id,pk" json:"id"`
	ArtistID     string    `bun:"artist_id,notnull" json:"artist_id"`
	VenueID      string    `bun:"venue_id,notnull" json:"venue_id"`
	ProposedDate time.Time `bun:"proposed_date,notnull" json:"proposed_date"`
	Initiator    string    `bun:"initiator,notnull" json:"initiator"`
	Message      string    `bun:"message,nullzero" json:"message,omitempty"`
	Status       string    `bun:"status,notnull,default:'pending'" json:"status"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`

	Artist *Artist `bun:"rel:belongs-to,join:artist_id=id" json:"artist,omitempty"`
	Venue  *Venue  `bun:"rel:belongs-to,join:venue_id=id" json:"venue,omitempty"`
}

type RequestCreateRequest struct {
	ArtistID     string    `json:"artist_id"`
	VenueID      string    `json:"venue_id"`
	ProposedDate time.Time `json:"proposed_date"`
	Initiator    string    `json:"initiator"`
	Message      string    `json:"message"`
}

type RequestRespondRequest struct {
	Status string `json:"status"` // accepted or rejected
}
