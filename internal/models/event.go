package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Event statuses. An event becomes bookable only once published;
// scheduled is the pre-publication draft state.
const (
	EventScheduled = "scheduled"
	EventPublished = "published"
	EventCanceled  = "canceled"
	EventCompleted = "completed"
)

type Event struct {
	bun.BaseModel `bun:"table:events"`

	ID          string    `bun:"id,pk" json:"id"`
	VenueID     string    `bun:"venue_id,notnull" json:"venue_id"`
	ArtistID    string    `bun:"artist_id,notnull" json:"artist_id"`
	RequestID   string    `bun:"request_id,nullzero" json:"request_id,omitempty"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description,nullzero" json:"description,omitempty"`
	EventDate   time.Time `bun:"event_date,notnull" json:"event_date"`
	DurationMin int       `bun:"duration_minutes,notnull" json:"duration_minutes"`
	Status      string    `bun:"status,notnull,default:'scheduled'" json:"status"`
	CreatedAt   time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`

	Venue  *Venue  `bun:"rel:belongs-to,join:venue_id=id" json:"venue,omitempty"`
	Artist *Artist `bun:"rel:belongs-to,join:artist_id=id" json:"artist,omitempty"`
}

type EventCreateRequest struct {
	VenueID     string    `json:"venue_id"`
	ArtistID    string    `json:"artist_id"`
	RequestID   string    `json:"request_id,omitempty"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	DurationMin int       `json:"duration_minutes"`
}

type EventUpdateRequest struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EventDate   time.Time `json:"event_date"`
	DurationMin int       `json:"duration_minutes"`
}

// EventFilter narrows event listings. Zero values mean "no filter".
type EventFilter struct {
	City     string
	Genre    string
	VenueID  string
	ArtistID string
	From     time.Time
	To       time.Time
}
