package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Venue is owned by exactly one venue_owner profile. A single owner
// may hold many venues. There is no delete path.
type Venue struct {
	bun.BaseModel `bun:"table:venues"`

	ID        string    `bun:"id,pk" json:"id"`
	OwnerID   string    `bun:"owner_id,notnull" json:"owner_id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Address   string    `bun:"address,notnull" json:"address"`
	City      string    `bun:"city,nullzero" json:"city,omitempty"`
	Capacity  int       `bun:"capacity,notnull" json:"capacity"`
	Amenities []string  `bun:"amenities,array" json:"amenities,omitempty"`
	ImageURLs []string  `bun:"image_urls,array" json:"image_urls,omitempty"`
	CreatedAt time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`

	Owner *Profile `bun:"rel:belongs-to,join:owner_id=id" json:"owner,omitempty"`
}

type VenueRequest struct {
	Name      string   `json:"name"`
	Address   string   `json:"address"`
	City      string   `json:"city"`
	Capacity  int      `json:"capacity"`
	Amenities []string `json:"amenities"`
	ImageURLs []string `json:"image_urls"`
}

// VenueFilter narrows venue listings. Zero values mean "no filter".
type VenueFilter struct {
	City        string
	MinCapacity int
	Amenity     string
}
