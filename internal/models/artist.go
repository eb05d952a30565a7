package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Artist extends an artist-role Profile 1:1; the ID is the profile ID.
// Rows may be created empty by the explicit ensure-artist-profile
// operation before the first performance request.
type Artist struct {
	bun.BaseModel `bun:"table:artists"`

	ID            string    `bun:"id,pk" json:"id"`
	Bio           string    `bun:"bio,nullzero" json:"bio,omitempty"`
	Experience    string    `bun:"experience,nullzero" json:"experience,omitempty"`
	Genres        []string  `bun:"genres,array" json:"genres,omitempty"`
	IntroVideoURL string    `bun:"intro_video_url,nullzero" json:"intro_video_url,omitempty"`
	Rating        float64   `bun:"rating,nullzero" json:"rating,omitempty"`
	CreatedAt     time.Time `bun:"created_at,notnull" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero" json:"updated_at,omitempty"`

	Profile *Profile `bun:"rel:belongs-to,join:id=id" json:"profile,omitempty"`
}

type ArtistUpdateRequest struct {
	Bio           string   `json:"bio"`
	Experience    string   `json:"experience"`
	Genres        []string `json:"genres"`
	IntroVideoURL string   `json:"intro_video_url"`
}
