package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"stagelink/internal/errs"
	"stagelink/internal/models"
)

type DB struct {
	Bun *bun.DB
}

// ---------------- VENUES ----------------

func (d *DB) CreateVenue(ctx context.Context, venue models.Venue) error {
	_, err := d.Bun.NewInsert().Model(&venue).Exec(ctx)
	return err
}

func (d *DB) GetVenueByID(ctx context.Context, id string) (*models.Venue, error) {
	var venue models.Venue
	err := d.Bun.NewSelect().
		Model(&venue).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("venue %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &venue, nil
}

func (d *DB) UpdateVenue(ctx context.Context, venue models.Venue) error {
	_, err := d.Bun.NewUpdate().
		Model(&venue).
		Column("name", "address", "city", "capacity", "amenities", "image_urls", "updated_at").
		Where("id = ?", venue.ID).
		Exec(ctx)
	return err
}

func (d *DB) ListVenues(ctx context.Context, filter models.VenueFilter) ([]models.Venue, error) {
	var venues []models.Venue
	q := d.Bun.NewSelect().Model(&venues).Order("name ASC")

	if filter.City != "" {
		q = q.Where("lower(city) = lower(?)", filter.City)
	}
	if filter.MinCapacity > 0 {
		q = q.Where("capacity >= ?", filter.MinCapacity)
	}
	if filter.Amenity != "" {
		q = q.Where("? = ANY(amenities)", filter.Amenity)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return venues, nil
}

func (d *DB) ListVenuesByOwner(ctx context.Context, ownerID string) ([]models.Venue, error) {
	var venues []models.Venue
	err := d.Bun.NewSelect().
		Model(&venues).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return venues, nil
}

// ---------------- ARTISTS ----------------

func (d *DB) ListArtists(ctx context.Context, genre string) ([]models.Artist, error) {
	var artists []models.Artist
	q := d.Bun.NewSelect().
		Model(&artists).
		Relation("Profile").
		Order("rating DESC")

	if genre != "" {
		q = q.Where("? = ANY(genres)", genre)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return artists, nil
}

// ---------------- EVENTS ----------------

func (d *DB) CreateEvent(ctx context.Context, event models.Event) error {
	_, err := d.Bun.NewInsert().Model(&event).Exec(ctx)
	return err
}

func (d *DB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	var event models.Event
	err := d.Bun.NewSelect().
		Model(&event).
		Relation("Venue").
		Where("event.id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func (d *DB) UpdateEvent(ctx context.Context, event models.Event) error {
	_, err := d.Bun.NewUpdate().
		Model(&event).
		Column("name", "description", "event_date", "duration_minutes", "status", "updated_at").
		Where("id = ?", event.ID).
		Exec(ctx)
	return err
}

// ListEvents returns bookable (published) events matching the filter.
// Owner dashboards use ListEventsByVenue instead, which returns every
// status.
func (d *DB) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	var events []models.Event
	q := d.Bun.NewSelect().
		Model(&events).
		Relation("Venue").
		Where("event.status = ?", models.EventPublished).
		Order("event.event_date ASC")

	if filter.City != "" {
		q = q.Where("lower(venue.city) = lower(?)", filter.City)
	}
	if filter.VenueID != "" {
		q = q.Where("event.venue_id = ?", filter.VenueID)
	}
	if filter.ArtistID != "" {
		q = q.Where("event.artist_id = ?", filter.ArtistID)
	}
	if !filter.From.IsZero() {
		q = q.Where("event.event_date >= ?", filter.From)
	}
	if !filter.To.IsZero() {
		q = q.Where("event.event_date <= ?", filter.To)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

func (d *DB) ListEventsByVenue(ctx context.Context, venueID string) ([]models.Event, error) {
	var events []models.Event
	err := d.Bun.NewSelect().
		Model(&events).
		Where("venue_id = ?", venueID).
		Order("event_date ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return events, nil
}
