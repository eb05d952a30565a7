package catalog

import (
	"context"
	"fmt"
	"time"

	"stagelink/internal/errs"
	"stagelink/internal/identity"
	"stagelink/internal/logger"
	"stagelink/internal/models"
	"stagelink/internal/utils"
)

type DBLayer interface {
	CreateVenue(ctx context.Context, venue models.Venue) error
	GetVenueByID(ctx context.Context, id string) (*models.Venue, error)
	UpdateVenue(ctx context.Context, venue models.Venue) error
	ListVenues(ctx context.Context, filter models.VenueFilter) ([]models.Venue, error)
	ListVenuesByOwner(ctx context.Context, ownerID string) ([]models.Venue, error)
	ListArtists(ctx context.Context, genre string) ([]models.Artist, error)
	CreateEvent(ctx context.Context, event models.Event) error
	GetEventByID(ctx context.Context, id string) (*models.Event, error)
	UpdateEvent(ctx context.Context, event models.Event) error
	ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error)
	ListEventsByVenue(ctx context.Context, venueID string) ([]models.Event, error)
}

type Service struct {
	DB     DBLayer
	Logger *logger.Logger
}

func NewService(db DBLayer, log *logger.Logger) *Service {
	return &Service{DB: db, Logger: log}
}

// ---------------- VENUES ----------------

func (s *Service) CreateVenue(ctx context.Context, session *identity.Session, req models.VenueRequest) (*models.Venue, error) {
	if err := session.RequireApprovedVenueOwner(); err != nil {
		return nil, err
	}
	if req.Name == "" || req.Address == "" {
		return nil, fmt.Errorf("venue name and address are required: %w", errs.ErrInvalidInput)
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("venue capacity must be positive: %w", errs.ErrInvalidInput)
	}

	venue := models.Venue{
		ID:        utils.NewID(),
		OwnerID:   session.PrincipalID,
		Name:      req.Name,
		Address:   req.Address,
		City:      req.City,
		Capacity:  req.Capacity,
		Amenities: req.Amenities,
		ImageURLs: req.ImageURLs,
		CreatedAt: time.Now(),
	}

	if err := s.DB.CreateVenue(ctx, venue); err != nil {
		return nil, fmt.Errorf("failed to create venue: %w", err)
	}
	s.Logger.Info("CATALOG", fmt.Sprintf("venue created: %s owner=%s", venue.ID, venue.OwnerID))
	return &venue, nil
}

func (s *Service) UpdateVenue(ctx context.Context, session *identity.Session, venueID string, req models.VenueRequest) (*models.Venue, error) {
	if err := session.RequireApprovedVenueOwner(); err != nil {
		return nil, err
	}

	venue, err := s.DB.GetVenueByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if venue.OwnerID != session.PrincipalID {
		return nil, fmt.Errorf("venue %s is not owned by caller: %w", venueID, errs.ErrNotAuthorized)
	}

	if req.Name != "" {
		venue.Name = req.Name
	}
	if req.Address != "" {
		venue.Address = req.Address
	}
	if req.City != "" {
		venue.City = req.City
	}
	if req.Capacity > 0 {
		venue.Capacity = req.Capacity
	}
	if req.Amenities != nil {
		venue.Amenities = req.Amenities
	}
	if req.ImageURLs != nil {
		venue.ImageURLs = req.ImageURLs
	}
	venue.UpdatedAt = time.Now()

	if err := s.DB.UpdateVenue(ctx, *venue); err != nil {
		return nil, fmt.Errorf("failed to update venue: %w", err)
	}
	return venue, nil
}

func (s *Service) GetVenue(ctx context.Context, id string) (*models.Venue, error) {
	return s.DB.GetVenueByID(ctx, id)
}

func (s *Service) ListVenues(ctx context.Context, filter models.VenueFilter) ([]models.Venue, error) {
	return s.DB.ListVenues(ctx, filter)
}

func (s *Service) ListMyVenues(ctx context.Context, session *identity.Session) ([]models.Venue, error) {
	if !session.IsVenueOwner() {
		return nil, fmt.Errorf("venue owner role required: %w", errs.ErrNotAuthorized)
	}
	return s.DB.ListVenuesByOwner(ctx, session.PrincipalID)
}

// ---------------- ARTISTS ----------------

func (s *Service) ListArtists(ctx context.Context, genre string) ([]models.Artist, error) {
	return s.DB.ListArtists(ctx, genre)
}

// ---------------- EVENTS ----------------

// CreateEvent creates a scheduled (draft) event on one of the
// caller's venues. It becomes bookable only after PublishEvent.
func (s *Service) CreateEvent(ctx context.Context, session *identity.Session, req models.EventCreateRequest) (*models.Event, error) {
	if err := session.RequireApprovedVenueOwner(); err != nil {
		return nil, err
	}
	if req.Name == "" || req.VenueID == "" || req.ArtistID == "" {
		return nil, fmt.Errorf("event name, venue and artist are required: %w", errs.ErrInvalidInput)
	}
	if req.EventDate.IsZero() {
		return nil, fmt.Errorf("event date is required: %w", errs.ErrInvalidInput)
	}

	venue, err := s.DB.GetVenueByID(ctx, req.VenueID)
	if err != nil {
		return nil, err
	}
	if venue.OwnerID != session.PrincipalID {
		return nil, fmt.Errorf("venue %s is not owned by caller: %w", req.VenueID, errs.ErrNotAuthorized)
	}

	event := models.Event{
		ID:          utils.NewID(),
		VenueID:     req.VenueID,
		ArtistID:    req.ArtistID,
		RequestID:   req.RequestID,
		Name:        req.Name,
		Description: req.Description,
		EventDate:   req.EventDate,
		DurationMin: req.DurationMin,
		Status:      models.EventScheduled,
		CreatedAt:   time.Now(),
	}

	if err := s.DB.CreateEvent(ctx, event); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	s.Logger.Info("CATALOG", fmt.Sprintf("event created: %s venue=%s artist=%s", event.ID, event.VenueID, event.ArtistID))
	return &event, nil
}

func (s *Service) UpdateEvent(ctx context.Context, session *identity.Session, eventID string, req models.EventUpdateRequest) (*models.Event, error) {
	event, err := s.ownedEvent(ctx, session, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventCanceled || event.Status == models.EventCompleted {
		return nil, fmt.Errorf("cannot update a %s event: %w", event.Status, errs.ErrConflict)
	}

	if req.Name != "" {
		event.Name = req.Name
	}
	if req.Description != "" {
		event.Description = req.Description
	}
	if !req.EventDate.IsZero() {
		event.EventDate = req.EventDate
	}
	if req.DurationMin > 0 {
		event.DurationMin = req.DurationMin
	}
	event.UpdatedAt = time.Now()

	if err := s.DB.UpdateEvent(ctx, *event); err != nil {
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

// PublishEvent moves a draft into the single bookable status.
func (s *Service) PublishEvent(ctx context.Context, session *identity.Session, eventID string) (*models.Event, error) {
	event, err := s.ownedEvent(ctx, session, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventScheduled {
		return nil, fmt.Errorf("only scheduled events can be published (status %s): %w", event.Status, errs.ErrConflict)
	}

	event.Status = models.EventPublished
	event.UpdatedAt = time.Now()
	if err := s.DB.UpdateEvent(ctx, *event); err != nil {
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}
	s.Logger.Info("CATALOG", fmt.Sprintf("event published: %s", eventID))
	return event, nil
}

func (s *Service) CancelEvent(ctx context.Context, session *identity.Session, eventID string) (*models.Event, error) {
	event, err := s.ownedEvent(ctx, session, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status == models.EventCanceled || event.Status == models.EventCompleted {
		return nil, fmt.Errorf("event %s already %s: %w", eventID, event.Status, errs.ErrConflict)
	}

	event.Status = models.EventCanceled
	event.UpdatedAt = time.Now()
	if err := s.DB.UpdateEvent(ctx, *event); err != nil {
		return nil, fmt.Errorf("failed to cancel event: %w", err)
	}
	s.Logger.Info("CATALOG", fmt.Sprintf("event canceled: %s", eventID))
	return event, nil
}

func (s *Service) GetEvent(ctx context.Context, id string) (*models.Event, error) {
	return s.DB.GetEventByID(ctx, id)
}

func (s *Service) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	return s.DB.ListEvents(ctx, filter)
}

func (s *Service) ListEventsByVenue(ctx context.Context, session *identity.Session, venueID string) ([]models.Event, error) {
	venue, err := s.DB.GetVenueByID(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if venue.OwnerID != session.PrincipalID {
		return nil, fmt.Errorf("venue %s is not owned by caller: %w", venueID, errs.ErrNotAuthorized)
	}
	return s.DB.ListEventsByVenue(ctx, venueID)
}

func (s *Service) ownedEvent(ctx context.Context, session *identity.Session, eventID string) (*models.Event, error) {
	if err := session.RequireApprovedVenueOwner(); err != nil {
		return nil, err
	}

	event, err := s.DB.GetEventByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	venue, err := s.DB.GetVenueByID(ctx, event.VenueID)
	if err != nil {
		return nil, err
	}
	if venue.OwnerID != session.PrincipalID {
		return nil, fmt.Errorf("event %s is not owned by caller: %w", eventID, errs.ErrNotAuthorized)
	}
	return event, nil
}
