package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stagelink/internal/booking/qr"
	"stagelink/internal/errs"
	"stagelink/internal/identity"
	"stagelink/internal/logger"
	"stagelink/internal/models"
	"stagelink/internal/utils"
)

type DBLayer interface {
	CreateTicketType(ctx context.Context, ticket models.TicketType) error
	GetTicketTypeByID(ctx context.Context, id string) (*models.TicketType, error)
	ListTicketTypesByEvent(ctx context.Context, eventID string) ([]models.TicketType, error)
	ReserveTickets(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	ListBookingsByBuyer(ctx context.Context, buyerID string) ([]models.Booking, error)
}

// AvailabilityCache is the read-side cache over remaining counts.
type AvailabilityCache interface {
	GetRemaining(ctx context.Context, ticketTypeID string) (int, bool, error)
	SetRemaining(ctx context.Context, ticketTypeID string, remaining int) error
	Invalidate(ctx context.Context, ticketTypeID string) error
}

type KafkaPublisher interface {
	PublishBookingCreated(booking models.Booking) error
}

// CatalogReader resolves events and venues for ownership and
// bookable-status checks.
type CatalogReader interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
	GetVenue(ctx context.Context, id string) (*models.Venue, error)
}

type Service struct {
	DB      DBLayer
	Cache   AvailabilityCache
	Kafka   KafkaPublisher
	Catalog CatalogReader
	Logger  *logger.Logger

	// QRSecret encrypts booking confirmation QR payloads. Empty
	// disables QR generation.
	QRSecret string
}

func NewService(db DBLayer, cache AvailabilityCache, kafka KafkaPublisher, catalog CatalogReader, qrSecret string, log *logger.Logger) *Service {
	return &Service{DB: db, Cache: cache, Kafka: kafka, Catalog: catalog, QRSecret: qrSecret, Logger: log}
}

// CreateTicketType adds a priced admission category to one of the
// caller's events. quantity_remaining starts at quantity_total and
// only the reservation path may lower it afterwards.
func (s *Service) CreateTicketType(ctx context.Context, session *identity.Session, eventID string, req models.TicketTypeRequest) (*models.TicketType, error) {
	if err := session.RequireApprovedVenueOwner(); err != nil {
		return nil, err
	}
	if req.Label == "" {
		return nil, fmt.Errorf("ticket label is required: %w", errs.ErrInvalidInput)
	}
	if req.Price < 0 {
		return nil, fmt.Errorf("ticket price cannot be negative: %w", errs.ErrInvalidInput)
	}
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("ticket quantity must be positive: %w", errs.ErrInvalidInput)
	}

	event, err := s.Catalog.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	venue, err := s.Catalog.GetVenue(ctx, event.VenueID)
	if err != nil {
		return nil, err
	}
	if venue.OwnerID != session.PrincipalID {
		return nil, fmt.Errorf("event %s is not owned by caller: %w", eventID, errs.ErrNotAuthorized)
	}
	if event.Status == models.EventCanceled || event.Status == models.EventCompleted {
		return nil, fmt.Errorf("cannot add tickets to a %s event: %w", event.Status, errs.ErrConflict)
	}

	ticket := models.TicketType{
		ID:                utils.NewID(),
		EventID:           eventID,
		Label:             req.Label,
		Price:             req.Price,
		QuantityTotal:     req.Quantity,
		QuantityRemaining: req.Quantity,
		CreatedAt:         time.Now(),
	}

	if err := s.DB.CreateTicketType(ctx, ticket); err != nil {
		return nil, fmt.Errorf("failed to create ticket type: %w", err)
	}
	s.Logger.Info("BOOKING", fmt.Sprintf("ticket type created: %s event=%s qty=%d", ticket.ID, eventID, req.Quantity))
	return &ticket, nil
}

// ListTicketTypes returns the ticket types for an event, overlaying
// cached remaining counts where present and priming the cache from
// the database rows otherwise.
func (s *Service) ListTicketTypes(ctx context.Context, eventID string) ([]models.TicketType, error) {
	tickets, err := s.DB.ListTicketTypesByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ticket types for event %s: %w", eventID, err)
	}

	for i := range tickets {
		remaining, ok, err := s.Cache.GetRemaining(ctx, tickets[i].ID)
		if err != nil {
			s.Logger.Warn("BOOKING", fmt.Sprintf("availability cache read failed for %s: %v", tickets[i].ID, err))
			continue
		}
		if ok {
			tickets[i].QuantityRemaining = remaining
			continue
		}
		if err := s.Cache.SetRemaining(ctx, tickets[i].ID, tickets[i].QuantityRemaining); err != nil {
			s.Logger.Warn("BOOKING", fmt.Sprintf("availability cache prime failed for %s: %v", tickets[i].ID, err))
		}
	}
	return tickets, nil
}

// Reserve books quantity units of a ticket type for the session's
// audience principal. The decrement and the booking insert commit
// atomically in the database; there is no client-side locking, no
// retry, and a failed attempt leaves inventory untouched.
func (s *Service) Reserve(ctx context.Context, session *identity.Session, req models.BookingRequest) (*models.BookingResponse, error) {
	if session == nil || session.PrincipalID == "" {
		return nil, errs.ErrNotAuthenticated
	}
	if err := session.RequireAudience(); err != nil {
		return nil, err
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1: %w", errs.ErrInvalidQuantity)
	}

	ticket, err := s.DB.GetTicketTypeByID(ctx, req.TicketTypeID)
	if err != nil {
		return nil, err
	}

	event, err := s.Catalog.GetEvent(ctx, ticket.EventID)
	if err != nil {
		return nil, err
	}
	if event.Status != models.EventPublished {
		return nil, fmt.Errorf("event %s is not open for booking (status %s): %w", event.ID, event.Status, errs.ErrConflict)
	}

	booking := models.Booking{
		ID:           utils.NewID(),
		TicketTypeID: ticket.ID,
		EventID:      ticket.EventID,
		BuyerID:      session.PrincipalID,
		Quantity:     req.Quantity,
		TotalPrice:   float64(req.Quantity) * ticket.Price,
		Status:       models.BookingConfirmed,
		CreatedAt:    time.Now(),
	}

	if err := s.DB.ReserveTickets(ctx, &booking); err != nil {
		if errors.Is(err, errs.ErrInsufficientInventory) {
			// Re-read to distinguish sold-out from a partial shortfall.
			current, readErr := s.DB.GetTicketTypeByID(ctx, ticket.ID)
			if readErr == nil && current.QuantityRemaining == 0 {
				return nil, fmt.Errorf("ticket type %s: %w", ticket.ID, errs.ErrSoldOut)
			}
			return nil, fmt.Errorf("ticket type %s has %d remaining, requested %d: %w",
				ticket.ID, ticket.QuantityRemaining, req.Quantity, errs.ErrInsufficientInventory)
		}
		return nil, fmt.Errorf("reservation failed: %w", err)
	}

	s.Logger.LogBooking("RESERVE", booking.ID, fmt.Sprintf("buyer=%s ticket=%s qty=%d total=%.2f",
		booking.BuyerID, booking.TicketTypeID, booking.Quantity, booking.TotalPrice))

	if err := s.Cache.Invalidate(ctx, ticket.ID); err != nil {
		s.Logger.Warn("BOOKING", fmt.Sprintf("availability cache invalidation failed for %s: %v", ticket.ID, err))
	}

	if s.Kafka != nil {
		if err := s.Kafka.PublishBookingCreated(booking); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("publish booking created failed: %v", err))
		}
	}

	response := &models.BookingResponse{Booking: booking}
	if s.QRSecret != "" {
		qrGen := qr.NewQRGenerator(s.QRSecret)
		qrBytes, err := qrGen.GenerateEncryptedQR(booking)
		if err != nil {
			s.Logger.Error("BOOKING", fmt.Sprintf("QR generation failed for booking %s: %v", booking.ID, err))
		} else {
			response.QRCode = qrBytes
		}
	}
	return response, nil
}

// GetBooking returns a booking to its buyer only.
func (s *Service) GetBooking(ctx context.Context, session *identity.Session, bookingID string) (*models.Booking, error) {
	booking, err := s.DB.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.BuyerID != session.PrincipalID {
		return nil, fmt.Errorf("booking %s does not belong to caller: %w", bookingID, errs.ErrNotAuthorized)
	}
	return booking, nil
}

func (s *Service) ListMyBookings(ctx context.Context, session *identity.Session) ([]models.Booking, error) {
	return s.DB.ListBookingsByBuyer(ctx, session.PrincipalID)
}
