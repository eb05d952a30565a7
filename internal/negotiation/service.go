package negotiation

import (
	"context"
	"fmt"
	"time"

	"stagelink/internal/catalog"
	"stagelink/internal/errs"
	"stagelink/internal/identity"
	"stagelink/internal/logger"
	"stagelink/internal/models"
	"stagelink/internal/utils"
)

type DBLayer interface {
	CreateRequest(ctx context.Context, request models.PerformanceRequest) error
	GetRequestByID(ctx context.Context, id string) (*models.PerformanceRequest, error)
	SettleRequest(ctx context.Context, id, status string) error
	ListRequestsByArtist(ctx context.Context, artistID string) ([]models.PerformanceRequest, error)
	ListRequestsByVenues(ctx context.Context, venueIDs []string) ([]models.PerformanceRequest, error)
}

type KafkaPublisher interface {
	PublishRequestUpdated(request models.PerformanceRequest) error
}

// ArtistProvisioner is the explicit ensure-artist-profile operation;
// request creation invokes it deliberately before inserting.
type ArtistProvisioner interface {
	EnsureArtistProfile(ctx context.Context, artistID string) error
}

type Service struct {
	DB       DBLayer
	Kafka    KafkaPublisher
	Identity ArtistProvisioner
	Catalog  *catalog.Service
	Logger   *logger.Logger
}

func NewService(db DBLayer, kafka KafkaPublisher, ident ArtistProvisioner, cat *catalog.Service, log *logger.Logger) *Service {
	return &Service{DB: db, Kafka: kafka, Identity: ident, Catalog: cat, Logger: log}
}

// Create opens a pending performance request between an artist and a
// venue. The caller must be the initiating side: the artist when
// initiator is "artist", the venue's owner when initiator is "venue".
func (s *Service) Create(ctx context.Context, session *identity.Session, req models.RequestCreateRequest) (*models.PerformanceRequest, error) {
	if req.ArtistID == "" || req.VenueID == "" {
		return nil, fmt.Errorf("artist and venue are required: %w", errs.ErrInvalidInput)
	}
	if req.ProposedDate.IsZero() {
		return nil, fmt.Errorf("proposed date is required: %w", errs.ErrInvalidInput)
	}

	venue, err := s.Catalog.GetVenue(ctx, req.VenueID)
	if err != nil {
		return nil, err
	}

	switch req.Initiator {
	case models.InitiatorArtist:
		if err := session.RequireArtist(); err != nil {
			return nil, err
		}
		if session.PrincipalID != req.ArtistID {
			return nil, fmt.Errorf("artists can only initiate their own requests: %w", errs.ErrNotAuthorized)
		}
	case models.InitiatorVenue:
		if err := session.RequireApprovedVenueOwner(); err != nil {
			return nil, err
		}
		if venue.OwnerID != session.PrincipalID {
			return nil, fmt.Errorf("venue %s is not owned by caller: %w", req.VenueID, errs.ErrNotAuthorized)
		}
	default:
		return nil, fmt.Errorf("initiator must be artist or venue: %w", errs.ErrInvalidInput)
	}

	if err := s.Identity.EnsureArtistProfile(ctx, req.ArtistID); err != nil {
		return nil, fmt.Errorf("failed to provision artist profile: %w", err)
	}

	request := models.PerformanceRequest{
		ID:           utils.NewID(),
		ArtistID:     req.ArtistID,
		VenueID:      req.VenueID,
		ProposedDate: req.ProposedDate,
		Initiator:    req.Initiator,
		Message:      req.Message,
		Status:       models.RequestPending,
		CreatedAt:    time.Now(),
	}

	if err := s.DB.CreateRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	s.Logger.LogRequest("CREATE", request.ID, fmt.Sprintf("artist=%s venue=%s initiator=%s",
		request.ArtistID, request.VenueID, request.Initiator))

	if s.Kafka != nil {
		if err := s.Kafka.PublishRequestUpdated(request); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("publish request created failed: %v", err))
		}
	}
	return &request, nil
}

// Respond settles a pending request. Only the counterpart of the
// initiator may respond, and a settled request never changes again.
func (s *Service) Respond(ctx context.Context, session *identity.Session, requestID, status string) (*models.PerformanceRequest, error) {
	if status != models.RequestAccepted && status != models.RequestRejected {
		return nil, fmt.Errorf("status must be accepted or rejected: %w", errs.ErrInvalidInput)
	}

	request, err := s.DB.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestPending {
		return nil, fmt.Errorf("request %s already %s: %w", requestID, request.Status, errs.ErrConflict)
	}

	venue, err := s.Catalog.GetVenue(ctx, request.VenueID)
	if err != nil {
		return nil, err
	}

	// The initiator never settles their own request.
	switch request.Initiator {
	case models.InitiatorArtist:
		if venue.OwnerID != session.PrincipalID {
			return nil, fmt.Errorf("only the venue owner may respond to request %s: %w", requestID, errs.ErrNotAuthorized)
		}
	case models.InitiatorVenue:
		if request.ArtistID != session.PrincipalID {
			return nil, fmt.Errorf("only the artist may respond to request %s: %w", requestID, errs.ErrNotAuthorized)
		}
	}

	if err := s.DB.SettleRequest(ctx, requestID, status); err != nil {
		return nil, err
	}

	request.Status = status
	request.UpdatedAt = time.Now()

	s.Logger.LogRequest("RESPOND", requestID, fmt.Sprintf("status=%s by=%s", status, session.PrincipalID))

	if s.Kafka != nil {
		if err := s.Kafka.PublishRequestUpdated(*request); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("publish request updated failed: %v", err))
		}
	}
	return request, nil
}

// Get returns a request to its participants only.
func (s *Service) Get(ctx context.Context, session *identity.Session, requestID string) (*models.PerformanceRequest, error) {
	request, err := s.DB.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if err := s.requireParticipant(ctx, session, request); err != nil {
		return nil, err
	}
	return request, nil
}

// ListMine returns the requests the caller is a party to: their own
// as an artist, or those targeting any of their venues as an owner.
func (s *Service) ListMine(ctx context.Context, session *identity.Session) ([]models.PerformanceRequest, error) {
	if session.IsArtist() {
		return s.DB.ListRequestsByArtist(ctx, session.PrincipalID)
	}
	if session.IsVenueOwner() {
		venues, err := s.Catalog.ListMyVenues(ctx, session)
		if err != nil {
			return nil, err
		}
		venueIDs := make([]string, 0, len(venues))
		for _, v := range venues {
			venueIDs = append(venueIDs, v.ID)
		}
		return s.DB.ListRequestsByVenues(ctx, venueIDs)
	}
	return nil, fmt.Errorf("audience members have no performance requests: %w", errs.ErrNotAuthorized)
}

// PromoteToEvent creates a scheduled event out of an accepted
// request. Only the venue owner side may promote.
func (s *Service) PromoteToEvent(ctx context.Context, session *identity.Session, requestID string, req models.EventCreateRequest) (*models.Event, error) {
	request, err := s.DB.GetRequestByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if request.Status != models.RequestAccepted {
		return nil, fmt.Errorf("only accepted requests can be promoted (status %s): %w", request.Status, errs.ErrConflict)
	}

	req.VenueID = request.VenueID
	req.ArtistID = request.ArtistID
	req.RequestID = request.ID
	if req.EventDate.IsZero() {
		req.EventDate = request.ProposedDate
	}

	return s.Catalog.CreateEvent(ctx, session, req)
}

// GetByID returns a request without a participant check. Callers
// that expose the result must gate access themselves.
func (s *Service) GetByID(ctx context.Context, requestID string) (*models.PerformanceRequest, error) {
	return s.DB.GetRequestByID(ctx, requestID)
}

// Participants returns the two profile ids allowed on a request's
// chat thread: the artist and the venue's owner.
func (s *Service) Participants(ctx context.Context, request *models.PerformanceRequest) (artistID, ownerID string, err error) {
	venue, err := s.Catalog.GetVenue(ctx, request.VenueID)
	if err != nil {
		return "", "", err
	}
	return request.ArtistID, venue.OwnerID, nil
}

func (s *Service) requireParticipant(ctx context.Context, session *identity.Session, request *models.PerformanceRequest) error {
	artistID, ownerID, err := s.Participants(ctx, request)
	if err != nil {
		return err
	}
	if session.PrincipalID != artistID && session.PrincipalID != ownerID {
		return fmt.Errorf("caller is not a participant of request %s: %w", request.ID, errs.ErrNotAuthorized)
	}
	return nil
}
