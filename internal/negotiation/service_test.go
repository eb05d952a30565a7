package negotiation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"stagelink/internal/catalog"
	"stagelink/internal/errs"
	"stagelink/internal/identity"
	"stagelink/internal/logger"
	"stagelink/internal/models"
	"stagelink/internal/negotiation"
)

// Mock implementations
type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) CreateRequest(ctx context.Context, request models.PerformanceRequest) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func (m *MockDBLayer) GetRequestByID(ctx context.Context, id string) (*models.PerformanceRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PerformanceRequest), args.Error(1)
}

func (m *MockDBLayer) SettleRequest(ctx context.Context, id, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *MockDBLayer) ListRequestsByArtist(ctx context.Context, artistID string) ([]models.PerformanceRequest, error) {
	args := m.Called(ctx, artistID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PerformanceRequest), args.Error(1)
}

func (m *MockDBLayer) ListRequestsByVenues(ctx context.Context, venueIDs []string) ([]models.PerformanceRequest, error) {
	args := m.Called(ctx, venueIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.PerformanceRequest), args.Error(1)
}

type MockKafkaProducer struct {
	mock.Mock
}

func (m *MockKafkaProducer) PublishRequestUpdated(request models.PerformanceRequest) error {
	args := m.Called(request)
	return args.Error(0)
}

type MockProvisioner struct {
	mock.Mock
}

func (m *MockProvisioner) EnsureArtistProfile(ctx context.Context, artistID string) error {
	args := m.Called(ctx, artistID)
	return args.Error(0)
}

// MockCatalogDB backs a real catalog.Service so venue ownership checks
// run the same code the service runs in production.
type MockCatalogDB struct {
	mock.Mock
}

func (m *MockCatalogDB) CreateVenue(ctx context.Context, venue models.Venue) error {
	args := m.Called(ctx, venue)
	return args.Error(0)
}

func (m *MockCatalogDB) GetVenueByID(ctx context.Context, id string) (*models.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venue), args.Error(1)
}

func (m *MockCatalogDB) UpdateVenue(ctx context.Context, venue models.Venue) error {
	args := m.Called(ctx, venue)
	return args.Error(0)
}

func (m *MockCatalogDB) ListVenues(ctx context.Context, filter models.VenueFilter) ([]models.Venue, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Venue), args.Error(1)
}

func (m *MockCatalogDB) ListVenuesByOwner(ctx context.Context, ownerID string) ([]models.Venue, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Venue), args.Error(1)
}

func (m *MockCatalogDB) ListArtists(ctx context.Context, genre string) ([]models.Artist, error) {
	args := m.Called(ctx, genre)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Artist), args.Error(1)
}

func (m *MockCatalogDB) CreateEvent(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockCatalogDB) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockCatalogDB) UpdateEvent(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockCatalogDB) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockCatalogDB) ListEventsByVenue(ctx context.Context, venueID string) ([]models.Event, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

type fixture struct {
	db          *MockDBLayer
	kafka       *MockKafkaProducer
	provisioner *MockProvisioner
	catalogDB   *MockCatalogDB
	svc         *negotiation.Service
}

func newFixture() *fixture {
	f := &fixture{
		db:          new(MockDBLayer),
		kafka:       new(MockKafkaProducer),
		provisioner: new(MockProvisioner),
		catalogDB:   new(MockCatalogDB),
	}
	log := logger.NewLogger()
	catalogService := catalog.NewService(f.catalogDB, log)
	f.svc = negotiation.NewService(f.db, f.kafka, f.provisioner, catalogService, log)
	return f
}

func artistSession() *identity.Session {
	return &identity.Session{PrincipalID: "artist001", Role: models.RoleArtist}
}

func ownerSession() *identity.Session {
	return &identity.Session{
		PrincipalID:        "owner001",
		Role:               models.RoleVenueOwner,
		VerificationStatus: models.VerificationApproved,
	}
}

func theVenue() *models.Venue {
	return &models.Venue{ID: "venue001", OwnerID: "owner001", Name: "The Velvet Room", Capacity: 350}
}

func pendingRequest(initiator string) *models.PerformanceRequest {
	return &models.PerformanceRequest{
		ID:           "request001",
		ArtistID:     "artist001",
		VenueID:      "venue001",
		ProposedDate: time.Now().AddDate(0, 1, 0),
		Initiator:    initiator,
		Status:       models.RequestPending,
	}
}

func TestCreateRequestByArtist(t *testing.T) {
	f := newFixture()

	f.catalogDB.On("GetVenueByID", mock.Anything, "venue001").Return(theVenue(), nil)
	f.provisioner.On("EnsureArtistProfile", mock.Anything, "artist001").Return(nil)
	f.db.On("CreateRequest", mock.Anything, mock.AnythingOfType("models.PerformanceRequest")).Return(nil)
	f.kafka.On("PublishRequestUpdated", mock.AnythingOfType("models.PerformanceRequest")).Return(nil)

	request, err := f.svc.Create(context.Background(), artistSession(), models.RequestCreateRequest{
		ArtistID:     "artist001",
		VenueID:      "venue001",
		ProposedDate: time.Now().AddDate(0, 1, 0),
		Initiator:    models.InitiatorArtist,
		Message:      "Friday slot?",
	})

	assert.NoError(t, err)
	assert.Equal(t, models.RequestPending, request.Status)
	assert.Equal(t, models.InitiatorArtist, request.Initiator)
	f.provisioner.AssertExpectations(t)
	f.db.AssertExpectations(t)
}

func TestCreateRequestArtistCannotImpersonate(t *testing.T) {
	f := newFixture()
	f.catalogDB.On("GetVenueByID", mock.Anything, "venue001").Return(theVenue(), nil)

	_, err := f.svc.Create(context.Background(), artistSession(), models.RequestCreateRequest{
		ArtistID:     "artist999",
		VenueID:      "venue001",
		ProposedDate: time.Now(),
		Initiator:    models.InitiatorArtist,
	})
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
}

func TestCreateRequestVenueInitiatorMustOwnVenue(t *testing.T) {
	f := newFixture()
	f.catalogDB.On("GetVenueByID", mock.Anything, "venue001").Return(theVenue(), nil)

	stranger := &identity.Session{
		PrincipalID:        "owner999",
		Role:               models.RoleVenueOwner,
		VerificationStatus: models.VerificationApproved,
	}
	_, err := f.svc.Create(context.Background(), stranger, models.RequestCreateRequest{
		ArtistID:     "artist001",
		VenueID:      "venue001",
		ProposedDate: time.Now(),
		Initiator:    models.InitiatorVenue,
	})
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
}

func TestRespondAcceptByCounterpart(t *testing.T) {
	f := newFixture()

	f.db.On("GetRequestByID", mock.Anything, "request001").Return(pendingRequest(models.InitiatorArtist), nil)
	f.catalogDB.On("GetVenueByID", mock.Anything, "venue001").Return(theVenue(), nil)
	f.db.On("SettleRequest", mock.Anything, "request001", models.RequestAccepted).Return(nil)
	f.kafka.On("PublishRequestUpdated", mock.AnythingOfType("models.PerformanceRequest")).Return(nil)

	request, err := f.svc.Respond(context.Background(), ownerSession(), "request001", models.RequestAccepted)
	assert.NoError(t, err)
	assert.Equal(t, models.RequestAccepted, request.Status)
	f.db.AssertExpectations(t)
}

func TestRespondRejectedByInitiatorSide(t *testing.T) {
	f := newFixture()

	f.db.On("GetRequestByID", mock.Anything, "request001").Return(pendingRequest(models.InitiatorArtist), nil)
	f.catalogDB.On("GetVenueByID", mock.Anything, "venue001").Return(theVenue(), nil)

	// The artist initiated, so the artist may not settle.
	_, err := f.svc.Respond(context.Background(), artistSession(), "request001", models.RequestAccepted)
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
}

func TestRespondConflictOnSettledRequest(t *testing.T) {
	f := newFixture()

	settled := pendingRequest(models.InitiatorArtist)
	settled.Status = models.RequestRejected
	f.db.On("GetRequestByID", mock.Anything, "request001").Return(settled, nil)

	_, err := f.svc.Respond(context.Background(), ownerSession(), "request001", models.RequestAccepted)
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestRespondInvalidStatus(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Respond(context.Background(), ownerSession(), "request001", "maybe")
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestGetRequiresParticipant(t *testing.T) {
	f := newFixture()

	f.db.On("GetRequestByID", mock.Anything, "request001").Return(pendingRequest(models.InitiatorArtist), nil)
	f.catalogDB.On("GetVenueByID", mock.Anything, "venue001").Return(theVenue(), nil)

	stranger := &identity.Session{PrincipalID: "fan001", Role: models.RoleAudience}
	_, err := f.svc.Get(context.Background(), stranger, "request001")
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)

	request, err := f.svc.Get(context.Background(), artistSession(), "request001")
	assert.NoError(t, err)
	assert.Equal(t, "request001", request.ID)
}

func TestPromoteToEventRequiresAccepted(t *testing.T) {
	f := newFixture()

	f.db.On("GetRequestByID", mock.Anything, "request001").Return(pendingRequest(models.InitiatorArtist), nil)

	_, err := f.svc.PromoteToEvent(context.Background(), ownerSession(), "request001", models.EventCreateRequest{
		Name: "Night Owls Live",
	})
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestPromoteToEventFillsFromRequest(t *testing.T) {
	f := newFixture()

	accepted := pendingRequest(models.InitiatorArtist)
	accepted.Status = models.RequestAccepted
	f.db.On("GetRequestByID", mock.Anything, "request001").Return(accepted, nil)
	f.catalogDB.On("GetVenueByID", mock.Anything, "venue001").Return(theVenue(), nil)

	var created models.Event
	f.catalogDB.On("CreateEvent", mock.Anything, mock.AnythingOfType("models.Event")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(models.Event)
		}).Return(nil)

	event, err := f.svc.PromoteToEvent(context.Background(), ownerSession(), "request001", models.EventCreateRequest{
		Name: "Night Owls Live",
	})

	assert.NoError(t, err)
	assert.Equal(t, "venue001", created.VenueID)
	assert.Equal(t, "artist001", created.ArtistID)
	assert.Equal(t, "request001", created.RequestID)
	assert.Equal(t, accepted.ProposedDate, created.EventDate)
	assert.Equal(t, models.EventScheduled, event.Status)
}
