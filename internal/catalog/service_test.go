package catalog_test

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
)

// Mock implementations
type MockDBLayer struct {
	mock.Mock
}

func (m *MockDBLayer) CreateVenue(ctx context.Context, venue models.Venue) error {
	args := m.Called(ctx, venue)
	return args.Error(0)
}

func (m *MockDBLayer) GetVenueByID(ctx context.Context, id string) (*models.Venue, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venue), args.Error(1)
}

func (m *MockDBLayer) UpdateVenue(ctx context.Context, venue models.Venue) error {
	args := m.Called(ctx, venue)
	return args.Error(0)
}

func (m *MockDBLayer) ListVenues(ctx context.Context, filter models.VenueFilter) ([]models.Venue, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Venue), args.Error(1)
}

func (m *MockDBLayer) ListVenuesByOwner(ctx context.Context, ownerID string) ([]models.Venue, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Venue), args.Error(1)
}

func (m *MockDBLayer) ListArtists(ctx context.Context, genre string) ([]models.Artist, error) {
	args := m.Called(ctx, genre)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Artist), args.Error(1)
}

func (m *MockDBLayer) CreateEvent(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockDBLayer) GetEventByID(ctx context.Context, id string) (*models.Event, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockDBLayer) UpdateEvent(ctx context.Context, event models.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockDBLayer) ListEvents(ctx context.Context, filter models.EventFilter) ([]models.Event, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func (m *MockDBLayer) ListEventsByVenue(ctx context.Context, venueID string) ([]models.Event, error) {
	args := m.Called(ctx, venueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Event), args.Error(1)
}

func newTestService() (*catalog.Service, *MockDBLayer) {
	db := new(MockDBLayer)
	return catalog.NewService(db, logger.NewLogger()), db
}

func approvedOwner() *identity.Session {
	return &identity.Session{
		PrincipalID:        "owner001",
		Role:               models.RoleVenueOwner,
		VerificationStatus: models.VerificationApproved,
	}
}

func pendingOwner() *identity.Session {
	return &identity.Session{
		PrincipalID:        "owner002",
		Role:               models.RoleVenueOwner,
		VerificationStatus: models.VerificationPending,
	}
}

func ownedVenue() *models.Venue {
	return &models.Venue{ID: "venue001", OwnerID: "owner001", Name: "The Velvet Room", Address: "Main St 1", Capacity: 350}
}

func scheduledEvent() *models.Event {
	return &models.Event{
		ID:        "event001",
		VenueID:   "venue001",
		ArtistID:  "artist001",
		Name:      "Night Owls Live",
		EventDate: time.Now().AddDate(0, 1, 0),
		Status:    models.EventScheduled,
	}
}

func TestCreateVenueRequiresApprovedOwner(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateVenue(context.Background(), pendingOwner(), models.VenueRequest{
		Name: "The Velvet Room", Address: "Main St 1", Capacity: 350,
	})
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
}

func TestCreateVenueValidatesInput(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateVenue(context.Background(), approvedOwner(), models.VenueRequest{
		Name: "", Address: "Main St 1", Capacity: 350,
	})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)

	_, err = svc.CreateVenue(context.Background(), approvedOwner(), models.VenueRequest{
		Name: "The Velvet Room", Address: "Main St 1", Capacity: 0,
	})
	assert.ErrorIs(t, err, errs.ErrInvalidInput)
}

func TestCreateVenueAssignsOwner(t *testing.T) {
	svc, db := newTestService()

	var created models.Venue
	db.On("CreateVenue", mock.Anything, mock.AnythingOfType("models.Venue")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(models.Venue)
		}).Return(nil)

	venue, err := svc.CreateVenue(context.Background(), approvedOwner(), models.VenueRequest{
		Name: "The Velvet Room", Address: "Main St 1", City: "Rotterdam", Capacity: 350,
	})

	assert.NoError(t, err)
	assert.Equal(t, "owner001", venue.OwnerID)
	assert.Equal(t, created.ID, venue.ID)
}

func TestUpdateVenueRejectsNonOwner(t *testing.T) {
	svc, db := newTestService()

	db.On("GetVenueByID", mock.Anything, "venue001").Return(ownedVenue(), nil)

	other := &identity.Session{
		PrincipalID:        "owner999",
		Role:               models.RoleVenueOwner,
		VerificationStatus: models.VerificationApproved,
	}
	_, err := svc.UpdateVenue(context.Background(), other, "venue001", models.VenueRequest{Name: "New Name"})
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
}

func TestCreateEventOnForeignVenueFails(t *testing.T) {
	svc, db := newTestService()

	foreign := ownedVenue()
	foreign.OwnerID = "owner999"
	db.On("GetVenueByID", mock.Anything, "venue001").Return(foreign, nil)

	_, err := svc.CreateEvent(context.Background(), approvedOwner(), models.EventCreateRequest{
		Name: "Night Owls Live", VenueID: "venue001", ArtistID: "artist001", EventDate: time.Now(),
	})
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
}

func TestCreateEventStartsScheduled(t *testing.T) {
	svc, db := newTestService()

	db.On("GetVenueByID", mock.Anything, "venue001").Return(ownedVenue(), nil)
	db.On("CreateEvent", mock.Anything, mock.AnythingOfType("models.Event")).Return(nil)

	event, err := svc.CreateEvent(context.Background(), approvedOwner(), models.EventCreateRequest{
		Name: "Night Owls Live", VenueID: "venue001", ArtistID: "artist001", EventDate: time.Now().AddDate(0, 1, 0),
	})

	assert.NoError(t, err)
	assert.Equal(t, models.EventScheduled, event.Status)
}

func TestPublishEventMakesBookable(t *testing.T) {
	svc, db := newTestService()

	db.On("GetEventByID", mock.Anything, "event001").Return(scheduledEvent(), nil)
	db.On("GetVenueByID", mock.Anything, "venue001").Return(ownedVenue(), nil)
	db.On("UpdateEvent", mock.Anything, mock.AnythingOfType("models.Event")).Return(nil)

	event, err := svc.PublishEvent(context.Background(), approvedOwner(), "event001")
	assert.NoError(t, err)
	assert.Equal(t, models.EventPublished, event.Status)
}

func TestPublishEventTwiceConflicts(t *testing.T) {
	svc, db := newTestService()

	published := scheduledEvent()
	published.Status = models.EventPublished
	db.On("GetEventByID", mock.Anything, "event001").Return(published, nil)
	db.On("GetVenueByID", mock.Anything, "venue001").Return(ownedVenue(), nil)

	_, err := svc.PublishEvent(context.Background(), approvedOwner(), "event001")
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestCancelEventFromPublished(t *testing.T) {
	svc, db := newTestService()

	published := scheduledEvent()
	published.Status = models.EventPublished
	db.On("GetEventByID", mock.Anything, "event001").Return(published, nil)
	db.On("GetVenueByID", mock.Anything, "venue001").Return(ownedVenue(), nil)
	db.On("UpdateEvent", mock.Anything, mock.AnythingOfType("models.Event")).Return(nil)

	event, err := svc.CancelEvent(context.Background(), approvedOwner(), "event001")
	assert.NoError(t, err)
	assert.Equal(t, models.EventCanceled, event.Status)
}

func TestCancelCanceledEventConflicts(t *testing.T) {
	svc, db := newTestService()

	canceled := scheduledEvent()
	canceled.Status = models.EventCanceled
	db.On("GetEventByID", mock.Anything, "event001").Return(canceled, nil)
	db.On("GetVenueByID", mock.Anything, "venue001").Return(ownedVenue(), nil)

	_, err := svc.CancelEvent(context.Background(), approvedOwner(), "event001")
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestUpdateEventRejectsTerminalStatus(t *testing.T) {
	svc, db := newTestService()

	done := scheduledEvent()
	done.Status = models.EventCompleted
	db.On("GetEventByID", mock.Anything, "event001").Return(done, nil)
	db.On("GetVenueByID", mock.Anything, "venue001").Return(ownedVenue(), nil)

	_, err := svc.UpdateEvent(context.Background(), approvedOwner(), "event001", models.EventUpdateRequest{Name: "Renamed"})
	assert.ErrorIs(t, err, errs.ErrConflict)
}

func TestListMyVenuesRequiresOwnerRole(t *testing.T) {
	svc, _ := newTestService()

	fan := &identity.Session{PrincipalID: "fan001", Role: models.RoleAudience}
	_, err := svc.ListMyVenues(context.Background(), fan)
	assert.ErrorIs(t, err, errs.ErrNotAuthorized)
}
