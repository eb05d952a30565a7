package realtime

import (
	"context"
	"fmt"

	"stagelink/internal/models"
)

// EventResolver maps a booking back to the venue whose dashboard
// should see it.
type EventResolver interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
}

// LocalPublisher satisfies the services' publisher interfaces by
// feeding the in-process emitter directly. It stands in for the
// broker on single-instance deployments where Kafka is disabled.
type LocalPublisher struct {
	Emitter *Emitter
	Catalog EventResolver
}

func (p *LocalPublisher) PublishRequestUpdated(request models.PerformanceRequest) error {
	p.Emitter.EmitDashboardEvent(DashboardEvent{
		Type:    EventRequestUpdated,
		VenueID: request.VenueID,
		Payload: request,
	})
	return nil
}

func (p *LocalPublisher) PublishBookingCreated(booking models.Booking) error {
	event, err := p.Catalog.GetEvent(context.Background(), booking.EventID)
	if err != nil {
		return fmt.Errorf("failed to resolve event %s for booking: %w", booking.EventID, err)
	}
	p.Emitter.EmitDashboardEvent(DashboardEvent{
		Type:    EventBookingCreated,
		VenueID: event.VenueID,
		Payload: booking,
	})
	return nil
}

func (p *LocalPublisher) PublishMessageSent(message models.Message) error {
	p.Emitter.EmitMessage(message)
	return nil
}
