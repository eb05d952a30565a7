package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"stagelink/internal/config"
	"stagelink/internal/logger"
	"stagelink/internal/models"
	"stagelink/internal/realtime"
)

// EventResolver maps a booking back to the venue whose dashboard
// should see it.
type EventResolver interface {
	GetEvent(ctx context.Context, id string) (*models.Event, error)
}

// Consumer bridges the committed-state topics into the SSE emitter so
// dashboard and chat streams survive multi-instance deployments.
type Consumer struct {
	reader  *kafka.Reader
	topics  config.TopicConfig
	emitter *realtime.Emitter
	catalog EventResolver
	Logger  *logger.Logger
}

func NewConsumer(brokers []string, groupID string, topics config.TopicConfig, emitter *realtime.Emitter, catalog EventResolver, log *logger.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		GroupTopics: []string{topics.RequestUpdated, topics.BookingCreated, topics.MessageSent},
		MinBytes:    10e3, // 10KB
		MaxBytes:    10e6, // 10MB
	})
	return &Consumer{reader: reader, topics: topics, emitter: emitter, catalog: catalog, Logger: log}
}

// Start consumes until the context is canceled. Malformed messages
// are logged and skipped.
func (c *Consumer) Start(ctx context.Context) {
	c.Logger.LogKafka("CONSUME", c.reader.Config().GroupID, "consumer started")

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			c.Logger.Error("KAFKA", fmt.Sprintf("error reading message: %v", err))
			// Back off so a down broker does not flood the log.
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}
		c.dispatch(ctx, msg)
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg kafka.Message) {
	switch msg.Topic {
	case c.topics.RequestUpdated:
		var request models.PerformanceRequest
		if err := json.Unmarshal(msg.Value, &request); err != nil {
			c.Logger.Error("KAFKA", fmt.Sprintf("failed to unmarshal request event: %v", err))
			return
		}
		c.emitter.EmitDashboardEvent(realtime.DashboardEvent{
			Type:    realtime.EventRequestUpdated,
			VenueID: request.VenueID,
			Payload: request,
		})

	case c.topics.BookingCreated:
		var booking models.Booking
		if err := json.Unmarshal(msg.Value, &booking); err != nil {
			c.Logger.Error("KAFKA", fmt.Sprintf("failed to unmarshal booking event: %v", err))
			return
		}
		event, err := c.catalog.GetEvent(ctx, booking.EventID)
		if err != nil {
			c.Logger.Error("KAFKA", fmt.Sprintf("failed to resolve event %s for booking: %v", booking.EventID, err))
			return
		}
		c.emitter.EmitDashboardEvent(realtime.DashboardEvent{
			Type:    realtime.EventBookingCreated,
			VenueID: event.VenueID,
			Payload: booking,
		})

	case c.topics.MessageSent:
		var message models.Message
		if err := json.Unmarshal(msg.Value, &message); err != nil {
			c.Logger.Error("KAFKA", fmt.Sprintf("failed to unmarshal chat message event: %v", err))
			return
		}
		c.emitter.EmitMessage(message)
	}
}

// Close gracefully shuts down the Kafka reader
func (c *Consumer) Close() error {
	return c.reader.Close()
}
