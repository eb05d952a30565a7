package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/segmentio/kafka-go"

	"stagelink/internal/config"
	"stagelink/internal/logger"
	"stagelink/internal/models"
)

// Producer owns one writer per topic. Events are published after the
// state change they describe has been committed.
type Producer struct {
	requestWriter *kafka.Writer
	bookingWriter *kafka.Writer
	messageWriter *kafka.Writer
	Logger        *logger.Logger
}

func NewProducer(brokers []string, topics config.TopicConfig, log *logger.Logger) *Producer {
	newWriter := func(topic string) *kafka.Writer {
		return kafka.NewWriter(kafka.WriterConfig{
			Brokers: brokers,
			Topic:   topic,
		})
	}
	return &Producer{
		requestWriter: newWriter(topics.RequestUpdated),
		bookingWriter: newWriter(topics.BookingCreated),
		messageWriter: newWriter(topics.MessageSent),
		Logger:        log,
	}
}

// PublishRequestUpdated streams a request state change, including
// creation, keyed by request id.
func (p *Producer) PublishRequestUpdated(request models.PerformanceRequest) error {
	return p.publish(p.requestWriter, request.ID, request)
}

// PublishBookingCreated streams a confirmed booking keyed by event id
// so all bookings of one event land on the same partition.
func (p *Producer) PublishBookingCreated(booking models.Booking) error {
	return p.publish(p.bookingWriter, booking.EventID, booking)
}

// PublishMessageSent streams a chat message keyed by request id.
func (p *Producer) PublishMessageSent(message models.Message) error {
	return p.publish(p.messageWriter, message.RequestID, message)
}

func (p *Producer) publish(writer *kafka.Writer, key string, payload interface{}) error {
	msgBytes, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	p.Logger.LogKafka("PUBLISH", writer.Topic, fmt.Sprintf("key=%s", key))

	return writer.WriteMessages(context.Background(),
		kafka.Message{
			Key:   []byte(key),
			Value: msgBytes,
		},
	)
}

// Close flushes and shuts down all writers.
func (p *Producer) Close() error {
	var firstErr error
	for _, w := range []*kafka.Writer{p.requestWriter, p.bookingWriter, p.messageWriter} {
		if err := w.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
