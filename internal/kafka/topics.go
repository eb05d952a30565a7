package kafka

import (
	"fmt"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"

	"stagelink/internal/config"
	"stagelink/internal/logger"
)

// EnsureTopicsExist creates the three event topics on the cluster
// controller if they are missing. Existing topics are left alone.
func EnsureTopicsExist(brokers []string, topics config.TopicConfig, log *logger.Logger) error {
	conn, err := kafka.Dial("tcp", brokers[0])
	if err != nil {
		return fmt.Errorf("failed to dial broker %s: %w", brokers[0], err)
	}
	defer conn.Close()

	controller, err := conn.Controller()
	if err != nil {
		return fmt.Errorf("failed to resolve cluster controller: %w", err)
	}
	controllerConn, err := kafka.Dial("tcp", fmt.Sprintf("%s:%d", controller.Host, controller.Port))
	if err != nil {
		return fmt.Errorf("failed to dial controller: %w", err)
	}
	defer controllerConn.Close()

	for _, topic := range []string{topics.RequestUpdated, topics.BookingCreated, topics.MessageSent} {
		err := controllerConn.CreateTopics(kafka.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
		switch {
		case err == nil:
			log.LogKafka("TOPIC", topic, "created")
		case strings.Contains(err.Error(), "already exists"):
			log.LogKafka("TOPIC", topic, "already exists")
		default:
			// Keep going; a missing topic surfaces again on first publish.
			log.Error("KAFKA", fmt.Sprintf("failed to create topic %s: %v", topic, err))
		}
	}

	// Give brokers a moment to propagate metadata before writers start.
	time.Sleep(1 * time.Second)
	return nil
}
