package chat

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
	CreateMessage(ctx context.Context, message models.Message) error
	ListMessagesByRequest(ctx context.Context, requestID string) ([]models.Message, error)
	MarkRead(ctx context.Context, requestID, viewerID string) error
}

type KafkaPublisher interface {
	PublishMessageSent(message models.Message) error
}

// RequestGate resolves the request a thread hangs off and its two
// participants.
type RequestGate interface {
	GetByID(ctx context.Context, requestID string) (*models.PerformanceRequest, error)
	Participants(ctx context.Context, request *models.PerformanceRequest) (artistID, ownerID string, err error)
}

type Service struct {
	DB       DBLayer
	Kafka    KafkaPublisher
	Requests RequestGate
	Logger   *logger.Logger
}

func NewService(db DBLayer, kafka KafkaPublisher, requests RequestGate, log *logger.Logger) *Service {
	return &Service{DB: db, Kafka: kafka, Requests: requests, Logger: log}
}

// Send posts a message on a request's thread. The thread only exists
// while the request is accepted, and only its two participants may
// write; the receiver is always the other participant.
func (s *Service) Send(ctx context.Context, session *identity.Session, requestID, content string) (*models.Message, error) {
	if content == "" {
		return nil, fmt.Errorf("message content is required: %w", errs.ErrInvalidInput)
	}

	receiverID, err := s.authorize(ctx, session, requestID)
	if err != nil {
		return nil, err
	}

	message := models.Message{
		ID:         utils.NewID(),
		RequestID:  requestID,
		SenderID:   session.PrincipalID,
		ReceiverID: receiverID,
		Content:    content,
		CreatedAt:  time.Now(),
	}

	if err := s.DB.CreateMessage(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	s.Logger.LogChat("SEND", requestID, fmt.Sprintf("from=%s to=%s", message.SenderID, message.ReceiverID))

	if s.Kafka != nil {
		if err := s.Kafka.PublishMessageSent(message); err != nil {
			s.Logger.Error("KAFKA", fmt.Sprintf("publish message sent failed: %v", err))
		}
	}
	return &message, nil
}

// Retrieve returns a thread's messages oldest first and marks the
// ones addressed to the caller as read.
func (s *Service) Retrieve(ctx context.Context, session *identity.Session, requestID string) ([]models.Message, error) {
	if _, err := s.authorize(ctx, session, requestID); err != nil {
		return nil, err
	}

	messages, err := s.DB.ListMessagesByRequest(ctx, requestID)
	if err != nil {
		return nil, err
	}

	if err := s.DB.MarkRead(ctx, requestID, session.PrincipalID); err != nil {
		// Reads still succeed when the flag update fails.
		s.Logger.Error("CHAT", fmt.Sprintf("mark read failed for request %s: %v", requestID, err))
	}
	return messages, nil
}

// Authorize reports whether the caller may attach to the thread. It
// is exported for the SSE handler, which gates subscriptions the same
// way as reads.
func (s *Service) Authorize(ctx context.Context, session *identity.Session, requestID string) error {
	_, err := s.authorize(ctx, session, requestID)
	return err
}

// authorize returns the id of the other participant.
func (s *Service) authorize(ctx context.Context, session *identity.Session, requestID string) (string, error) {
	request, err := s.Requests.GetByID(ctx, requestID)
	if err != nil {
		return "", err
	}

	artistID, ownerID, err := s.Requests.Participants(ctx, request)
	if err != nil {
		return "", err
	}

	var other string
	switch session.PrincipalID {
	case artistID:
		other = ownerID
	case ownerID:
		other = artistID
	default:
		return "", fmt.Errorf("caller is not a participant of request %s: %w", requestID, errs.ErrNotAuthorized)
	}

	if request.Status != models.RequestAccepted {
		return "", fmt.Errorf("chat requires an accepted request (status %s): %w", request.Status, errs.ErrNotAuthorized)
	}
	return other, nil
}
