package db

import (
	"context"

	"github.com/uptrace/bun"

	"stagelink/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateMessage(ctx context.Context, message models.Message) error {
	_, err := d.Bun.NewInsert().Model(&message).Exec(ctx)
	return err
}

func (d *DB) ListMessagesByRequest(ctx context.Context, requestID string) ([]models.Message, error) {
	var messages []models.Message
	err := d.Bun.NewSelect().
		Model(&messages).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return messages, nil
}

// MarkRead flags every unread message addressed to the viewer in the
// thread. It is a set update, so concurrent viewers racing on the
// same thread are harmless.
func (d *DB) MarkRead(ctx context.Context, requestID, viewerID string) error {
	_, err := d.Bun.NewUpdate().
		Model((*models.Message)(nil)).
		Set("read = ?", true).
		Where("request_id = ?", requestID).
		Where("receiver_id = ?", viewerID).
		Where("read = ?", false).
		Exec(ctx)
	return err
}
