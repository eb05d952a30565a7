package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Message belongs to one performance request. Sender and receiver are
// always the two participants of that request, in either order.
type Message struct {
	bun.BaseModel `bun:"table:messages"`

	ID         string    `bun:"id,pk" json:"id"`
	RequestID  string    `bun:"request_id,notnull" json:"request_id"`
	SenderID   string    `bun:"sender_id,notnull" json:"sender_id"`
	ReceiverID string    `bun:"receiver_id,notnull" json:"receiver_id"`
	Content    string    `bun:"content,notnull" json:"content"`
	Read       bool      `bun:"read,notnull,default:false" json:"read"`
	CreatedAt  time.Time `bun:"created_at,notnull" json:"created_at"`
}

type MessageSendRequest struct {
	Content string `json:"content"`
}
