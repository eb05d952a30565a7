package models

import (
	"time"

	"github.com/uptrace/bun"
)

// TicketType is a priced, quantity-limited admission category for one
// event. QuantityRemaining is the sole source of truth for
// availability; it only ever decreases, and only via the conditional
// decrement in the booking path.
type TicketType struct {
	bun.BaseModel `bun:"table:ticket_types"`

	ID                string    `bun:"id,pk" json:"id"`
	EventID           string    `bun:"event_id,notnull" json:"event_id"`
	Label             string    `bun:"label,notnull" json:"label"`
	Price             float64   `bun:"price,notnull" json:"price"`
	QuantityTotal     int       `bun:"quantity_total,notnull" json:"quantity_total"`
	QuantityRemaining int       `bun:"quantity_remaining,notnull" json:"quantity_remaining"`
	CreatedAt         time.Time `bun:"created_at,notnull" json:"created_at"`

	Event *Event `bun:"rel:belongs-to,join:event_id=id" json:"event,omitempty"`
}

type TicketTypeRequest struct {
	Label    string  `json:"label"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}
