package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Booking statuses. Bookings are immutable once created; there is no
// cancellation or refund path and inventory is never restored.
const BookingConfirmed = "confirmed"

type Booking struct {
	bun.BaseModel `bun:"table:bookings"`

	ID           string    `bun:"id,pk" json:"id"`
	TicketTypeID string    `bun:"ticket_type_id,notnull" json:"ticket_type_id"`
	EventID      string    `bun:"event_id,notnull" json:"event_id"`
	BuyerID      string    `bun:"buyer_id,notnull" json:"buyer_id"`
	Quantity     int       `bun:"quantity,notnull" json:"quantity"`
	TotalPrice   float64   `bun:"total_price,notnull" json:"total_price"`
	Status       string    `bun:"status,notnull" json:"status"`
	CreatedAt    time.Time `bun:"created_at,notnull" json:"created_at"`

	TicketType *TicketType `bun:"rel:belongs-to,join:ticket_type_id=id" json:"ticket_type,omitempty"`
	Buyer      *Profile    `bun:"rel:belongs-to,join:buyer_id=id" json:"buyer,omitempty"`
}

type BookingRequest struct {
	TicketTypeID string `json:"ticket_type_id"`
	Quantity     int    `json:"quantity"`
}

// BookingResponse carries the persisted booking plus the encrypted QR
// confirmation handed to the buyer.
type BookingResponse struct {
	Booking Booking `json:"booking"`
	QRCode  []byte  `json:"qr_code,omitempty"`
}
