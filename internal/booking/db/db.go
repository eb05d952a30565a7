package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"

	"stagelink/internal/errs"
	"stagelink/internal/models"
)

type DB struct {
	Bun *bun.DB
}

func (d *DB) CreateTicketType(ctx context.Context, ticket models.TicketType) error {
	_, err := d.Bun.NewInsert().Model(&ticket).Exec(ctx)
	return err
}

func (d *DB) GetTicketTypeByID(ctx context.Context, id string) (*models.TicketType, error) {
	var ticket models.TicketType
	err := d.Bun.NewSelect().
		Model(&ticket).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("ticket type %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (d *DB) ListTicketTypesByEvent(ctx context.Context, eventID string) ([]models.TicketType, error) {
	var tickets []models.TicketType
	err := d.Bun.NewSelect().
		Model(&tickets).
		Where("event_id = ?", eventID).
		Order("price ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

// ReserveTickets performs the reservation as one transaction: a
// conditional decrement of quantity_remaining followed by the booking
// insert. The decrement only matches rows that still have enough
// units, so two concurrent reservations can never jointly oversell;
// the loser sees zero rows affected and the transaction rolls back,
// leaving no orphan booking.
func (d *DB) ReserveTickets(ctx context.Context, booking *models.Booking) error {
	return d.Bun.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		res, err := tx.NewUpdate().
			Model((*models.TicketType)(nil)).
			Set("quantity_remaining = quantity_remaining - ?", booking.Quantity).
			Where("id = ?", booking.TicketTypeID).
			Where("quantity_remaining >= ?", booking.Quantity).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to decrement inventory: %w", err)
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to read rows affected: %w", err)
		}
		if affected == 0 {
			return errs.ErrInsufficientInventory
		}

		if _, err := tx.NewInsert().Model(booking).Exec(ctx); err != nil {
			return fmt.Errorf("failed to insert booking: %w", err)
		}
		return nil
	})
}

func (d *DB) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := d.Bun.NewSelect().
		Model(&booking).
		Where("id = ?", id).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("booking %s: %w", id, errs.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (d *DB) ListBookingsByBuyer(ctx context.Context, buyerID string) ([]models.Booking, error) {
	var bookings []models.Booking
	err := d.Bun.NewSelect().
		Model(&bookings).
		Where("buyer_id = ?", buyerID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	return bookings, nil
}
