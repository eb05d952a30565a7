package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"stagelink/internal/catalog"
	"stagelink/internal/errs"
	"stagelink/internal/identity"
)

// Service aggregates booking data for venue owners
type Service struct {
	db      *bun.DB
	catalog *catalog.Service
}

func NewService(db *bun.DB, cat *catalog.Service) *Service {
	return &Service{db: db, catalog: cat}
}

// EventSalesReport represents aggregated sales data for an event
type EventSalesReport struct {
	EventID     string             `json:"event_id"`
	TicketsSold int                `json:"tickets_sold"`
	Revenue     float64            `json:"revenue"`
	TicketsLeft int                `json:"tickets_left"`
	DailySales  []DailySalesMetric `json:"daily_sales"`
	SalesByType []TypeSalesMetric  `json:"sales_by_type"`
}

// TypeSalesMetric contains sales metrics for one ticket type
type TypeSalesMetric struct {
	TicketTypeID string  `json:"ticket_type_id"`
	Label        string  `json:"label"`
	TicketsSold  int     `json:"tickets_sold"`
	Revenue      float64 `json:"revenue"`
}

// DailySalesMetric contains metrics for a single day
type DailySalesMetric struct {
	Date        string  `json:"date"`
	Revenue     float64 `json:"revenue"`
	TicketsSold int     `json:"tickets_sold"`
}

// VenueSalesReport rolls sales up across all of a venue's events
type VenueSalesReport struct {
	VenueID     string              `json:"venue_id"`
	TicketsSold int                 `json:"tickets_sold"`
	Revenue     float64             `json:"revenue"`
	Events      []EventSalesSummary `json:"events"`
}

// EventSalesSummary contains basic sales information for one event
type EventSalesSummary struct {
	EventID     string  `json:"event_id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"`
	TicketsSold int     `json:"tickets_sold"`
	Revenue     float64 `json:"revenue"`
}

// GetEventSales returns sales analytics for one event. Only the owner
// of the event's venue may read it.
func (s *Service) GetEventSales(ctx context.Context, session *identity.Session, eventID string) (*EventSalesReport, error) {
	if err := s.requireEventOwner(ctx, session, eventID); err != nil {
		return nil, err
	}

	var totals struct {
		TicketsSold int     `bun:"tickets_sold"`
		Revenue     float64 `bun:"revenue"`
	}
	err := s.db.NewRaw(`
		SELECT
			COALESCE(SUM(quantity), 0) AS tickets_sold,
			COALESCE(SUM(total_price), 0) AS revenue
		FROM bookings
		WHERE event_id = ?
	`, eventID).Scan(ctx, &totals)
	if err != nil {
		return nil, err
	}

	var ticketsLeft int
	err = s.db.NewRaw(`
		SELECT COALESCE(SUM(quantity_remaining), 0) FROM ticket_types WHERE event_id = ?
	`, eventID).Scan(ctx, &ticketsLeft)
	if err != nil {
		return nil, err
	}

	type dailySalesRaw struct {
		SalesDate     time.Time `bun:"sales_date"`
		DailyRevenue  float64   `bun:"daily_revenue"`
		DailyQuantity int       `bun:"daily_quantity"`
	}
	var dailySales []dailySalesRaw
	err = s.db.NewRaw(`
		SELECT
			DATE(created_at) AS sales_date,
			SUM(total_price) AS daily_revenue,
			SUM(quantity) AS daily_quantity
		FROM bookings
		WHERE event_id = ?
		GROUP BY DATE(created_at)
		ORDER BY sales_date
	`, eventID).Scan(ctx, &dailySales)
	if err != nil {
		return nil, err
	}

	type typeSalesRaw struct {
		TicketTypeID string  `bun:"ticket_type_id"`
		Label        string  `bun:"label"`
		TicketCount  int     `bun:"ticket_count"`
		TypeRevenue  float64 `bun:"type_revenue"`
	}
	var typeSales []typeSalesRaw
	err = s.db.NewRaw(`
		SELECT
			tt.id AS ticket_type_id,
			tt.label,
			COALESCE(SUM(b.quantity), 0) AS ticket_count,
			COALESCE(SUM(b.total_price), 0) AS type_revenue
		FROM ticket_types tt
		LEFT JOIN bookings b ON b.ticket_type_id = tt.id
		WHERE tt.event_id = ?
		GROUP BY tt.id, tt.label
		ORDER BY tt.label
	`, eventID).Scan(ctx, &typeSales)
	if err != nil {
		return nil, err
	}

	report := &EventSalesReport{
		EventID:     eventID,
		TicketsSold: totals.TicketsSold,
		Revenue:     totals.Revenue,
		TicketsLeft: ticketsLeft,
		DailySales:  make([]DailySalesMetric, 0, len(dailySales)),
		SalesByType: make([]TypeSalesMetric, 0, len(typeSales)),
	}

	for _, ds := range dailySales {
		report.DailySales = append(report.DailySales, DailySalesMetric{
			Date:        ds.SalesDate.Format("2006-01-02"),
			Revenue:     ds.DailyRevenue,
			TicketsSold: ds.DailyQuantity,
		})
	}
	for _, ts := range typeSales {
		report.SalesByType = append(report.SalesByType, TypeSalesMetric{
			TicketTypeID: ts.TicketTypeID,
			Label:        ts.Label,
			TicketsSold:  ts.TicketCount,
			Revenue:      ts.TypeRevenue,
		})
	}
	return report, nil
}

// GetVenueSales returns the per-event rollup for one venue.
func (s *Service) GetVenueSales(ctx context.Context, session *identity.Session, venueID string) (*VenueSalesReport, error) {
	venue, err := s.catalog.GetVenue(ctx, venueID)
	if err != nil {
		return nil, err
	}
	if venue.OwnerID != session.PrincipalID {
		return nil, fmt.Errorf("venue %s is not owned by caller: %w", venueID, errs.ErrNotAuthorized)
	}

	type eventSalesRaw struct {
		EventID     string  `bun:"event_id"`
		Name        string  `bun:"name"`
		Status      string  `bun:"status"`
		TicketCount int     `bun:"ticket_count"`
		Revenue     float64 `bun:"revenue"`
	}
	var rows []eventSalesRaw
	err = s.db.NewRaw(`
		SELECT
			e.id AS event_id,
			e.name,
			e.status,
			COALESCE(SUM(b.quantity), 0) AS ticket_count,
			COALESCE(SUM(b.total_price), 0) AS revenue
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id
		WHERE e.venue_id = ?
		GROUP BY e.id, e.name, e.status
		ORDER BY e.id
	`, venueID).Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}

	report := &VenueSalesReport{
		VenueID: venueID,
		Events:  make([]EventSalesSummary, 0, len(rows)),
	}
	for _, row := range rows {
		report.TicketsSold += row.TicketCount
		report.Revenue += row.Revenue
		report.Events = append(report.Events, EventSalesSummary{
			EventID:     row.EventID,
			Name:        row.Name,
			Status:      row.Status,
			TicketsSold: row.TicketCount,
			Revenue:     row.Revenue,
		})
	}
	return report, nil
}

func (s *Service) requireEventOwner(ctx context.Context, session *identity.Session, eventID string) error {
	event, err := s.catalog.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	venue, err := s.catalog.GetVenue(ctx, event.VenueID)
	if err != nil {
		return err
	}
	if venue.OwnerID != session.PrincipalID {
		return fmt.Errorf("event %s is not owned by caller: %w", eventID, errs.ErrNotAuthorized)
	}
	return nil
}
