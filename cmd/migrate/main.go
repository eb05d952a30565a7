// Dev helper: drops, recreates and seeds the database using the bun
// models directly. Production deployments use the versioned SQL
// migrations under ./migrations instead.
package main

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"stagelink/internal/config"
	"stagelink/internal/models"
)

func main() {
	ctx := context.Background()

	_ = godotenv.Load()
	cfg := config.Load()

	connector := pgdriver.NewConnector(pgdriver.WithDSN(cfg.Database.DSN))
	sqldb := sql.OpenDB(connector)
	defer sqldb.Close()

	if err := sqldb.PingContext(ctx); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	db := bun.NewDB(sqldb, pgdialect.New())

	// Drop tables in reverse dependency order
	log.Println("Dropping tables...")
	_ = dropTables(ctx, db)

	// Create tables
	log.Println("Creating tables...")
	_ = createTables(ctx, db)

	// Seed sample data
	log.Println("Seeding sample data...")
	_ = seedData(ctx, db)

	log.Println("Done.")
}

func dropTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Message)(nil), (*models.Booking)(nil), (*models.TicketType)(nil),
		(*models.Event)(nil), (*models.PerformanceRequest)(nil), (*models.Venue)(nil),
		(*models.Artist)(nil), (*models.Profile)(nil),
	}
	for _, m := range tables {
		_, _ = db.NewDropTable().Model(m).IfExists().Cascade().Exec(ctx)
	}
	return nil
}

func createTables(ctx context.Context, db *bun.DB) error {
	tables := []interface{}{
		(*models.Profile)(nil), (*models.Artist)(nil), (*models.Venue)(nil),
		(*models.PerformanceRequest)(nil), (*models.Event)(nil), (*models.TicketType)(nil),
		(*models.Booking)(nil), (*models.Message)(nil),
	}
	for _, m := range tables {
		_, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx)
		if err != nil {
			log.Fatalf("Failed to create table for %T: %v", m, err)
		}
	}
	return nil
}

func seedData(ctx context.Context, db *bun.DB) error {
	now := time.Now()

	profiles := []models.Profile{
		{ID: "artist001", Role: models.RoleArtist, DisplayName: "The Night Owls", ContactEmail: "owls@example.com", VerificationStatus: models.VerificationNone, CreatedAt: now},
		{ID: "owner001", Role: models.RoleVenueOwner, DisplayName: "Mara Lindqvist", ContactEmail: "mara@example.com", VerificationStatus: models.VerificationApproved, CreatedAt: now},
		{ID: "fan001", Role: models.RoleAudience, DisplayName: "Sam Porter", ContactEmail: "sam@example.com", VerificationStatus: models.VerificationNone, CreatedAt: now},
	}
	_, _ = db.NewInsert().Model(&profiles).Exec(ctx)

	artist := models.Artist{
		ID:         "artist001",
		Bio:        "Indie rock four-piece.",
		Experience: "10 years touring",
		Genres:     []string{"indie", "rock"},
		CreatedAt:  now,
	}
	_, _ = db.NewInsert().Model(&artist).Exec(ctx)

	venue := models.Venue{
		ID:        "venue001",
		OwnerID:   "owner001",
		Name:      "The Velvet Room",
		Address:   "12 Harbor St",
		City:      "Gothenburg",
		Capacity:  350,
		Amenities: []string{"stage", "pa_system", "bar"},
		CreatedAt: now,
	}
	_, _ = db.NewInsert().Model(&venue).Exec(ctx)

	request := models.PerformanceRequest{
		ID:           "request001",
		ArtistID:     "artist001",
		VenueID:      "venue001",
		ProposedDate: now.AddDate(0, 1, 0),
		Initiator:    models.InitiatorArtist,
		Message:      "We would love to play a Friday slot.",
		Status:       models.RequestAccepted,
		CreatedAt:    now,
	}
	_, _ = db.NewInsert().Model(&request).Exec(ctx)

	event := models.Event{
		ID:          "event001",
		VenueID:     "venue001",
		ArtistID:    "artist001",
		RequestID:   "request001",
		Name:        "Night Owls Live",
		Description: "An evening of indie rock.",
		EventDate:   now.AddDate(0, 1, 0),
		DurationMin: 120,
		Status:      models.EventPublished,
		CreatedAt:   now,
	}
	_, _ = db.NewInsert().Model(&event).Exec(ctx)

	ticketTypes := []models.TicketType{
		{ID: "type001", EventID: "event001", Label: "General Admission", Price: 25, QuantityTotal: 300, QuantityRemaining: 300, CreatedAt: now},
		{ID: "type002", EventID: "event001", Label: "Balcony", Price: 40, QuantityTotal: 50, QuantityRemaining: 50, CreatedAt: now},
	}
	_, _ = db.NewInsert().Model(&ticketTypes).Exec(ctx)

	message := models.Message{
		ID:         "message001",
		RequestID:  "request001",
		SenderID:   "artist001",
		ReceiverID: "owner001",
		Content:    "Looking forward to the show!",
		CreatedAt:  now,
	}
	_, _ = db.NewInsert().Model(&message).Exec(ctx)

	return nil
}
