package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"stagelink/internal/analytics"
	"stagelink/internal/analytics/analytics_api"
	"stagelink/internal/auth"
	"stagelink/internal/booking"
	"stagelink/internal/booking/booking_api"
	bookingdb "stagelink/internal/booking/db"
	bookingredis "stagelink/internal/booking/redis"
	"stagelink/internal/catalog"
	"stagelink/internal/catalog/catalog_api"
	catalogdb "stagelink/internal/catalog/db"
	"stagelink/internal/chat"
	"stagelink/internal/chat/chat_api"
	chatdb "stagelink/internal/chat/db"
	"stagelink/internal/config"
	"stagelink/internal/database/migrations"
	"stagelink/internal/identity"
	identitydb "stagelink/internal/identity/db"
	"stagelink/internal/identity/identity_api"
	"stagelink/internal/kafka"
	"stagelink/internal/logger"
	"stagelink/internal/negotiation"
	negotiationdb "stagelink/internal/negotiation/db"
	"stagelink/internal/negotiation/negotiation_api"
	"stagelink/internal/realtime"
	"stagelink/internal/realtime/realtime_api"
)

func verifyConnections(ctx context.Context, cfg *config.Config, logger *logger.Logger) (*bun.DB, *redis.Client) {
	var sqldb *sql.DB
	var err error
	maxRetries := 5

	for i := 0; i < maxRetries; i++ {
		logger.Info("DATABASE", fmt.Sprintf("Attempting to connect to PostgreSQL (attempt %d/%d)", i+1, maxRetries))
		sqldb, err = sql.Open("postgres", cfg.Database.DSN)
		if err != nil {
			logger.Error("DATABASE", fmt.Sprintf("Failed to open PostgreSQL: %v", err))
			time.Sleep(2 * time.Second)
			continue
		}

		err = sqldb.Ping()
		if err == nil {
			break
		}

		logger.Error("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL: %v", err))
		if i < maxRetries-1 {
			time.Sleep(2 * time.Second)
		}
	}

	if err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Failed to connect to PostgreSQL after %d attempts: %v", maxRetries, err))
	}

	sqldb.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	sqldb.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqldb.SetConnMaxLifetime(cfg.Database.MaxLifetime)

	logger.Info("DATABASE", "PostgreSQL connection successful")

	bunDB := bun.NewDB(sqldb, pgdialect.New())

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Addr,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Fatal("DATABASE", fmt.Sprintf("Redis connection error: %v", err))
	}
	logger.Info("DATABASE", fmt.Sprintf("Redis connection successful to %s", cfg.Redis.Addr))

	return bunDB, redisClient
}

func main() {
	logger := logger.NewLogger()
	defer logger.Close()

	logger.Info("APP", "Starting StageLink service initialization")

	if err := godotenv.Load(); err != nil {
		logger.Warn("CONFIG", ".env file not found, using environment variables")
	} else {
		logger.Info("CONFIG", "Loaded environment variables from .env file")
	}

	cfg := config.Load()
	ctx := context.Background()

	logger.Info("APP", "Verifying database connections")
	bunDB, redisClient := verifyConnections(ctx, cfg, logger)
	defer bunDB.Close()
	defer redisClient.Close()

	if cfg.Database.AutoMigrate {
		runner := migrations.NewRunner(bunDB, migrations.DefaultOptions())
		if err := runner.RunMigrations(); err != nil {
			logger.Fatal("DATABASE", fmt.Sprintf("Migrations failed: %v", err))
		}
		logger.Info("DATABASE", "Migrations applied")
	}

	emitter := realtime.NewEmitter()

	identityService := identity.NewService(&identitydb.DB{Bun: bunDB}, logger)
	catalogService := catalog.NewService(&catalogdb.DB{Bun: bunDB}, logger)

	// With Kafka enabled, committed state changes travel through the
	// broker and the consumer feeds the SSE emitter, so streams work
	// across instances. Without it, a local publisher feeds the
	// emitter directly.
	var (
		requestPublisher negotiation.KafkaPublisher
		bookingPublisher booking.KafkaPublisher
		messagePublisher chat.KafkaPublisher
		producer         *kafka.Producer
		consumer         *kafka.Consumer
	)
	consumerCtx, stopConsumer := context.WithCancel(ctx)
	defer stopConsumer()

	if cfg.Kafka.Enabled {
		producer = kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topics, logger)
		logger.Info("KAFKA", "Kafka producer initialized successfully")

		if err := kafka.EnsureTopicsExist(cfg.Kafka.Brokers, cfg.Kafka.Topics, logger); err != nil {
			logger.Warn("KAFKA", fmt.Sprintf("Topic creation might have failed: %v", err))
		} else {
			logger.Info("KAFKA", "Required topics ensured successfully")
		}

		consumer = kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.Topics, emitter, catalogService, logger)
		go consumer.Start(consumerCtx)

		requestPublisher = producer
		bookingPublisher = producer
		messagePublisher = producer
	} else {
		logger.Warn("KAFKA", "Kafka disabled, using in-process event delivery")
		local := &realtime.LocalPublisher{Emitter: emitter, Catalog: catalogService}
		requestPublisher = local
		bookingPublisher = local
		messagePublisher = local
	}

	availability := bookingredis.NewAvailability(redisClient, cfg.Redis.AvailabilityTTL)
	bookingService := booking.NewService(&bookingdb.DB{Bun: bunDB}, availability, bookingPublisher, catalogService, cfg.Auth.QRSecret, logger)
	negotiationService := negotiation.NewService(&negotiationdb.DB{Bun: bunDB}, requestPublisher, identityService, catalogService, logger)
	chatService := chat.NewService(&chatdb.DB{Bun: bunDB}, messagePublisher, negotiationService, logger)
	analyticsService := analytics.NewService(bunDB, catalogService)

	identityHandler := &identity_api.Handler{Identity: identityService, Logger: logger}
	catalogHandler := &catalog_api.Handler{Catalog: catalogService, Identity: identityService, Logger: logger}
	bookingHandler := &booking_api.Handler{Booking: bookingService, Identity: identityService, Logger: logger}
	negotiationHandler := &negotiation_api.Handler{Negotiation: negotiationService, Identity: identityService, Logger: logger}
	chatHandler := &chat_api.Handler{Chat: chatService, Identity: identityService, Emitter: emitter, Logger: logger}
	analyticsHandler := &analytics_api.Handler{Analytics: analyticsService, Identity: identityService, Logger: logger}
	dashboardHandler := &realtime_api.Handler{Identity: identityService, Catalog: catalogService, Emitter: emitter, Logger: logger}

	logger.Info("HTTP", "Setting up router and middleware")
	r := chi.NewRouter()

	// --- Public Routes ---
	r.Route("/api/catalog", func(r chi.Router) {
		r.Get("/venues", catalogHandler.ListVenues)
		r.Get("/venues/{venueID}", catalogHandler.GetVenue)
		r.Get("/artists", catalogHandler.ListArtists)
		r.Get("/artists/{artistID}", catalogHandler.GetArtist)
		r.Get("/events", catalogHandler.ListEvents)
		r.Get("/events/{eventID}", catalogHandler.GetEvent)
	})
	logger.Info("ROUTER", "Public catalog endpoints registered under /api/catalog")

	// --- Protected Routes ---
	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware())
		logger.Info("AUTH", "OIDC middleware applied to protected API routes")

		r.Route("/api", func(r chi.Router) {
			r.Route("/profile", func(r chi.Router) {
				r.Post("/", identityHandler.CreateProfile)
				r.Get("/", identityHandler.GetMyProfile)
				r.Put("/", identityHandler.UpdateProfile)
			})
			r.Put("/artists/me", identityHandler.UpdateArtist)
			r.Put("/admin/verification/{profileID}", identityHandler.SetVerification)
			logger.Info("ROUTER", "Profile routes registered under /api/profile")

			r.Route("/venues", func(r chi.Router) {
				r.Get("/", catalogHandler.ListMyVenues)
				r.Post("/", catalogHandler.CreateVenue)
				r.Put("/{venueID}", catalogHandler.UpdateVenue)
				r.Get("/{venueID}/events", catalogHandler.ListVenueEvents)
			})

			r.Route("/events", func(r chi.Router) {
				r.Post("/", catalogHandler.CreateEvent)
				r.Put("/{eventID}", catalogHandler.UpdateEvent)
				r.Post("/{eventID}/publish", catalogHandler.PublishEvent)
				r.Post("/{eventID}/cancel", catalogHandler.CancelEvent)
				r.Post("/{eventID}/tickets", bookingHandler.CreateTicketType)
				r.Get("/{eventID}/tickets", bookingHandler.ListTicketTypes)
			})
			logger.Info("ROUTER", "Venue and event routes registered")

			r.Route("/bookings", func(r chi.Router) {
				r.Post("/", bookingHandler.Reserve)
				r.Get("/", bookingHandler.ListMyBookings)
				r.Get("/{bookingID}", bookingHandler.GetBooking)
			})

			r.Route("/requests", func(r chi.Router) {
				r.Post("/", negotiationHandler.CreateRequest)
				r.Get("/", negotiationHandler.ListMyRequests)
				r.Get("/{requestID}", negotiationHandler.GetRequest)
				r.Post("/{requestID}/respond", negotiationHandler.Respond)
				r.Post("/{requestID}/event", negotiationHandler.PromoteToEvent)
			})

			r.Route("/chat/{requestID}", func(r chi.Router) {
				r.Post("/messages", chatHandler.SendMessage)
				r.Get("/messages", chatHandler.GetThread)
				r.Get("/stream", chatHandler.StreamThread)
			})

			r.Get("/analytics/events/{eventID}", analyticsHandler.EventSales)
			r.Get("/analytics/venues/{venueID}", analyticsHandler.VenueSales)
			r.Get("/dashboard/venues/{venueID}/stream", dashboardHandler.StreamVenueDashboard)
			logger.Info("ROUTER", "Booking, request, chat and analytics routes registered")
		})
	})

	server := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		logger.Info("HTTP", fmt.Sprintf("StageLink service running on %s", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP", fmt.Sprintf("HTTP server error: %v", err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	logger.Info("APP", "Service started successfully, waiting for shutdown signal")
	<-stop

	logger.Info("APP", "Shutdown signal received, initiating graceful shutdown")
	ctxShutdown, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := server.Shutdown(ctxShutdown); err != nil {
		logger.Error("HTTP", fmt.Sprintf("Server Shutdown Failed: %v", err))
	} else {
		logger.Info("HTTP", "StageLink service shutdown complete")
	}

	stopConsumer()
	if consumer != nil {
		if err := consumer.Close(); err != nil {
			logger.Error("KAFKA", fmt.Sprintf("Consumer close failed: %v", err))
		}
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("KAFKA", fmt.Sprintf("Producer close failed: %v", err))
		}
	}
}
