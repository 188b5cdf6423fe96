// main.go
package main

import (
	"context"
	"log"
	"strings"
	"time"

	"bus-booking/cmd"
	"bus-booking/internal/data/memstore"
	"bus-booking/internal/data/repository"
	"bus-booking/internal/domain/allocation"
	"bus-booking/internal/event"
	"bus-booking/internal/inventory"
	"bus-booking/internal/reservation"
	"bus-booking/internal/wire"
	"bus-booking/pkg/database"
	"bus-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("storage", config.App.StorageDriver),
		zap.String("lock_backend", config.Lock.Backend),
	)

	ctx := context.Background()
	var closers []func()

	// Storage
	var repos *repository.Repository
	switch strings.ToLower(config.App.StorageDriver) {
	case "memory":
		repos = memstore.New().Repository()
		logger.Warn("Using in-memory storage, data is lost on restart")
	default:
		db, err := database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		closers = append(closers, db.Close)
		logger.Info("Database connected successfully")

		if config.Database.Migrate {
			if err := database.Migrate(ctx, db); err != nil {
				logger.Fatal("Failed to migrate database", zap.Error(err))
			}
		}
		repos = repository.NewRepository(db, logger)
	}

	// Per-bus critical section
	var locker reservation.Locker = reservation.NewLocalLocker()
	if strings.EqualFold(config.Lock.Backend, "redis") {
		client, err := database.InitRedis(config.Redis)
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		closers = append(closers, func() { client.Close() })
		locker = reservation.NewRedisLocker(client, config.Lock.TTL, logger)
		logger.Info("Redis seat lock enabled", zap.String("addr", config.Redis.Addr))
	}

	// Booking events
	var publisher event.Publisher = event.NewLogPublisher(logger)
	if config.AMQP.URL != "" {
		amqpPublisher, err := event.NewAMQPPublisher(config.AMQP.URL, config.AMQP.Queue, logger)
		if err != nil {
			logger.Fatal("Failed to connect to message broker", zap.Error(err))
		}
		publisher = amqpPublisher
	}
	closers = append(closers, func() {
		if err := publisher.Close(); err != nil {
			logger.Warn("Failed to close event publisher", zap.Error(err))
		}
	})

	mode, err := allocation.ParseAdjacencyMode(config.Booking.AdjacencyPolicy)
	if err != nil {
		logger.Fatal("Invalid booking config", zap.Error(err))
	}

	coord := reservation.NewCoordinator(repos, locker, publisher, reservation.Config{
		Policy:   allocation.Policy{Adjacency: mode},
		LockWait: config.Lock.Wait,
	}, logger)

	if config.App.SeedDemo {
		bus, created, err := inventory.SeedDemoBus(ctx, repos, time.Now())
		if err != nil {
			logger.Fatal("Failed to seed demo bus", zap.Error(err))
		}
		if _, err := coord.EnsureLayout(ctx, bus.ID); err != nil {
			logger.Fatal("Failed to lay out demo bus", zap.Error(err))
		}
		logger.Info("Demo bus ready", zap.String("bus_id", bus.ID.String()), zap.Bool("created", created))
	}

	// Wire all dependencies
	app := wire.Wiring(repos, coord, config, logger)

	// Start server
	if err := cmd.APIServer(app.Router, config.App.Port, logger, closers...); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
