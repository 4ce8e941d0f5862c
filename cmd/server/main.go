package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"fleetride/internal/app"
	"fleetride/internal/config"
	"fleetride/internal/handler"
	internalRedis "fleetride/internal/redis"
	"fleetride/internal/repository/postgres"
	"fleetride/internal/service"
)

func main() {
	// Load .env if present; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// New Relic first so the database driver can be instrumented.
	var nrApp *newrelic.Application
	var err error
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			log.Printf("failed to initialize New Relic: %v", err)
		} else {
			log.Printf("New Relic enabled: app=%s", cfg.NewRelic.AppName)
		}
	}

	db, err := app.NewDatabase(ctx, cfg.Database, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	log.Println("Connected to PostgreSQL")

	redisClient, err := app.NewRedisClient(ctx, cfg.Redis, nrApp)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	log.Println("Connected to Redis")

	server := wireServer(db, redisClient, nrApp, cfg)

	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}

// wireServer wires all dependencies and returns the HTTP server.
func wireServer(db *sql.DB, redisClient *redis.Client, nrApp *newrelic.Application, cfg *config.Config) *http.Server {
	// Redis stores.
	telemetryStore := internalRedis.NewTelemetryStore(redisClient)
	lockStore := internalRedis.NewLockStore(redisClient)
	availabilityCache := internalRedis.NewAvailabilityCache(redisClient)

	// Repositories.
	userRepo := postgres.NewUserRepository(db)
	vehicleRepo := postgres.NewVehicleRepository(db)
	rideRepo := postgres.NewRideRepository(db)
	mileageRepo := postgres.NewMileageRepository(db)
	dailyRideRepo := postgres.NewDailyRideRepository(db)
	txRunner := postgres.NewTxRunner(db)

	// Services.
	notificationService := service.NewNotificationService()
	registryService := service.NewRegistryService(
		userRepo, vehicleRepo, telemetryStore, availabilityCache, cfg.Telemetry.StaleAfter)
	rideService := service.NewRideService(rideRepo, notificationService, cfg.Rides.PMApprovalThresholdKm)
	mileageService := service.NewMileageService(
		mileageRepo, dailyRideRepo, vehicleRepo, userRepo, cfg.Transport.Sites)
	assignmentService := service.NewAssignmentService(
		txRunner, rideRepo, userRepo, vehicleRepo, registryService,
		lockStore, availabilityCache, notificationService)
	lifecycleService := service.NewLifecycleService(
		txRunner, rideRepo, mileageService, availabilityCache, notificationService)

	// Handlers.
	userHandler := handler.NewUserHandler(userRepo)
	rideHandler := handler.NewRideHandler(rideService, assignmentService, lifecycleService)
	driverHandler := handler.NewDriverHandler(registryService)
	vehicleHandler := handler.NewVehicleHandler(registryService, mileageService, vehicleRepo)
	dailyRideHandler := handler.NewDailyRideHandler(mileageService)

	router := app.NewRouter(app.RouterDeps{
		UserHandler:      userHandler,
		RideHandler:      rideHandler,
		DriverHandler:    driverHandler,
		VehicleHandler:   vehicleHandler,
		DailyRideHandler: dailyRideHandler,
		RedisClient:      redisClient,
		NewRelicApp:      nrApp,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}
