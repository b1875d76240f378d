package main

import (
	"context"

	"bookable/internal/availability/handler"
	"bookable/internal/availability/repository"
	"bookable/internal/availability/service"
	"bookable/internal/availability/validator"
	sellerrepo "bookable/internal/sellers/repository"
	"bookable/pkg/app"
	"bookable/pkg/calendar"
	"bookable/pkg/config"
)

const ServiceName = "availability"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Availability service")
	availabilityService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAvailabilityHandler(availabilityService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.AvailabilityService {
	availabilityRepo := repository.NewMongoAvailabilityRepository(cfg)
	if err := availabilityRepo.EnsureIndexes(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to ensure availability indexes", "error", err)
	}

	availabilityService := service.NewAvailabilityService(
		availabilityRepo,
		sellerrepo.NewMongoSellerRepository(cfg),
		repository.NewMongoAccountRepository(cfg),
		calendar.NewGoogleProvider(cfg.CalendarBaseURL, cfg.CalendarTimeout),
		validator.NewAvailabilityValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Availability service initialized", "database", cfg.MongoDatabaseName)
	return availabilityService
}
