package main

import (
	"context"

	"bookable/internal/appointments/handler"
	"bookable/internal/appointments/repository"
	"bookable/internal/appointments/service"
	"bookable/internal/appointments/validator"
	availrepo "bookable/internal/availability/repository"
	sellerrepo "bookable/internal/sellers/repository"
	"bookable/pkg/app"
	"bookable/pkg/calendar"
	"bookable/pkg/config"
	"bookable/pkg/kafka"
)

const ServiceName = "appointments"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Appointments service")
	appointmentService, producer := initServices(cfg)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close event producer", "error", err)
		}
	}()

	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewAppointmentHandler(appointmentService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) (service.AppointmentService, *kafka.Producer) {
	appointmentRepo := repository.NewMongoAppointmentRepository(cfg)
	if err := appointmentRepo.EnsureIndexes(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to ensure appointment indexes", "error", err)
	}
	lockRepo := repository.NewMongoSlotLockRepository(cfg)
	if err := lockRepo.EnsureIndexes(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to ensure slot lock indexes", "error", err)
	}

	var producer *kafka.Producer
	if len(cfg.KafkaBrokers) > 0 {
		var err error
		producer, err = kafka.NewProducer(cfg.KafkaBrokers, cfg.AppointmentsTopic, cfg.Log)
		if err != nil {
			cfg.Log.Fatal("Failed to create event producer", "error", err)
		}
		cfg.Log.Info("Lifecycle event producer ready", "topic", cfg.AppointmentsTopic)
	} else {
		cfg.Log.Info("No Kafka brokers configured; lifecycle events disabled")
	}

	appointmentService := service.NewAppointmentService(
		appointmentRepo,
		lockRepo,
		availrepo.NewMongoAvailabilityRepository(cfg),
		sellerrepo.NewMongoSellerRepository(cfg),
		repository.NewMongoAccountRepository(cfg),
		calendar.NewGoogleProvider(cfg.CalendarBaseURL, cfg.CalendarTimeout),
		producer,
		validator.NewAppointmentValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Appointment service initialized", "database", cfg.MongoDatabaseName)
	return appointmentService, producer
}
