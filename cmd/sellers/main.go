package main

import (
	"context"

	"bookable/internal/sellers/handler"
	"bookable/internal/sellers/repository"
	"bookable/internal/sellers/service"
	"bookable/internal/sellers/validator"
	"bookable/pkg/app"
	"bookable/pkg/config"
)

const ServiceName = "sellers"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()

	cfg.Log.Info("Starting Sellers service")
	sellerService := initServices(cfg)
	serverApp := app.NewApplication(cfg)
	serverApp.SetApp(handler.NewSellerHandler(sellerService, cfg.Log))
	serverApp.Run()
}

func initServices(cfg *config.Config) service.SellerService {
	sellerRepo := repository.NewMongoSellerRepository(cfg)
	if err := sellerRepo.EnsureIndexes(context.Background()); err != nil {
		cfg.Log.Fatal("Failed to ensure seller indexes", "error", err)
	}

	sellerService := service.NewSellerService(
		sellerRepo,
		validator.NewSellerValidator(cfg.Log),
		cfg,
	)

	cfg.Log.Info("Seller service initialized", "database", cfg.MongoDatabaseName)
	return sellerService
}
