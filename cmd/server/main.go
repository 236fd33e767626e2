package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/arpay/arpay/internal/api"
	v1 "github.com/arpay/arpay/internal/api/v1"
	"github.com/arpay/arpay/internal/config"
	"github.com/arpay/arpay/internal/domain/invoice"
	"github.com/arpay/arpay/internal/domain/user"
	"github.com/arpay/arpay/internal/logger"
	"github.com/arpay/arpay/internal/postgres"
	"github.com/arpay/arpay/internal/repository"
	"github.com/arpay/arpay/internal/service"
	"github.com/arpay/arpay/internal/validator"
)

// @title Arpay Invoice API
// @version 1.0
// @description Invoice lifecycle service for the Arpay back office
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			provideLogger,

			// Postgres
			postgres.NewDB,

			// Repositories
			repository.NewInvoiceRepository,
			repository.NewUserRepository,

			// Services
			provideServiceParams,
			service.NewInvoiceService,

			// API
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func provideLogger(cfg *config.Configuration) (*logger.Logger, error) {
	return logger.NewLogger(logger.Config{Level: cfg.Logging.Level})
}

func provideServiceParams(
	cfg *config.Configuration,
	log *logger.Logger,
	db *postgres.DB,
	invoiceRepo invoice.Repository,
	userRepo user.Repository,
) service.ServiceParams {
	return service.ServiceParams{
		Logger:      log,
		Config:      cfg,
		DB:          db,
		InvoiceRepo: invoiceRepo,
		UserRepo:    userRepo,
	}
}

func provideHandlers(invoiceService service.InvoiceService, log *logger.Logger) api.Handlers {
	return api.Handlers{
		Invoice: v1.NewInvoiceHandler(invoiceService, log),
	}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			return db.Close()
		},
	})
}
