package service

import (
	"github.com/arpay/arpay/internal/config"
	"github.com/arpay/arpay/internal/domain/invoice"
	"github.com/arpay/arpay/internal/domain/user"
	"github.com/arpay/arpay/internal/logger"
	"github.com/arpay/arpay/internal/postgres"
)

// ServiceParams holds common dependencies shared by services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration
	DB     postgres.IClient

	InvoiceRepo invoice.Repository
	UserRepo    user.Repository
}
