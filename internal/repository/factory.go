package repository

import (
	"github.com/arpay/arpay/internal/domain/invoice"
	"github.com/arpay/arpay/internal/domain/user"
	"github.com/arpay/arpay/internal/logger"
	"github.com/arpay/arpay/internal/postgres"
	repo "github.com/arpay/arpay/internal/repository/postgres"
)

func NewInvoiceRepository(db *postgres.DB, logger *logger.Logger) invoice.Repository {
	return repo.NewInvoiceRepository(db, logger)
}

func NewUserRepository(db *postgres.DB, logger *logger.Logger) user.Repository {
	return repo.NewUserRepository(db, logger)
}
