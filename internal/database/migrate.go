package database

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/pedidos/orders-api/internal/models"
)

// Migrate creates the orders and items tables when they are absent.
// Running it against an initialized database is a no-op.
func Migrate(ctx context.Context, db *gorm.DB, log *zap.Logger) error {
	log.Info("checking database schema")

	if err := db.WithContext(ctx).AutoMigrate(&models.Order{}, &models.Item{}); err != nil {
		log.Error("failed to create tables", zap.Error(err))
		return errors.Wrap(err, "auto migrate")
	}

	log.Info("tables orders and items verified")
	return nil
}
