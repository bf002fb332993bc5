package migration

import (
	"errors"
	"fmt"

	consumerdomain "github.com/agridirect/marketplace/internal/consumer/domain"
	farmerdomain "github.com/agridirect/marketplace/internal/farmer/domain"
	orderdomain "github.com/agridirect/marketplace/internal/order/domain"
	productdomain "github.com/agridirect/marketplace/internal/product/domain"
	"gorm.io/gorm"
)

// Models lists every table in dependency order.
func Models() []any {
	return []any{
		&farmerdomain.Farmer{},
		&consumerdomain.Consumer{},
		&productdomain.Product{},
		&orderdomain.Order{},
	}
}

// RunMigrations creates or extends the schema on any supported dialect.
func RunMigrations(db *gorm.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}
	for _, model := range Models() {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("apply migrations: %T: %w", model, err)
		}
	}
	return nil
}
