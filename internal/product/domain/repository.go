package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Product, error)
	ListByFarmer(ctx context.Context, db *gorm.DB, farmerID int64) ([]Product, error)
	ListAll(ctx context.Context, db *gorm.DB) ([]Product, error)
	UpdateFields(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) error
	Delete(ctx context.Context, db *gorm.DB, id int64) (bool, error)
}

// Attester issues and discards the scannable code bound to a stored product.
type Attester interface {
	Issue(ctx context.Context, productID int64) (*Product, error)
	Discard(ctx context.Context, productID int64) error
}
