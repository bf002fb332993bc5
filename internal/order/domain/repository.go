package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, order *Order) error
	ListByConsumer(ctx context.Context, db *gorm.DB, consumerID int64) ([]Order, error)
	ListByFarmer(ctx context.Context, db *gorm.DB, farmerID int64) ([]Order, error)
}
