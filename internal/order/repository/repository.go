package repository

import (
	"context"

	"github.com/agridirect/marketplace/internal/order/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, order *domain.Order) error {
	return db.WithContext(ctx).Create(order).Error
}

func (r *repo) ListByConsumer(ctx context.Context, db *gorm.DB, consumerID int64) ([]domain.Order, error) {
	var items []domain.Order
	err := db.WithContext(ctx).
		Where("consumer_id = ?", consumerID).
		Order("date DESC").
		Order("id DESC").
		Find(&items).Error
	return items, err
}

func (r *repo) ListByFarmer(ctx context.Context, db *gorm.DB, farmerID int64) ([]domain.Order, error) {
	var items []domain.Order
	err := db.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("date DESC").
		Order("id DESC").
		Find(&items).Error
	return items, err
}
