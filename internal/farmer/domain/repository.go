package domain

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, farmer *Farmer) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*Farmer, error)
	FindByEmail(ctx context.Context, db *gorm.DB, email string) (*Farmer, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]Farmer, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Farmer, error)
	UpdateFields(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) error
}
