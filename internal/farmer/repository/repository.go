package repository

import (
	"context"

	"github.com/agridirect/marketplace/internal/farmer/domain"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, farmer *domain.Farmer) error {
	return db.WithContext(ctx).Create(farmer).Error
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id int64) (*domain.Farmer, error) {
	var items []domain.Farmer
	if err := db.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (r *repo) FindByEmail(ctx context.Context, db *gorm.DB, email string) (*domain.Farmer, error) {
	var items []domain.Farmer
	if err := db.WithContext(ctx).Where("email = ?", email).Limit(1).Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []int64) ([]domain.Farmer, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []domain.Farmer
	err := db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Farmer, error) {
	stmt := db.WithContext(ctx).Model(&domain.Farmer{})
	if filter.Status != "" {
		stmt = stmt.Where("verification_status = ?", filter.Status)
	}

	var items []domain.Farmer
	err := stmt.Order("created_at ASC").Order("id ASC").Find(&items).Error
	return items, err
}

func (r *repo) UpdateFields(ctx context.Context, db *gorm.DB, id int64, fields map[string]any) error {
	res := db.WithContext(ctx).Model(&domain.Farmer{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
