package repository

import (
	"context"

	"github.com/agridirect/marketplace/internal/consumer/domain"
	"github.com/agridirect/marketplace/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repo struct {
	store repository.Repository[domain.Consumer]
}

func New(db *gorm.DB) domain.Repository {
	return &repo{store: repository.ProvideStore[domain.Consumer](db)}
}

func (r *repo) Create(ctx context.Context, consumer *domain.Consumer) error {
	return r.store.Create(ctx, consumer)
}

// FindByID and FindByEmail filter by struct, so zero values must not reach
// the store or they would match any row.
func (r *repo) FindByID(ctx context.Context, id int64) (*domain.Consumer, error) {
	if id == 0 {
		return nil, nil
	}
	return r.store.FindOne(ctx, &domain.Consumer{ID: snowflake.ID(id)})
}

func (r *repo) FindByEmail(ctx context.Context, email string) (*domain.Consumer, error) {
	if email == "" {
		return nil, nil
	}
	return r.store.FindOne(ctx, &domain.Consumer{Email: email})
}
