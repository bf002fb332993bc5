package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Consumer struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Name         string       `gorm:"type:text;not null"`
	Email        string       `gorm:"type:varchar(320);not null;uniqueIndex"`
	Mobile       string       `gorm:"type:varchar(10);not null"`
	PasswordHash string       `gorm:"column:password_hash;type:text;not null"`
	CreatedAt    time.Time    `gorm:"not null"`
	UpdatedAt    time.Time    `gorm:"not null"`
}

func (Consumer) TableName() string { return "consumers" }

type Repository interface {
	Create(ctx context.Context, consumer *Consumer) error
	FindByID(ctx context.Context, id int64) (*Consumer, error)
	FindByEmail(ctx context.Context, email string) (*Consumer, error)
}

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Response, error)
	Authenticate(ctx context.Context, email, password string) (*Response, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Get(ctx context.Context, id string) (*Response, error)
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Mobile   string `json:"mobile" validate:"required,number,len=10"`
	Password string `json:"password" validate:"required"`
}

type Response struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Mobile    string    `json:"mobile"`
	CreatedAt time.Time `json:"createdAt"`
}

var (
	ErrValidation         = errors.New("validation_error")
	ErrDuplicateEmail     = errors.New("duplicate_email")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNotFound           = errors.New("not_found")
)
