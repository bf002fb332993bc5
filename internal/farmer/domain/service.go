package domain

import (
	"context"
	"errors"
	"time"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*Response, error)
	Authenticate(ctx context.Context, email, password string) (*Response, error)
	Get(ctx context.Context, id string) (*Response, error)
	List(ctx context.Context, req ListRequest) ([]Response, error)
	SetVerification(ctx context.Context, req SetVerificationRequest) (*Response, error)
}

type RegisterRequest struct {
	Name        string `json:"name" validate:"required"`
	FarmName    string `json:"farmName" validate:"required"`
	Location    string `json:"location" validate:"required"`
	Mobile      string `json:"mobile" validate:"required,number,len=10"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
	Experience  string `json:"experience" validate:"omitempty,numeric"`
	FarmingType string `json:"farmingType" validate:"omitempty,oneof='Natural/Organic' Conventional Both"`
	Documents   Documents
}

type ListRequest struct {
	Status VerificationStatus
}

type SetVerificationRequest struct {
	FarmerID string
	Status   string
	Notes    string
}

// Response is the public view of a farmer. It never carries the credential hash.
type Response struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	FarmName           string             `json:"farmName"`
	Location           string             `json:"location"`
	Mobile             string             `json:"mobile"`
	Email              string             `json:"email"`
	Experience         int                `json:"experience"`
	FarmingType        string             `json:"farmingType,omitempty"`
	Documents          Documents          `json:"documents"`
	VerificationStatus VerificationStatus `json:"verificationStatus"`
	VerifiedAt         *time.Time         `json:"verifiedAt,omitempty"`
	AdminNotes         string             `json:"adminNotes,omitempty"`
	CreatedAt          time.Time          `json:"createdAt"`
}

var (
	ErrValidation         = errors.New("validation_error")
	ErrDuplicateEmail     = errors.New("duplicate_email")
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrNotFound           = errors.New("not_found")
	ErrInvalidStatus      = errors.New("invalid_status")
)
