package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Response, error)
	Update(ctx context.Context, req UpdateRequest) (*Response, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*Response, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]Response, error)
	ListAll(ctx context.Context) ([]ListingResponse, error)
}

// CreateRequest carries raw form values. Numbers are parsed by the service.
type CreateRequest struct {
	FarmerID         string
	Name             string
	Category         string
	Price            string
	Quantity         string
	Location         string
	HarvestDate      string
	Moisture         string
	Protein          string
	PesticideResidue string
	SoilPH           string
	ImageRef         string
	LabReportRef     string
}

// UpdateRequest replaces only the non-nil fields.
type UpdateRequest struct {
	ID               string
	Name             *string
	Category         *string
	Price            *string
	Quantity         *string
	Location         *string
	HarvestDate      *string
	Moisture         *string
	Protein          *string
	PesticideResidue *string
	SoilPH           *string
	ImageRef         *string
	LabReportRef     *string
}

type Response struct {
	ID                string            `json:"id"`
	FarmerID          string            `json:"farmerId"`
	Name              string            `json:"name"`
	Category          string            `json:"category"`
	Price             decimal.Decimal   `json:"price"`
	Quantity          float64           `json:"quantity"`
	Location          string            `json:"location"`
	Image             string            `json:"image"`
	HarvestDate       string            `json:"harvestDate,omitempty"`
	Moisture          *float64          `json:"moisture,omitempty"`
	Protein           *float64          `json:"protein,omitempty"`
	PesticideResidue  *float64          `json:"pesticideResidue,omitempty"`
	SoilPH            *float64          `json:"soilPH,omitempty"`
	LabReport         string            `json:"labReport,omitempty"`
	AttestationCode   *string           `json:"attestationCode"`
	AttestationStatus AttestationStatus `json:"attestationStatus"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// ListingResponse is a product joined with the public profile of its owner.
type ListingResponse struct {
	Response
	Farmer *FarmerSummary `json:"farmer"`
}

type FarmerSummary struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	FarmName           string `json:"farmName"`
	Location           string `json:"location"`
	VerificationStatus string `json:"verificationStatus"`
}

const HarvestDateLayout = "2006-01-02"

var (
	ErrValidation           = errors.New("validation_error")
	ErrInvalidOwner         = errors.New("invalid_owner")
	ErrUnverifiedOwner      = errors.New("unverified_owner")
	ErrMissingImage         = errors.New("missing_image")
	ErrInvalidNumeric       = errors.New("invalid_numeric")
	ErrNotFound             = errors.New("not_found")
	ErrDuplicateAttestation = errors.New("duplicate_attestation")
	ErrEncoding             = errors.New("encoding_error")
	ErrStorage              = errors.New("storage_failure")
)
