package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

type AttestationStatus string

const (
	AttestationPending AttestationStatus = "Pending"
	AttestationIssued  AttestationStatus = "Issued"
	AttestationFailed  AttestationStatus = "Failed"
)

// Product is a listing owned by one farmer, with optional quality attestation data.
type Product struct {
	ID       snowflake.ID    `gorm:"primaryKey"`
	FarmerID snowflake.ID    `gorm:"column:farmer_id;not null;index"`
	Name     string          `gorm:"type:text;not null"`
	Category string          `gorm:"type:text;not null;default:''"`
	Price    decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	Quantity float64         `gorm:"not null"`
	Location string          `gorm:"type:text;not null;default:''"`
	Image    string          `gorm:"type:text;not null"`

	HarvestDate      *time.Time `gorm:"column:harvest_date"`
	Moisture         *float64   `gorm:"column:moisture"`
	Protein          *float64   `gorm:"column:protein"`
	PesticideResidue *float64   `gorm:"column:pesticide_residue"`
	SoilPH           *float64   `gorm:"column:soil_ph"`
	LabReport        string     `gorm:"column:lab_report;type:text"`

	// AttestationCode stays NULL until the QR artifact for this product is stored.
	AttestationCode   *string           `gorm:"column:attestation_code;type:varchar(512);uniqueIndex"`
	AttestationStatus AttestationStatus `gorm:"column:attestation_status;type:varchar(16);not null;default:'Pending'"`
	AttestationError  string            `gorm:"column:attestation_error;type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Product) TableName() string { return "products" }
