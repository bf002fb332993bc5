package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type VerificationStatus string

const (
	StatusPending  VerificationStatus = "Pending"
	StatusVerified VerificationStatus = "Verified"
	StatusRejected VerificationStatus = "Rejected"
)

const (
	FarmingNaturalOrganic = "Natural/Organic"
	FarmingConventional   = "Conventional"
	FarmingBoth           = "Both"
)

// Farmer is a seller account together with its verification state.
type Farmer struct {
	ID           snowflake.ID `gorm:"primaryKey"`
	Name         string       `gorm:"type:text;not null"`
	FarmName     string       `gorm:"column:farm_name;type:text;not null"`
	Location     string       `gorm:"type:text;not null"`
	Mobile       string       `gorm:"type:varchar(10);not null"`
	Experience   int          `gorm:"not null;default:0"`
	Email        string       `gorm:"type:varchar(320);not null;uniqueIndex"`
	PasswordHash string       `gorm:"column:password_hash;type:text;not null"`
	FarmingType  string       `gorm:"column:farming_type;type:varchar(32);not null;default:''"`

	Documents

	VerificationStatus VerificationStatus `gorm:"column:verification_status;type:varchar(16);not null;default:'Pending';index"`
	VerifiedAt         *time.Time         `gorm:"column:verified_at"`
	AdminNotes         string             `gorm:"column:admin_notes;type:text"`

	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

func (Farmer) TableName() string { return "farmers" }

// Documents are optional references to uploaded identity and land proofs.
type Documents struct {
	AadhaarNumber string `gorm:"column:aadhaar_number;type:varchar(12)" json:"aadhaar,omitempty" validate:"omitempty,len=12,number"`
	AadhaarFile   string `gorm:"column:aadhaar_file;type:text" json:"aadhaarFile,omitempty"`
	PANFile       string `gorm:"column:pan_file;type:text" json:"panFile,omitempty"`
	LandProof     string `gorm:"column:land_proof;type:text" json:"landProof,omitempty"`
	LeaseProof    string `gorm:"column:lease_proof;type:text" json:"leaseProof,omitempty"`
	FarmerIDProof string `gorm:"column:farmer_id_proof;type:text" json:"farmerIDProof,omitempty"`
	OrganicProof  string `gorm:"column:organic_proof;type:text" json:"organicProof,omitempty"`
	Certificate   string `gorm:"column:certificate;type:text" json:"certificate,omitempty"`
}

// DocumentFields lists the multipart field names accepted at registration.
var DocumentFields = []string{
	"certificate",
	"aadhaarFile",
	"panFile",
	"landProof",
	"leaseProof",
	"farmerIDProof",
	"organicProof",
}

// Set stores ref under the multipart field name. Unknown fields are ignored.
func (d *Documents) Set(field, ref string) {
	switch field {
	case "certificate":
		d.Certificate = ref
	case "aadhaarFile":
		d.AadhaarFile = ref
	case "panFile":
		d.PANFile = ref
	case "landProof":
		d.LandProof = ref
	case "leaseProof":
		d.LeaseProof = ref
	case "farmerIDProof":
		d.FarmerIDProof = ref
	case "organicProof":
		d.OrganicProof = ref
	}
}
