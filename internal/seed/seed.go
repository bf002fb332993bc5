package seed

import (
	"context"
	"errors"

	farmerdomain "github.com/agridirect/marketplace/internal/farmer/domain"
	productdomain "github.com/agridirect/marketplace/internal/product/domain"
)

const (
	demoFarmerEmail    = "demo.farmer@agridirect.local"
	demoFarmerPassword = "demo-farmer"
)

// Result names the records a demo catalog consists of.
type Result struct {
	FarmerID  string
	ProductID string
	Created   bool
}

// EnsureDemoCatalog registers and verifies the demo farmer and gives it one
// attested listing. Running it again reuses the existing records.
func EnsureDemoCatalog(ctx context.Context, farmers farmerdomain.Service, products productdomain.Service) (*Result, error) {
	if farmers == nil || products == nil {
		return nil, errors.New("seed services are required")
	}

	farmer, err := farmers.Register(ctx, farmerdomain.RegisterRequest{
		Name:        "Demo Farmer",
		FarmName:    "Sunrise Fields",
		Location:    "Nashik, Maharashtra",
		Mobile:      "9000000000",
		Email:       demoFarmerEmail,
		Password:    demoFarmerPassword,
		Experience:  "8",
		FarmingType: farmerdomain.FarmingNaturalOrganic,
	})
	if errors.Is(err, farmerdomain.ErrDuplicateEmail) {
		farmer, err = farmers.Authenticate(ctx, demoFarmerEmail, demoFarmerPassword)
	}
	if err != nil {
		return nil, err
	}

	if farmer.VerificationStatus != farmerdomain.StatusVerified {
		if _, err := farmers.SetVerification(ctx, farmerdomain.SetVerificationRequest{
			FarmerID: farmer.ID,
			Status:   string(farmerdomain.StatusVerified),
			Notes:    "demo data",
		}); err != nil {
			return nil, err
		}
	}

	existing, err := products.ListByFarmer(ctx, farmer.ID)
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return &Result{FarmerID: farmer.ID, ProductID: existing[0].ID}, nil
	}

	product, err := products.Create(ctx, productdomain.CreateRequest{
		FarmerID:         farmer.ID,
		Name:             "Sharbati Wheat",
		Category:         "Grains",
		Price:            "42.50",
		Quantity:         "500",
		Location:         "Nashik, Maharashtra",
		HarvestDate:      "2024-04-15",
		Moisture:         "12.5",
		Protein:          "11.2",
		PesticideResidue: "0.01",
		SoilPH:           "6.9",
		ImageRef:         "/uploads/demo-wheat.jpg",
	})
	if err != nil {
		return nil, err
	}
	return &Result{FarmerID: farmer.ID, ProductID: product.ID, Created: true}, nil
}
