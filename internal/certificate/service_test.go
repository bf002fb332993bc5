package certificate

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/agridirect/marketplace/internal/certificate/render"
	"github.com/agridirect/marketplace/internal/clock"
	"github.com/agridirect/marketplace/internal/config"
	farmerdomain "github.com/agridirect/marketplace/internal/farmer/domain"
	farmerrepo "github.com/agridirect/marketplace/internal/farmer/repository"
	productdomain "github.com/agridirect/marketplace/internal/product/domain"
	productrepo "github.com/agridirect/marketplace/internal/product/repository"
	"github.com/agridirect/marketplace/internal/providers/pdf"
	"github.com/agridirect/marketplace/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&farmerdomain.Farmer{}, &productdomain.Product{}))

	svc := New(Params{
		DB:       dbConn,
		Log:      zap.NewNop(),
		Config:   config.Config{PublicBaseURL: "https://market.example"},
		Products: productrepo.Provide(),
		Farmers:  farmerrepo.Provide(),
		Renderer: render.NewRenderer(),
		PDF:      pdf.New(),
		Clock:    clock.NewFakeClock(time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)),
	})
	return svc, dbConn
}

func seed(t *testing.T, dbConn *gorm.DB) snowflake.ID {
	t.Helper()
	node, err := snowflake.NewNode(3)
	require.NoError(t, err)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	verifiedAt := now.Add(-time.Hour)

	farmer := &farmerdomain.Farmer{
		ID:                 node.Generate(),
		Name:               "Ravi",
		FarmName:           "Sunrise Farm",
		Location:           "Pune",
		Mobile:             "9876543210",
		Email:              "ravi@example.com",
		PasswordHash:       "x",
		VerificationStatus: farmerdomain.StatusVerified,
		VerifiedAt:         &verifiedAt,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	require.NoError(t, dbConn.Create(farmer).Error)

	moisture, protein := 12.5, 9.0
	product := &productdomain.Product{
		ID:                node.Generate(),
		FarmerID:          farmer.ID,
		Name:              "Wheat",
		Category:          "Grains",
		Price:             decimal.NewFromInt(50),
		Quantity:          100,
		Image:             "/uploads/wheat.jpg",
		Moisture:          &moisture,
		Protein:           &protein,
		AttestationStatus: productdomain.AttestationIssued,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, dbConn.Create(product).Error)
	return product.ID
}

func TestHTMLShowsQualityAndVerification(t *testing.T) {
	svc, dbConn := newService(t)
	id := seed(t, dbConn)

	page, err := svc.HTML(context.Background(), id.String())
	require.NoError(t, err)
	assert.Contains(t, page, "12.5%")
	assert.Contains(t, page, "9%")
	assert.Contains(t, page, "Verified")
	assert.Contains(t, page, "https://market.example/product/"+id.String()+"/view")
	assert.Contains(t, page, render.NotAvailable)

	var product productdomain.Product
	require.NoError(t, dbConn.First(&product, "id = ?", id.Int64()).Error)
	assert.Contains(t, page, product.FarmerID.String())
}

func TestPDFDataNamesFarmer(t *testing.T) {
	svc, dbConn := newService(t)
	id := seed(t, dbConn)

	view, err := svc.View(context.Background(), id.String())
	require.NoError(t, err)
	require.NotEmpty(t, view.Farmer.ID)

	data := svc.pdfData(view)
	require.NotEmpty(t, data.Sections)
	assert.Equal(t, "Farmer", data.Sections[0].Title)
	assert.Contains(t, data.Sections[0].Fields, pdf.Field{Label: "Farmer ID", Value: view.Farmer.ID})
	assert.Contains(t, data.Sections[0].Fields, pdf.Field{Label: "Name", Value: "Ravi"})
}

func TestHTMLUnknownProduct(t *testing.T) {
	svc, _ := newService(t)

	for _, id := range []string{"12345", "not-a-number"} {
		page, err := svc.HTML(context.Background(), id)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.True(t, strings.Contains(page, "Product not found"))
	}
}

func TestPDF(t *testing.T) {
	svc, dbConn := newService(t)
	id := seed(t, dbConn)

	data, err := svc.PDF(context.Background(), id.String())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))

	_, err = svc.PDF(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNotFound)
}
