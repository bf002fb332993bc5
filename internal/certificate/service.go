package certificate

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/agridirect/marketplace/internal/certificate/render"
	"github.com/agridirect/marketplace/internal/clock"
	"github.com/agridirect/marketplace/internal/config"
	farmerdomain "github.com/agridirect/marketplace/internal/farmer/domain"
	"github.com/agridirect/marketplace/internal/observability/metrics"
	productdomain "github.com/agridirect/marketplace/internal/product/domain"
	"github.com/agridirect/marketplace/internal/providers/pdf"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("not_found")

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Config   config.Config
	Products productdomain.Repository
	Farmers  farmerdomain.Repository
	Renderer render.Renderer
	PDF      pdf.Provider
	Clock    clock.Clock
	Metrics  *metrics.Metrics `optional:"true"`
}

// Service assembles the public, unauthenticated certificate for a product.
type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	baseURL  string
	products productdomain.Repository
	farmers  farmerdomain.Repository
	renderer render.Renderer
	pdf      pdf.Provider
	clock    clock.Clock
	metrics  *metrics.Metrics
}

func New(p Params) *Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("certificate.service"),
		baseURL:  strings.TrimRight(p.Config.PublicBaseURL, "/"),
		products: p.Products,
		farmers:  p.Farmers,
		renderer: p.Renderer,
		pdf:      p.PDF,
		clock:    p.Clock,
		metrics:  p.Metrics,
	}
}

func (s *Service) View(ctx context.Context, id string) (*render.View, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, ErrNotFound
	}
	product, err := s.products.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	owner, err := s.farmers.FindByID(ctx, s.db, product.FarmerID.Int64())
	if err != nil {
		return nil, err
	}

	view := &render.View{
		Product: render.ProductView{
			ID:                product.ID.String(),
			Name:              product.Name,
			Category:          product.Category,
			Price:             product.Price.StringFixed(2),
			Quantity:          product.Quantity,
			Location:          product.Location,
			Image:             product.Image,
			HarvestDate:       product.HarvestDate,
			Moisture:          product.Moisture,
			Protein:           product.Protein,
			PesticideResidue:  product.PesticideResidue,
			SoilPH:            product.SoilPH,
			LabReport:         product.LabReport,
			AttestationStatus: string(product.AttestationStatus),
		},
		QRCodeURL:   "/product/" + product.ID.String() + "/qr",
		VerifyURL:   s.baseURL + "/product/" + product.ID.String() + "/view",
		GeneratedAt: s.clock.Now(),
	}
	if owner != nil {
		view.Farmer = render.FarmerView{
			ID:                 owner.ID.String(),
			Name:               owner.Name,
			FarmName:           owner.FarmName,
			Location:           owner.Location,
			FarmingType:        owner.FarmingType,
			VerificationStatus: string(owner.VerificationStatus),
			VerifiedAt:         owner.VerifiedAt,
		}
	} else {
		view.Farmer = render.FarmerView{ID: product.FarmerID.String(), VerificationStatus: "Unknown"}
	}
	return view, nil
}

// HTML renders the certificate page. Unknown products render the not found
// page together with ErrNotFound.
func (s *Service) HTML(ctx context.Context, id string) (string, error) {
	view, err := s.View(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.metrics.RecordCertificateView(ctx, "html", "not_found")
			page, renderErr := s.renderer.RenderNotFound()
			if renderErr != nil {
				return "", renderErr
			}
			return page, ErrNotFound
		}
		s.metrics.RecordCertificateView(ctx, "html", "error")
		return "", err
	}

	page, err := s.renderer.RenderHTML(*view)
	if err != nil {
		s.metrics.RecordCertificateView(ctx, "html", "error")
		return "", err
	}
	s.metrics.RecordCertificateView(ctx, "html", "ok")
	return page, nil
}

func (s *Service) PDF(ctx context.Context, id string) ([]byte, error) {
	view, err := s.View(ctx, id)
	if err != nil {
		outcome := "error"
		if errors.Is(err, ErrNotFound) {
			outcome = "not_found"
		}
		s.metrics.RecordCertificateView(ctx, "pdf", outcome)
		return nil, err
	}

	r, err := s.pdf.GenerateCertificate(ctx, s.pdfData(view))
	if err != nil {
		s.metrics.RecordCertificateView(ctx, "pdf", "error")
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	s.metrics.RecordCertificateView(ctx, "pdf", "ok")
	s.log.Debug("certificate pdf generated", zap.String("product_id", view.Product.ID), zap.Int("bytes", len(data)))
	return data, nil
}

func (s *Service) pdfData(view *render.View) pdf.CertificateData {
	verification := view.Farmer.VerificationStatus
	if view.Farmer.VerifiedAt != nil {
		verification += " since " + view.Farmer.VerifiedAt.UTC().Format("2006-01-02")
	}
	harvest := render.NotAvailable
	if view.Product.HarvestDate != nil {
		harvest = view.Product.HarvestDate.UTC().Format("2006-01-02")
	}
	labReport := render.NotAvailable
	if view.Product.LabReport != "" {
		labReport = s.absolute(view.Product.LabReport)
	}

	return pdf.CertificateData{
		Title:    view.Product.Name,
		Subtitle: strings.TrimSpace(view.Product.Category + " " + view.Product.Location),
		Sections: []pdf.Section{
			{Title: "Farmer", Fields: []pdf.Field{
				{Label: "Name", Value: view.Farmer.Name},
				{Label: "Farmer ID", Value: view.Farmer.ID},
				{Label: "Farm", Value: view.Farmer.FarmName},
				{Label: "Location", Value: view.Farmer.Location},
				{Label: "Verification", Value: verification},
			}},
			{Title: "Quality", Fields: []pdf.Field{
				{Label: "Harvest date", Value: harvest},
				{Label: "Moisture", Value: render.FormatMetric(view.Product.Moisture, "%")},
				{Label: "Protein", Value: render.FormatMetric(view.Product.Protein, "%")},
				{Label: "Pesticide residue", Value: render.FormatMetric(view.Product.PesticideResidue, " ppm")},
				{Label: "Soil pH", Value: render.FormatMetric(view.Product.SoilPH, "")},
				{Label: "Lab report", Value: labReport},
			}},
			{Title: "Listing", Fields: []pdf.Field{
				{Label: "Price", Value: view.Product.Price},
				{Label: "Quantity", Value: render.FormatQuantity(view.Product.Quantity)},
			}},
		},
		QRContent: view.VerifyURL,
		Footer:    "Verify online at " + view.VerifyURL,
	}
}

func (s *Service) absolute(ref string) string {
	if strings.HasPrefix(ref, "/") {
		return s.baseURL + ref
	}
	return ref
}
