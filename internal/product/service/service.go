package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/agridirect/marketplace/internal/clock"
	"github.com/agridirect/marketplace/internal/events"
	farmerdomain "github.com/agridirect/marketplace/internal/farmer/domain"
	"github.com/agridirect/marketplace/internal/observability/metrics"
	"github.com/agridirect/marketplace/internal/product/domain"
	"github.com/agridirect/marketplace/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Repo       domain.Repository
	FarmerRepo farmerdomain.Repository
	Clock      clock.Clock
	Publisher  events.Publisher
	Attester   domain.Attester  `optional:"true"`
	Metrics    *metrics.Metrics `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	repo       domain.Repository
	farmerRepo farmerdomain.Repository
	clock      clock.Clock
	publisher  events.Publisher
	attester   domain.Attester
	metrics    *metrics.Metrics
}

func New(p Params) domain.Service {
	publisher := p.Publisher
	if publisher == nil {
		publisher = events.Nop()
	}
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("product.service"),
		genID:      p.GenID,
		repo:       p.Repo,
		farmerRepo: p.FarmerRepo,
		clock:      p.Clock,
		publisher:  publisher,
		attester:   p.Attester,
		metrics:    p.Metrics,
	}
}

// Create persists the product in Pending attestation state and then issues
// its code. An issuance failure leaves the product stored as Failed so it can
// be retried; it does not fail the creation.
func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Response, error) {
	farmerID, err := snowflake.ParseString(strings.TrimSpace(req.FarmerID))
	if err != nil {
		return nil, domain.ErrInvalidOwner
	}
	owner, err := s.farmerRepo.FindByID(ctx, s.db, farmerID.Int64())
	if err != nil {
		return nil, err
	}
	if owner == nil {
		return nil, domain.ErrInvalidOwner
	}
	if owner.VerificationStatus != farmerdomain.StatusVerified {
		return nil, domain.ErrUnverifiedOwner
	}
	if strings.TrimSpace(req.ImageRef) == "" {
		return nil, domain.ErrMissingImage
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	price, err := parsePrice(req.Price)
	if err != nil {
		return nil, err
	}
	quantity, err := parseNumber("quantity", req.Quantity, nonNegative)
	if err != nil {
		return nil, err
	}
	harvest, err := parseHarvestDate(req.HarvestDate)
	if err != nil {
		return nil, err
	}
	moisture, err := parseOptional("moisture", req.Moisture, percentage)
	if err != nil {
		return nil, err
	}
	protein, err := parseOptional("protein", req.Protein, percentage)
	if err != nil {
		return nil, err
	}
	residue, err := parseOptional("pesticideResidue", req.PesticideResidue, nonNegative)
	if err != nil {
		return nil, err
	}
	soilPH, err := parseOptional("soilPH", req.SoilPH, phScale)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	product := &domain.Product{
		ID:                s.genID.Generate(),
		FarmerID:          owner.ID,
		Name:              name,
		Category:          strings.TrimSpace(req.Category),
		Price:             price,
		Quantity:          quantity,
		Location:          strings.TrimSpace(req.Location),
		Image:             strings.TrimSpace(req.ImageRef),
		HarvestDate:       harvest,
		Moisture:          moisture,
		Protein:           protein,
		PesticideResidue:  residue,
		SoilPH:            soilPH,
		LabReport:         strings.TrimSpace(req.LabReportRef),
		AttestationStatus: domain.AttestationPending,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.repo.Create(ctx, s.db, product); err != nil {
		return nil, err
	}

	s.metrics.RecordProductCreated(ctx, product.Category)
	s.publisher.Publish(ctx, events.Event{
		Name: events.ProductCreated,
		ID:   product.ID.String(),
		At:   now,
		Data: map[string]any{"farmerId": product.FarmerID.String(), "category": product.Category},
	})

	if s.attester != nil {
		issued, err := s.attester.Issue(ctx, product.ID.Int64())
		if err != nil {
			s.log.Warn("attestation deferred",
				zap.String("product_id", product.ID.String()),
				zap.Error(err),
			)
			if reloaded, findErr := s.repo.FindByID(ctx, s.db, product.ID.Int64()); findErr == nil && reloaded != nil {
				product = reloaded
			}
		} else if issued != nil {
			product = issued
		}
	}

	s.log.Info("product created",
		zap.String("product_id", product.ID.String()),
		zap.String("farmer_id", product.FarmerID.String()),
		zap.String("attestation_status", string(product.AttestationStatus)),
	)

	resp := toResponse(product)
	return &resp, nil
}

// Update leaves the attestation fields untouched; the code encodes only the
// product identity.
func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Response, error) {
	product, err := s.find(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name is required", domain.ErrValidation)
		}
		fields["name"] = name
	}
	if req.Category != nil {
		fields["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Location != nil {
		fields["location"] = strings.TrimSpace(*req.Location)
	}
	if req.Price != nil {
		price, err := parsePrice(*req.Price)
		if err != nil {
			return nil, err
		}
		fields["price"] = price
	}
	if req.Quantity != nil {
		quantity, err := parseNumber("quantity", *req.Quantity, nonNegative)
		if err != nil {
			return nil, err
		}
		fields["quantity"] = quantity
	}
	if req.HarvestDate != nil {
		harvest, err := parseHarvestDate(*req.HarvestDate)
		if err != nil {
			return nil, err
		}
		if harvest == nil {
			fields["harvest_date"] = nil
		} else {
			fields["harvest_date"] = *harvest
		}
	}
	optional := []struct {
		raw    *string
		field  string
		column string
		b      bounds
	}{
		{req.Moisture, "moisture", "moisture", percentage},
		{req.Protein, "protein", "protein", percentage},
		{req.PesticideResidue, "pesticideResidue", "pesticide_residue", nonNegative},
		{req.SoilPH, "soilPH", "soil_ph", phScale},
	}
	for _, o := range optional {
		if o.raw == nil {
			continue
		}
		v, err := parseOptional(o.field, *o.raw, o.b)
		if err != nil {
			return nil, err
		}
		if v == nil {
			fields[o.column] = nil
		} else {
			fields[o.column] = *v
		}
	}
	if req.ImageRef != nil && strings.TrimSpace(*req.ImageRef) != "" {
		fields["image"] = strings.TrimSpace(*req.ImageRef)
	}
	if req.LabReportRef != nil && strings.TrimSpace(*req.LabReportRef) != "" {
		fields["lab_report"] = strings.TrimSpace(*req.LabReportRef)
	}

	if len(fields) > 0 {
		fields["updated_at"] = s.clock.Now()
		if err := s.repo.UpdateFields(ctx, s.db, product.ID.Int64(), fields); err != nil {
			if db.IsNotFound(err) {
				return nil, domain.ErrNotFound
			}
			return nil, err
		}
	}

	updated, err := s.repo.FindByID(ctx, s.db, product.ID.Int64())
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(updated)
	return &resp, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return domain.ErrNotFound
	}
	deleted, err := s.repo.Delete(ctx, s.db, productID.Int64())
	if err != nil {
		return err
	}
	if !deleted {
		return domain.ErrNotFound
	}

	if s.attester != nil {
		if err := s.attester.Discard(ctx, productID.Int64()); err != nil {
			s.log.Warn("failed to discard attestation artifact",
				zap.String("product_id", productID.String()),
				zap.Error(err),
			)
		}
	}
	s.log.Info("product deleted", zap.String("product_id", productID.String()))
	return nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	product, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(product)
	return &resp, nil
}

func (s *Service) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Response, error) {
	ownerID, err := snowflake.ParseString(strings.TrimSpace(farmerID))
	if err != nil {
		return nil, domain.ErrInvalidOwner
	}
	items, err := s.repo.ListByFarmer(ctx, s.db, ownerID.Int64())
	if err != nil {
		return nil, err
	}
	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

// ListAll returns every product with its owner's public profile attached.
func (s *Service) ListAll(ctx context.Context) ([]domain.ListingResponse, error) {
	items, err := s.repo.ListAll(ctx, s.db)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []domain.ListingResponse{}, nil
	}

	seen := make(map[int64]struct{}, len(items))
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		id := item.FarmerID.Int64()
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	owners, err := s.farmerRepo.FindByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*domain.FarmerSummary, len(owners))
	for i := range owners {
		f := owners[i]
		byID[f.ID.Int64()] = &domain.FarmerSummary{
			ID:                 f.ID.String(),
			Name:               f.Name,
			FarmName:           f.FarmName,
			Location:           f.Location,
			VerificationStatus: string(f.VerificationStatus),
		}
	}

	resp := make([]domain.ListingResponse, 0, len(items))
	for i := range items {
		resp = append(resp, domain.ListingResponse{
			Response: toResponse(&items[i]),
			Farmer:   byID[items[i].FarmerID.Int64()],
		})
	}
	return resp, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrNotFound
	}
	product, err := s.repo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	return product, nil
}

func toResponse(p *domain.Product) domain.Response {
	resp := domain.Response{
		ID:                p.ID.String(),
		FarmerID:          p.FarmerID.String(),
		Name:              p.Name,
		Category:          p.Category,
		Price:             p.Price,
		Quantity:          p.Quantity,
		Location:          p.Location,
		Image:             p.Image,
		Moisture:          p.Moisture,
		Protein:           p.Protein,
		PesticideResidue:  p.PesticideResidue,
		SoilPH:            p.SoilPH,
		LabReport:         p.LabReport,
		AttestationCode:   p.AttestationCode,
		AttestationStatus: p.AttestationStatus,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
	if p.HarvestDate != nil {
		resp.HarvestDate = p.HarvestDate.Format(domain.HarvestDateLayout)
	}
	return resp
}
