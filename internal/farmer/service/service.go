package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/agridirect/marketplace/internal/auth/password"
	"github.com/agridirect/marketplace/internal/clock"
	"github.com/agridirect/marketplace/internal/events"
	"github.com/agridirect/marketplace/internal/farmer/domain"
	"github.com/agridirect/marketplace/internal/observability/metrics"
	"github.com/agridirect/marketplace/internal/validation"
	"github.com/agridirect/marketplace/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Repo      domain.Repository
	Clock     clock.Clock
	Publisher events.Publisher
	Metrics   *metrics.Metrics `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	repo      domain.Repository
	clock     clock.Clock
	publisher events.Publisher
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	publisher := p.Publisher
	if publisher == nil {
		publisher = events.Nop()
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("farmer.service"),
		genID:     p.GenID,
		repo:      p.Repo,
		clock:     p.Clock,
		publisher: publisher,
		metrics:   p.Metrics,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Response, error) {
	req = normalizeRegister(req)
	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, validation.Message(err))
	}

	experience := 0
	if req.Experience != "" {
		parsed, err := strconv.Atoi(req.Experience)
		if err != nil || parsed < 0 {
			return nil, fmt.Errorf("%w: experience must be a whole number of years", domain.ErrValidation)
		}
		experience = parsed
	}

	existing, err := s.repo.FindByEmail(ctx, s.db, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateEmail
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	farmer := &domain.Farmer{
		ID:                 s.genID.Generate(),
		Name:               req.Name,
		FarmName:           req.FarmName,
		Location:           req.Location,
		Mobile:             req.Mobile,
		Experience:         experience,
		Email:              req.Email,
		PasswordHash:       hashed,
		FarmingType:        req.FarmingType,
		Documents:          req.Documents,
		VerificationStatus: domain.StatusPending,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.repo.Create(ctx, s.db, farmer); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}

	s.metrics.RecordFarmerRegistered(ctx, farmer.FarmingType)
	s.publisher.Publish(ctx, events.Event{
		Name: events.FarmerRegistered,
		ID:   farmer.ID.String(),
		At:   now,
		Data: map[string]any{"farmName": farmer.FarmName, "location": farmer.Location},
	})
	s.log.Info("farmer registered", zap.String("farmer_id", farmer.ID.String()))

	resp := toResponse(farmer)
	return &resp, nil
}

// Authenticate answers ErrInvalidCredentials for unknown emails and wrong
// passwords alike.
func (s *Service) Authenticate(ctx context.Context, email, pass string) (*domain.Response, error) {
	email = normalizeEmail(email)
	if email == "" || pass == "" {
		return nil, domain.ErrInvalidCredentials
	}

	farmer, err := s.repo.FindByEmail(ctx, s.db, email)
	if err != nil {
		return nil, err
	}
	if farmer == nil || !password.Verify(pass, farmer.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	resp := toResponse(farmer)
	return &resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	farmer, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toResponse(farmer)
	return &resp, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Response, error) {
	if req.Status != "" {
		status, ok := parseStatus(string(req.Status), true)
		if !ok {
			return nil, domain.ErrInvalidStatus
		}
		req.Status = status
	}

	items, err := s.repo.List(ctx, s.db, req)
	if err != nil {
		return nil, err
	}

	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp, nil
}

// SetVerification moves a farmer to Verified or Rejected. Either state may be
// re-evaluated later. verifiedAt is only kept while the farmer is Verified.
func (s *Service) SetVerification(ctx context.Context, req domain.SetVerificationRequest) (*domain.Response, error) {
	status, ok := parseStatus(req.Status, false)
	if !ok {
		return nil, domain.ErrInvalidStatus
	}

	farmer, err := s.find(ctx, req.FarmerID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	var verifiedAt *time.Time
	if status == domain.StatusVerified {
		verifiedAt = &now
	}
	notes := strings.TrimSpace(req.Notes)

	err = s.repo.UpdateFields(ctx, s.db, int64(farmer.ID), map[string]any{
		"verification_status": status,
		"verified_at":         verifiedAt,
		"admin_notes":         notes,
		"updated_at":          now,
	})
	if err != nil {
		if db.IsNotFound(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	previous := farmer.VerificationStatus
	farmer.VerificationStatus = status
	farmer.VerifiedAt = verifiedAt
	farmer.AdminNotes = notes
	farmer.UpdatedAt = now

	s.metrics.RecordVerification(ctx, string(status))
	s.publisher.Publish(ctx, events.Event{
		Name: events.FarmerVerificationChanged,
		ID:   farmer.ID.String(),
		At:   now,
		Data: map[string]any{"from": string(previous), "to": string(status)},
	})
	s.log.Info("farmer verification updated",
		zap.String("farmer_id", farmer.ID.String()),
		zap.String("from", string(previous)),
		zap.String("to", string(status)),
	)

	resp := toResponse(farmer)
	return &resp, nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.Farmer, error) {
	farmerID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrNotFound
	}
	farmer, err := s.repo.FindByID(ctx, s.db, farmerID.Int64())
	if err != nil {
		return nil, err
	}
	if farmer == nil {
		return nil, domain.ErrNotFound
	}
	return farmer, nil
}

func parseStatus(raw string, allowPending bool) (domain.VerificationStatus, bool) {
	switch domain.VerificationStatus(strings.TrimSpace(raw)) {
	case domain.StatusVerified:
		return domain.StatusVerified, true
	case domain.StatusRejected:
		return domain.StatusRejected, true
	case domain.StatusPending:
		return domain.StatusPending, allowPending
	default:
		return "", false
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func normalizeRegister(req domain.RegisterRequest) domain.RegisterRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.FarmName = strings.TrimSpace(req.FarmName)
	req.Location = strings.TrimSpace(req.Location)
	req.Mobile = strings.TrimSpace(req.Mobile)
	req.Email = normalizeEmail(req.Email)
	req.Experience = strings.TrimSpace(req.Experience)
	req.FarmingType = strings.TrimSpace(req.FarmingType)
	req.Documents.AadhaarNumber = strings.TrimSpace(req.Documents.AadhaarNumber)
	return req
}

func toResponse(f *domain.Farmer) domain.Response {
	return domain.Response{
		ID:                 f.ID.String(),
		Name:               f.Name,
		FarmName:           f.FarmName,
		Location:           f.Location,
		Mobile:             f.Mobile,
		Email:              f.Email,
		Experience:         f.Experience,
		FarmingType:        f.FarmingType,
		Documents:          f.Documents,
		VerificationStatus: f.VerificationStatus,
		VerifiedAt:         f.VerifiedAt,
		AdminNotes:         f.AdminNotes,
		CreatedAt:          f.CreatedAt,
	}
}
