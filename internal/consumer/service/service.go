package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/agridirect/marketplace/internal/auth/password"
	"github.com/agridirect/marketplace/internal/clock"
	"github.com/agridirect/marketplace/internal/consumer/domain"
	"github.com/agridirect/marketplace/internal/validation"
	"github.com/agridirect/marketplace/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
	Clock clock.Clock
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		log:   p.Log.Named("consumer.service"),
		genID: p.GenID,
		repo:  p.Repo,
		clock: p.Clock,
	}
}

func (s *Service) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Response, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Email = normalizeEmail(req.Email)
	req.Mobile = strings.TrimSpace(req.Mobile)
	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, validation.Message(err))
	}

	exists, err := s.EmailExists(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicateEmail
	}

	hashed, err := password.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	consumer := &domain.Consumer{
		ID:           s.genID.Generate(),
		Name:         req.Name,
		Email:        req.Email,
		Mobile:       req.Mobile,
		PasswordHash: hashed,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, consumer); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateEmail
		}
		return nil, err
	}

	s.log.Info("consumer registered", zap.String("consumer_id", consumer.ID.String()))
	resp := toResponse(consumer)
	return &resp, nil
}

func (s *Service) Authenticate(ctx context.Context, email, pass string) (*domain.Response, error) {
	email = normalizeEmail(email)
	if email == "" || pass == "" {
		return nil, domain.ErrInvalidCredentials
	}

	consumer, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if consumer == nil || !password.Verify(pass, consumer.PasswordHash) {
		return nil, domain.ErrInvalidCredentials
	}

	resp := toResponse(consumer)
	return &resp, nil
}

func (s *Service) EmailExists(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	if email == "" {
		return false, fmt.Errorf("%w: email is required", domain.ErrValidation)
	}
	consumer, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	return consumer != nil, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Response, error) {
	consumerID, err := snowflake.ParseString(strings.TrimSpace(id))
	if err != nil {
		return nil, domain.ErrNotFound
	}
	consumer, err := s.repo.FindByID(ctx, consumerID.Int64())
	if err != nil {
		return nil, err
	}
	if consumer == nil {
		return nil, domain.ErrNotFound
	}
	resp := toResponse(consumer)
	return &resp, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func toResponse(c *domain.Consumer) domain.Response {
	return domain.Response{
		ID:        c.ID.String(),
		Name:      c.Name,
		Email:     c.Email,
		Mobile:    c.Mobile,
		CreatedAt: c.CreatedAt,
	}
}
