package service

import (
	"context"
	"errors"

	authdomain "github.com/agridirect/marketplace/internal/auth/domain"
	consumerdomain "github.com/agridirect/marketplace/internal/consumer/domain"
	farmerdomain "github.com/agridirect/marketplace/internal/farmer/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Farmers   farmerdomain.Service
	Consumers consumerdomain.Service
}

type Service struct {
	log       *zap.Logger
	farmers   farmerdomain.Service
	consumers consumerdomain.Service
}

func New(p Params) authdomain.Service {
	return &Service{
		log:       p.Log.Named("auth.service"),
		farmers:   p.Farmers,
		consumers: p.Consumers,
	}
}

func (s *Service) Authenticate(ctx context.Context, kind authdomain.Kind, email, password string) (*authdomain.Identity, error) {
	switch kind {
	case authdomain.KindFarmer:
		farmer, err := s.farmers.Authenticate(ctx, email, password)
		if err != nil {
			return nil, s.mapErr(kind, err, farmerdomain.ErrInvalidCredentials)
		}
		return &authdomain.Identity{
			Kind:               kind,
			ID:                 farmer.ID,
			Name:               farmer.Name,
			Email:              farmer.Email,
			VerificationStatus: string(farmer.VerificationStatus),
		}, nil
	case authdomain.KindConsumer:
		consumer, err := s.consumers.Authenticate(ctx, email, password)
		if err != nil {
			return nil, s.mapErr(kind, err, consumerdomain.ErrInvalidCredentials)
		}
		return &authdomain.Identity{
			Kind:  kind,
			ID:    consumer.ID,
			Name:  consumer.Name,
			Email: consumer.Email,
		}, nil
	default:
		return nil, authdomain.ErrUnknownKind
	}
}

func (s *Service) mapErr(kind authdomain.Kind, err, invalid error) error {
	if errors.Is(err, invalid) {
		s.log.Debug("login rejected", zap.String("kind", string(kind)))
		return authdomain.ErrInvalidCredentials
	}
	return err
}
