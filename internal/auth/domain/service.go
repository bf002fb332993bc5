package domain

import (
	"context"
	"errors"
)

// Kind selects which identity store a login is checked against.
type Kind string

const (
	KindFarmer   Kind = "farmer"
	KindConsumer Kind = "consumer"
)

// Identity is the public record returned after a successful login.
type Identity struct {
	Kind               Kind   `json:"kind"`
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Email              string `json:"email"`
	VerificationStatus string `json:"verificationStatus,omitempty"`
}

type Service interface {
	Authenticate(ctx context.Context, kind Kind, email, password string) (*Identity, error)
}

var (
	ErrInvalidCredentials = errors.New("invalid_credentials")
	ErrUnknownKind        = errors.New("unknown_identity_kind")
)
