package service

import (
	"context"
	"testing"

	authdomain "github.com/agridirect/marketplace/internal/auth/domain"
	consumerdomain "github.com/agridirect/marketplace/internal/consumer/domain"
	farmerdomain "github.com/agridirect/marketplace/internal/farmer/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockFarmers struct {
	mock.Mock
	farmerdomain.Service
}

func (m *mockFarmers) Authenticate(ctx context.Context, email, password string) (*farmerdomain.Response, error) {
	args := m.Called(ctx, email, password)
	resp, _ := args.Get(0).(*farmerdomain.Response)
	return resp, args.Error(1)
}

type mockConsumers struct {
	mock.Mock
	consumerdomain.Service
}

func (m *mockConsumers) Authenticate(ctx context.Context, email, password string) (*consumerdomain.Response, error) {
	args := m.Called(ctx, email, password)
	resp, _ := args.Get(0).(*consumerdomain.Response)
	return resp, args.Error(1)
}

func TestAuthenticateFarmerCarriesVerificationStatus(t *testing.T) {
	farmers := &mockFarmers{}
	farmers.On("Authenticate", mock.Anything, "f@example.com", "pw").Return(&farmerdomain.Response{
		ID:                 "101",
		Name:               "Asha",
		Email:              "f@example.com",
		VerificationStatus: farmerdomain.StatusPending,
	}, nil)

	svc := New(Params{Log: zap.NewNop(), Farmers: farmers, Consumers: &mockConsumers{}})
	identity, err := svc.Authenticate(context.Background(), authdomain.KindFarmer, "f@example.com", "pw")
	require.NoError(t, err)
	assert.Equal(t, "101", identity.ID)
	assert.Equal(t, "Pending", identity.VerificationStatus)
	farmers.AssertExpectations(t)
}

func TestAuthenticateMapsInvalidCredentials(t *testing.T) {
	consumers := &mockConsumers{}
	consumers.On("Authenticate", mock.Anything, "c@example.com", "bad").Return(nil, consumerdomain.ErrInvalidCredentials)

	svc := New(Params{Log: zap.NewNop(), Farmers: &mockFarmers{}, Consumers: consumers})
	_, err := svc.Authenticate(context.Background(), authdomain.KindConsumer, "c@example.com", "bad")
	assert.ErrorIs(t, err, authdomain.ErrInvalidCredentials)
}

func TestAuthenticateUnknownKind(t *testing.T) {
	svc := New(Params{Log: zap.NewNop(), Farmers: &mockFarmers{}, Consumers: &mockConsumers{}})
	_, err := svc.Authenticate(context.Background(), "admin", "a@example.com", "pw")
	assert.ErrorIs(t, err, authdomain.ErrUnknownKind)
}
