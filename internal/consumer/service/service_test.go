package service

import (
	"context"
	"testing"
	"time"

	"github.com/agridirect/marketplace/internal/clock"
	"github.com/agridirect/marketplace/internal/consumer/domain"
	"github.com/agridirect/marketplace/internal/consumer/repository"
	"github.com/agridirect/marketplace/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&domain.Consumer{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return New(Params{
		Log:   zap.NewNop(),
		GenID: node,
		Repo:  repository.New(dbConn),
		Clock: clock.NewFakeClock(time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)),
	})
}

func TestRegisterAndCheckEmail(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	exists, err := svc.EmailExists(ctx, "ravi@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	resp, err := svc.Register(ctx, domain.RegisterRequest{
		Name:     "Ravi",
		Email:    "Ravi@Example.com",
		Mobile:   "9123456780",
		Password: "buyer-pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "ravi@example.com", resp.Email)

	exists, err = svc.EmailExists(ctx, " RAVI@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = svc.Register(ctx, domain.RegisterRequest{
		Name:     "Ravi Again",
		Email:    "ravi@example.com",
		Mobile:   "9123456780",
		Password: "other",
	})
	assert.ErrorIs(t, err, domain.ErrDuplicateEmail)
}

func TestRegisterRejectsBadMobile(t *testing.T) {
	svc := newTestService(t)
	for _, mobile := range []string{"12-34", "+123456789", "-987654321", "12345.6789"} {
		_, err := svc.Register(context.Background(), domain.RegisterRequest{
			Name:     "Mina",
			Email:    "mina@example.com",
			Mobile:   mobile,
			Password: "pw",
		})
		assert.ErrorIs(t, err, domain.ErrValidation, mobile)
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	registered, err := svc.Register(ctx, domain.RegisterRequest{
		Name:     "Lena",
		Email:    "lena@example.com",
		Mobile:   "9000000001",
		Password: "right",
	})
	require.NoError(t, err)

	got, err := svc.Authenticate(ctx, "lena@example.com", "right")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, got.ID)

	_, err = svc.Authenticate(ctx, "lena@example.com", "wrong")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
	_, err = svc.Authenticate(ctx, "nobody@example.com", "right")
	assert.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestGetUnknown(t *testing.T) {
	svc := newTestService(t)
	_, err := svc.Get(context.Background(), "99")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Get(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
