package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agridirect/marketplace/internal/clock"
	consumerdomain "github.com/agridirect/marketplace/internal/consumer/domain"
	consumerrepo "github.com/agridirect/marketplace/internal/consumer/repository"
	"github.com/agridirect/marketplace/internal/events"
	"github.com/agridirect/marketplace/internal/order/domain"
	"github.com/agridirect/marketplace/internal/order/repository"
	productdomain "github.com/agridirect/marketplace/internal/product/domain"
	productrepo "github.com/agridirect/marketplace/internal/product/repository"
	"github.com/agridirect/marketplace/pkg/db"
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type testEnv struct {
	svc      domain.Service
	db       *gorm.DB
	node     *snowflake.Node
	events   *events.Recorder
	product  *productdomain.Product
	consumer *consumerdomain.Consumer
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	dbConn, err := db.NewTest()
	require.NoError(t, err)
	require.NoError(t, dbConn.AutoMigrate(&consumerdomain.Consumer{}, &productdomain.Product{}, &domain.Order{}))

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)
	now := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	consumer := &consumerdomain.Consumer{
		ID:           node.Generate(),
		Name:         "Meera",
		Email:        "meera@example.com",
		Mobile:       "9123456780",
		PasswordHash: "x",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, dbConn.Create(consumer).Error)

	product := &productdomain.Product{
		ID:                node.Generate(),
		FarmerID:          node.Generate(),
		Name:              "Wheat",
		Price:             decimal.NewFromInt(50),
		Quantity:          100,
		Image:             "/uploads/wheat.jpg",
		AttestationStatus: productdomain.AttestationIssued,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	require.NoError(t, dbConn.Create(product).Error)

	recorder := &events.Recorder{}
	svc := New(Params{
		DB:           dbConn,
		Log:          zap.NewNop(),
		GenID:        node,
		Repo:         repository.Provide(),
		ProductRepo:  productrepo.Provide(),
		ConsumerRepo: consumerrepo.New(dbConn),
		Clock:        clock.NewFakeClock(now),
		Publisher:    recorder,
	})
	return testEnv{svc: svc, db: dbConn, node: node, events: recorder, product: product, consumer: consumer}
}

func (e testEnv) request(quantity int64) domain.PlaceRequest {
	return domain.PlaceRequest{
		ProductID:     e.product.ID.String(),
		ConsumerID:    e.consumer.ID.String(),
		Quantity:      decimal.NewFromInt(quantity),
		Address:       "12 MG Road, Pune",
		PaymentMethod: domain.PaymentCOD,
	}
}

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestPlaceComputesTotal(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.svc.Place(context.Background(), env.request(4))
	require.NoError(t, err)

	assert.True(t, resp.TotalPrice.Equal(decimal.NewFromInt(200)), "got %s", resp.TotalPrice)
	assert.True(t, resp.UnitPrice.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "Meera", resp.ConsumerName)
	assert.Equal(t, "Wheat", resp.ProductName)
	assert.Equal(t, env.product.FarmerID.String(), resp.FarmerID)
	assert.Equal(t, []string{events.OrderPlaced}, env.events.Names())
}

func TestPlaceAcceptsMatchingClientTotals(t *testing.T) {
	env := newTestEnv(t)
	req := env.request(4)
	req.UnitPrice = dec("50.00")
	req.TotalPrice = dec("200")

	_, err := env.svc.Place(context.Background(), req)
	require.NoError(t, err)
}

func TestPlaceRejections(t *testing.T) {
	env := newTestEnv(t)

	cases := []struct {
		name   string
		mutate func(*domain.PlaceRequest)
		want   error
	}{
		{"client total mismatch", func(r *domain.PlaceRequest) { r.TotalPrice = dec("150") }, domain.ErrTotalMismatch},
		{"client unit price mismatch", func(r *domain.PlaceRequest) { r.UnitPrice = dec("40") }, domain.ErrTotalMismatch},
		{"zero quantity", func(r *domain.PlaceRequest) { r.Quantity = decimal.Zero }, domain.ErrInvalidQuantity},
		{"negative quantity", func(r *domain.PlaceRequest) { r.Quantity = decimal.NewFromInt(-2) }, domain.ErrInvalidQuantity},
		{"missing address", func(r *domain.PlaceRequest) { r.Address = "  " }, domain.ErrValidation},
		{"unknown payment", func(r *domain.PlaceRequest) { r.PaymentMethod = "Barter" }, domain.ErrValidation},
		{"unknown product", func(r *domain.PlaceRequest) { r.ProductID = env.node.Generate().String() }, domain.ErrProductNotFound},
		{"malformed product", func(r *domain.PlaceRequest) { r.ProductID = "wheat" }, domain.ErrProductNotFound},
		{"unknown consumer", func(r *domain.PlaceRequest) { r.ConsumerID = env.node.Generate().String() }, domain.ErrConsumerNotFound},
		{"zero consumer", func(r *domain.PlaceRequest) { r.ConsumerID = "0" }, domain.ErrConsumerNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := env.request(4)
			tc.mutate(&req)
			_, err := env.svc.Place(context.Background(), req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	var count int64
	require.NoError(t, env.db.Model(&domain.Order{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSnapshotSurvivesProductEdit(t *testing.T) {
	env := newTestEnv(t)
	placed, err := env.svc.Place(context.Background(), env.request(2))
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&productdomain.Product{}).
		Where("id = ?", env.product.ID).
		Updates(map[string]any{"name": "Durum Wheat", "price": decimal.NewFromInt(80)}).Error)

	orders, err := env.svc.ListByConsumer(context.Background(), env.consumer.ID.String())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, placed.ID, orders[0].ID)
	assert.Equal(t, "Wheat", orders[0].ProductName)
	assert.True(t, orders[0].TotalPrice.Equal(decimal.NewFromInt(100)))
}

func TestListAndExportByFarmer(t *testing.T) {
	env := newTestEnv(t)
	for _, q := range []int64{1, 3} {
		_, err := env.svc.Place(context.Background(), env.request(q))
		require.NoError(t, err)
	}

	orders, err := env.svc.ListByFarmer(context.Background(), env.product.FarmerID.String())
	require.NoError(t, err)
	assert.Len(t, orders, 2)

	_, err = env.svc.ListByFarmer(context.Background(), "farmer")
	assert.ErrorIs(t, err, domain.ErrValidation)

	data, err := env.svc.ExportByFarmer(context.Background(), env.product.FarmerID.String())
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Order ID", rows[0][0])
	assert.Equal(t, "Wheat", rows[1][2])
}
