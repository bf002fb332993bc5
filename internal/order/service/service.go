package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/agridirect/marketplace/internal/clock"
	consumerdomain "github.com/agridirect/marketplace/internal/consumer/domain"
	"github.com/agridirect/marketplace/internal/events"
	"github.com/agridirect/marketplace/internal/observability/metrics"
	"github.com/agridirect/marketplace/internal/order/domain"
	productdomain "github.com/agridirect/marketplace/internal/product/domain"
	"github.com/agridirect/marketplace/internal/validation"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB           *gorm.DB
	Log          *zap.Logger
	GenID        *snowflake.Node
	Repo         domain.Repository
	ProductRepo  productdomain.Repository
	ConsumerRepo consumerdomain.Repository
	Clock        clock.Clock
	Publisher    events.Publisher
	Metrics      *metrics.Metrics `optional:"true"`
}

type Service struct {
	db           *gorm.DB
	log          *zap.Logger
	genID        *snowflake.Node
	repo         domain.Repository
	productRepo  productdomain.Repository
	consumerRepo consumerdomain.Repository
	clock        clock.Clock
	publisher    events.Publisher
	metrics      *metrics.Metrics
}

func New(p Params) domain.Service {
	publisher := p.Publisher
	if publisher == nil {
		publisher = events.Nop()
	}
	return &Service{
		db:           p.DB,
		log:          p.Log.Named("order.service"),
		genID:        p.GenID,
		repo:         p.Repo,
		productRepo:  p.ProductRepo,
		consumerRepo: p.ConsumerRepo,
		clock:        p.Clock,
		publisher:    publisher,
		metrics:      p.Metrics,
	}
}

// Place prices the order from the stored product. A client supplied unit or
// total price that disagrees with that computation is rejected.
func (s *Service) Place(ctx context.Context, req domain.PlaceRequest) (*domain.Response, error) {
	req.Address = strings.TrimSpace(req.Address)
	req.PaymentMethod = strings.TrimSpace(req.PaymentMethod)
	if err := validation.Struct(req); err != nil {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, validation.Message(err))
	}
	if !req.Quantity.IsPositive() {
		return nil, domain.ErrInvalidQuantity
	}

	consumerID, err := snowflake.ParseString(strings.TrimSpace(req.ConsumerID))
	if err != nil {
		return nil, domain.ErrConsumerNotFound
	}
	consumer, err := s.consumerRepo.FindByID(ctx, consumerID.Int64())
	if err != nil {
		return nil, err
	}
	if consumer == nil {
		return nil, domain.ErrConsumerNotFound
	}

	productID, err := snowflake.ParseString(strings.TrimSpace(req.ProductID))
	if err != nil {
		return nil, domain.ErrProductNotFound
	}
	product, err := s.productRepo.FindByID(ctx, s.db, productID.Int64())
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}

	unitPrice := product.Price.Round(2)
	total := unitPrice.Mul(req.Quantity).Round(2)
	if req.UnitPrice != nil && !req.UnitPrice.Equal(unitPrice) {
		return nil, fmt.Errorf("%w: unit price is %s", domain.ErrTotalMismatch, unitPrice.StringFixed(2))
	}
	if req.TotalPrice != nil && !req.TotalPrice.Round(2).Equal(total) {
		return nil, fmt.Errorf("%w: total is %s", domain.ErrTotalMismatch, total.StringFixed(2))
	}

	now := s.clock.Now()
	order := &domain.Order{
		ID:             s.genID.Generate(),
		ProductID:      product.ID,
		FarmerID:       product.FarmerID,
		ConsumerID:     consumer.ID,
		ConsumerName:   consumer.Name,
		ConsumerEmail:  consumer.Email,
		ConsumerMobile: consumer.Mobile,
		ProductName:    product.Name,
		UnitPrice:      unitPrice,
		Quantity:       req.Quantity,
		TotalPrice:     total,
		Address:        req.Address,
		PaymentMethod:  req.PaymentMethod,
		Date:           now,
		CreatedAt:      now,
	}
	if err := s.repo.Create(ctx, s.db, order); err != nil {
		return nil, err
	}

	s.metrics.RecordOrderPlaced(ctx, order.PaymentMethod)
	s.publisher.Publish(ctx, events.Event{
		Name: events.OrderPlaced,
		ID:   order.ID.String(),
		At:   now,
		Data: map[string]any{
			"productId":  order.ProductID.String(),
			"farmerId":   order.FarmerID.String(),
			"consumerId": order.ConsumerID.String(),
			"totalPrice": order.TotalPrice.StringFixed(2),
		},
	})
	s.log.Info("order placed",
		zap.String("order_id", order.ID.String()),
		zap.String("product_id", order.ProductID.String()),
		zap.String("total", order.TotalPrice.StringFixed(2)),
	)

	resp := toResponse(order)
	return &resp, nil
}

func (s *Service) ListByConsumer(ctx context.Context, consumerID string) ([]domain.Response, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(consumerID))
	if err != nil {
		return nil, fmt.Errorf("%w: consumerId is invalid", domain.ErrValidation)
	}
	items, err := s.repo.ListByConsumer(ctx, s.db, id.Int64())
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

func (s *Service) ListByFarmer(ctx context.Context, farmerID string) ([]domain.Response, error) {
	items, err := s.farmerOrders(ctx, farmerID)
	if err != nil {
		return nil, err
	}
	return toResponses(items), nil
}

func (s *Service) farmerOrders(ctx context.Context, farmerID string) ([]domain.Order, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(farmerID))
	if err != nil {
		return nil, fmt.Errorf("%w: farmerId is invalid", domain.ErrValidation)
	}
	return s.repo.ListByFarmer(ctx, s.db, id.Int64())
}

func toResponses(items []domain.Order) []domain.Response {
	resp := make([]domain.Response, 0, len(items))
	for i := range items {
		resp = append(resp, toResponse(&items[i]))
	}
	return resp
}

func toResponse(o *domain.Order) domain.Response {
	return domain.Response{
		ID:             o.ID.String(),
		ProductID:      o.ProductID.String(),
		FarmerID:       o.FarmerID.String(),
		ConsumerID:     o.ConsumerID.String(),
		ConsumerName:   o.ConsumerName,
		ConsumerEmail:  o.ConsumerEmail,
		ConsumerMobile: o.ConsumerMobile,
		ProductName:    o.ProductName,
		UnitPrice:      o.UnitPrice,
		Quantity:       o.Quantity,
		TotalPrice:     o.TotalPrice,
		Address:        o.Address,
		PaymentMethod:  o.PaymentMethod,
		Date:           o.Date,
	}
}
