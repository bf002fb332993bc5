package domain

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Service interface {
	Place(ctx context.Context, req PlaceRequest) (*Response, error)
	ListByConsumer(ctx context.Context, consumerID string) ([]Response, error)
	ListByFarmer(ctx context.Context, farmerID string) ([]Response, error)
	ExportByFarmer(ctx context.Context, farmerID string) ([]byte, error)
}

const (
	PaymentCOD        = "COD"
	PaymentUPI        = "UPI"
	PaymentCard       = "Card"
	PaymentNetBanking = "NetBanking"
)

// PlaceRequest may echo the price the client displayed. UnitPrice and
// TotalPrice are only compared against the server computation, never stored.
type PlaceRequest struct {
	ProductID     string           `json:"productId" validate:"required"`
	ConsumerID    string           `json:"consumerId" validate:"required"`
	Quantity      decimal.Decimal  `json:"quantity"`
	UnitPrice     *decimal.Decimal `json:"unitPrice,omitempty"`
	TotalPrice    *decimal.Decimal `json:"totalPrice,omitempty"`
	Address       string           `json:"address" validate:"required"`
	PaymentMethod string           `json:"paymentMethod" validate:"required,oneof=COD UPI Card NetBanking"`
}

type Response struct {
	ID             string          `json:"id"`
	ProductID      string          `json:"productId"`
	FarmerID       string          `json:"farmerId"`
	ConsumerID     string          `json:"consumerId"`
	ConsumerName   string          `json:"consumerName"`
	ConsumerEmail  string          `json:"consumerEmail"`
	ConsumerMobile string          `json:"consumerMobile"`
	ProductName    string          `json:"productName"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Quantity       decimal.Decimal `json:"quantity"`
	TotalPrice     decimal.Decimal `json:"totalPrice"`
	Address        string          `json:"address"`
	PaymentMethod  string          `json:"paymentMethod"`
	Date           time.Time       `json:"date"`
}

var (
	ErrValidation       = errors.New("validation_error")
	ErrInvalidQuantity  = errors.New("invalid_quantity")
	ErrProductNotFound  = errors.New("product_not_found")
	ErrConsumerNotFound = errors.New("consumer_not_found")
	ErrTotalMismatch    = errors.New("total_mismatch")
)
