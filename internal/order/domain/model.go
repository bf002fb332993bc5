package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
)

// Order is immutable. Consumer and product fields are copied at placement
// time and never follow later edits.
type Order struct {
	ID         snowflake.ID `gorm:"primaryKey"`
	ProductID  snowflake.ID `gorm:"column:product_id;not null;index"`
	FarmerID   snowflake.ID `gorm:"column:farmer_id;not null;index"`
	ConsumerID snowflake.ID `gorm:"column:consumer_id;not null;index"`

	ConsumerName   string          `gorm:"column:consumer_name;type:text;not null"`
	ConsumerEmail  string          `gorm:"column:consumer_email;type:varchar(320);not null"`
	ConsumerMobile string          `gorm:"column:consumer_mobile;type:varchar(10);not null"`
	ProductName    string          `gorm:"column:product_name;type:text;not null"`
	UnitPrice      decimal.Decimal `gorm:"column:unit_price;type:numeric(12,2);not null"`
	Quantity       decimal.Decimal `gorm:"column:quantity;type:numeric(12,3);not null"`
	TotalPrice     decimal.Decimal `gorm:"column:total_price;type:numeric(14,2);not null"`
	Address        string          `gorm:"type:text;not null"`
	PaymentMethod  string          `gorm:"column:payment_method;type:varchar(32);not null"`

	Date      time.Time `gorm:"column:date;not null"`
	CreatedAt time.Time `gorm:"not null"`
}

func (Order) TableName() string { return "orders" }
