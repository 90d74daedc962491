package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/webmarket/webmarket/pkg/catalogclient"
	"github.com/webmarket/webmarket/services/order/internal/domain"
)

// Order is the aggregate root; it exclusively owns its items and cascades
// deletion to them. TotalAmount is a snapshot computed once at checkout and
// never recomputed.
type Order struct {
	ID          uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	UserID      uint            `gorm:"index;not null"              json:"user_id"`
	TotalAmount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_amount"`
	Status      domain.Status   `gorm:"type:varchar(20);not null"   json:"status"`

	ShippingAddress string  `gorm:"type:text;not null" json:"shipping_address"`
	BillingAddress  *string `gorm:"type:text"          json:"billing_address"`
	Phone           string  `gorm:"size:20;not null"   json:"phone"`
	Email           string  `gorm:"size:100;not null"  json:"email"`
	Notes           *string `gorm:"type:text"          json:"notes"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	EstimatedDelivery *time.Time `json:"estimated_delivery"`
	DeliveredAt       *time.Time `json:"delivered_at"`

	Items []OrderItem `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"items"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderItem freezes product name/description at order time so later catalog
// edits never rewrite history. TotalPrice is quantity times unit price,
// computed once at creation.
type OrderItem struct {
	ID         uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	OrderID    uint            `gorm:"index;not null"              json:"order_id"`
	ProductID  uint            `gorm:"index;not null"              json:"product_id"`
	Quantity   uint            `gorm:"not null;check:quantity>0"   json:"quantity"`
	UnitPrice  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"total_price"`

	ProductName        string               `gorm:"size:200;not null" json:"product_name"`
	ProductDescription *string              `gorm:"type:text"         json:"product_description"`
	ProductSource      catalogclient.Source `gorm:"size:20;not null"  json:"product_source"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
