package models

import "github.com/shopspring/decimal"

// CartItem holds one (user, product) row. The unique index makes a repeated
// add a quantity update instead of a second row.
type CartItem struct {
	ID        uint            `gorm:"primaryKey;autoIncrement"                       json:"id"`
	UserID    uint            `gorm:"uniqueIndex:idx_user_product;not null"          json:"user_id"`
	ProductID uint            `gorm:"uniqueIndex:idx_user_product;not null"          json:"product_id"`
	Quantity  uint            `gorm:"default:1;check:quantity>0"                     json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:numeric(12,2);not null"                    json:"unit_price"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

func (c *CartItem) TotalPrice() decimal.Decimal {
	return c.UnitPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
