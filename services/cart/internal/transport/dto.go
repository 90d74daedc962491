package transport

import "github.com/shopspring/decimal"

type AddToCartRequest struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type CartItemResponse struct {
	ID         uint            `json:"id"`
	UserID     uint            `json:"user_id"`
	ProductID  uint            `json:"product_id"`
	Quantity   uint            `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

type CartSummary struct {
	UserID      uint            `json:"user_id"`
	TotalItems  uint            `json:"total_items"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	ItemsCount  int             `json:"items_count"`
}
