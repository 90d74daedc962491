package transport

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/webmarket/webmarket/services/order/internal/domain"
)

type CheckoutRequest struct {
	ShippingAddress string  `json:"shipping_address"`
	BillingAddress  *string `json:"billing_address"`
	Phone           string  `json:"phone"`
	Email           string  `json:"email"`
	Notes           *string `json:"notes"`
	PaymentMethod   string  `json:"payment_method"`
}

type CheckoutResponse struct {
	OrderID           uint            `json:"order_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Status            domain.Status   `json:"status"`
	Message           string          `json:"message"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery"`
}

type OrderSummary struct {
	ID                uint            `json:"id"`
	UserID            uint            `json:"user_id"`
	TotalAmount       decimal.Decimal `json:"total_amount"`
	Status            domain.Status   `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
	ItemsCount        int             `json:"items_count"`
	EstimatedDelivery *time.Time      `json:"estimated_delivery"`
}

type OrderListResponse struct {
	Orders      []OrderSummary `json:"orders"`
	TotalOrders int64          `json:"total_orders"`
	Page        int            `json:"page"`
	PerPage     int            `json:"per_page"`
	TotalPages  int64          `json:"total_pages"`
}

type StatusUpdateRequest struct {
	Status string  `json:"status"`
	Notes  *string `json:"notes"`
}

type OrderStats struct {
	UserID            uint            `json:"user_id"`
	TotalOrders       int64           `json:"total_orders"`
	PendingOrders     int64           `json:"pending_orders"`
	CompletedOrders   int64           `json:"completed_orders"`
	CancelledOrders   int64           `json:"cancelled_orders"`
	TotalSpent        decimal.Decimal `json:"total_spent"`
	AverageOrderValue decimal.Decimal `json:"average_order_value"`
}
