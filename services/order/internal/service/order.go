package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"

	"github.com/webmarket/webmarket/pkg/catalogclient"
	"github.com/webmarket/webmarket/pkg/logging"
	"github.com/webmarket/webmarket/services/order/internal/cartclient"
	"github.com/webmarket/webmarket/services/order/internal/domain"
	"github.com/webmarket/webmarket/services/order/internal/models"
	"github.com/webmarket/webmarket/services/order/internal/transport"
	"gorm.io/gorm"
)

var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("order not found")
	ErrEmptyCart         = errors.New("cart is empty")
	ErrCartUnavailable   = errors.New("cart unavailable")
	ErrInvalidTransition = errors.New("invalid status transition")
)

const (
	defaultPerPage   = 10
	maxPerPage       = 50
	deliveryEstimate = 5 * 24 * time.Hour
	maxNotesLen      = 1000
)

// CartFetcher reads the caller's current cart, acting with their credentials.
type CartFetcher interface {
	FetchCart(ctx context.Context, bearerToken string) ([]cartclient.Line, error)
}

// ProductDirectory resolves product display data for item snapshots.
type ProductDirectory interface {
	ProductSnapshot(ctx context.Context, productID uint) catalogclient.Snapshot
}

// EventPublisher emits order lifecycle events. Publishing is best effort and
// never fails an order operation.
type EventPublisher interface {
	Publish(ctx context.Context, key, eventType string, payload any) error
}

type OrderService struct {
	Repo      OrderRepo
	Cart      CartFetcher
	Catalog   ProductDirectory
	Publisher EventPublisher
}

type OrderRepo interface {
	Create(ctx context.Context, order *models.Order) error
	GetOwned(ctx context.Context, userID, orderID uint) (*models.Order, error)
	ListByUser(ctx context.Context, userID uint, status *domain.Status, limit, offset int) ([]models.Order, int64, error)
	Update(ctx context.Context, order *models.Order) error
	CountByUser(ctx context.Context, userID uint) (int64, error)
	CountByStatus(ctx context.Context, userID uint, status domain.Status) (int64, error)
	TotalSpent(ctx context.Context, userID uint) (decimal.Decimal, error)
}

func NewOrderService(repo OrderRepo, cart CartFetcher, catalog ProductDirectory, publisher EventPublisher) *OrderService {
	return &OrderService{Repo: repo, Cart: cart, Catalog: catalog, Publisher: publisher}
}

// Checkout converts the caller's cart into a pending order. The cart is read
// with the caller's own token, every line is priced from the cart snapshot,
// and the whole order is written in a single transaction. The cart itself is
// left untouched.
func (s *OrderService) Checkout(ctx context.Context, userID uint, bearerToken string, req transport.CheckoutRequest) (*models.Order, error) {
	if err := validateCheckout(req); err != nil {
		return nil, err
	}

	lines, err := s.Cart.FetchCart(ctx, bearerToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCartUnavailable, err)
	}
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	now := time.Now().UTC()
	estimated := now.Add(deliveryEstimate)

	order := &models.Order{
		UserID:            userID,
		Status:            domain.StatusPending,
		TotalAmount:       decimal.Zero,
		ShippingAddress:   strings.TrimSpace(req.ShippingAddress),
		BillingAddress:    req.BillingAddress,
		Phone:             strings.TrimSpace(req.Phone),
		Email:             strings.TrimSpace(req.Email),
		Notes:             req.Notes,
		EstimatedDelivery: &estimated,
	}

	for _, line := range lines {
		snapshot := s.Catalog.ProductSnapshot(ctx, line.ProductID)
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		order.Items = append(order.Items, models.OrderItem{
			ProductID:          line.ProductID,
			Quantity:           line.Quantity,
			UnitPrice:          line.UnitPrice,
			TotalPrice:         lineTotal,
			ProductName:        snapshot.Name,
			ProductDescription: snapshot.Description,
			ProductSource:      snapshot.Source,
		})
		order.TotalAmount = order.TotalAmount.Add(lineTotal)
	}

	if err := s.Repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	s.publish(ctx, order, "order.created")
	return order, nil
}

func (s *OrderService) List(ctx context.Context, userID uint, page, perPage int, statusFilter string) (*transport.OrderListResponse, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}

	var status *domain.Status
	if statusFilter != "" {
		parsed, err := domain.Parse(statusFilter)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrValidation, err)
		}
		status = &parsed
	}

	offset := (page - 1) * perPage
	orders, total, err := s.Repo.ListByUser(ctx, userID, status, perPage, offset)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	resp := &transport.OrderListResponse{
		Orders:      make([]transport.OrderSummary, 0, len(orders)),
		TotalOrders: total,
		Page:        page,
		PerPage:     perPage,
		TotalPages:  (total + int64(perPage) - 1) / int64(perPage),
	}
	for _, o := range orders {
		resp.Orders = append(resp.Orders, transport.OrderSummary{
			ID:                o.ID,
			UserID:            o.UserID,
			TotalAmount:       o.TotalAmount,
			Status:            o.Status,
			CreatedAt:         o.CreatedAt,
			ItemsCount:        len(o.Items),
			EstimatedDelivery: o.EstimatedDelivery,
		})
	}
	return resp, nil
}

func (s *OrderService) Get(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOwned(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return order, nil
}

// Cancel moves an order to cancelled when the owner is still allowed to back
// out, which is only before processing starts.
func (s *OrderService) Cancel(ctx context.Context, userID, orderID uint) (*models.Order, error) {
	order, err := s.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.Cancellable() {
		return nil, fmt.Errorf("%w: order is %s", ErrInvalidTransition, order.Status)
	}

	order.Status = domain.StatusCancelled
	if err := s.Repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	s.publish(ctx, order, "order.status_changed")
	return order, nil
}

// UpdateStatus advances an order along the lifecycle. Notes accumulate with a
// timestamp instead of replacing each other, and reaching delivered stamps the
// delivery time.
func (s *OrderService) UpdateStatus(ctx context.Context, userID, orderID uint, req transport.StatusUpdateRequest) (*models.Order, error) {
	next, err := domain.Parse(req.Status)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	order, err := s.Get(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: cannot go from %s to %s", ErrInvalidTransition, order.Status, next)
	}

	order.Status = next
	if next == domain.StatusDelivered {
		now := time.Now().UTC()
		order.DeliveredAt = &now
	}
	if req.Notes != nil && *req.Notes != "" {
		appendNote(order, *req.Notes)
	}

	if err := s.Repo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}

	s.publish(ctx, order, "order.status_changed")
	return order, nil
}

func (s *OrderService) Statistics(ctx context.Context, userID uint) (*transport.OrderStats, error) {
	total, err := s.Repo.CountByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("count orders: %w", err)
	}
	pending, err := s.Repo.CountByStatus(ctx, userID, domain.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("count pending: %w", err)
	}
	completed, err := s.Repo.CountByStatus(ctx, userID, domain.StatusDelivered)
	if err != nil {
		return nil, fmt.Errorf("count delivered: %w", err)
	}
	cancelled, err := s.Repo.CountByStatus(ctx, userID, domain.StatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("count cancelled: %w", err)
	}
	spent, err := s.Repo.TotalSpent(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("sum spent: %w", err)
	}

	avg := decimal.Zero
	if total > 0 {
		avg = spent.DivRound(decimal.NewFromInt(total), 2)
	}

	return &transport.OrderStats{
		UserID:            userID,
		TotalOrders:       total,
		PendingOrders:     pending,
		CompletedOrders:   completed,
		CancelledOrders:   cancelled,
		TotalSpent:        spent,
		AverageOrderValue: avg,
	}, nil
}

func (s *OrderService) publish(ctx context.Context, order *models.Order, eventType string) {
	if s.Publisher == nil {
		return
	}
	payload := map[string]any{
		"order_id":     order.ID,
		"user_id":      order.UserID,
		"status":       order.Status,
		"total_amount": order.TotalAmount,
	}
	if err := s.Publisher.Publish(ctx, strconv.FormatUint(uint64(order.ID), 10), eventType, payload); err != nil {
		logging.FromContext(ctx).Warn("publish order event failed",
			"event_type", eventType,
			"order_id", order.ID,
			"error", err)
	}
}

// appendNote keeps prior notes, adding a timestamped line. A first note is
// stored as-is.
func appendNote(order *models.Order, note string) {
	if order.Notes == nil || *order.Notes == "" {
		order.Notes = &note
		return
	}
	stamped := *order.Notes + "\n[" + time.Now().UTC().Format(time.RFC3339) + "] " + note
	order.Notes = &stamped
}

func validateCheckout(req transport.CheckoutRequest) error {
	if len(strings.TrimSpace(req.ShippingAddress)) < 10 {
		return fmt.Errorf("%w: shipping address is too short", ErrValidation)
	}
	if digitCount(req.Phone) < 7 {
		return fmt.Errorf("%w: phone number is invalid", ErrValidation)
	}
	email := strings.TrimSpace(req.Email)
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return fmt.Errorf("%w: email address is invalid", ErrValidation)
	}
	if req.Notes != nil && len(*req.Notes) > maxNotesLen {
		return fmt.Errorf("%w: notes exceed %d characters", ErrValidation, maxNotesLen)
	}
	return nil
}

func digitCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsDigit(r) {
			n++
		}
	}
	return n
}
