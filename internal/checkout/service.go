package checkout

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"savoria/internal/cart"
	"savoria/internal/domain"
)

var (
	ErrEmptyCart     = errors.New("cart is empty")
	ErrOrderNotFound = errors.New("order not found")
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *domain.Order) error
	GetOrder(ctx context.Context, id string) (*domain.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error)
	SaveQRCode(ctx context.Context, orderID string, qr []byte) error
	GetQRCode(ctx context.Context, orderID string) ([]byte, error)
}

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event domain.OrderEvent) error
}

type QRGenerator interface {
	Generate(orderID string) ([]byte, error)
}

type CheckoutServiceInterface interface {
	Submit(ctx context.Context, c *cart.Cart, form domain.DeliveryForm, identity *domain.Identity) (*domain.Order, error)
	Get(ctx context.Context, orderID string) (*domain.Order, error)
	History(ctx context.Context, userID string) ([]domain.Order, error)
	GetQRCode(ctx context.Context, orderID string) ([]byte, error)
}

type CheckoutService struct {
	repo      OrderRepository
	publisher EventPublisher
	qrEncoder QRGenerator
}

func NewCheckoutService(repo OrderRepository, publisher EventPublisher, qr QRGenerator) *CheckoutService {
	return &CheckoutService{repo: repo, publisher: publisher, qrEncoder: qr}
}

// Submit snapshots the cart into an immutable order and persists it. The
// live cart is cleared only after the write succeeds, so a failed
// submission can be retried without re-entering items.
func (s *CheckoutService) Submit(ctx context.Context, c *cart.Cart, form domain.DeliveryForm, identity *domain.Identity) (*domain.Order, error) {
	if c.Empty() {
		return nil, ErrEmptyCart
	}
	if err := ValidateDeliveryForm(form); err != nil {
		return nil, err
	}

	order := &domain.Order{
		Items:     c.Lines(),
		Customer:  form,
		Subtotal:  c.Subtotal(),
		Tax:       c.Tax(),
		Total:     c.Total(),
		Status:    domain.StatusPending,
		IsGuest:   identity == nil,
		CreatedAt: time.Now().UTC(),
	}
	if identity != nil {
		order.UserID = identity.ID
	}

	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	if s.qrEncoder != nil {
		if qr, err := s.qrEncoder.Generate(order.ID); err == nil {
			_ = s.repo.SaveQRCode(ctx, order.ID, qr)
		}
	}

	if s.publisher != nil {
		if err := s.publisher.PublishOrderCreated(ctx, domain.OrderEvent{
			Type:      "order_created",
			OrderID:   order.ID,
			UserID:    order.UserID,
			Total:     order.Total,
			Timestamp: order.CreatedAt,
		}); err != nil {
			log.Printf("[checkout] failed to publish order event for %s: %v", order.ID, err)
		}
	}

	c.Clear()
	return order, nil
}

func (s *CheckoutService) Get(ctx context.Context, orderID string) (*domain.Order, error) {
	return s.repo.GetOrder(ctx, orderID)
}

// History lists past orders for a signed-in identity. Guests keep no
// history.
func (s *CheckoutService) History(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.repo.ListOrdersByUser(ctx, userID)
}

func (s *CheckoutService) GetQRCode(ctx context.Context, orderID string) ([]byte, error) {
	qr, err := s.repo.GetQRCode(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if len(qr) == 0 && s.qrEncoder != nil {
		if regenerated, err := s.qrEncoder.Generate(orderID); err == nil {
			_ = s.repo.SaveQRCode(ctx, orderID, regenerated)
			return regenerated, nil
		}
	}
	return qr, nil
}

// ConfirmationCode shortens an order id into the user-facing confirmation
// code: the first 8 characters, uppercased. The stored id stays the full
// value.
func ConfirmationCode(orderID string) string {
	if len(orderID) > 8 {
		orderID = orderID[:8]
	}
	return strings.ToUpper(orderID)
}

var _ CheckoutServiceInterface = (*CheckoutService)(nil)
