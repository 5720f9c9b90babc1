// Package mocks holds hand-written testify mocks for the repository,
// cache and messaging interfaces used across the service tests.
package mocks

import (
	"context"

	"savoria/internal/domain"

	"github.com/stretchr/testify/mock"
)

type MenuRepository struct {
	mock.Mock
}

func (m *MenuRepository) CreateDish(ctx context.Context, dish *domain.Dish) error {
	args := m.Called(ctx, dish)
	return args.Error(0)
}

func (m *MenuRepository) GetDish(ctx context.Context, id string) (*domain.Dish, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Dish), args.Error(1)
}

func (m *MenuRepository) ListAvailableDishes(ctx context.Context) ([]domain.Dish, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Dish), args.Error(1)
}

func (m *MenuRepository) ListDishesByOwner(ctx context.Context, ownerID string) ([]domain.Dish, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Dish), args.Error(1)
}

func (m *MenuRepository) UpdateDish(ctx context.Context, dish *domain.Dish) (int64, error) {
	args := m.Called(ctx, dish)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MenuRepository) DeleteDish(ctx context.Context, id, ownerID string) (int64, error) {
	args := m.Called(ctx, id, ownerID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MenuRepository) UpdateDishImage(ctx context.Context, id, ownerID, imageURL string) (int64, error) {
	args := m.Called(ctx, id, ownerID, imageURL)
	return args.Get(0).(int64), args.Error(1)
}

type MenuCache struct {
	mock.Mock
}

func (m *MenuCache) GetMenu(ctx context.Context) ([]domain.Dish, bool) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).([]domain.Dish), args.Bool(1)
}

func (m *MenuCache) SetMenu(ctx context.Context, dishes []domain.Dish) error {
	args := m.Called(ctx, dishes)
	return args.Error(0)
}

func (m *MenuCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type OrderRepository struct {
	mock.Mock
}

func (m *OrderRepository) CreateOrder(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *OrderRepository) GetOrder(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *OrderRepository) ListOrdersByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *OrderRepository) SaveQRCode(ctx context.Context, orderID string, qr []byte) error {
	args := m.Called(ctx, orderID, qr)
	return args.Error(0)
}

func (m *OrderRepository) GetQRCode(ctx context.Context, orderID string) ([]byte, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type EventPublisher struct {
	mock.Mock
}

func (m *EventPublisher) PublishOrderCreated(ctx context.Context, event domain.OrderEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

type QRGenerator struct {
	mock.Mock
}

func (m *QRGenerator) Generate(orderID string) ([]byte, error) {
	args := m.Called(orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

type OrderStatusStore struct {
	mock.Mock
}

func (m *OrderStatusStore) UpdateOrderStatus(ctx context.Context, orderID, status string) (int64, error) {
	args := m.Called(ctx, orderID, status)
	return args.Get(0).(int64), args.Error(1)
}
