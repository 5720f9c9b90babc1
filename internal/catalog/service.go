package catalog

import (
	"context"
	"errors"
	"log"
	"strings"

	"savoria/internal/domain"
)

var (
	ErrDishNotFound = errors.New("dish not found")
	ErrNotOwner     = errors.New("dish belongs to another owner")
	ErrInvalidDish  = errors.New("invalid dish payload")
)

type MenuRepository interface {
	CreateDish(ctx context.Context, dish *domain.Dish) error
	GetDish(ctx context.Context, id string) (*domain.Dish, error)
	ListAvailableDishes(ctx context.Context) ([]domain.Dish, error)
	ListDishesByOwner(ctx context.Context, ownerID string) ([]domain.Dish, error)
	UpdateDish(ctx context.Context, dish *domain.Dish) (int64, error)
	DeleteDish(ctx context.Context, id, ownerID string) (int64, error)
	UpdateDishImage(ctx context.Context, id, ownerID, imageURL string) (int64, error)
}

// MenuCache fronts the read-mostly customer menu. A miss is not an error;
// writes invalidate rather than update.
type MenuCache interface {
	GetMenu(ctx context.Context) ([]domain.Dish, bool)
	SetMenu(ctx context.Context, dishes []domain.Dish) error
	Invalidate(ctx context.Context) error
}

type MenuServiceInterface interface {
	Browse(ctx context.Context, criteria Criteria, identity *domain.Identity) ([]domain.Dish, error)
	Get(ctx context.Context, id string) (*domain.Dish, error)
	Create(ctx context.Context, dish *domain.Dish, ownerID string) error
	Update(ctx context.Context, dish *domain.Dish, ownerID string) error
	Delete(ctx context.Context, id, ownerID string) error
	UpdateImage(ctx context.Context, id, ownerID, imageURL string) error
}

type MenuService struct {
	repo  MenuRepository
	cache MenuCache
}

func NewMenuService(repo MenuRepository, cache MenuCache) *MenuService {
	return &MenuService{repo: repo, cache: cache}
}

// Browse returns the filtered view for the caller. Customers and guests
// read the cached available menu; owners read their own dishes straight
// from the repository, unavailable ones included.
func (s *MenuService) Browse(ctx context.Context, criteria Criteria, identity *domain.Identity) ([]domain.Dish, error) {
	if identity != nil && identity.Role == domain.RoleOwner {
		dishes, err := s.repo.ListDishesByOwner(ctx, identity.ID)
		if err != nil {
			return nil, err
		}
		return Visible(dishes, criteria, domain.RoleOwner), nil
	}

	dishes, err := s.availableDishes(ctx)
	if err != nil {
		return nil, err
	}
	return Visible(dishes, criteria, domain.RoleCustomer), nil
}

func (s *MenuService) availableDishes(ctx context.Context) ([]domain.Dish, error) {
	if s.cache != nil {
		if dishes, ok := s.cache.GetMenu(ctx); ok {
			return dishes, nil
		}
	}
	dishes, err := s.repo.ListAvailableDishes(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetMenu(ctx, dishes); err != nil {
			log.Printf("[catalog] menu cache write failed: %v", err)
		}
	}
	return dishes, nil
}

func (s *MenuService) Get(ctx context.Context, id string) (*domain.Dish, error) {
	return s.repo.GetDish(ctx, id)
}

func (s *MenuService) Create(ctx context.Context, dish *domain.Dish, ownerID string) error {
	if err := validateDish(dish); err != nil {
		return err
	}
	dish.OwnerID = ownerID
	if err := s.repo.CreateDish(ctx, dish); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *MenuService) Update(ctx context.Context, dish *domain.Dish, ownerID string) error {
	if err := validateDish(dish); err != nil {
		return err
	}
	dish.OwnerID = ownerID
	rows, err := s.repo.UpdateDish(ctx, dish)
	if err != nil {
		return err
	}
	if rows == 0 {
		return s.missingOrForeign(ctx, dish.ID)
	}
	s.invalidate(ctx)
	return nil
}

func (s *MenuService) Delete(ctx context.Context, id, ownerID string) error {
	rows, err := s.repo.DeleteDish(ctx, id, ownerID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return s.missingOrForeign(ctx, id)
	}
	s.invalidate(ctx)
	return nil
}

func (s *MenuService) UpdateImage(ctx context.Context, id, ownerID, imageURL string) error {
	rows, err := s.repo.UpdateDishImage(ctx, id, ownerID, imageURL)
	if err != nil {
		return err
	}
	if rows == 0 {
		return s.missingOrForeign(ctx, id)
	}
	s.invalidate(ctx)
	return nil
}

// missingOrForeign distinguishes "no such dish" from "someone else's
// dish" after an owner-scoped write matched zero rows.
func (s *MenuService) missingOrForeign(ctx context.Context, id string) error {
	if _, err := s.repo.GetDish(ctx, id); err != nil {
		return ErrDishNotFound
	}
	return ErrNotOwner
}

func (s *MenuService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Printf("[catalog] menu cache invalidation failed: %v", err)
	}
}

func validateDish(dish *domain.Dish) error {
	if strings.TrimSpace(dish.Name) == "" || dish.Price < 0 {
		return ErrInvalidDish
	}
	return nil
}

var _ MenuServiceInterface = (*MenuService)(nil)
