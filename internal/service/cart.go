package service

import (
	"context"
	"errors"

	"storefront-api/internal/apperr"
	"storefront-api/internal/model"
	"storefront-api/internal/repository"

	"gorm.io/gorm"
)

type CartService interface {
	Add(ctx context.Context, userID, productID, size string) (model.Cart, error)
	Get(ctx context.Context, userID string) (model.Cart, error)
	Remove(ctx context.Context, userID, productID, size string) (model.Cart, error)
	Clear(ctx context.Context, userID string) (model.Cart, error)
}

type cartServiceImpl struct {
	db       *gorm.DB
	cartRepo repository.CartRepository
	userRepo repository.UserRepository
}

func NewCartService(
	db *gorm.DB,
	cartRepo repository.CartRepository,
	userRepo repository.UserRepository,
) CartService {
	return &cartServiceImpl{
		db:       db,
		cartRepo: cartRepo,
		userRepo: userRepo,
	}
}

func (s *cartServiceImpl) requireUser(ctx context.Context, userID string) error {
	if userID == "" {
		return apperr.Validation("User id is required")
	}
	ok, err := s.userRepo.Exists(ctx, userID)
	if err != nil {
		return apperr.Internal("Failed to look up user", err)
	}
	if !ok {
		return apperr.NotFound("User not found")
	}
	return nil
}

func requireLine(productID, size string) error {
	if productID == "" || size == "" {
		return apperr.Validation("Item id and size are required")
	}
	return nil
}

func (s *cartServiceImpl) Add(ctx context.Context, userID, productID, size string) (model.Cart, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := requireLine(productID, size); err != nil {
		return nil, err
	}

	if err := s.cartRepo.Increment(ctx, s.db, userID, productID, size); err != nil {
		return nil, apperr.Internal("Failed to add item to cart", err)
	}

	return s.load(ctx, userID)
}

func (s *cartServiceImpl) Get(ctx context.Context, userID string) (model.Cart, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.load(ctx, userID)
}

func (s *cartServiceImpl) Remove(ctx context.Context, userID, productID, size string) (model.Cart, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := requireLine(productID, size); err != nil {
		return nil, err
	}

	err := s.cartRepo.Decrement(ctx, s.db, userID, productID, size)
	if errors.Is(err, repository.ErrItemNotInCart) {
		return nil, apperr.Validation("Item not found in cart")
	}
	if err != nil {
		return nil, apperr.Internal("Failed to remove item from cart", err)
	}

	return s.load(ctx, userID)
}

func (s *cartServiceImpl) Clear(ctx context.Context, userID string) (model.Cart, error) {
	if err := s.requireUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.cartRepo.DeleteByUser(ctx, s.db, userID); err != nil {
		return nil, apperr.Internal("Failed to clear cart", err)
	}
	return model.Cart{}, nil
}

func (s *cartServiceImpl) load(ctx context.Context, userID string) (model.Cart, error) {
	items, err := s.cartRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to load cart", err)
	}
	return model.CartFromItems(items), nil
}
