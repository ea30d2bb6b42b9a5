package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/piora/backend/internal/domain/cart"
	"github.com/piora/backend/internal/domain/shared"
)

// CartService handles shopping cart operations. Every mutation runs inside
// a transaction scope: the product row is read (and locked where the store
// supports it) before the quantity check, so concurrent mutations of the
// same product serialize and over-reservation of stock is impossible.
type CartService struct {
	cartRepo cart.CartRepository
	txScope  TransactionScope
}

// NewCartService creates a new CartService
func NewCartService(cartRepo cart.CartRepository, txScope TransactionScope) *CartService {
	return &CartService{
		cartRepo: cartRepo,
		txScope:  txScope,
	}
}

// GetOrCreate returns the user's cart, creating an empty one on first access
func (s *CartService) GetOrCreate(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	existing, err := s.cartRepo.FindByUserID(ctx, userID)
	if err == nil {
		return ToCartResponse(existing), nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	created, err := cart.NewCart(userID)
	if err != nil {
		return nil, err
	}
	if err := s.cartRepo.Save(ctx, created); err != nil {
		// a concurrent request may have created the cart first; the unique
		// index on user_id guarantees at most one survives
		if errors.Is(err, shared.ErrAlreadyExists) {
			existing, ferr := s.cartRepo.FindByUserID(ctx, userID)
			if ferr != nil {
				return nil, ferr
			}
			return ToCartResponse(existing), nil
		}
		return nil, err
	}

	return ToCartResponse(created), nil
}

// AddItem adds quantity units of a product to the user's cart. If the cart
// already holds the product, the line quantity is incremented instead.
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, req AddItemRequest) (*CartResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}

	var cartID uuid.UUID
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		userCart, err := s.loadOrCreateCart(ctx, repos, userID)
		if err != nil {
			return err
		}

		product, err := repos.ProductRepo().FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}

		if _, err := userCart.AddItem(product.ID, req.Quantity, product.Quantity); err != nil {
			return err
		}

		cartID = userCart.ID
		return repos.CartRepo().Save(ctx, userCart)
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, cartID)
}

// UpdateItem sets the absolute quantity of an existing cart line
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateItemRequest) (*CartResponse, error) {
	if req.Quantity <= 0 {
		return nil, shared.ErrInvalidQuantity
	}

	var cartID uuid.UUID
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		userCart, err := repos.CartRepo().FindByUserID(ctx, userID)
		if err != nil {
			return err
		}

		item := userCart.FindItemByID(itemID)
		if item == nil {
			return shared.ErrNotFound
		}

		product, err := repos.ProductRepo().FindByID(ctx, item.ProductID)
		if err != nil {
			return err
		}

		if _, err := userCart.UpdateItemQuantity(itemID, req.Quantity, product.Quantity); err != nil {
			return err
		}

		cartID = userCart.ID
		return repos.CartRepo().Save(ctx, userCart)
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, cartID)
}

// RemoveItem removes a line from the user's cart
func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*CartResponse, error) {
	var cartID uuid.UUID
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		userCart, err := repos.CartRepo().FindByUserID(ctx, userID)
		if err != nil {
			return err
		}

		if userCart.FindItemByID(itemID) == nil {
			return shared.ErrNotFound
		}

		cartID = userCart.ID
		return repos.CartRepo().DeleteItem(ctx, userCart.ID, itemID)
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, cartID)
}

// Clear removes every line from the user's cart. A user without a cart
// yet gets an empty one, so clearing always succeeds.
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	var cartID uuid.UUID
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		userCart, err := s.loadOrCreateCart(ctx, repos, userID)
		if err != nil {
			return err
		}

		cartID = userCart.ID
		return repos.CartRepo().DeleteAllItems(ctx, userCart.ID)
	})
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, cartID)
}

func (s *CartService) loadOrCreateCart(ctx context.Context, repos TransactionalRepositories, userID uuid.UUID) (*cart.Cart, error) {
	userCart, err := repos.CartRepo().FindByUserID(ctx, userID)
	if err == nil {
		return userCart, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	userCart, err = cart.NewCart(userID)
	if err != nil {
		return nil, err
	}
	if err := repos.CartRepo().Save(ctx, userCart); err != nil {
		return nil, err
	}
	return userCart, nil
}

// reload fetches the cart fresh so responses carry loaded product
// associations and up-to-date totals.
func (s *CartService) reload(ctx context.Context, cartID uuid.UUID) (*CartResponse, error) {
	userCart, err := s.cartRepo.FindByID(ctx, cartID)
	if err != nil {
		return nil, err
	}
	return ToCartResponse(userCart), nil
}
