package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shoppi/core/internal/domain/entities"
	"github.com/shoppi/core/internal/infrastructure/logger"
	"github.com/shoppi/core/internal/ports"
)

// CartItemRequest carries a main-cart upsert.
type CartItemRequest struct {
	ID       string `json:"id" validate:"required"`
	Quantity int    `json:"quantity" validate:"gte=0"`
	Checked  bool   `json:"checked"`
}

// CreateCartRequest carries a new named cart.
type CreateCartRequest struct {
	ID       string              `json:"id"`
	Name     string              `json:"name" validate:"required"`
	Products []entities.CartItem `json:"products"`
}

// CartService handles main-cart and named-cart operations
type CartService struct {
	store  ports.DocumentStore
	logger *logger.Logger
}

// NewCartService creates a new cart service
func NewCartService(store ports.DocumentStore, logger *logger.Logger) *CartService {
	return &CartService{
		store:  store,
		logger: logger,
	}
}

// MainCart returns the singleton cart.
func (s *CartService) MainCart(ctx context.Context) (entities.MainCart, error) {
	doc, err := s.store.Snapshot(ctx)
	if err != nil {
		return entities.MainCart{}, fmt.Errorf("failed to read document: %w", err)
	}
	return doc.MainCart, nil
}

// SetItem upserts a main-cart entry keyed by product id.
func (s *CartService) SetItem(ctx context.Context, req CartItemRequest) (entities.CartItem, error) {
	item, err := s.store.UpsertMainCartItem(ctx, entities.CartItem{
		ID:       req.ID,
		Quantity: req.Quantity,
		Checked:  req.Checked,
	})
	if err != nil {
		return entities.CartItem{}, fmt.Errorf("failed to set cart item: %w", err)
	}

	s.logger.Info("Main-cart item set", "product_id", item.ID, "quantity", item.Quantity, "checked", item.Checked)
	return item, nil
}

// RemoveItem deletes a main-cart entry. No-op when the id is absent.
func (s *CartService) RemoveItem(ctx context.Context, id string) (entities.CartItem, error) {
	if err := s.store.RemoveMainCartItem(ctx, id); err != nil {
		return entities.CartItem{}, fmt.Errorf("failed to remove cart item: %w", err)
	}

	s.logger.Info("Main-cart item removed", "product_id", id)
	// Echo back the removed key so clients can reconcile.
	return entities.CartItem{ID: id}, nil
}

// ListCarts returns all named carts.
func (s *CartService) ListCarts(ctx context.Context) ([]entities.Cart, error) {
	doc, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return doc.Carts, nil
}

// CreateCart creates a named cart.
func (s *CartService) CreateCart(ctx context.Context, req CreateCartRequest) (entities.Cart, error) {
	cart := entities.Cart{
		ID:       req.ID,
		Name:     req.Name,
		Products: req.Products,
	}
	if cart.ID == "" {
		cart.ID = uuid.NewString()
	}

	created, err := s.store.CreateCart(ctx, cart)
	if err != nil {
		return entities.Cart{}, fmt.Errorf("failed to create cart: %w", err)
	}

	s.logger.Info("Cart created", "cart_id", created.ID, "name", created.Name)
	return created, nil
}

// GetCart returns a named cart by id.
func (s *CartService) GetCart(ctx context.Context, id string) (entities.Cart, error) {
	return s.store.GetCart(ctx, id)
}

// UpdateCart merges the supplied fields into a named cart.
func (s *CartService) UpdateCart(ctx context.Context, id string, req ports.UpdateCartRequest) (entities.Cart, error) {
	updated, err := s.store.UpdateCart(ctx, id, req)
	if err != nil {
		return entities.Cart{}, err
	}

	s.logger.Info("Cart updated", "cart_id", updated.ID)
	return updated, nil
}

// AddItem upserts an item into a named cart, accumulating quantity.
func (s *CartService) AddItem(ctx context.Context, cartID string, req CartItemRequest) (entities.Cart, error) {
	cart, err := s.store.AddCartItem(ctx, cartID, entities.CartItem{
		ID:       req.ID,
		Quantity: req.Quantity,
		Checked:  req.Checked,
	})
	if err != nil {
		return entities.Cart{}, err
	}

	s.logger.Info("Cart item added", "cart_id", cartID, "product_id", req.ID)
	return cart, nil
}

// UpdateItem replaces an existing item in a named cart.
func (s *CartService) UpdateItem(ctx context.Context, cartID, itemID string, req CartItemRequest) (entities.Cart, error) {
	cart, err := s.store.UpdateCartItem(ctx, cartID, itemID, entities.CartItem{
		ID:       itemID,
		Quantity: req.Quantity,
		Checked:  req.Checked,
	})
	if err != nil {
		return entities.Cart{}, err
	}

	s.logger.Info("Cart item updated", "cart_id", cartID, "product_id", itemID)
	return cart, nil
}

// RemoveCartItem filters an item out of a named cart.
func (s *CartService) RemoveCartItem(ctx context.Context, cartID, itemID string) (entities.Cart, error) {
	cart, err := s.store.RemoveCartItem(ctx, cartID, itemID)
	if err != nil {
		return entities.Cart{}, err
	}

	s.logger.Info("Cart item removed", "cart_id", cartID, "product_id", itemID)
	return cart, nil
}

// ClearCart empties a named cart.
func (s *CartService) ClearCart(ctx context.Context, cartID string) (entities.Cart, error) {
	cart, err := s.store.ClearCart(ctx, cartID)
	if err != nil {
		return entities.Cart{}, err
	}

	s.logger.Info("Cart cleared", "cart_id", cartID)
	return cart, nil
}
