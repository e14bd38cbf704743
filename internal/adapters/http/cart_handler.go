package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shoppi/core/internal/application/services"
	"github.com/shoppi/core/internal/domain/entities"
	"github.com/shoppi/core/internal/infrastructure/logger"
	"github.com/shoppi/core/internal/ports"
)

// CartHandler handles main-cart and named-cart requests
type CartHandler struct {
	cartService *services.CartService
	logger      *logger.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(cartService *services.CartService, logger *logger.Logger) *CartHandler {
	return &CartHandler{
		cartService: cartService,
		logger:      logger,
	}
}

// mainCartResponse wraps the singleton cart the way the aggregate
// clients expect it.
type mainCartResponse struct {
	MainCart entities.MainCart `json:"mainCart"`
}

// GetMainCart returns the singleton cart
func (h *CartHandler) GetMainCart(c echo.Context) error {
	mainCart, err := h.cartService.MainCart(c.Request().Context())
	if err != nil {
		h.logger.Error("Get main cart failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read main cart")
	}

	return c.JSON(http.StatusOK, mainCartResponse{MainCart: mainCart})
}

// UpsertMainCartItem inserts or replaces a main-cart entry. POST and
// PUT are bound to this same handler: both upsert, on purpose.
func (h *CartHandler) UpsertMainCartItem(c echo.Context) error {
	var req services.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	item, err := h.cartService.SetItem(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Set main-cart item failed", "error", err, "product_id", req.ID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to set cart item")
	}

	return c.JSON(http.StatusOK, item)
}

// RemoveMainCartItem deletes a main-cart entry by the id query
// parameter. Idempotent.
func (h *CartHandler) RemoveMainCartItem(c echo.Context) error {
	id := c.QueryParam("id")
	if id == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "Item ID is required")
	}

	item, err := h.cartService.RemoveItem(c.Request().Context(), id)
	if err != nil {
		h.logger.Error("Remove main-cart item failed", "error", err, "product_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to remove cart item")
	}

	return c.JSON(http.StatusOK, item)
}

// cartsResponse wraps the named-cart list.
type cartsResponse struct {
	Carts []entities.Cart `json:"carts"`
}

// ListCarts returns all named carts
func (h *CartHandler) ListCarts(c echo.Context) error {
	carts, err := h.cartService.ListCarts(c.Request().Context())
	if err != nil {
		h.logger.Error("List carts failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read carts")
	}

	return c.JSON(http.StatusOK, cartsResponse{Carts: carts})
}

// CreateCart creates a named cart
func (h *CartHandler) CreateCart(c echo.Context) error {
	var req services.CreateCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cart, err := h.cartService.CreateCart(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create cart failed", "error", err, "name", req.Name)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create cart")
	}

	return c.JSON(http.StatusCreated, cart)
}

// GetCart returns a named cart by id
func (h *CartHandler) GetCart(c echo.Context) error {
	id := c.Param("id")

	cart, err := h.cartService.GetCart(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, entities.ErrCartNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cart not found")
		}
		h.logger.Error("Get cart failed", "error", err, "cart_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read cart")
	}

	return c.JSON(http.StatusOK, cart)
}

// UpdateCart merges a partial cart into an existing record
func (h *CartHandler) UpdateCart(c echo.Context) error {
	id := c.Param("id")

	var req ports.UpdateCartRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	cart, err := h.cartService.UpdateCart(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, entities.ErrCartNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cart not found")
		}
		h.logger.Error("Update cart failed", "error", err, "cart_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update cart")
	}

	return c.JSON(http.StatusOK, cart)
}

// ClearCart empties a named cart's item list
func (h *CartHandler) ClearCart(c echo.Context) error {
	id := c.Param("id")

	cart, err := h.cartService.ClearCart(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, entities.ErrCartNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cart not found")
		}
		h.logger.Error("Clear cart failed", "error", err, "cart_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to clear cart")
	}

	return c.JSON(http.StatusOK, cart)
}

// AddCartItem upserts an item into a named cart, accumulating quantity
func (h *CartHandler) AddCartItem(c echo.Context) error {
	cartID := c.Param("id")

	var req services.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	cart, err := h.cartService.AddItem(c.Request().Context(), cartID, req)
	if err != nil {
		if errors.Is(err, entities.ErrCartNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cart not found")
		}
		h.logger.Error("Add cart item failed", "error", err, "cart_id", cartID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to add cart item")
	}

	return c.JSON(http.StatusOK, cart)
}

// UpdateCartItem replaces an existing item in a named cart
func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	cartID := c.Param("id")
	itemID := c.Param("itemId")

	var req services.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	cart, err := h.cartService.UpdateItem(c.Request().Context(), cartID, itemID, req)
	if err != nil {
		if errors.Is(err, entities.ErrCartNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cart not found")
		}
		if errors.Is(err, entities.ErrCartItemNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cart item not found")
		}
		h.logger.Error("Update cart item failed", "error", err, "cart_id", cartID, "product_id", itemID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update cart item")
	}

	return c.JSON(http.StatusOK, cart)
}

// RemoveCartItem filters an item out of a named cart
func (h *CartHandler) RemoveCartItem(c echo.Context) error {
	cartID := c.Param("id")
	itemID := c.Param("itemId")

	cart, err := h.cartService.RemoveCartItem(c.Request().Context(), cartID, itemID)
	if err != nil {
		if errors.Is(err, entities.ErrCartNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Cart not found")
		}
		h.logger.Error("Remove cart item failed", "error", err, "cart_id", cartID, "product_id", itemID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to remove cart item")
	}

	return c.JSON(http.StatusOK, cart)
}
