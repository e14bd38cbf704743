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

// ProductHandler handles product-related requests
type ProductHandler struct {
	productService *services.ProductService
	logger         *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(productService *services.ProductService, logger *logger.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		logger:         logger,
	}
}

// CreateProduct handles product creation
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	var req services.CreateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	product, err := h.productService.Create(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create product failed", "error", err, "name", req.Name)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create product")
	}

	return c.JSON(http.StatusCreated, product)
}

// UpdateProduct merges a partial product into an existing record
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id := c.Param("id")

	var req ports.UpdateProductRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	product, err := h.productService.Update(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, entities.ErrProductNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Product not found")
		}
		h.logger.Error("Update product failed", "error", err, "product_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update product")
	}

	return c.JSON(http.StatusOK, product)
}

// DeleteProduct removes a product and its main-cart entry. Idempotent:
// deleting an unknown id still succeeds.
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id := c.Param("id")

	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		h.logger.Error("Delete product failed", "error", err, "product_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete product")
	}

	return c.JSON(http.StatusOK, StatusSuccess)
}
