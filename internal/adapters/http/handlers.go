package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shoppi/core/internal/application/services"
	"github.com/shoppi/core/internal/infrastructure/logger"
)

// ErrorResponse is the fixed-shape error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

// StatusResponse is the fixed success payload of idempotent deletes.
type StatusResponse struct {
	Status string `json:"status"`
}

// StatusSuccess is the payload every successful delete returns.
var StatusSuccess = StatusResponse{Status: "success"}

// CatalogHandler serves the aggregate document view
type CatalogHandler struct {
	catalogService *services.CatalogService
	logger         *logger.Logger
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService, logger *logger.Logger) *CatalogHandler {
	return &CatalogHandler{
		catalogService: catalogService,
		logger:         logger,
	}
}

// GetAggregate returns all items (sorted by section order, then name),
// sections keyed by id, and the main cart in one payload.
func (h *CatalogHandler) GetAggregate(c echo.Context) error {
	aggregate, err := h.catalogService.Aggregate(c.Request().Context())
	if err != nil {
		h.logger.Error("Get aggregate failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read catalog")
	}

	// The list view must never serve a cached copy of the document.
	c.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, proxy-revalidate")
	c.Response().Header().Set("Pragma", "no-cache")
	c.Response().Header().Set("Expires", "0")

	return c.JSON(http.StatusOK, aggregate)
}
