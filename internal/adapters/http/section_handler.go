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

// SectionHandler handles section-related requests
type SectionHandler struct {
	sectionService *services.SectionService
	catalogService *services.CatalogService
	logger         *logger.Logger
}

// NewSectionHandler creates a new section handler
func NewSectionHandler(sectionService *services.SectionService, catalogService *services.CatalogService, logger *logger.Logger) *SectionHandler {
	return &SectionHandler{
		sectionService: sectionService,
		catalogService: catalogService,
		logger:         logger,
	}
}

// ListSections returns the raw section collection
func (h *SectionHandler) ListSections(c echo.Context) error {
	sections, err := h.catalogService.Sections(c.Request().Context())
	if err != nil {
		h.logger.Error("List sections failed", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to read sections")
	}

	return c.JSON(http.StatusOK, sections)
}

// CreateSection handles section creation. A missing order is defaulted
// to one past the highest existing order.
func (h *SectionHandler) CreateSection(c echo.Context) error {
	var req services.CreateSectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	section, err := h.sectionService.Create(c.Request().Context(), req)
	if err != nil {
		h.logger.Error("Create section failed", "error", err, "name", req.Name)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to create section")
	}

	return c.JSON(http.StatusCreated, section)
}

// UpdateSection merges a partial section into an existing record
func (h *SectionHandler) UpdateSection(c echo.Context) error {
	id := c.Param("id")

	var req ports.UpdateSectionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request format")
	}

	section, err := h.sectionService.Update(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, entities.ErrSectionNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Section not found")
		}
		h.logger.Error("Update section failed", "error", err, "section_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update section")
	}

	return c.JSON(http.StatusOK, section)
}

// DeleteSection removes a section. Products referencing it are kept and
// display as "no section". Idempotent.
func (h *SectionHandler) DeleteSection(c echo.Context) error {
	id := c.Param("id")

	if err := h.sectionService.Delete(c.Request().Context(), id); err != nil {
		h.logger.Error("Delete section failed", "error", err, "section_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to delete section")
	}

	return c.JSON(http.StatusOK, StatusSuccess)
}
