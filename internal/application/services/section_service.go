package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/shoppi/core/internal/domain/entities"
	"github.com/shoppi/core/internal/infrastructure/logger"
	"github.com/shoppi/core/internal/ports"
)

// CreateSectionRequest carries a new section. A missing order is
// defaulted by the store to one past the highest existing order.
type CreateSectionRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name" validate:"required"`
	Order    *int   `json:"order,omitempty"`
	Collapse bool   `json:"collapse"`
}

// SectionService handles section-related operations
type SectionService struct {
	store  ports.DocumentStore
	logger *logger.Logger
}

// NewSectionService creates a new section service
func NewSectionService(store ports.DocumentStore, logger *logger.Logger) *SectionService {
	return &SectionService{
		store:  store,
		logger: logger,
	}
}

// Create creates a new section
func (s *SectionService) Create(ctx context.Context, req CreateSectionRequest) (entities.Section, error) {
	section := entities.Section{
		ID:       req.ID,
		Name:     req.Name,
		Order:    req.Order,
		Collapse: req.Collapse,
	}
	if section.ID == "" {
		section.ID = uuid.NewString()
	}

	created, err := s.store.CreateSection(ctx, section)
	if err != nil {
		return entities.Section{}, fmt.Errorf("failed to create section: %w", err)
	}

	s.logger.Info("Section created", "section_id", created.ID, "name", created.Name, "order", created.Rank())
	return created, nil
}

// Update merges the supplied fields into an existing section
func (s *SectionService) Update(ctx context.Context, id string, req ports.UpdateSectionRequest) (entities.Section, error) {
	updated, err := s.store.UpdateSection(ctx, id, req)
	if err != nil {
		return entities.Section{}, err
	}

	s.logger.Info("Section updated", "section_id", updated.ID, "name", updated.Name)
	return updated, nil
}

// Delete removes a section. Products referencing it are left in place
// and display as "no section".
func (s *SectionService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteSection(ctx, id); err != nil {
		return fmt.Errorf("failed to delete section: %w", err)
	}

	s.logger.Info("Section deleted", "section_id", id)
	return nil
}
