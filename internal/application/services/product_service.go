package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shoppi/core/internal/domain/entities"
	"github.com/shoppi/core/internal/infrastructure/logger"
	"github.com/shoppi/core/internal/ports"
)

// CreateProductRequest carries a new product. The id and creation time
// are defaulted server-side when the client omits them.
type CreateProductRequest struct {
	ID      string    `json:"id"`
	Name    string    `json:"name" validate:"required"`
	Section string    `json:"section"`
	Icon    string    `json:"icon"`
	Image   string    `json:"image"`
	Created time.Time `json:"created"`
}

// ProductService handles product-related operations
type ProductService struct {
	store  ports.DocumentStore
	logger *logger.Logger
}

// NewProductService creates a new product service
func NewProductService(store ports.DocumentStore, logger *logger.Logger) *ProductService {
	return &ProductService{
		store:  store,
		logger: logger,
	}
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (entities.Product, error) {
	product := entities.Product{
		ID:      req.ID,
		Name:    req.Name,
		Section: req.Section,
		Icon:    req.Icon,
		Image:   req.Image,
		Created: req.Created,
	}
	if product.ID == "" {
		product.ID = uuid.NewString()
	}
	if product.Created.IsZero() {
		product.Created = time.Now().UTC()
	}

	created, err := s.store.CreateProduct(ctx, product)
	if err != nil {
		return entities.Product{}, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created", "product_id", created.ID, "name", created.Name)
	return created, nil
}

// Update merges the supplied fields into an existing product
func (s *ProductService) Update(ctx context.Context, id string, req ports.UpdateProductRequest) (entities.Product, error) {
	updated, err := s.store.UpdateProduct(ctx, id, req)
	if err != nil {
		return entities.Product{}, err
	}

	s.logger.Info("Product updated", "product_id", updated.ID, "name", updated.Name)
	return updated, nil
}

// Delete removes a product. The store cascades the removal to the
// main-cart entry, so every caller gets consistent behavior.
func (s *ProductService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteProduct(ctx, id); err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}

	s.logger.Info("Product deleted", "product_id", id)
	return nil
}
