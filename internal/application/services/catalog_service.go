package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/shoppi/core/internal/domain/entities"
	"github.com/shoppi/core/internal/infrastructure/logger"
	"github.com/shoppi/core/internal/ports"
)

// AggregateResponse is the payload of the aggregate GET: the full
// client-visible state in one fetch.
type AggregateResponse struct {
	Items    []entities.Product          `json:"items"`
	Sections map[string]entities.Section `json:"sections"`
	MainCart entities.MainCart           `json:"mainCart"`
}

// CatalogService assembles the aggregate view of the document.
type CatalogService struct {
	store  ports.DocumentStore
	logger *logger.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store ports.DocumentStore, logger *logger.Logger) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: logger,
	}
}

// Aggregate returns all products, sections keyed by id, and the main
// cart. Products are sorted by section order ascending (a missing or
// unknown section sorts last) and then by name ascending. This is the
// one stable sorting rule for the aggregate endpoint.
func (s *CatalogService) Aggregate(ctx context.Context) (*AggregateResponse, error) {
	doc, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	sections := make(map[string]entities.Section, len(doc.Sections))
	for _, section := range doc.Sections {
		sections[section.ID] = section
	}

	rank := func(p entities.Product) int {
		if section, ok := sections[p.Section]; ok {
			return section.Rank()
		}
		return entities.UnrankedOrder
	}

	items := doc.Products
	sort.SliceStable(items, func(i, j int) bool {
		ri, rj := rank(items[i]), rank(items[j])
		if ri != rj {
			return ri < rj
		}
		return items[i].Name < items[j].Name
	})

	return &AggregateResponse{
		Items:    items,
		Sections: sections,
		MainCart: doc.MainCart,
	}, nil
}

// Sections returns the raw section collection.
func (s *CatalogService) Sections(ctx context.Context) ([]entities.Section, error) {
	doc, err := s.store.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}
	return doc.Sections, nil
}
