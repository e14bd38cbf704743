package services

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shoppi/core/internal/adapters/store/jsonfile"
	"github.com/shoppi/core/internal/domain/entities"
	"github.com/shoppi/core/internal/infrastructure/logger"
	"github.com/shoppi/core/internal/ports"
)

func newTestStore(t *testing.T) ports.DocumentStore {
	t.Helper()
	s, err := jsonfile.New(filepath.Join(t.TempDir(), "products.json"), logger.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

// Section order ascending first (B order=0 before A order=1), then
// product name ascending within a section.
func TestAggregateSortsBySectionOrderThenName(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	one, zero := 1, 0
	if _, err := s.CreateSection(ctx, entities.Section{ID: "A", Name: "A", Order: &one}); err != nil {
		t.Fatalf("create section: %v", err)
	}
	if _, err := s.CreateSection(ctx, entities.Section{ID: "B", Name: "B", Order: &zero}); err != nil {
		t.Fatalf("create section: %v", err)
	}
	for _, p := range []entities.Product{
		{ID: "p1", Name: "Zed", Section: "B"},
		{ID: "p2", Name: "Apple", Section: "B"},
		{ID: "p3", Name: "Mid", Section: "A"},
	} {
		if _, err := s.CreateProduct(ctx, p); err != nil {
			t.Fatalf("create product: %v", err)
		}
	}

	aggregate, err := NewCatalogService(s, logger.NewNop()).Aggregate(ctx)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}

	want := []string{"p2", "p1", "p3"} // Apple(B), Zed(B), Mid(A)
	if len(aggregate.Items) != len(want) {
		t.Fatalf("expected %d items, got %d", len(want), len(aggregate.Items))
	}
	for i, id := range want {
		if aggregate.Items[i].ID != id {
			t.Fatalf("position %d: expected %s, got %s", i, id, aggregate.Items[i].ID)
		}
	}
}

// Products referencing a deleted or unknown section sort last.
func TestAggregateSortsOrphanedProductsLast(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	one := 1
	if _, err := s.CreateSection(ctx, entities.Section{ID: "A", Name: "A", Order: &one}); err != nil {
		t.Fatalf("create section: %v", err)
	}
	for _, p := range []entities.Product{
		{ID: "p1", Name: "Aardvark Treats", Section: "ghost"},
		{ID: "p2", Name: "Milk", Section: "A"},
	} {
		if _, err := s.CreateProduct(ctx, p); err != nil {
			t.Fatalf("create product: %v", err)
		}
	}

	aggregate, err := NewCatalogService(s, logger.NewNop()).Aggregate(ctx)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if aggregate.Items[0].ID != "p2" || aggregate.Items[1].ID != "p1" {
		t.Fatalf("orphaned product did not sort last: %+v", aggregate.Items)
	}
}

func TestAggregateKeysSectionsByID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateSection(ctx, entities.Section{ID: "s1", Name: "Dairy"}); err != nil {
		t.Fatalf("create section: %v", err)
	}

	aggregate, err := NewCatalogService(s, logger.NewNop()).Aggregate(ctx)
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	if got, ok := aggregate.Sections["s1"]; !ok || got.Name != "Dairy" {
		t.Fatalf("section map not keyed by id: %+v", aggregate.Sections)
	}
}
