package jsonfile

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/shoppi/core/internal/domain/entities"
	"github.com/shoppi/core/internal/infrastructure/logger"
	"github.com/shoppi/core/internal/ports"
)

func newTestStore(t *testing.T) (ports.DocumentStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "products.json")
	s, err := New(path, logger.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s, path
}

func TestCreateProductRoundTrip(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	product := entities.Product{
		ID:      "p1",
		Name:    "Milk",
		Section: "dairy",
		Icon:    "milk",
		Image:   "/img/milk.png",
		Created: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
	}
	if _, err := s.CreateProduct(ctx, product); err != nil {
		t.Fatalf("create: %v", err)
	}

	doc, err := s.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(doc.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(doc.Products))
	}
	if doc.Products[0] != product {
		t.Fatalf("round-trip mismatch: got %+v want %+v", doc.Products[0], product)
	}
}

func TestCreateSectionDefaultsOrder(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, err := s.CreateSection(ctx, entities.Section{ID: "s1", Name: "Dairy"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if first.Order == nil || *first.Order != 1 {
		t.Fatalf("expected first section order 1, got %v", first.Order)
	}

	three := 3
	if _, err := s.CreateSection(ctx, entities.Section{ID: "s2", Name: "Bakery", Order: &three}); err != nil {
		t.Fatalf("create: %v", err)
	}

	next, err := s.CreateSection(ctx, entities.Section{ID: "s3", Name: "Frozen"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if next.Order == nil || *next.Order != 4 {
		t.Fatalf("expected defaulted order 4 (max+1), got %v", next.Order)
	}
}

func TestUpdateUnknownProductLeavesCollectionUnchanged(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, entities.Product{ID: "p1", Name: "Milk"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	before, _ := s.Snapshot(ctx)

	name := "Bread"
	_, err := s.UpdateProduct(ctx, "missing", ports.UpdateProductRequest{Name: &name})
	if err != entities.ErrProductNotFound {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}

	after, _ := s.Snapshot(ctx)
	if len(after.Products) != len(before.Products) {
		t.Fatalf("collection cardinality changed: %d -> %d", len(before.Products), len(after.Products))
	}
	if after.Products[0] != before.Products[0] {
		t.Fatalf("collection contents changed: %+v -> %+v", before.Products[0], after.Products[0])
	}
}

func TestUpdateProductMergesSuppliedFields(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	if _, err := s.CreateProduct(ctx, entities.Product{ID: "p1", Name: "Milk", Section: "dairy", Created: created}); err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "Oat Milk"
	updated, err := s.UpdateProduct(ctx, "p1", ports.UpdateProductRequest{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "Oat Milk" {
		t.Fatalf("name not merged: %q", updated.Name)
	}
	if updated.Section != "dairy" || !updated.Created.Equal(created) {
		t.Fatalf("unsupplied fields overwritten: %+v", updated)
	}
}

func TestDeleteProductIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, entities.Product{ID: "p1", Name: "Milk"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := s.DeleteProduct(ctx, "p1"); err != nil {
		t.Fatalf("first delete: %v", err)
	}
	once, _ := s.Snapshot(ctx)

	if err := s.DeleteProduct(ctx, "p1"); err != nil {
		t.Fatalf("second delete: %v", err)
	}
	twice, _ := s.Snapshot(ctx)

	if len(once.Products) != 0 || len(twice.Products) != 0 {
		t.Fatalf("expected empty collection after both deletes, got %d and %d", len(once.Products), len(twice.Products))
	}
}

func TestDeleteProductCascadesToMainCart(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, entities.Product{ID: "p1", Name: "Milk"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.UpsertMainCartItem(ctx, entities.CartItem{ID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("upsert cart item: %v", err)
	}

	if err := s.DeleteProduct(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	doc, _ := s.Snapshot(ctx)
	if len(doc.Products) != 0 {
		t.Fatalf("product not removed")
	}
	if _, ok := doc.MainCart.Products["p1"]; ok {
		t.Fatalf("main-cart entry survived the cascade")
	}
}

func TestRemoveMainCartItemIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.UpsertMainCartItem(ctx, entities.CartItem{ID: "p1", Quantity: 1, Checked: true}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := s.RemoveMainCartItem(ctx, "p1"); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.RemoveMainCartItem(ctx, "p1"); err != nil {
		t.Fatalf("second remove should be a no-op: %v", err)
	}
}

func TestReloadFromDisk(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, entities.Product{ID: "p1", Name: "Milk"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := New(path, logger.NewNop())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	doc, err := reopened.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(doc.Products) != 1 || doc.Products[0].ID != "p1" {
		t.Fatalf("persisted state lost across reopen: %+v", doc.Products)
	}
}

func TestNamedCartAccumulatesQuantity(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateCart(ctx, entities.Cart{ID: "c1", Name: "Weekend"}); err != nil {
		t.Fatalf("create cart: %v", err)
	}
	if _, err := s.AddCartItem(ctx, "c1", entities.CartItem{ID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	cart, err := s.AddCartItem(ctx, "c1", entities.CartItem{ID: "p1", Quantity: 3})
	if err != nil {
		t.Fatalf("add item again: %v", err)
	}
	if len(cart.Products) != 1 || cart.Products[0].Quantity != 5 {
		t.Fatalf("expected one item with quantity 5, got %+v", cart.Products)
	}

	if _, err := s.AddCartItem(ctx, "missing", entities.CartItem{ID: "p1", Quantity: 1}); err != entities.ErrCartNotFound {
		t.Fatalf("expected ErrCartNotFound, got %v", err)
	}
}

func TestClearCart(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateCart(ctx, entities.Cart{ID: "c1", Name: "Weekend", Products: []entities.CartItem{{ID: "p1", Quantity: 1}}}); err != nil {
		t.Fatalf("create cart: %v", err)
	}
	cart, err := s.ClearCart(ctx, "c1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(cart.Products) != 0 {
		t.Fatalf("cart not cleared: %+v", cart.Products)
	}
}

// GetCart must hand back its own copy of the item slice: serializing a
// fetched cart while a writer accumulates quantities in the same cart
// must never touch shared memory.
func TestGetCartIsIsolatedFromConcurrentWrites(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateCart(ctx, entities.Cart{ID: "c1", Name: "Weekend", Products: []entities.CartItem{{ID: "p1", Quantity: 1}}}); err != nil {
		t.Fatalf("create cart: %v", err)
	}

	const rounds = 50
	var wg sync.WaitGroup
	for i := 0; i < rounds; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			cart, err := s.GetCart(ctx, "c1")
			if err != nil {
				t.Errorf("get cart: %v", err)
				return
			}
			if _, err := json.Marshal(cart); err != nil {
				t.Errorf("marshal cart: %v", err)
			}
		}()
		go func() {
			defer wg.Done()
			if _, err := s.AddCartItem(ctx, "c1", entities.CartItem{ID: "p1", Quantity: 1}); err != nil {
				t.Errorf("add item: %v", err)
			}
		}()
	}
	wg.Wait()

	// A fetched cart stays frozen while the stored one keeps moving.
	before, err := s.GetCart(ctx, "c1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if _, err := s.AddCartItem(ctx, "c1", entities.CartItem{ID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("add item: %v", err)
	}
	after, err := s.GetCart(ctx, "c1")
	if err != nil {
		t.Fatalf("get cart: %v", err)
	}
	if before.Products[0].Quantity != after.Products[0].Quantity-1 {
		t.Fatalf("fetched cart shares memory with the store: before %d, after %d", before.Products[0].Quantity, after.Products[0].Quantity)
	}
}

// Concurrent in-process writers are serialized by the gateway mutex:
// the document file stays parseable and exactly one of the competing
// values survives. Which one wins is not asserted.
func TestConcurrentUpdatesStaySerialized(t *testing.T) {
	s, path := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, entities.Product{ID: "p1", Name: "Milk"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	const writers = 8
	var wg sync.WaitGroup
	names := make(map[string]bool, writers)
	for i := 0; i < writers; i++ {
		name := fmt.Sprintf("Milk-%d", i)
		names[name] = true
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			if _, err := s.UpdateProduct(ctx, "p1", ports.UpdateProductRequest{Name: &name}); err != nil {
				t.Errorf("update: %v", err)
			}
		}(name)
	}
	wg.Wait()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var doc entities.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("document corrupted by concurrent writes: %v", err)
	}
	if len(doc.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(doc.Products))
	}
	if !names[doc.Products[0].Name] {
		t.Fatalf("surviving name %q was never written", doc.Products[0].Name)
	}
}
