package services

import (
	"context"
	"testing"

	"github.com/shoppi/core/internal/domain/entities"
	"github.com/shoppi/core/internal/infrastructure/logger"
)

func TestCreateProductDefaultsIDAndCreated(t *testing.T) {
	s := newTestStore(t)
	svc := NewProductService(s, logger.NewNop())

	product, err := svc.Create(context.Background(), CreateProductRequest{Name: "Milk", Section: "dairy"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if product.ID == "" {
		t.Fatalf("id not defaulted")
	}
	if product.Created.IsZero() {
		t.Fatalf("creation time not defaulted")
	}
}

func TestCreateProductKeepsClientSuppliedID(t *testing.T) {
	s := newTestStore(t)
	svc := NewProductService(s, logger.NewNop())

	product, err := svc.Create(context.Background(), CreateProductRequest{ID: "custom", Name: "Milk"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if product.ID != "custom" {
		t.Fatalf("client id replaced: %q", product.ID)
	}
}

func TestDeleteProductCascadeThroughService(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, err := s.CreateProduct(ctx, entities.Product{ID: "p1", Name: "Milk"}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := s.UpsertMainCartItem(ctx, entities.CartItem{ID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := NewProductService(s, logger.NewNop()).Delete(ctx, "p1"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	doc, _ := s.Snapshot(ctx)
	if len(doc.Products) != 0 {
		t.Fatalf("product survived delete")
	}
	if _, ok := doc.MainCart.Products["p1"]; ok {
		t.Fatalf("cart entry survived delete")
	}
}
