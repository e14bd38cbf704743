package ports

import (
	"context"

	"github.com/shoppi/core/internal/domain/entities"
)

// UpdateProductRequest carries a partial product update. Only non-nil
// fields are merged into the stored record.
type UpdateProductRequest struct {
	Name    *string `json:"name,omitempty"`
	Section *string `json:"section,omitempty"`
	Icon    *string `json:"icon,omitempty"`
	Image   *string `json:"image,omitempty"`
}

// UpdateSectionRequest carries a partial section update.
type UpdateSectionRequest struct {
	Name     *string `json:"name,omitempty"`
	Order    *int    `json:"order,omitempty"`
	Collapse *bool   `json:"collapse,omitempty"`
}

// UpdateCartRequest carries a partial named-cart update.
type UpdateCartRequest struct {
	Name     *string              `json:"name,omitempty"`
	Products *[]entities.CartItem `json:"products,omitempty"`
}

// DocumentStore is the persistence gateway: the sole reader/writer of
// the root document. Every mutator persists the whole document and
// re-reads it before returning, so the in-memory mirror always matches
// what is on disk after a write. Mutators are serialized by the
// implementation; cross-process writers remain last-writer-wins.
type DocumentStore interface {
	// Snapshot returns a deep copy of the current document.
	Snapshot(ctx context.Context) (entities.Document, error)

	// Replace swaps the whole document. Used by restore tooling.
	Replace(ctx context.Context, doc entities.Document) error

	CreateProduct(ctx context.Context, product entities.Product) (entities.Product, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (entities.Product, error)
	// DeleteProduct removes the product and, as a cascade, any main-cart
	// entry referencing it. No-op when the id is unknown.
	DeleteProduct(ctx context.Context, id string) error

	CreateSection(ctx context.Context, section entities.Section) (entities.Section, error)
	UpdateSection(ctx context.Context, id string, req UpdateSectionRequest) (entities.Section, error)
	// DeleteSection does not cascade to products; orphaned products keep
	// their dangling section id and display as "no section".
	DeleteSection(ctx context.Context, id string) error

	// UpsertMainCartItem inserts or replaces the item keyed by its id.
	UpsertMainCartItem(ctx context.Context, item entities.CartItem) (entities.CartItem, error)
	// RemoveMainCartItem deletes the key if present, no-op otherwise.
	RemoveMainCartItem(ctx context.Context, id string) error

	CreateCart(ctx context.Context, cart entities.Cart) (entities.Cart, error)
	GetCart(ctx context.Context, id string) (entities.Cart, error)
	UpdateCart(ctx context.Context, id string, req UpdateCartRequest) (entities.Cart, error)
	// AddCartItem accumulates quantity when the item already exists.
	AddCartItem(ctx context.Context, cartID string, item entities.CartItem) (entities.Cart, error)
	UpdateCartItem(ctx context.Context, cartID, itemID string, item entities.CartItem) (entities.Cart, error)
	RemoveCartItem(ctx context.Context, cartID, itemID string) (entities.Cart, error)
	ClearCart(ctx context.Context, cartID string) (entities.Cart, error)

	// Close flushes and releases the underlying storage.
	Close() error
}
