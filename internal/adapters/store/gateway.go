package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shoppi/core/internal/domain/entities"
	"github.com/shoppi/core/internal/infrastructure/logger"
	"github.com/shoppi/core/internal/ports"
)

// Backend persists and loads the whole document. Implementations hold
// no state of their own beyond the storage handle; the Gateway owns the
// mirror and the locking.
type Backend interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// Load reads the persisted document. found is false when no prior
	// state exists.
	Load() (doc entities.Document, found bool, err error)
	// Persist overwrites the persisted document wholesale.
	Persist(doc entities.Document) error
	Close() error
}

// Gateway is the persistence gateway: every entity operation funnels
// through it. Each mutation runs under a single mutex as a
// read-modify-write-reread cycle: mutate the mirror, persist the whole
// document, then reload it so the mirror matches disk exactly.
// Cross-process writers remain last-writer-wins; that is an accepted
// property of the single-household design, not a guarantee.
type Gateway struct {
	mu      sync.Mutex
	mirror  *Mirror
	backend Backend
	logger  *logger.Logger
}

var _ ports.DocumentStore = (*Gateway)(nil)

// Open constructs a gateway over the backend, loading the existing
// document or persisting a default one when none exists.
func Open(backend Backend, log *logger.Logger) (*Gateway, error) {
	g := &Gateway{
		mirror:  NewMirror(),
		backend: backend,
		logger:  log.WithComponent(backend.Name() + "-store"),
	}

	doc, found, err := backend.Load()
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	if !found {
		g.logger.Info("No persisted document, creating default")
		if err := g.persist(); err != nil {
			return nil, err
		}
		return g, nil
	}

	doc.Normalize()
	g.mirror.Doc = doc
	return g, nil
}

// persist overwrites the persisted document and re-reads it into the
// mirror. On failure the mirror may be ahead of storage until the next
// successful cycle; the error propagates with no retry or rollback.
func (g *Gateway) persist() error {
	start := time.Now()

	if err := g.backend.Persist(g.mirror.Doc); err != nil {
		err = fmt.Errorf("persist document: %w", err)
		g.logger.LogStoreWrite(g.backend.Name(), float64(time.Since(start).Microseconds())/1000, err)
		return err
	}

	doc, _, err := g.backend.Load()
	if err != nil {
		err = fmt.Errorf("reload document: %w", err)
		g.logger.LogStoreWrite(g.backend.Name(), float64(time.Since(start).Microseconds())/1000, err)
		return err
	}
	doc.Normalize()
	g.mirror.Doc = doc

	g.logger.LogStoreWrite(g.backend.Name(), float64(time.Since(start).Microseconds())/1000, nil)
	return nil
}

// mutate runs fn against the mirror under the lock and persists the
// result. fn must not retain references into the mirror.
func (g *Gateway) mutate(ctx context.Context, fn func(*Mirror) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if err := fn(g.mirror); err != nil {
		return err
	}
	return g.persist()
}

// Snapshot returns a deep copy of the current document.
func (g *Gateway) Snapshot(ctx context.Context) (entities.Document, error) {
	if err := ctx.Err(); err != nil {
		return entities.Document{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mirror.Doc.Clone(), nil
}

// Replace swaps the whole document.
func (g *Gateway) Replace(ctx context.Context, doc entities.Document) error {
	return g.mutate(ctx, func(m *Mirror) error {
		doc.Normalize()
		m.Doc = doc
		return nil
	})
}

// CreateProduct appends the product and persists.
func (g *Gateway) CreateProduct(ctx context.Context, product entities.Product) (entities.Product, error) {
	err := g.mutate(ctx, func(m *Mirror) error {
		product = m.CreateProduct(product)
		return nil
	})
	return product, err
}

// UpdateProduct merges the supplied fields into the stored record. The
// collection is untouched when the id is unknown.
func (g *Gateway) UpdateProduct(ctx context.Context, id string, req ports.UpdateProductRequest) (entities.Product, error) {
	var updated entities.Product
	err := g.mutate(ctx, func(m *Mirror) error {
		var err error
		updated, err = m.UpdateProduct(id, req)
		return err
	})
	return updated, err
}

// DeleteProduct removes the product and cascades to its main-cart
// entry. Idempotent.
func (g *Gateway) DeleteProduct(ctx context.Context, id string) error {
	return g.mutate(ctx, func(m *Mirror) error {
		m.DeleteProduct(id)
		return nil
	})
}

// CreateSection appends the section, defaulting a missing order.
func (g *Gateway) CreateSection(ctx context.Context, section entities.Section) (entities.Section, error) {
	err := g.mutate(ctx, func(m *Mirror) error {
		section = m.CreateSection(section)
		return nil
	})
	return section, err
}

// UpdateSection merges the supplied fields into the stored record.
func (g *Gateway) UpdateSection(ctx context.Context, id string, req ports.UpdateSectionRequest) (entities.Section, error) {
	var updated entities.Section
	err := g.mutate(ctx, func(m *Mirror) error {
		var err error
		updated, err = m.UpdateSection(id, req)
		return err
	})
	return updated, err
}

// DeleteSection removes the section without cascading to products.
// Idempotent.
func (g *Gateway) DeleteSection(ctx context.Context, id string) error {
	return g.mutate(ctx, func(m *Mirror) error {
		m.DeleteSection(id)
		return nil
	})
}

// UpsertMainCartItem inserts or replaces the entry keyed by item id.
func (g *Gateway) UpsertMainCartItem(ctx context.Context, item entities.CartItem) (entities.CartItem, error) {
	err := g.mutate(ctx, func(m *Mirror) error {
		item = m.UpsertMainCartItem(item)
		return nil
	})
	return item, err
}

// RemoveMainCartItem deletes the entry if present. Idempotent.
func (g *Gateway) RemoveMainCartItem(ctx context.Context, id string) error {
	return g.mutate(ctx, func(m *Mirror) error {
		m.RemoveMainCartItem(id)
		return nil
	})
}

// CreateCart appends a named cart.
func (g *Gateway) CreateCart(ctx context.Context, cart entities.Cart) (entities.Cart, error) {
	err := g.mutate(ctx, func(m *Mirror) error {
		cart = m.CreateCart(cart)
		return nil
	})
	return cart, err
}

// GetCart returns the named cart with the given id.
func (g *Gateway) GetCart(ctx context.Context, id string) (entities.Cart, error) {
	if err := ctx.Err(); err != nil {
		return entities.Cart{}, err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	return g.mirror.GetCart(id)
}

// UpdateCart merges the supplied fields into the cart.
func (g *Gateway) UpdateCart(ctx context.Context, id string, req ports.UpdateCartRequest) (entities.Cart, error) {
	var updated entities.Cart
	err := g.mutate(ctx, func(m *Mirror) error {
		var err error
		updated, err = m.UpdateCart(id, req)
		return err
	})
	return updated, err
}

// AddCartItem upserts the item into a named cart, accumulating quantity
// when the product is already present.
func (g *Gateway) AddCartItem(ctx context.Context, cartID string, item entities.CartItem) (entities.Cart, error) {
	var cart entities.Cart
	err := g.mutate(ctx, func(m *Mirror) error {
		var err error
		cart, err = m.AddCartItem(cartID, item)
		return err
	})
	return cart, err
}

// UpdateCartItem replaces an existing item in a named cart.
func (g *Gateway) UpdateCartItem(ctx context.Context, cartID, itemID string, item entities.CartItem) (entities.Cart, error) {
	var cart entities.Cart
	err := g.mutate(ctx, func(m *Mirror) error {
		var err error
		cart, err = m.UpdateCartItem(cartID, itemID, item)
		return err
	})
	return cart, err
}

// RemoveCartItem filters the item out of a named cart.
func (g *Gateway) RemoveCartItem(ctx context.Context, cartID, itemID string) (entities.Cart, error) {
	var cart entities.Cart
	err := g.mutate(ctx, func(m *Mirror) error {
		var err error
		cart, err = m.RemoveCartItem(cartID, itemID)
		return err
	})
	return cart, err
}

// ClearCart empties a named cart's item list.
func (g *Gateway) ClearCart(ctx context.Context, cartID string) (entities.Cart, error) {
	var cart entities.Cart
	err := g.mutate(ctx, func(m *Mirror) error {
		var err error
		cart, err = m.ClearCart(cartID)
		return err
	})
	return cart, err
}

// Close flushes the mirror and releases the backend.
func (g *Gateway) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.persist(); err != nil {
		return err
	}
	return g.backend.Close()
}
