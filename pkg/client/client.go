// Package client is the data layer consumed by list views and
// automations: it mirrors the server's aggregate document locally,
// applies mutations optimistically before the server confirms them, and
// reconciles out-of-band changes with a polling refresh.
//
// Failed mutations are surfaced through the Notifier and are NOT rolled
// back; the refresh interval is the maximum staleness bound for that
// inconsistency window.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/shoppi/core/internal/application/services"
	"github.com/shoppi/core/internal/domain/entities"
	"github.com/shoppi/core/internal/i18n"
	"github.com/shoppi/core/internal/infrastructure/logger"
)

// Level classifies a notification.
type Level string

// Notification levels.
const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notifier receives the transient per-mutation notifications the view
// layer renders as toasts.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(level Level, message string)

// Notify calls the function.
func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }

// Options configures a Client. The zero value is usable.
type Options struct {
	// HTTPClient overrides the default transport.
	HTTPClient *http.Client
	// RefreshInterval is the polling period of Start. Zero disables
	// polling.
	RefreshInterval time.Duration
	// Locale selects the notification language. Defaults to Hebrew.
	Locale i18n.Locale
	// Notifier receives mutation outcomes. Nil discards them.
	Notifier Notifier
	// Logger defaults to a no-op logger.
	Logger *logger.Logger
}

// Client mirrors the aggregate document of one Shoppi server.
type Client struct {
	baseURL  string
	http     *http.Client
	dict     i18n.Dictionary
	notifier Notifier
	interval time.Duration
	logger   *logger.Logger

	mu       sync.RWMutex
	products map[string]entities.Product
	sections map[string]entities.Section
	mainCart entities.MainCart
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	locale := opts.Locale
	if locale == "" {
		locale = i18n.Hebrew
	}

	return &Client{
		baseURL:  baseURL,
		http:     httpClient,
		dict:     i18n.For(locale),
		notifier: opts.Notifier,
		interval: opts.RefreshInterval,
		logger:   log.WithComponent("client"),

		products: map[string]entities.Product{},
		sections: map[string]entities.Section{},
		mainCart: entities.MainCart{Products: map[string]entities.CartItem{}},
	}
}

// Load fetches the aggregate document and replaces the local mirror.
func (c *Client) Load(ctx context.Context) error {
	var aggregate services.AggregateResponse
	if err := c.do(ctx, http.MethodGet, "/api", nil, &aggregate); err != nil {
		return fmt.Errorf("load aggregate: %w", err)
	}

	products := make(map[string]entities.Product, len(aggregate.Items))
	for _, item := range aggregate.Items {
		products[item.ID] = item
	}
	if aggregate.Sections == nil {
		aggregate.Sections = map[string]entities.Section{}
	}
	if aggregate.MainCart.Products == nil {
		aggregate.MainCart.Products = map[string]entities.CartItem{}
	}

	c.mu.Lock()
	c.products = products
	c.sections = aggregate.Sections
	c.mainCart = aggregate.MainCart
	c.mu.Unlock()
	return nil
}

// Start runs the polling refresh until ctx is cancelled. It returns
// immediately when polling is disabled.
func (c *Client) Start(ctx context.Context) {
	if c.interval <= 0 {
		return
	}

	go func() {
		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := c.Load(ctx); err != nil && ctx.Err() == nil {
					c.logger.Warn("Refresh failed", "error", err)
				}
			}
		}
	}()
}

// Products returns a copy of the local product mirror, keyed by id.
func (c *Client) Products() map[string]entities.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]entities.Product, len(c.products))
	for id, p := range c.products {
		out[id] = p
	}
	return out
}

// Sections returns a copy of the local section mirror, keyed by id.
func (c *Client) Sections() map[string]entities.Section {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]entities.Section, len(c.sections))
	for id, s := range c.sections {
		out[id] = s
	}
	return out
}

// MainCart returns a copy of the local main-cart mirror.
func (c *Client) MainCart() entities.MainCart {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := entities.MainCart{Products: make(map[string]entities.CartItem, len(c.mainCart.Products))}
	for id, item := range c.mainCart.Products {
		out.Products[id] = item
	}
	return out
}

// CreateProduct optimistically inserts the product locally, then asks
// the server to create it.
func (c *Client) CreateProduct(ctx context.Context, product entities.Product) error {
	c.mu.Lock()
	c.products[product.ID] = product
	c.mu.Unlock()

	err := c.do(ctx, http.MethodPost, "/api/products", product, nil)
	c.notifyOutcome(err, c.dict.ItemAddSuccess, c.dict.ItemAddFailed)
	return err
}

// UpdateProduct optimistically replaces the product locally, then sends
// the patch.
func (c *Client) UpdateProduct(ctx context.Context, product entities.Product) error {
	c.mu.Lock()
	c.products[product.ID] = product
	c.mu.Unlock()

	err := c.do(ctx, http.MethodPatch, "/api/products/"+url.PathEscape(product.ID), product, nil)
	c.notifyOutcome(err, c.dict.ItemEditSuccess, c.dict.ItemEditFailed)
	return err
}

// DeleteProduct optimistically removes the product (and its main-cart
// entry, when present) locally, then issues the server deletes. The
// cart-removal and product-delete calls are independent; their
// completion order is not guaranteed or required.
func (c *Client) DeleteProduct(ctx context.Context, product entities.Product) error {
	c.mu.Lock()
	delete(c.products, product.ID)
	_, inCart := c.mainCart.Products[product.ID]
	delete(c.mainCart.Products, product.ID)
	c.mu.Unlock()

	if inCart {
		if err := c.removeMainCartItem(ctx, product.ID); err != nil {
			c.logger.Warn("Failed to remove item from cart", "error", err, "product_id", product.ID)
		}
	}

	err := c.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(product.ID), nil, nil)
	c.notifyOutcome(err, c.dict.ItemDeleteSuccess, c.dict.ItemDeleteFailed)
	return err
}

// CreateSection optimistically inserts the section locally, then asks
// the server to create it.
func (c *Client) CreateSection(ctx context.Context, section entities.Section) error {
	c.mu.Lock()
	c.sections[section.ID] = section
	c.mu.Unlock()

	err := c.do(ctx, http.MethodPost, "/api/sections", section, nil)
	c.notifyOutcome(err, c.dict.SectionAddSuccess, c.dict.SectionAddFailed)
	return err
}

// UpdateSection optimistically replaces the section locally, then sends
// the patch.
func (c *Client) UpdateSection(ctx context.Context, section entities.Section) error {
	c.mu.Lock()
	c.sections[section.ID] = section
	c.mu.Unlock()

	err := c.do(ctx, http.MethodPatch, "/api/sections/"+url.PathEscape(section.ID), section, nil)
	c.notifyOutcome(err, c.dict.SectionEditSuccess, c.dict.SectionEditFailed)
	return err
}

// DeleteSection optimistically removes the section locally, then issues
// the server delete.
func (c *Client) DeleteSection(ctx context.Context, section entities.Section) error {
	c.mu.Lock()
	delete(c.sections, section.ID)
	c.mu.Unlock()

	err := c.do(ctx, http.MethodDelete, "/api/sections/"+url.PathEscape(section.ID), nil, nil)
	c.notifyOutcome(err, c.dict.SectionDeleteSuccess, c.dict.SectionDeleteFailed)
	return err
}

// SetCartItem optimistically upserts the main-cart entry locally, then
// sends the upsert.
func (c *Client) SetCartItem(ctx context.Context, item entities.CartItem) error {
	c.mu.Lock()
	c.mainCart.Products[item.ID] = item
	c.mu.Unlock()

	err := c.do(ctx, http.MethodPost, "/api/mainCart", item, nil)
	c.notifyOutcome(err, c.dict.CartUpdateSuccess, c.dict.CartUpdateFailed)
	return err
}

// RemoveCartItem optimistically removes the main-cart entry locally,
// then issues the server delete.
func (c *Client) RemoveCartItem(ctx context.Context, id string) error {
	c.mu.Lock()
	delete(c.mainCart.Products, id)
	c.mu.Unlock()

	err := c.removeMainCartItem(ctx, id)
	c.notifyOutcome(err, c.dict.CartUpdateSuccess, c.dict.CartUpdateFailed)
	return err
}

func (c *Client) removeMainCartItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/mainCart?id="+url.QueryEscape(id), nil, nil)
}

func (c *Client) notifyOutcome(err error, success, failure string) {
	if c.notifier == nil {
		return
	}
	if err != nil {
		c.notifier.Notify(LevelError, failure)
		return
	}
	c.notifier.Notify(LevelSuccess, success)
}

// do issues one HTTP call against the server and decodes the response
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("%s %s: unexpected status %d", method, path, resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
