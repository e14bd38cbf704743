package client

import (
	"context"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/shoppi/core/internal/adapters/store/jsonfile"
	"github.com/shoppi/core/internal/domain/entities"
	"github.com/shoppi/core/internal/i18n"
	"github.com/shoppi/core/internal/infrastructure/config"
	"github.com/shoppi/core/internal/infrastructure/logger"
	"github.com/shoppi/core/internal/infrastructure/server"
	"github.com/shoppi/core/internal/ports"
)

func newTestBackend(t *testing.T) (*httptest.Server, ports.DocumentStore) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "products.json")
	documentStore, err := jsonfile.New(path, logger.NewNop())
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = documentStore.Close() })

	cfg := &config.Config{
		App:    config.AppConfig{Name: "Shoppi", Version: "test", Environment: "development"},
		Server: config.ServerConfig{Host: "127.0.0.1", Port: 8080},
		Store:  config.StoreConfig{Backend: config.StoreBackendJSON, Path: path},
		Locale: config.LocaleConfig{Default: "he"},
		Security: config.SecurityConfig{
			CORSAllowedOrigins: "*",
			RateLimitRequests:  1000,
			RateLimitWindow:    time.Minute,
		},
	}

	srv, err := server.New(cfg, documentStore, logger.NewNop())
	if err != nil {
		t.Fatalf("create server: %v", err)
	}

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, documentStore
}

type recordingNotifier struct {
	levels   []Level
	messages []string
}

func (n *recordingNotifier) Notify(level Level, message string) {
	n.levels = append(n.levels, level)
	n.messages = append(n.messages, message)
}

func (n *recordingNotifier) last() (Level, bool) {
	if len(n.levels) == 0 {
		return "", false
	}
	return n.levels[len(n.levels)-1], true
}

func TestLoadMirrorsAggregate(t *testing.T) {
	ts, documentStore := newTestBackend(t)
	ctx := context.Background()

	if _, err := documentStore.CreateSection(ctx, entities.Section{ID: "s1", Name: "Dairy"}); err != nil {
		t.Fatalf("create section: %v", err)
	}
	if _, err := documentStore.CreateProduct(ctx, entities.Product{ID: "p1", Name: "Milk", Section: "s1"}); err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := documentStore.UpsertMainCartItem(ctx, entities.CartItem{ID: "p1", Quantity: 2}); err != nil {
		t.Fatalf("upsert cart item: %v", err)
	}

	c := New(ts.URL, Options{})
	if err := c.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := c.Products()["p1"]; got.Name != "Milk" {
		t.Fatalf("product not mirrored: %+v", got)
	}
	if got := c.Sections()["s1"]; got.Name != "Dairy" {
		t.Fatalf("section not mirrored: %+v", got)
	}
	if got := c.MainCart().Products["p1"]; got.Quantity != 2 {
		t.Fatalf("main cart not mirrored: %+v", got)
	}
}

func TestCreateProductIsOptimisticAndPersisted(t *testing.T) {
	ts, documentStore := newTestBackend(t)
	ctx := context.Background()

	notifier := &recordingNotifier{}
	c := New(ts.URL, Options{Notifier: notifier})

	if err := c.CreateProduct(ctx, entities.Product{ID: "p1", Name: "Milk"}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	if _, ok := c.Products()["p1"]; !ok {
		t.Fatal("product missing from local mirror")
	}

	doc, err := documentStore.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(doc.Products) != 1 || doc.Products[0].ID != "p1" {
		t.Fatalf("product not persisted: %+v", doc.Products)
	}

	if level, ok := notifier.last(); !ok || level != LevelSuccess {
		t.Fatalf("expected success notification, got %v", notifier.levels)
	}
}

func TestDeleteProductCascadesToMainCart(t *testing.T) {
	ts, documentStore := newTestBackend(t)
	ctx := context.Background()

	product := entities.Product{ID: "p1", Name: "Milk"}
	if _, err := documentStore.CreateProduct(ctx, product); err != nil {
		t.Fatalf("create product: %v", err)
	}
	if _, err := documentStore.UpsertMainCartItem(ctx, entities.CartItem{ID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("upsert cart item: %v", err)
	}

	c := New(ts.URL, Options{})
	if err := c.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if err := c.DeleteProduct(ctx, product); err != nil {
		t.Fatalf("delete product: %v", err)
	}

	if _, ok := c.Products()["p1"]; ok {
		t.Fatal("product still in local mirror")
	}
	if _, ok := c.MainCart().Products["p1"]; ok {
		t.Fatal("cart entry still in local mirror")
	}

	doc, err := documentStore.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(doc.Products) != 0 {
		t.Fatalf("product not deleted on server: %+v", doc.Products)
	}
	if _, ok := doc.MainCart.Products["p1"]; ok {
		t.Fatalf("cart entry not deleted on server: %+v", doc.MainCart.Products)
	}
}

func TestFailedMutationKeepsOptimisticState(t *testing.T) {
	ts, _ := newTestBackend(t)
	ctx := context.Background()

	notifier := &recordingNotifier{}
	c := New(ts.URL, Options{Notifier: notifier})

	// Kill the server so every call fails.
	ts.Close()

	if err := c.CreateProduct(ctx, entities.Product{ID: "p1", Name: "Milk"}); err == nil {
		t.Fatal("expected error against closed server")
	}

	// Optimistic insert survives the failure; the poller is what
	// eventually reconciles it.
	if _, ok := c.Products()["p1"]; !ok {
		t.Fatal("optimistic product was rolled back")
	}

	if level, ok := notifier.last(); !ok || level != LevelError {
		t.Fatalf("expected error notification, got %v", notifier.levels)
	}
}

func TestLocaleSelectsNotificationLanguage(t *testing.T) {
	ts, _ := newTestBackend(t)
	ctx := context.Background()

	notifier := &recordingNotifier{}
	c := New(ts.URL, Options{Notifier: notifier, Locale: i18n.English})

	if err := c.SetCartItem(ctx, entities.CartItem{ID: "p1", Quantity: 1}); err != nil {
		t.Fatalf("set cart item: %v", err)
	}

	if len(notifier.messages) == 0 {
		t.Fatal("no notification recorded")
	}
	for _, r := range notifier.messages[len(notifier.messages)-1] {
		if r >= 0x0590 && r <= 0x05FF {
			t.Fatalf("expected English message, got %q", notifier.messages[len(notifier.messages)-1])
		}
	}
}

func TestStartPicksUpOutOfBandChanges(t *testing.T) {
	ts, documentStore := newTestBackend(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := New(ts.URL, Options{RefreshInterval: 10 * time.Millisecond})
	if err := c.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}
	c.Start(ctx)

	// Mutate the document behind the client's back.
	if _, err := documentStore.CreateProduct(ctx, entities.Product{ID: "p1", Name: "Milk"}); err != nil {
		t.Fatalf("create product: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := c.Products()["p1"]; ok {
			return
		}
		select {
		case <-deadline:
			t.Fatal("poller never observed the out-of-band product")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestStartIsNoOpWithoutInterval(t *testing.T) {
	ts, _ := newTestBackend(t)

	c := New(ts.URL, Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Must not block or panic with polling disabled.
	c.Start(ctx)
}
