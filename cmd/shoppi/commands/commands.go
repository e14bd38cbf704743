package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"

	"github.com/shoppi/core/internal/adapters/store/jsonfile"
	"github.com/shoppi/core/internal/adapters/store/sqlite"
	"github.com/shoppi/core/internal/domain/entities"
	"github.com/shoppi/core/internal/infrastructure/config"
	"github.com/shoppi/core/internal/infrastructure/logger"
	"github.com/shoppi/core/internal/infrastructure/server"
	"github.com/shoppi/core/internal/ports"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the Shoppi API server",
		Long:  "Start the Shoppi API server with all configured routes and middleware",
		Run: func(cmd *cobra.Command, args []string) {
			runServer()
		},
	}
}

// NewMigrateCommand creates the migrate command with subcommands. Only
// meaningful for the sqlite store backend.
func NewMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Store schema migration commands",
		Long:  "Manage sqlite store migrations (up, down, version)",
	}

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Run all up migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("up")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "down",
		Short: "Run all down migrations",
		Run: func(cmd *cobra.Command, args []string) {
			runMigration("down")
		},
	})

	migrateCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print current migration version",
		Run: func(cmd *cobra.Command, args []string) {
			showMigrationVersion()
		},
	})

	return migrateCmd
}

// NewExportCommand creates the export command
func NewExportCommand() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export the document as JSON",
		Long:  "Write the full persisted document to a file or stdout, for backups or backend switches",
		Run: func(cmd *cobra.Command, args []string) {
			output, _ := cmd.Flags().GetString("output")
			exportDocument(output)
		},
	}

	exportCmd.Flags().String("output", "", "Destination file (default stdout)")
	return exportCmd
}

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a document from JSON",
		Long:  "Replace the persisted document with the contents of a JSON export",
		Run: func(cmd *cobra.Command, args []string) {
			input, _ := cmd.Flags().GetString("input")
			if input == "" {
				log.Fatal("Input file is required")
			}
			importDocument(input)
		},
	}

	importCmd.Flags().String("input", "", "Source file (required)")
	return importCmd
}

// openStore constructs the configured persistence gateway.
func openStore(cfg *config.Config, appLogger *logger.Logger) (ports.DocumentStore, error) {
	switch cfg.Store.Backend {
	case config.StoreBackendSQLite:
		return sqlite.New(cfg.Store.Path, appLogger)
	default:
		return jsonfile.New(cfg.Store.Path, appLogger)
	}
}

func runServer() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer func() { _ = appLogger.Close() }()

	documentStore, err := openStore(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to open store", "error", err, "backend", cfg.Store.Backend, "path", cfg.Store.Path)
	}

	srv, err := server.New(cfg, documentStore, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to create server", "error", err)
	}

	go func() {
		if err := srv.Start(cfg.Server.Address()); err != nil {
			appLogger.Info("Server stopped", "error", err)
		}
	}()

	appLogger.Info("Shoppi started",
		"address", cfg.Server.Address(),
		"backend", cfg.Store.Backend,
		"path", cfg.Store.Path,
	)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLogger.Error("Server shutdown failed", "error", err)
	}
	if err := documentStore.Close(); err != nil {
		appLogger.Error("Store flush failed", "error", err)
	}
}

func newMigrator(cfg *config.Config) (*migrate.Migrate, error) {
	if cfg.Store.Backend != config.StoreBackendSQLite {
		return nil, fmt.Errorf("migrations apply to the sqlite backend only (current: %s)", cfg.Store.Backend)
	}

	sourceURL := "file://" + cfg.Store.MigrationsDir
	databaseURL := "sqlite://" + cfg.Store.Path
	return migrate.New(sourceURL, databaseURL)
}

func runMigration(direction string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	m, err := newMigrator(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	defer m.Close()

	switch direction {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("Migration %s failed: %v", direction, err)
	}

	log.Printf("Migration %s completed", direction)
}

func showMigrationVersion() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	m, err := newMigrator(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize migrator: %v", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil {
		log.Fatalf("Failed to read migration version: %v", err)
	}

	log.Printf("Migration version: %d (dirty: %v)", version, dirty)
}

func exportDocument(output string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.NewNop()
	documentStore, err := openStore(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() { _ = documentStore.Close() }()

	doc, err := documentStore.Snapshot(context.Background())
	if err != nil {
		log.Fatalf("Failed to read document: %v", err)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		log.Fatalf("Failed to encode document: %v", err)
	}

	if output == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		log.Fatalf("Failed to write export: %v", err)
	}
	log.Printf("Document exported to %s", output)
}

func importDocument(input string) {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	data, err := os.ReadFile(input)
	if err != nil {
		log.Fatalf("Failed to read import: %v", err)
	}

	var doc entities.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Fatalf("Failed to decode import: %v", err)
	}

	appLogger := logger.NewNop()
	documentStore, err := openStore(cfg, appLogger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer func() { _ = documentStore.Close() }()

	if err := documentStore.Replace(context.Background(), doc); err != nil {
		log.Fatalf("Failed to replace document: %v", err)
	}
	log.Printf("Document imported from %s", input)
}
