package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/shoppi/core/cmd/shoppi/commands"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "shoppi",
		Short: "Shoppi shopping-list API server",
		Long:  `Shoppi is a bilingual household shopping-list service: a product catalog grouped into sections, a main cart, and a single-document persistence layer.`,
	}

	// Add commands
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewMigrateCommand())
	rootCmd.AddCommand(commands.NewExportCommand())
	rootCmd.AddCommand(commands.NewImportCommand())

	// Execute root command
	if err := rootCmd.Execute(); err != nil {
		log.Printf("Command execution failed: %v", err)
		os.Exit(1)
	}
}
