// checkout-db manages the result database: schema bootstrap and
// connectivity checks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bookhaven-io/checkout-e2e/internal/config"
	"github.com/bookhaven-io/checkout-e2e/internal/resultstore"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var rootCmd = &cobra.Command{
	Use:   "checkout-db",
	Short: "Manage the checkout test-result database",
}

var ensureSchemaCmd = &cobra.Command{
	Use:   "ensure-schema",
	Short: "Idempotently create the result tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := resultstore.Open(config.Resolve())
		if err != nil {
			return err
		}
		defer store.Close()

		if err := store.EnsureSchema(); err != nil {
			return err
		}
		fmt.Println("Schema is up to date.")
		return nil
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to the resolved database endpoint",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Resolve()
		store, err := resultstore.Open(cfg)
		if err != nil {
			return fmt.Errorf("endpoint %s not reachable: %w", cfg.Addr(), err)
		}
		defer store.Close()
		fmt.Printf("Connected to %s/%s.\n", cfg.Addr(), cfg.Database)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ensureSchemaCmd)
	rootCmd.AddCommand(pingCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
