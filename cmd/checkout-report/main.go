// checkout-report prints recent test outcomes and aggregate
// statistics from the result database.
package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/bookhaven-io/checkout-e2e/internal/config"
	"github.com/bookhaven-io/checkout-e2e/internal/resultstore"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

var rootCmd = &cobra.Command{
	Use:   "checkout-report",
	Short: "View recorded checkout test results",
}

var recentLimit int

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show the most recent test outcomes, newest first",
	RunE:  runRecent,
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show aggregate pass/fail counts",
	RunE:  runStats,
}

func init() {
	recentCmd.Flags().IntVarP(&recentLimit, "limit", "n", 20, "Number of outcomes to show")
	rootCmd.AddCommand(recentCmd)
	rootCmd.AddCommand(statsCmd)
}

func openStore() (*resultstore.Store, error) {
	return resultstore.Open(config.Resolve())
}

func runRecent(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	outcomes := store.QueryRecent(recentLimit)
	if len(outcomes) == 0 {
		fmt.Println("No recorded outcomes.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tSTATUS\tMODULE\tTEST\tDEVICE\tDURATION\tSUMMARY")
	for _, o := range outcomes {
		duration := "-"
		if o.TotalTimeSeconds != nil {
			duration = fmt.Sprintf("%.2fs", *o.TotalTimeSeconds)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			o.TestDatetime.Format("2006-01-02 15:04:05"),
			o.TestStatus, o.ModuleName, o.TestCaseName,
			o.DeviceName, duration, o.ErrorSummary)
	}
	return w.Flush()
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	stats := store.QueryStatistics()
	fmt.Printf("Total:   %d\n", stats.Total)
	fmt.Printf("Passed:  %d\n", stats.Passed)
	fmt.Printf("Failed:  %d\n", stats.Failed)
	fmt.Printf("Skipped: %d\n", stats.Skipped)
	fmt.Printf("Error:   %d\n", stats.Error)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
