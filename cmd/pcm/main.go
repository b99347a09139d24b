package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagURL     string
	flagToken   string
	flagJournal string
	flagVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pcm",
	Short: "Manage Paperless-ngx correspondents",
	Long: `pcm finds duplicate and near-duplicate correspondents in a Paperless-ngx
instance and merges them by reassigning their documents in adaptive batches.

Connection settings come from --url/--token, falling back to the
PAPERLESS_URL and PAPERLESS_TOKEN environment variables. A .env file in the
working directory is loaded automatically when present.

Every executed merge is recorded in a local journal (~/.pcm/journal.db) so
'pcm restore-docs --from-journal' can undo it.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "Paperless-ngx base URL (default: PAPERLESS_URL)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "", "API token (default: PAPERLESS_TOKEN)")
	rootCmd.PersistentFlags().StringVar(&flagJournal, "journal", "", "Merge journal path (default: PCM_JOURNAL_PATH or ~/.pcm/journal.db)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Verbose output")
}

func main() {
	// A missing .env is fine; flags and real environment still apply.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
