package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dlanger/pcm/internal/paperless"
)

// recentDocsCap bounds the listing so a busy instance does not flood the
// terminal.
const recentDocsCap = 100

var findRecentDocsCmd = &cobra.Command{
	Use:   "find-recent-docs",
	Short: "List documents created in the last N days",
	Long: `List recently created documents with their correspondent, useful for
spotting new correspondents the consumer auto-created from fresh mail.
Output is capped at 100 documents.

Examples:
  pcm find-recent-docs
  pcm find-recent-docs --days 30`,
	Run: func(cmd *cobra.Command, args []string) {
		days, _ := cmd.Flags().GetInt("days")
		if days <= 0 {
			fail("--days must be positive")
		}

		ctx := context.Background()
		client := newClient()

		from := time.Now().AddDate(0, 0, -days).Format("2006-01-02")
		docs, err := client.DocumentsCreatedBetween(ctx, from, "", recentDocsCap)
		if err != nil {
			fail("%v", err)
		}
		if len(docs) == 0 {
			fmt.Printf("%s No documents created in the last %d day(s)\n", green("✓"), days)
			return
		}

		corrs, err := client.Correspondents(ctx)
		if err != nil {
			fail("%v", err)
		}
		names := nameIndex(corrs)

		fmt.Printf("%s\n", cyan(fmt.Sprintf("Documents created since %s:", from)))
		for _, d := range docs {
			fmt.Printf("  [%d] %-50s %s\n", d.ID, truncateName(d.Title, 50), documentCorrespondent(d, names))
		}
		fmt.Printf("\n%d document(s)", len(docs))
		if len(docs) == recentDocsCap {
			fmt.Printf(" (capped at %d)", recentDocsCap)
		}
		fmt.Println()
	},
}

func init() {
	findRecentDocsCmd.Flags().Int("days", 7, "Look back this many days")
	rootCmd.AddCommand(findRecentDocsCmd)
}

// documentCorrespondent renders a document's correspondent as "[id] name" or
// a placeholder when unassigned.
func documentCorrespondent(d paperless.Document, names map[int]string) string {
	if d.Correspondent == nil {
		return yellow("(no correspondent)")
	}
	return fmt.Sprintf("[%d] %s", *d.Correspondent, names[*d.Correspondent])
}
