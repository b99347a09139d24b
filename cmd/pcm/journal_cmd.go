package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dlanger/pcm/internal/journal"
)

var journalCmd = &cobra.Command{
	Use:   "journal",
	Short: "Inspect the merge journal",
	Long: `The merge journal records every executed merge with the document ids it
moved, so restore-docs --from-journal can undo it later.`,
}

var journalListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded merges, newest first",
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")

		j, err := journal.Open(journalPath())
		if err != nil {
			fail("%v", err)
		}
		defer j.Close()

		entries, err := j.List(context.Background(), limit)
		if err != nil {
			fail("%v", err)
		}
		if len(entries) == 0 {
			fmt.Printf("%s Journal is empty\n", green("✓"))
			return
		}

		for _, e := range entries {
			status := green("✓")
			if !e.Succeeded {
				status = red("✗")
			}
			fmt.Printf("%s %s  %s  [%d] %s -> [%d] %s  (%d documents)\n",
				status, e.CreatedAt.Format("2006-01-02 15:04"), e.ID,
				e.SourceID, e.SourceName, e.TargetID, e.TargetName, len(e.DocumentIDs))
		}
		fmt.Printf("\n%d entry(ies)\n", len(entries))
	},
}

var journalShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one journal entry with its document ids",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		j, err := journal.Open(journalPath())
		if err != nil {
			fail("%v", err)
		}
		defer j.Close()

		e, err := j.Get(context.Background(), args[0])
		if err != nil {
			fail("%v", err)
		}
		writeJournalEntry(os.Stdout, e)
	},
}

func init() {
	journalListCmd.Flags().Int("limit", 20, "Show at most this many entries (0 = all)")
	journalCmd.AddCommand(journalListCmd)
	journalCmd.AddCommand(journalShowCmd)
	rootCmd.AddCommand(journalCmd)
}

func writeJournalEntry(w io.Writer, e *journal.Entry) {
	fmt.Fprintf(w, "%s\n", cyan("Merge "+e.ID))
	fmt.Fprintf(w, "  Recorded:  %s\n", e.CreatedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(w, "  Source:    [%d] %s\n", e.SourceID, e.SourceName)
	fmt.Fprintf(w, "  Target:    [%d] %s\n", e.TargetID, e.TargetName)
	if e.Succeeded {
		fmt.Fprintf(w, "  Status:    %s succeeded\n", green("✓"))
	} else {
		fmt.Fprintf(w, "  Status:    %s failed\n", red("✗"))
	}
	fmt.Fprintf(w, "  Documents: %d\n", len(e.DocumentIDs))
	if len(e.DocumentIDs) > 0 {
		ids := make([]string, len(e.DocumentIDs))
		for i, id := range e.DocumentIDs {
			ids[i] = fmt.Sprint(id)
		}
		fmt.Fprintf(w, "    %s\n", strings.Join(ids, ", "))
	}
	fmt.Fprintf(w, "\nUndo with: pcm restore-docs --from-journal %s\n", e.ID)
}
