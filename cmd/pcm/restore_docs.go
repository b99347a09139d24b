package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var restoreDocsCmd = &cobra.Command{
	Use:   "restore-docs [DOCID...]",
	Short: "Move documents back to a correspondent",
	Long: `Undo a bad merge by reassigning documents to a correspondent. Either name
the documents and target explicitly, or replay a journal entry, which
restores exactly the documents that entry moved back to their original
source correspondent.

Restores run in smaller batches than merges so a partially applied undo
stays easy to reason about.

Examples:
  pcm restore-docs --to-correspondent 42 101 102 103
  pcm restore-docs --from-journal 3f1c9a4e-8a2b-4f6d-9c1e-5b7d2e8f0a14`,
	Run: func(cmd *cobra.Command, args []string) {
		targetID, _ := cmd.Flags().GetInt("to-correspondent")
		entryID, _ := cmd.Flags().GetString("from-journal")

		if (targetID > 0) == (entryID != "") {
			fail("use exactly one of --to-correspondent or --from-journal")
		}

		ctx := context.Background()
		client := newClient()

		var docIDs []int
		if entryID != "" {
			if len(args) > 0 {
				fail("--from-journal takes no document arguments")
			}
			j := openJournal()
			if j == nil {
				fail("journal required for --from-journal")
			}
			defer j.Close()

			entry, err := j.Get(ctx, entryID)
			if err != nil {
				fail("%v", err)
			}
			targetID = entry.SourceID
			docIDs = entry.DocumentIDs
			fmt.Printf("Restoring %d document(s) from merge %s back to [%d] %s\n",
				len(docIDs), entry.ID, entry.SourceID, entry.SourceName)
		} else {
			ids, err := parseIDs(args)
			if err != nil {
				fail("%v", err)
			}
			docIDs = ids
		}

		if len(docIDs) == 0 {
			fmt.Printf("%s Nothing to restore\n", green("✓"))
			return
		}

		target, err := client.Correspondent(ctx, targetID)
		if err != nil {
			fail("target correspondent %d: %v", targetID, err)
		}
		if !confirm(fmt.Sprintf("Move %d document(s) to [%d] %s?", len(docIDs), target.ID, target.Name)) {
			fmt.Println("Aborted")
			return
		}

		engine, _ := newEngine(client)
		if !engine.RestoreDocuments(ctx, docIDs, targetID) {
			fail("restore incomplete; re-run to retry the failed documents")
		}
		fmt.Printf("%s Restored %d document(s) to [%d] %s\n", green("✓"), len(docIDs), target.ID, target.Name)
	},
}

func init() {
	restoreDocsCmd.Flags().Int("to-correspondent", 0, "Target correspondent id for the listed documents")
	restoreDocsCmd.Flags().String("from-journal", "", "Replay a journal entry by id")
	rootCmd.AddCommand(restoreDocsCmd)
}
