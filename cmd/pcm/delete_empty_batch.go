package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteEmptyBatchCmd = &cobra.Command{
	Use:   "delete-empty-batch",
	Short: "Delete all empty correspondents after a single confirmation",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()
		client := newClient()
		corrs, err := client.Correspondents(ctx)
		if err != nil {
			fail("%v", err)
		}

		empty := filterEmpty(corrs)
		if len(empty) == 0 {
			fmt.Printf("%s No empty correspondents\n", green("✓"))
			return
		}

		fmt.Printf("%s %d empty correspondent(s):\n\n", yellow("⚠"), len(empty))
		for _, c := range empty {
			fmt.Printf("  [%d] %s\n", c.ID, c.Name)
		}
		if !confirm(fmt.Sprintf("Delete all %d?", len(empty))) {
			fmt.Println("Aborted")
			return
		}

		deleted := 0
		for _, c := range empty {
			if err := client.DeleteCorrespondent(ctx, c.ID); err != nil {
				fmt.Fprintf(os.Stderr, "%s Failed to delete [%d] %s: %v\n", red("✗"), c.ID, c.Name, err)
				continue
			}
			deleted++
		}
		fmt.Printf("%s Deleted %d of %d correspondent(s)\n", green("✓"), deleted, len(empty))
	},
}

func init() {
	rootCmd.AddCommand(deleteEmptyBatchCmd)
}
