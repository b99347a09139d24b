package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var deleteEmptyCmd = &cobra.Command{
	Use:   "delete-empty",
	Short: "Delete empty correspondents one by one",
	Long: `Walk every correspondent with zero documents and ask individually whether
to delete it. Use delete-empty-batch to confirm once for all of them.`,
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

		deleted := 0
		for _, c := range empty {
			if !confirm(fmt.Sprintf("Delete empty correspondent [%d] %s?", c.ID, c.Name)) {
				continue
			}
			if err := client.DeleteCorrespondent(ctx, c.ID); err != nil {
				fmt.Fprintf(os.Stderr, "%s Failed to delete [%d] %s: %v\n", red("✗"), c.ID, c.Name, err)
				continue
			}
			fmt.Printf("%s Deleted [%d] %s\n", green("✓"), c.ID, c.Name)
			deleted++
		}
		fmt.Printf("\n%s Deleted %d of %d empty correspondent(s)\n", green("✓"), deleted, len(empty))
	},
}

func init() {
	rootCmd.AddCommand(deleteEmptyCmd)
}
