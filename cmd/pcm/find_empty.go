package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dlanger/pcm/internal/paperless"
)

var findEmptyCmd = &cobra.Command{
	Use:   "find-empty",
	Short: "List correspondents with no documents",
	Long: `List correspondents whose document count is zero. Merging leaves sources
empty, so this is typically the post-merge cleanup list for 'pcm
delete-empty'.`,
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()
		corrs, err := client.Correspondents(context.Background())
		if err != nil {
			fail("%v", err)
		}

		empty := filterEmpty(corrs)
		if len(empty) == 0 {
			fmt.Printf("%s No empty correspondents\n", green("✓"))
			return
		}

		fmt.Printf("%s Found %d empty correspondent(s):\n\n", yellow("⚠"), len(empty))
		for _, c := range empty {
			fmt.Printf("  [%d] %s\n", c.ID, c.Name)
		}
		fmt.Printf("\nRun 'pcm delete-empty' to remove them interactively\n")
	},
}

func init() {
	rootCmd.AddCommand(findEmptyCmd)
}

// filterEmpty keeps correspondents with a zero document count, preserving
// input order.
func filterEmpty(corrs []paperless.Correspondent) []paperless.Correspondent {
	var empty []paperless.Correspondent
	for _, c := range corrs {
		if c.DocumentCount == 0 {
			empty = append(empty, c)
		}
	}
	return empty
}
