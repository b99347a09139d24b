package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dlanger/pcm/internal/dedupe"
)

var findDuplicatesCmd = &cobra.Command{
	Use:   "find-duplicates",
	Short: "Find correspondents with identical names",
	Long: `Find groups of correspondents whose names are identical ignoring case and
surrounding whitespace. These are safe merge candidates: the names cannot
refer to different entities.`,
	Run: func(cmd *cobra.Command, args []string) {
		client := newClient()
		corrs, err := client.Correspondents(context.Background())
		if err != nil {
			fail("%v", err)
		}

		groups := dedupe.FindExactDuplicates(corrs)
		if len(groups) == 0 {
			fmt.Printf("%s No exact duplicates found among %d correspondent(s)\n", green("✓"), len(corrs))
			return
		}

		fmt.Printf("%s Found %d exact duplicate group(s):\n\n", yellow("⚠"), len(groups))
		for i, group := range groups {
			writeGroup(os.Stdout, i+1, group)
			fmt.Println()
		}
		fmt.Printf("Run 'pcm merge-group ID...' to merge a group\n")
	},
}

func init() {
	rootCmd.AddCommand(findDuplicatesCmd)
}
