package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dlanger/pcm/internal/paperless"
)

var mergeGroupCmd = &cobra.Command{
	Use:   "merge-group ID...",
	Short: "Merge a group of correspondents into one",
	Long: `Merge the listed correspondents into a single target. Without --target the
member with the most documents is kept (fewest documents have to move);
--target picks an explicit member instead.

After a fully successful merge the now-empty sources can be deleted on
prompt.

Examples:
  pcm merge-group 7 12 19
  pcm merge-group 7 12 19 --target 12`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		explicitTarget, _ := cmd.Flags().GetInt("target")

		ids, err := parseIDs(args)
		if err != nil {
			fail("%v", err)
		}

		ctx := context.Background()
		client := newClient()
		corrs, err := client.Correspondents(ctx)
		if err != nil {
			fail("%v", err)
		}
		byID := correspondentsByID(corrs)

		group := make([]paperless.Correspondent, 0, len(ids))
		for _, id := range ids {
			c, ok := byID[id]
			if !ok {
				fail("correspondent %d does not exist", id)
			}
			group = append(group, c)
		}

		writeGroup(os.Stdout, 1, group)
		if !confirm("Merge this group?") {
			fmt.Println("Aborted")
			return
		}

		engine, _ := newEngine(client)
		j := openJournal()
		if j != nil {
			defer j.Close()
		}

		result, err := engine.ExecuteGroupMerge(ctx, group, explicitTarget)
		if err != nil {
			fail("%v", err)
		}

		names := nameIndex(corrs)
		for _, m := range result.Merges {
			recordMerge(ctx, j, m, names)
			if m.Succeeded {
				fmt.Printf("%s Merged [%d] %s -> [%d] %s (%d documents)\n",
					green("✓"), m.SourceID, names[m.SourceID], m.TargetID, names[m.TargetID], len(m.DocumentIDs))
			} else {
				fmt.Printf("%s Merge of [%d] %s failed\n", red("✗"), m.SourceID, names[m.SourceID])
			}
		}

		if !result.Succeeded {
			fail("group merge incomplete; failed sources keep their documents")
		}

		fmt.Printf("\n%s Group merged into [%d] %s\n", green("✓"), result.Plan.TargetID, names[result.Plan.TargetID])
		offerSourceDeletion(ctx, client, result.Plan.SourceIDs, names)
	},
}

func init() {
	mergeGroupCmd.Flags().Int("target", 0, "Explicit target id (default: member with most documents)")
	rootCmd.AddCommand(mergeGroupCmd)
}

// offerSourceDeletion prompts to delete the emptied sources of a fully
// successful group merge. Individual delete failures are reported and do not
// stop the rest.
func offerSourceDeletion(ctx context.Context, client *paperless.Client, sourceIDs []int, names map[int]string) {
	if !confirm(fmt.Sprintf("Delete the %d merged source correspondent(s)?", len(sourceIDs))) {
		return
	}
	for _, id := range sourceIDs {
		if err := client.DeleteCorrespondent(ctx, id); err != nil {
			fmt.Fprintf(os.Stderr, "%s Failed to delete [%d] %s: %v\n", red("✗"), id, names[id], err)
			continue
		}
		fmt.Printf("%s Deleted [%d] %s\n", green("✓"), id, names[id])
	}
}
