package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dlanger/pcm/internal/dedupe"
)

var mergeCmd = &cobra.Command{
	Use:   "merge TARGET_ID SOURCE_ID...",
	Short: "Merge source correspondents into a target",
	Long: `Reassign every document of each source correspondent to the target, in
adaptive batches. The target keeps its record; sources are left empty (use
'pcm delete-empty' afterwards, or answer the deletion prompt).

The target comes first, then one or more sources.

Examples:
  pcm merge 7 12
  pcm merge 7 12 19 23`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ids, err := parseIDs(args)
		if err != nil {
			fail("%v", err)
		}
		targetID, sourceIDs := ids[0], ids[1:]

		seen := make(map[int]bool, len(ids))
		for _, id := range ids {
			if seen[id] {
				fail("correspondent %d listed twice", id)
			}
			seen[id] = true
		}

		ctx := context.Background()
		client := newClient()

		// Fresh snapshot: validates every id against current remote
		// state, not a cached view.
		corrs, err := client.Correspondents(ctx)
		if err != nil {
			fail("%v", err)
		}
		byID := correspondentsByID(corrs)

		var plans []*dedupe.MergePlan
		for _, sourceID := range sourceIDs {
			plan, err := dedupe.PlanPairMerge(targetID, sourceID)
			if err != nil {
				fail("%v", err)
			}
			plans = append(plans, plan)
		}
		for _, id := range ids {
			if _, ok := byID[id]; !ok {
				fail("correspondent %d does not exist", id)
			}
		}

		target := byID[targetID]
		fmt.Printf("Merging into [%d] %s (%d documents):\n", target.ID, target.Name, target.DocumentCount)
		for _, sourceID := range sourceIDs {
			src := byID[sourceID]
			fmt.Printf("  [%d] %s (%d documents)\n", src.ID, src.Name, src.DocumentCount)
		}
		if !confirm("Proceed?") {
			fmt.Println("Aborted")
			return
		}

		engine, _ := newEngine(client)
		j := openJournal()
		if j != nil {
			defer j.Close()
		}
		names := nameIndex(corrs)

		allOK := true
		for _, plan := range plans {
			res, err := engine.ExecuteMerge(ctx, plan.SourceIDs[0], plan.TargetID)
			if err != nil {
				fail("%v", err)
			}
			recordMerge(ctx, j, res, names)
			if res.Succeeded {
				fmt.Printf("%s Merged [%d] %s (%d documents moved)\n", green("✓"), res.SourceID, names[res.SourceID], len(res.DocumentIDs))
			} else {
				fmt.Printf("%s Merge of [%d] %s failed\n", red("✗"), res.SourceID, names[res.SourceID])
				allOK = false
			}
		}

		if allOK {
			fmt.Printf("\n%s All merges completed\n", green("✓"))
		} else {
			fail("one or more merges failed; see the journal for moved documents")
		}
	},
}

func init() {
	rootCmd.AddCommand(mergeCmd)
}
