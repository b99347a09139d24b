package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/dlanger/pcm/internal/dedupe"
	"github.com/dlanger/pcm/internal/journal"
	"github.com/dlanger/pcm/internal/paperless"
)

var mergeThresholdCmd = &cobra.Command{
	Use:   "merge-threshold",
	Short: "Interactively merge all similar groups",
	Long: `Walk every similar group at the given threshold and decide per group:

  y    merge, keeping the member with the most documents
  t N  merge into the group's Nth listed member
  n    skip this group
  q    stop the session

Merged groups offer deletion of their emptied sources. With --ai-review each
group is shown with a model verdict before the prompt.

Examples:
  pcm merge-threshold
  pcm merge-threshold --threshold 0.85 --ai-review`,
	Run: func(cmd *cobra.Command, args []string) {
		threshold := resolveThreshold(cmd)
		aiReview, _ := cmd.Flags().GetBool("ai-review")

		ctx := context.Background()
		client := newClient()
		corrs, err := client.Correspondents(ctx)
		if err != nil {
			fail("%v", err)
		}

		groups, err := dedupe.SimilarGroups(corrs, threshold)
		if err != nil {
			fail("%v", err)
		}
		if len(groups) == 0 {
			fmt.Printf("%s No similar groups at threshold %.2f\n", green("✓"), threshold)
			return
		}

		reviewer := maybeReviewer(aiReview)
		engine, _ := newEngine(client)
		j := openJournal()
		if j != nil {
			defer j.Close()
		}

		rl, err := readline.New("merge? [y/n/t N/q] ")
		if err != nil {
			fail("initializing prompt: %v", err)
		}
		defer rl.Close()

		names := nameIndex(corrs)
		merged, skipped := 0, 0
		for i, group := range groups {
			fmt.Println()
			writeGroup(os.Stdout, i+1, group)
			if reviewer != nil {
				writeReview(reviewer, group)
			}

			action, targetID := promptGroupAction(rl, group)
			switch action {
			case actionQuit:
				fmt.Printf("\nStopped: %d group(s) merged, %d skipped, %d not seen\n", merged, skipped, len(groups)-i-1)
				return
			case actionSkip:
				skipped++
				continue
			case actionMerge:
				if mergeOneGroup(ctx, engine, client, j, group, targetID, names) {
					merged++
				}
			}
		}

		fmt.Printf("\n%s Session done: %d group(s) merged, %d skipped\n", green("✓"), merged, skipped)
	},
}

func init() {
	mergeThresholdCmd.Flags().Float64("threshold", 0, "Similarity threshold 0.0-1.0 (default: PCM_SIMILARITY_THRESHOLD or 0.9)")
	mergeThresholdCmd.Flags().Bool("ai-review", false, "Review each group with the Anthropic API")
	rootCmd.AddCommand(mergeThresholdCmd)
}

type groupAction int

const (
	actionSkip groupAction = iota
	actionMerge
	actionQuit
)

// promptGroupAction reads one decision for the current group. Unrecognized
// input re-prompts; EOF quits the session. For "t N", N is the 1-based
// member index shown by writeGroup, and the returned target is that
// member's id.
func promptGroupAction(rl *readline.Instance, group []paperless.Correspondent) (groupAction, int) {
	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt || err == io.EOF {
			return actionQuit, 0
		}
		if err != nil {
			return actionQuit, 0
		}

		fields := strings.Fields(strings.ToLower(line))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "y", "yes":
			return actionMerge, 0
		case "n", "no", "":
			return actionSkip, 0
		case "q", "quit":
			return actionQuit, 0
		case "t":
			if len(fields) != 2 {
				fmt.Println("usage: t N (pick the Nth member as target)")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil || n < 1 || n > len(group) {
				fmt.Printf("target index must be 1-%d\n", len(group))
				continue
			}
			return actionMerge, group[n-1].ID
		default:
			fmt.Println("y = merge, n = skip, t N = merge into member N, q = quit")
		}
	}
}

// mergeOneGroup executes and journals one group merge, returning whether it
// fully succeeded. Failures are reported and the session continues.
func mergeOneGroup(ctx context.Context, engine *dedupe.Engine, client *paperless.Client, j *journal.Journal, group []paperless.Correspondent, targetID int, names map[int]string) bool {
	result, err := engine.ExecuteGroupMerge(ctx, group, targetID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", red("✗"), err)
		return false
	}
	for _, m := range result.Merges {
		recordMerge(ctx, j, m, names)
	}
	if !result.Succeeded {
		fmt.Printf("%s Group merge incomplete; failed sources keep their documents\n", red("✗"))
		return false
	}
	fmt.Printf("%s Merged into [%d] %s\n", green("✓"), result.Plan.TargetID, names[result.Plan.TargetID])
	offerSourceDeletion(ctx, client, result.Plan.SourceIDs, names)
	return true
}
