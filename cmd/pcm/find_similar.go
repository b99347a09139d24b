package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dlanger/pcm/internal/ai"
	"github.com/dlanger/pcm/internal/dedupe"
	"github.com/dlanger/pcm/internal/paperless"
)

var findSimilarCmd = &cobra.Command{
	Use:   "find-similar",
	Short: "Find groups of similarly-named correspondents",
	Long: `Cluster correspondents whose names score at or above the similarity
threshold into candidate merge groups.

With --ai-review, each group is additionally judged by a language model:
string similarity happily pairs "Deutsche Bahn" with "Deutsche Bank", and
the review catches exactly that kind of false positive. Review requires
ANTHROPIC_API_KEY and never blocks the listing when it fails.

Examples:
  pcm find-similar
  pcm find-similar --threshold 0.8
  pcm find-similar --ai-review`,
	Run: func(cmd *cobra.Command, args []string) {
		threshold := resolveThreshold(cmd)
		aiReview, _ := cmd.Flags().GetBool("ai-review")

		client := newClient()
		corrs, err := client.Correspondents(context.Background())
		if err != nil {
			fail("%v", err)
		}

		groups, err := dedupe.SimilarGroups(corrs, threshold)
		if err != nil {
			fail("%v", err)
		}
		if len(groups) == 0 {
			fmt.Printf("%s No similar groups at threshold %.2f among %d correspondent(s)\n", green("✓"), threshold, len(corrs))
			return
		}

		reviewer := maybeReviewer(aiReview)

		fmt.Printf("%s Found %d similar group(s) at threshold %.2f:\n\n", yellow("⚠"), len(groups), threshold)
		for i, group := range groups {
			writeGroup(os.Stdout, i+1, group)
			if reviewer != nil {
				writeReview(reviewer, group)
			}
			fmt.Println()
		}
	},
}

func init() {
	findSimilarCmd.Flags().Float64("threshold", 0, "Similarity threshold 0.0-1.0 (default: PCM_SIMILARITY_THRESHOLD or 0.9)")
	findSimilarCmd.Flags().Bool("ai-review", false, "Review each group with the Anthropic API")
	rootCmd.AddCommand(findSimilarCmd)
}

// resolveThreshold returns the --threshold flag when set, otherwise the
// configured default.
func resolveThreshold(cmd *cobra.Command) float64 {
	if cmd.Flags().Changed("threshold") {
		threshold, _ := cmd.Flags().GetFloat64("threshold")
		return threshold
	}
	cfg, err := dedupe.ConfigFromEnv()
	if err != nil {
		fail("%v", err)
	}
	return cfg.SimilarityThreshold
}

// maybeReviewer builds the AI reviewer when requested and configured,
// warning instead of failing when it is unavailable.
func maybeReviewer(enabled bool) *ai.Reviewer {
	if !enabled {
		return nil
	}
	reviewer, err := ai.NewReviewerFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: AI review unavailable: %v\n", err)
		return nil
	}
	return reviewer
}

// writeReview prints the model's verdict for one group. Review failures
// degrade the group to unreviewed.
func writeReview(reviewer *ai.Reviewer, group []paperless.Correspondent) {
	verdict, err := reviewer.ReviewGroup(context.Background(), group)
	if err != nil {
		fmt.Printf("  AI review: %s (%v)\n", yellow("unreviewed"), err)
		return
	}
	if verdict.SameEntity {
		fmt.Printf("  AI review: %s (confidence %.2f) %s\n", green("same entity"), verdict.Confidence, verdict.Reasoning)
	} else {
		fmt.Printf("  AI review: %s (confidence %.2f) %s\n", red("DIFFERENT entities"), verdict.Confidence, verdict.Reasoning)
	}
}
