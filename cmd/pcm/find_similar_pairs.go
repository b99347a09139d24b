package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dlanger/pcm/internal/dedupe"
)

var findSimilarPairsCmd = &cobra.Command{
	Use:   "find-similar-pairs",
	Short: "List scored similar pairs, best matches first",
	Long: `Score every pair of correspondent names and list the pairs at or above the
threshold, sorted by score descending. This is the unclustered view of
find-similar, useful for tuning the threshold.`,
	Run: func(cmd *cobra.Command, args []string) {
		threshold := resolveThreshold(cmd)

		client := newClient()
		corrs, err := client.Correspondents(context.Background())
		if err != nil {
			fail("%v", err)
		}

		pairs, err := dedupe.SimilarPairs(corrs, threshold)
		if err != nil {
			fail("%v", err)
		}
		if len(pairs) == 0 {
			fmt.Printf("%s No similar pairs at threshold %.2f among %d correspondent(s)\n", green("✓"), threshold, len(corrs))
			return
		}

		fmt.Printf("%s Found %d similar pair(s) at threshold %.2f:\n\n", yellow("⚠"), len(pairs), threshold)
		for _, p := range pairs {
			fmt.Printf("  %.3f  [%d] %s  <->  [%d] %s\n", p.Score, p.A.ID, p.A.Name, p.B.ID, p.B.Name)
		}
	},
}

func init() {
	findSimilarPairsCmd.Flags().Float64("threshold", 0, "Similarity threshold 0.0-1.0 (default: PCM_SIMILARITY_THRESHOLD or 0.9)")
	rootCmd.AddCommand(findSimilarPairsCmd)
}
