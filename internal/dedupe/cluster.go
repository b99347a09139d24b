package dedupe

import (
	"fmt"
	"sort"

	"github.com/dlanger/pcm/internal/paperless"
)

// DefaultThreshold is the similarity cutoff used when the caller does not
// supply one. 0.9 is conservative: it catches punctuation and typo variants
// of the same name while rarely pairing genuinely different correspondents.
const DefaultThreshold = 0.9

// SimilarPair is one above-threshold comparison between two correspondents.
type SimilarPair struct {
	A     paperless.Correspondent
	B     paperless.Correspondent
	Score float64
}

// validateThreshold rejects thresholds outside [0, 1] before any scoring
// work happens.
func validateThreshold(threshold float64) error {
	if threshold < 0 || threshold > 1 {
		return fmt.Errorf("%w: %.2f not in [0, 1]", ErrInvalidThreshold, threshold)
	}
	return nil
}

// SimilarPairs scores every unordered pair of correspondents and returns the
// pairs at or above threshold, sorted by score descending. The sort is
// stable, so equal scores keep pair-discovery order (input order, i before
// j) and results are reproducible.
//
// This is the unclustered view of the similarity relation; SimilarGroups
// folds the same relation into connected components. Both walk all n*(n-1)/2
// pairs (see the package doc for the scaling note).
func SimilarPairs(correspondents []paperless.Correspondent, threshold float64) ([]SimilarPair, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}

	var pairs []SimilarPair
	for i := 0; i < len(correspondents); i++ {
		for j := i + 1; j < len(correspondents); j++ {
			score := Score(correspondents[i].Name, correspondents[j].Name)
			if score >= threshold {
				pairs = append(pairs, SimilarPair{
					A:     correspondents[i],
					B:     correspondents[j],
					Score: score,
				})
			}
		}
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].Score > pairs[j].Score
	})
	return pairs, nil
}

// SimilarGroups clusters correspondents into groups believed to represent
// the same entity: connected components of the "similarity >= threshold"
// relation. A correspondent with no neighbor at or above threshold is not
// reported.
//
// Output is deterministic: groups appear in order of their first member's
// position in the input, and members within a group are sorted ascending by
// normalized name.
func SimilarGroups(correspondents []paperless.Correspondent, threshold float64) ([][]paperless.Correspondent, error) {
	if err := validateThreshold(threshold); err != nil {
		return nil, err
	}

	// Integer-indexed adjacency over the input slice. Scoring is
	// commutative, so each unordered pair is scored once and the edge
	// recorded in both directions.
	adjacent := make([][]int, len(correspondents))
	for i := 0; i < len(correspondents); i++ {
		for j := i + 1; j < len(correspondents); j++ {
			if Score(correspondents[i].Name, correspondents[j].Name) >= threshold {
				adjacent[i] = append(adjacent[i], j)
				adjacent[j] = append(adjacent[j], i)
			}
		}
	}

	visited := make([]bool, len(correspondents))
	var groups [][]paperless.Correspondent

	for start := range correspondents {
		if visited[start] {
			continue
		}
		visited[start] = true

		// Depth-first component walk with an explicit stack; recursion
		// depth would otherwise track component size.
		stack := []int{start}
		var members []int
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			members = append(members, n)
			for _, m := range adjacent[n] {
				if !visited[m] {
					visited[m] = true
					stack = append(stack, m)
				}
			}
		}

		if len(members) < 2 {
			continue
		}

		group := make([]paperless.Correspondent, len(members))
		for k, idx := range members {
			group[k] = correspondents[idx]
		}
		sort.SliceStable(group, func(a, b int) bool {
			return normalizeName(group[a].Name) < normalizeName(group[b].Name)
		})
		groups = append(groups, group)
	}

	return groups, nil
}
