package dedupe

import (
	"errors"
	"testing"

	"github.com/dlanger/pcm/internal/paperless"
)

func TestSimilarPairs(t *testing.T) {
	input := []paperless.Correspondent{
		corr(1, "John Doe", 0),
		corr(2, "John D. Doe", 0),
		corr(3, "Jane Smith", 0),
	}

	pairs, err := SimilarPairs(input, 0.8)
	if err != nil {
		t.Fatalf("SimilarPairs: %v", err)
	}
	if len(pairs) == 0 {
		t.Fatal("expected at least one pair")
	}

	found := false
	for _, p := range pairs {
		if (p.A.ID == 1 && p.B.ID == 2) || (p.A.ID == 2 && p.B.ID == 1) {
			found = true
			if p.Score <= 0.8 {
				t.Errorf("John Doe / John D. Doe scored %v, want > 0.8", p.Score)
			}
		}
		if p.A.ID == 3 || p.B.ID == 3 {
			t.Errorf("Jane Smith paired with id %d/%d at threshold 0.8", p.A.ID, p.B.ID)
		}
	}
	if !found {
		t.Error("John Doe / John D. Doe pair not found")
	}
}

func TestSimilarPairsSortedDescending(t *testing.T) {
	input := []paperless.Correspondent{
		corr(1, "Acme Corp", 0),
		corr(2, "Acme Corp.", 0),
		corr(3, "Acme Corporation", 0),
	}

	pairs, err := SimilarPairs(input, 0.5)
	if err != nil {
		t.Fatalf("SimilarPairs: %v", err)
	}
	for i := 1; i < len(pairs); i++ {
		if pairs[i].Score > pairs[i-1].Score {
			t.Errorf("pairs not sorted descending: pair %d scores %v after %v", i, pairs[i].Score, pairs[i-1].Score)
		}
	}
}

func TestSimilarGroupsTwoClusters(t *testing.T) {
	input := []paperless.Correspondent{
		corr(1, "John Doe", 0),
		corr(2, "Jane Smith", 0),
		corr(3, "JOHN DOE", 0),
		corr(4, "jane smith ", 0),
		corr(5, "John  Doe", 0),
	}

	groups, err := SimilarGroups(input, 0.8)
	if err != nil {
		t.Fatalf("SimilarGroups: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2", len(groups))
	}

	// Discovery order follows the first unvisited correspondent: the John
	// cluster starts at index 0, the Jane cluster at index 1.
	if len(groups[0]) != 3 {
		t.Errorf("first group has %d members, want 3", len(groups[0]))
	}
	if len(groups[1]) != 2 {
		t.Errorf("second group has %d members, want 2", len(groups[1]))
	}
	for _, c := range groups[0] {
		if normalizeName(c.Name)[:4] != "john" {
			t.Errorf("first group contains %q, want only John variants", c.Name)
		}
	}
	for _, c := range groups[1] {
		if normalizeName(c.Name)[:4] != "jane" {
			t.Errorf("second group contains %q, want only Jane variants", c.Name)
		}
	}

	// Members sorted ascending by normalized name.
	for _, g := range groups {
		for i := 1; i < len(g); i++ {
			if normalizeName(g[i].Name) < normalizeName(g[i-1].Name) {
				t.Errorf("group members not sorted: %q before %q", g[i-1].Name, g[i].Name)
			}
		}
	}
}

func TestSimilarGroupsDropsSingletons(t *testing.T) {
	input := []paperless.Correspondent{
		corr(1, "Completely Unique GmbH", 0),
		corr(2, "John Doe", 0),
		corr(3, "John D. Doe", 0),
	}

	groups, err := SimilarGroups(input, 0.8)
	if err != nil {
		t.Fatalf("SimilarGroups: %v", err)
	}
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	for _, c := range groups[0] {
		if c.ID == 1 {
			t.Error("singleton correspondent reported in a group")
		}
	}
}

func TestRaisingThresholdNeverAddsResults(t *testing.T) {
	input := []paperless.Correspondent{
		corr(1, "John Doe", 0),
		corr(2, "John D. Doe", 0),
		corr(3, "Jon Doe", 0),
		corr(4, "Jane Smith", 0),
		corr(5, "Jane Smyth", 0),
		corr(6, "Acme Corp", 0),
	}

	// Above the fuse point where unrelated names start chaining together,
	// raising the threshold can only remove edges, so pair counts, group
	// counts, and grouped-member counts all shrink or hold.
	thresholds := []float64{0.8, 0.85, 0.9, 0.95, 1.0}
	prevPairs, prevGroups, prevMembers := -1, -1, -1
	for i := len(thresholds) - 1; i >= 0; i-- {
		th := thresholds[i]
		pairs, err := SimilarPairs(input, th)
		if err != nil {
			t.Fatalf("SimilarPairs(%v): %v", th, err)
		}
		groups, err := SimilarGroups(input, th)
		if err != nil {
			t.Fatalf("SimilarGroups(%v): %v", th, err)
		}
		members := 0
		for _, g := range groups {
			members += len(g)
		}
		if prevPairs >= 0 && len(pairs) < prevPairs {
			t.Errorf("threshold %v found %d pairs, fewer than the higher threshold's %d", th, len(pairs), prevPairs)
		}
		if prevGroups >= 0 && len(groups) < prevGroups {
			t.Errorf("threshold %v found %d groups, fewer than the higher threshold's %d", th, len(groups), prevGroups)
		}
		if prevMembers >= 0 && members < prevMembers {
			t.Errorf("threshold %v grouped %d members, fewer than the higher threshold's %d", th, members, prevMembers)
		}
		prevPairs, prevGroups, prevMembers = len(pairs), len(groups), members
	}
}

func TestInvalidThresholdRejected(t *testing.T) {
	input := []paperless.Correspondent{corr(1, "a", 0), corr(2, "b", 0)}
	for _, th := range []float64{-0.1, 1.1, 2.0} {
		if _, err := SimilarPairs(input, th); !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("SimilarPairs(threshold=%v) error = %v, want ErrInvalidThreshold", th, err)
		}
		if _, err := SimilarGroups(input, th); !errors.Is(err, ErrInvalidThreshold) {
			t.Errorf("SimilarGroups(threshold=%v) error = %v, want ErrInvalidThreshold", th, err)
		}
	}
}
