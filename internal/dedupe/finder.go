package dedupe

import "github.com/dlanger/pcm/internal/paperless"

// FindExactDuplicates partitions correspondents into groups whose normalized
// names are identical. Singleton names are dropped; every returned group has
// at least two members.
//
// Ordering is deterministic for a given input order: members keep first-seen
// order within their group, and groups appear in order of their key's first
// occurrence.
func FindExactDuplicates(correspondents []paperless.Correspondent) [][]paperless.Correspondent {
	byName := make(map[string][]paperless.Correspondent)
	var keyOrder []string

	for _, c := range correspondents {
		key := normalizeName(c.Name)
		if _, seen := byName[key]; !seen {
			keyOrder = append(keyOrder, key)
		}
		byName[key] = append(byName[key], c)
	}

	var groups [][]paperless.Correspondent
	for _, key := range keyOrder {
		if members := byName[key]; len(members) >= 2 {
			groups = append(groups, members)
		}
	}
	return groups
}
