package dedupe

import (
	"fmt"

	"github.com/dlanger/pcm/internal/paperless"
)

// MergePlan is the ordered work list for one merge: every source's documents
// move to the target, then the emptied sources can be deleted. Plans are
// computed once per merge invocation and discarded; they hold ids only, not
// correspondent snapshots.
type MergePlan struct {
	TargetID  int
	SourceIDs []int
}

// PlanGroupMerge decides how a group of equivalent correspondents collapses
// into one. With explicitTargetID zero the target is the member with the
// highest document count (ties go to the first such member in group order),
// which minimizes the number of documents that have to move. A non-zero
// explicitTargetID must be a member of the group.
//
// Sources are every non-target member, preserving group order. Planning is
// pure: no I/O, and it either fully succeeds or returns
// ErrInvalidMergeRequest.
func PlanGroupMerge(group []paperless.Correspondent, explicitTargetID int) (*MergePlan, error) {
	if len(group) < 2 {
		return nil, fmt.Errorf("%w: group has %d member(s), need at least 2", ErrInvalidMergeRequest, len(group))
	}

	seen := make(map[int]bool, len(group))
	for _, c := range group {
		if seen[c.ID] {
			return nil, fmt.Errorf("%w: correspondent %d appears twice in group", ErrInvalidMergeRequest, c.ID)
		}
		seen[c.ID] = true
	}

	targetID := explicitTargetID
	if targetID == 0 {
		best := group[0]
		for _, c := range group[1:] {
			if c.DocumentCount > best.DocumentCount {
				best = c
			}
		}
		targetID = best.ID
	} else if !seen[targetID] {
		return nil, fmt.Errorf("%w: target %d is not a member of the group", ErrInvalidMergeRequest, targetID)
	}

	plan := &MergePlan{TargetID: targetID}
	for _, c := range group {
		if c.ID != targetID {
			plan.SourceIDs = append(plan.SourceIDs, c.ID)
		}
	}
	return plan, nil
}

// PlanPairMerge is the trivial one-source plan behind the two-argument merge
// command. Merging a correspondent into itself is rejected.
func PlanPairMerge(targetID, sourceID int) (*MergePlan, error) {
	if targetID == sourceID {
		return nil, fmt.Errorf("%w: source and target are both %d", ErrInvalidMergeRequest, targetID)
	}
	return &MergePlan{TargetID: targetID, SourceIDs: []int{sourceID}}, nil
}
