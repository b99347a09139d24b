package dedupe

import (
	"errors"
	"testing"

	"github.com/dlanger/pcm/internal/paperless"
)

func TestPlanGroupMergePicksHighestDocumentCount(t *testing.T) {
	group := []paperless.Correspondent{
		corr(10, "John Doe", 3),
		corr(11, "JOHN DOE", 12),
		corr(12, "john doe ", 5),
	}

	plan, err := PlanGroupMerge(group, 0)
	if err != nil {
		t.Fatalf("PlanGroupMerge: %v", err)
	}
	if plan.TargetID != 11 {
		t.Errorf("target = %d, want 11 (highest document count)", plan.TargetID)
	}
	if len(plan.SourceIDs) != 2 || plan.SourceIDs[0] != 10 || plan.SourceIDs[1] != 12 {
		t.Errorf("sources = %v, want [10 12] in group order", plan.SourceIDs)
	}
}

func TestPlanGroupMergeTiesGoToFirst(t *testing.T) {
	group := []paperless.Correspondent{
		corr(10, "a", 7),
		corr(11, "b", 7),
		corr(12, "c", 2),
	}

	plan, err := PlanGroupMerge(group, 0)
	if err != nil {
		t.Fatalf("PlanGroupMerge: %v", err)
	}
	if plan.TargetID != 10 {
		t.Errorf("target = %d, want 10 (first of the tied members)", plan.TargetID)
	}
}

func TestPlanGroupMergeExplicitTarget(t *testing.T) {
	group := []paperless.Correspondent{
		corr(10, "a", 0),
		corr(11, "b", 99),
	}

	plan, err := PlanGroupMerge(group, 10)
	if err != nil {
		t.Fatalf("PlanGroupMerge: %v", err)
	}
	if plan.TargetID != 10 {
		t.Errorf("target = %d, want the explicit 10 even with a bigger member present", plan.TargetID)
	}
	if len(plan.SourceIDs) != 1 || plan.SourceIDs[0] != 11 {
		t.Errorf("sources = %v, want [11]", plan.SourceIDs)
	}
}

func TestPlanGroupMergeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name   string
		group  []paperless.Correspondent
		target int
	}{
		{"empty group", nil, 0},
		{"single member", []paperless.Correspondent{corr(1, "a", 0)}, 0},
		{"explicit target not a member", []paperless.Correspondent{corr(1, "a", 0), corr(2, "b", 0)}, 99},
		{"duplicate ids in group", []paperless.Correspondent{corr(1, "a", 0), corr(1, "a2", 0), corr(2, "b", 0)}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := PlanGroupMerge(tt.group, tt.target)
			if !errors.Is(err, ErrInvalidMergeRequest) {
				t.Errorf("error = %v, want ErrInvalidMergeRequest", err)
			}
		})
	}
}

func TestPlanPairMerge(t *testing.T) {
	plan, err := PlanPairMerge(5, 9)
	if err != nil {
		t.Fatalf("PlanPairMerge: %v", err)
	}
	if plan.TargetID != 5 || len(plan.SourceIDs) != 1 || plan.SourceIDs[0] != 9 {
		t.Errorf("plan = %+v, want target 5 with single source 9", plan)
	}

	if _, err := PlanPairMerge(5, 5); !errors.Is(err, ErrInvalidMergeRequest) {
		t.Errorf("self-merge error = %v, want ErrInvalidMergeRequest", err)
	}
}
