package dedupe

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dlanger/pcm/internal/paperless"
)

// DocumentService is the slice of the Paperless-ngx API the engine needs to
// execute merges. *paperless.Client satisfies it; tests substitute fakes.
//
// BulkSetCorrespondent is assumed idempotent enough that retrying a
// timed-out batch is safe: a timeout may mean the server applied the change
// and the response was lost, so reassignment is at-least-once by design.
type DocumentService interface {
	CorrespondentDocuments(ctx context.Context, id int) ([]paperless.Document, error)
	BulkSetCorrespondent(ctx context.Context, documentIDs []int, correspondentID int, timeout time.Duration) error
}

// Engine executes document reassignment against the external service in
// bounded batches. It is synchronous and sequential: one in-flight request
// at a time, no shared state between operations, and it assumes it is the
// sole writer for the duration of a merge.
type Engine struct {
	svc DocumentService
	cfg Config
}

// NewEngine validates cfg and returns an engine bound to svc.
func NewEngine(svc DocumentService, cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("engine config: %w", err)
	}
	return &Engine{svc: svc, cfg: cfg}, nil
}

// MergeResult reports one source-to-target merge. DocumentIDs lists the
// documents that were (or should have been) moved; the journal records them
// so a bad merge can be restored later.
type MergeResult struct {
	SourceID    int
	TargetID    int
	DocumentIDs []int
	Succeeded   bool
}

// GroupMergeResult aggregates the per-source results of one group merge.
type GroupMergeResult struct {
	Plan      *MergePlan
	Merges    []*MergeResult
	Succeeded bool
}

// pendingBatch is one chunk of document ids waiting for a bulk call, tagged
// with the batch size it was cut at so a timeout knows where halving stands.
type pendingBatch struct {
	ids  []int
	size int
}

// Reassign moves the given documents to targetCorrespondentID in consecutive
// batches of at most batchSize, preserving input order. A non-positive
// batchSize falls back to Config.ReassignBatchSize.
//
// Timeout handling: a batch whose bulk call times out is re-split at half
// the batch size and retried before later batches run; once the size is at
// or below Config.MinBatchSize a timeout is fatal for that batch. Either
// way, remaining batches are still attempted. Non-timeout failures are never
// retried. The halving cascade runs on an explicit work stack rather than
// recursion.
//
// Returns true only if every batch ultimately succeeded, directly or via
// retry. Empty input succeeds trivially with no network call.
func (e *Engine) Reassign(ctx context.Context, documentIDs []int, targetCorrespondentID, batchSize int) bool {
	if len(documentIDs) == 0 {
		return true
	}
	if batchSize <= 0 {
		batchSize = e.cfg.ReassignBatchSize
	}

	// Stack seeded in reverse so batches pop in input order, and so a
	// halved retry (pushed last) runs before the batches behind it.
	work := splitBatches(nil, documentIDs, batchSize)

	succeeded := true
	for len(work) > 0 {
		batch := work[len(work)-1]
		work = work[:len(work)-1]

		err := e.svc.BulkSetCorrespondent(ctx, batch.ids, targetCorrespondentID, e.cfg.BulkTimeout)
		if err == nil {
			continue
		}

		if paperless.IsTimeout(err) && batch.size > e.cfg.MinBatchSize {
			half := batch.size / 2
			log.Printf("[MERGE] bulk call timed out for %d document(s), retrying at batch size %d", len(batch.ids), half)
			work = splitBatches(work, batch.ids, half)
			continue
		}

		if paperless.IsTimeout(err) {
			log.Printf("[MERGE] bulk call timed out at floor batch size %d, giving up on %d document(s)", batch.size, len(batch.ids))
		} else {
			log.Printf("[MERGE] bulk call failed for %d document(s): %v", len(batch.ids), err)
		}
		succeeded = false
	}
	return succeeded
}

// splitBatches cuts ids into consecutive chunks of at most size and pushes
// them onto the work stack in reverse, so they pop in original order ahead
// of whatever was already stacked behind them.
func splitBatches(work []pendingBatch, ids []int, size int) []pendingBatch {
	var batches []pendingBatch
	for lo := 0; lo < len(ids); lo += size {
		hi := lo + size
		if hi > len(ids) {
			hi = len(ids)
		}
		batches = append(batches, pendingBatch{ids: ids[lo:hi], size: size})
	}
	for i := len(batches) - 1; i >= 0; i-- {
		work = append(work, batches[i])
	}
	return work
}

// RestoreDocuments reassigns documents back to targetCorrespondentID using
// the smaller restore batch size. Same contract as Reassign otherwise.
func (e *Engine) RestoreDocuments(ctx context.Context, documentIDs []int, targetCorrespondentID int) bool {
	return e.Reassign(ctx, documentIDs, targetCorrespondentID, e.cfg.RestoreBatchSize)
}

// ExecuteMerge moves every document owned by sourceID to targetID. The
// document set is fetched fresh from the service; a source with no documents
// succeeds immediately without touching the engine. A fetch failure is
// contained: it yields a failed result, not an error. The only error is
// sourceID == targetID.
func (e *Engine) ExecuteMerge(ctx context.Context, sourceID, targetID int) (*MergeResult, error) {
	if sourceID == targetID {
		return nil, fmt.Errorf("%w: source and target are both %d", ErrInvalidMergeRequest, sourceID)
	}

	result := &MergeResult{SourceID: sourceID, TargetID: targetID}

	docs, err := e.svc.CorrespondentDocuments(ctx, sourceID)
	if err != nil {
		log.Printf("[MERGE] fetching documents of correspondent %d: %v", sourceID, err)
		return result, nil
	}
	if len(docs) == 0 {
		result.Succeeded = true
		return result, nil
	}

	result.DocumentIDs = paperless.DocumentIDs(docs)
	result.Succeeded = e.Reassign(ctx, result.DocumentIDs, targetID, e.cfg.ReassignBatchSize)
	return result, nil
}

// ExecuteGroupMerge plans and runs the merge of a whole group into one
// target (see PlanGroupMerge for target selection). Every source is
// attempted even after an earlier source fails; one bad merge must not
// strand the rest of the group. Aggregate success is the AND of the
// individual merges.
//
// The returned error covers planning only (ErrInvalidMergeRequest);
// execution failures live in the result.
func (e *Engine) ExecuteGroupMerge(ctx context.Context, group []paperless.Correspondent, explicitTargetID int) (*GroupMergeResult, error) {
	plan, err := PlanGroupMerge(group, explicitTargetID)
	if err != nil {
		return nil, err
	}

	result := &GroupMergeResult{Plan: plan, Succeeded: true}
	for _, sourceID := range plan.SourceIDs {
		merge, err := e.ExecuteMerge(ctx, sourceID, plan.TargetID)
		if err != nil {
			// Unreachable with a valid plan (sources exclude the
			// target), but contained like any other member failure.
			log.Printf("[MERGE] merge %d -> %d rejected: %v", sourceID, plan.TargetID, err)
			merge = &MergeResult{SourceID: sourceID, TargetID: plan.TargetID}
		}
		result.Merges = append(result.Merges, merge)
		if !merge.Succeeded {
			result.Succeeded = false
		}
	}
	return result, nil
}
