// Package dedupe implements duplicate detection and merge orchestration for
// Paperless-ngx correspondents.
//
// # Overview
//
// The package answers two questions about a correspondent set:
//
//  1. Which correspondents are exact duplicates? (FindExactDuplicates —
//     case/whitespace-insensitive name equality)
//  2. Which correspondents probably refer to the same real-world entity?
//     (SimilarPairs / SimilarGroups — Ratcliff-Obershelp name similarity
//     clustered into connected components)
//
// and then executes the cleanup: MergePlan selects a merge target and orders
// the source merges, and Engine migrates each source's documents to the
// target in bounded batches, halving the batch size when a bulk call times
// out.
//
// # Failure containment
//
// Only malformed input (ErrInvalidMergeRequest, ErrInvalidThreshold) is
// surfaced as an error. Network failures during execution are contained to
// the batch or group member they affect and aggregated into boolean results:
// a timed-out batch is retried at half size down to Config.MinBatchSize, a
// failed member does not stop the rest of its group, and the overall result
// is true only when every unit succeeded.
//
// # Scaling
//
// Similarity clustering compares every unordered pair of correspondents, so
// it is O(n²) in the size of the correspondent set. There is no blocking or
// indexing shortcut; for the few thousand correspondents a typical instance
// holds this is fast enough, and a faster approximation could change which
// groups are found.
package dedupe
