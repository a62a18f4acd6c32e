// Package engine implements the multi-source record consolidation engine.
//
// The engine folds many independently produced tabular extracts that
// describe the same patients (and usually patient visits) into one
// table per modality without losing conflicting information.
//
// PIPELINE:
//
//  1. Merge: pairwise outer join on the adaptively selected key set
//     (primary key, plus the secondary key when both sides carry it).
//     Non-key columns present on both sides become collision pairs.
//  2. ResolveCollisions: each collision pair is combined back into one
//     column under the value-combination rule. No marked column ever
//     leaves the engine.
//  3. Consolidate: fold Merge over an ordered table sequence.
//     ConsolidateOntoIndex is the bounded-memory variant that left-joins
//     pre-prefixed sources onto a precomputed key-pair index.
//  4. Aggregate: collapse duplicate key tuples, combining each non-key
//     column across the group's rows.
//
// THE COMBINATION RULE (Combine):
//
// Both empty -> empty. One empty -> the other, unchanged. Equal -> the
// single value. Different -> the pipe-joined set of distinct tokens in
// first-encounter order, never repeating a token. Pipe-joined operands
// are re-split before deduplication, so folding Combine across any
// number of sources is associative and idempotent over the token set.
//
// DETERMINISM:
//
// Token order in pipe-joined output is left-before-right for merges and
// row order for aggregation. Key coverage of a consolidation does not
// depend on input order; only token ordering does.
//
// The engine is a pure pipeline: no stage mutates its input, no state
// survives between calls.
package engine
