// Package parallel provides block-parallel evaluation infrastructure for the
// fractal engine.
//
// Fractal blocks are independent: each kernel invocation reads only its own
// coordinate batch and writes only its own result batch. This package splits
// a range of block indices into contiguous chunks and runs them on a pool of
// goroutines. Key features:
//
//   - Per-worker queues with work stealing, so slow chunks (blocks deep inside
//     the set run the full iteration budget) do not stall idle workers
//   - Contiguous chunks so neighbouring blocks share cache lines
//   - No locking around results: every index is visited by exactly one worker
//
// Thread safety: WorkerPool is safe for concurrent use.
package parallel
