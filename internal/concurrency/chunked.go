// Package concurrency implements the bounded-chunk executor shared by the
// probe stages and the Host Resolver: process a worklist in chunks of size
// K, launch one goroutine per item in the chunk, await the whole chunk,
// then advance. This is deliberately simpler than a long-lived worker
// pool, sufficient to cap fan-out against local file-descriptor and
// outbound-bandwidth limits while keeping per-cycle completion bounds
// predictable.
package concurrency

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Run calls fn(i) for every index in [0, n), in chunks of at most size
// items running concurrently within a chunk, advancing to the next chunk
// only once every goroutine in the current one has returned. fn returns
// nothing, so no item can abort the whole run — each stage classifies
// its own failures (unreachable, left-unchanged, etc.) rather than
// surfacing errors out of the executor, and no single item's failure
// should stall the rest of the chunk. A panic in fn propagates normally
// (errgroup does not recover panics), matching Go's usual panic semantics
// elsewhere in the stage.
func Run(ctx context.Context, n, size int, fn func(ctx context.Context, i int)) {
	if size <= 0 {
		size = 1
	}
	for start := 0; start < n; start += size {
		end := start + size
		if end > n {
			end = n
		}

		g, gctx := errgroup.WithContext(ctx)
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				fn(gctx, i)
				return nil
			})
		}
		_ = g.Wait()
	}
}
