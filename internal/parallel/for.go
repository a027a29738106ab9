package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// chunksPerWorker oversubscribes the pool a little so a slow chunk
// (eg. rows crowded with sites) doesn't hold up the barrier on its own.
const chunksPerWorker = 4

// Workers returns n, or GOMAXPROCS if n is 0 or less.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// For splits [0, n) into contiguous chunks & calls fn(lo, hi) for each chunk,
// running at most `workers` chunks at a time.
//
// For returns only once every chunk has finished, so consecutive calls are
// separated by a full barrier: nothing in the next phase can observe a half
// written buffer from this one. Chunks must write disjoint memory.
//
// The context is checked before each chunk starts; chunks already running
// are not interrupted.
func For(ctx context.Context, n, workers int, fn func(lo, hi int)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if n <= 0 {
		return nil
	}

	workers = Workers(workers)
	chunks := workers * chunksPerWorker
	if chunks > n {
		chunks = n
	}
	if chunks == 1 {
		fn(0, n)
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for c := 0; c < chunks; c++ {
		lo := c * n / chunks
		hi := (c + 1) * n / chunks
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			fn(lo, hi)
			return nil
		})
	}
	return g.Wait()
}
