package relief

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// forEach runs fn for every index in [0, n) on at most workers goroutines.
// fn must only write state owned by its index.
func forEach(ctx context.Context, n, workers int, fn func(i int) error) error {
	if workers < 1 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	// The group context is cancelled by Wait; only the caller's matters here.
	return ctx.Err()
}
