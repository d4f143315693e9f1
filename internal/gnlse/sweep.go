package gnlse

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Sweep runs independent setups concurrently, at most GOMAXPROCS at a time,
// and returns their solutions in input order. The first failure cancels the
// remaining runs.
func Sweep(ctx context.Context, setups []Setup, opts ...Option) ([]*Solution, error) {
	solvers := make([]*Solver, len(setups))
	for i, s := range setups {
		solver, err := New(s, opts...)
		if err != nil {
			return nil, fmt.Errorf("setup %d: %w", i, err)
		}
		solvers[i] = solver
	}

	results := make([]*Solution, len(setups))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, solver := range solvers {
		g.Go(func() error {
			sol, err := solver.Run(ctx)
			if err != nil {
				return fmt.Errorf("setup %d: %w", i, err)
			}
			results[i] = sol
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
