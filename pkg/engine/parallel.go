package engine

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"remap/pkg/schema"
)

// ApplyRecords runs fn over every record by sharding the row range across
// workers. Each output lands at its source index, so input order is
// preserved regardless of scheduling; that keeps downstream first-seen-wins
// duplicate resolution deterministic. fn must be pure with respect to shared
// state: classification and projection depend only on the record itself.
func ApplyRecords(ctx context.Context, rows []schema.Record, workers int, fn func(i int, r schema.Record) (schema.Record, error)) ([]schema.Record, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(rows) {
		workers = len(rows)
	}
	out := make([]schema.Record, len(rows))
	if len(rows) == 0 {
		return out, nil
	}

	g, ctx := errgroup.WithContext(ctx)
	chunk := (len(rows) + workers - 1) / workers

	for start := 0; start < len(rows); start += chunk {
		end := start + chunk
		if end > len(rows) {
			end = len(rows)
		}
		start, end := start, end
		g.Go(func() error {
			for i := start; i < end; i++ {
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
				r, err := fn(i, rows[i])
				if err != nil {
					return err
				}
				out[i] = r
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
