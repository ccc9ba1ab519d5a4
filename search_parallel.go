package strhash

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// tierParallel is tier with the salt trials spread over the workers.
//
// Each worker evaluates salts worker, worker+W, ... into its own scratch,
// abandoning a trial once it reaches the best cost at the start of the
// tier. Results are then applied in salt order with the same rules as the
// sequential loop, so both pick the same configuration: a trial abandoned
// here could not have beaten the sequential running best either, since that
// is never above the tier's starting best.
func (s *searcher) tierParallel(ctx context.Context, pos []uint16, size, trials uint32, best *tuning) (bool, error) {
	mask := size - 1
	limit := best.cost
	costs := make([]uint64, trials)

	workers := min(s.workers, int(trials))
	g, gctx := errgroup.WithContext(ctx)
	for w := range workers {
		scratch := s.scratch[w]
		g.Go(func() error {
			for salt := uint32(w); salt < trials; salt += uint32(workers) {
				if err := gctx.Err(); err != nil {
					return err
				}
				costs[salt] = scratch.evaluate(s.keys, s.id, s.raw, pos, salt, mask, limit)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return false, fmt.Errorf("salt search: %w", err)
	}

	for salt, cost := range costs {
		if s.improve(ctx, best, pos, uint32(salt), size, cost) {
			return true, nil
		}
	}
	return false, nil
}
