package strhash

import (
	"cmp"
	"context"
	"slices"

	"github.com/chainguard-dev/clog"

	intbits "github.com/tamirms/strhash/internal/bits"
	"github.com/tamirms/strhash/internal/hashfn"
)

// maxSaltTrials bounds the salt loop per (positions, table size) tier.
const maxSaltTrials = 128

// tuning is the outcome of the search: everything needed to rebuild the
// slot function of a table.
type tuning struct {
	fn   HashFunc
	pos  []uint16
	salt uint32
	size uint32
	cost uint64
}

// searcher holds the inputs and scratch of one tuning search.
//
// The search walks (position count, table size, salt) in that nesting order
// and keeps the configuration with the lowest collision cost Σ count²,
// where count is the number of keys sharing a slot. It returns as soon as
// a configuration has no collisions at all (cost == n) or, after finishing
// a table size, once the best cost is within n + n/3.
type searcher struct {
	keys    [][]byte
	fn      HashFunc
	id      hashfn.ID
	raw     hashfn.Func
	workers int
	scratch []*trialScratch

	minCost  uint64
	goodCost uint64
	maxCost  uint64
}

// trialScratch is per-goroutine state for evaluating one candidate.
type trialScratch struct {
	counts []uint32 // keys per slot, all zero between trials
	slots  []uint32 // slot of each key in the current trial
}

func newTrialScratch(n int, maxSize uint64) *trialScratch {
	return &trialScratch{
		counts: make([]uint32, maxSize),
		slots:  make([]uint32, n),
	}
}

// evaluate returns the collision cost of one candidate. The cost is built
// incrementally (a slot going from c to c+1 keys adds 2c+1), and evaluation
// stops once it reaches limit: the candidate can no longer win, so any
// value >= limit is as good as the exact one.
func (t *trialScratch) evaluate(keys [][]byte, id hashfn.ID, raw hashfn.Func, pos []uint16, salt, mask uint32, limit uint64) uint64 {
	var cost uint64
	i := 0
	for i < len(keys) {
		slot := hashfn.Reduce(id, raw(keys[i], pos, salt), mask)
		t.slots[i] = slot
		c := t.counts[slot]
		t.counts[slot] = c + 1
		cost += 2*uint64(c) + 1
		i++
		if cost >= limit {
			break
		}
	}
	for _, slot := range t.slots[:i] {
		t.counts[slot] = 0
	}
	return cost
}

// rankPositions orders byte offsets by how well they spread the keys on
// their own: the cost of an offset is Σ count² over its distinct byte
// values. Ties keep offset order.
func rankPositions(keys [][]byte, width int) ([]uint16, []uint64) {
	costs := make([]uint64, width)
	var counts [256]uint64
	for off := range width {
		clear(counts[:])
		for _, k := range keys {
			counts[k[off]]++
		}
		for _, c := range counts {
			costs[off] += c * c
		}
	}

	order := make([]uint16, width)
	for i := range order {
		order[i] = uint16(i)
	}
	slices.SortStableFunc(order, func(a, b uint16) int {
		return cmp.Compare(costs[a], costs[b])
	})

	ranked := make([]uint64, width)
	for i, off := range order {
		ranked[i] = costs[off]
	}
	return order, ranked
}

// search finds the hash configuration for keys, all width bytes long.
// len(keys) must be below maxTable.
func search(ctx context.Context, keys [][]byte, width int, fn HashFunc, workers int, maxTable uint32) (tuning, error) {
	n := uint64(len(keys))
	if n == 0 {
		return tuning{fn: fn, size: 1}, nil
	}

	initSize := uint64(intbits.CeilPow2Above(uint32(n)))
	maxSize := min(initSize*4, uint64(maxTable))

	s := &searcher{
		keys:     keys,
		fn:       fn,
		id:       fn.id(),
		raw:      fn.id().Func(),
		workers:  workers,
		minCost:  n,
		goodCost: n + n/3,
		maxCost:  n * n,
	}
	for range workers {
		s.scratch = append(s.scratch, newTrialScratch(len(keys), maxSize))
	}

	log := clog.FromContext(ctx).With("hash", fn.String(), "keys", n)

	// Whole-key variants have no position dimension.
	candidates := [][]uint16{nil}
	var ranked []uint16
	if s.id.UsesPositions() {
		var rankedCost []uint64
		ranked, rankedCost = rankPositions(keys, width)
		candidates = candidates[:0]
		for posLen := 1; posLen <= width && rankedCost[posLen-1] < s.maxCost; posLen++ {
			candidates = append(candidates, ranked[:posLen])
		}
	}

	best := tuning{fn: fn, cost: s.maxCost + 1}
	for _, pos := range candidates {
		for size := initSize; size <= maxSize; size <<= 1 {
			if err := ctx.Err(); err != nil {
				return tuning{}, err
			}
			done, err := s.tier(ctx, pos, uint32(size), &best)
			if err != nil {
				return tuning{}, err
			}
			if done {
				log.Debugf("collision-free configuration: cost=%d positions=%d salt=%d size=%d",
					best.cost, len(best.pos), best.salt, best.size)
				return best, nil
			}
			if best.cost <= s.goodCost {
				log.Debugf("accepted configuration: cost=%d positions=%d salt=%d size=%d",
					best.cost, len(best.pos), best.salt, best.size)
				return best, nil
			}
		}
	}

	if best.cost > s.maxCost {
		// Nothing was evaluated: every offset is constant across the keys,
		// which for unique keys means n == 1.
		best = tuning{fn: fn, size: uint32(initSize)}
		if s.id.UsesPositions() {
			best.pos = ranked[:1]
		}
		best.cost = s.scratch[0].evaluate(keys, s.id, s.raw, best.pos, 0, best.size-1, s.maxCost+1)
	}
	log.Debugf("best configuration within bounds: cost=%d positions=%d salt=%d size=%d",
		best.cost, len(best.pos), best.salt, best.size)
	return best, nil
}

// saltTrials returns how many salts a tier tries for the given mask.
func (s *searcher) saltTrials(mask uint32) uint32 {
	if !s.id.UsesSalt() {
		return 1
	}
	return min(mask, maxSaltTrials-1) + 1
}

// tier evaluates every salt for one (positions, table size) pair, updating
// best with strictly lower costs in salt order. It reports whether a
// collision-free configuration was found.
func (s *searcher) tier(ctx context.Context, pos []uint16, size uint32, best *tuning) (bool, error) {
	mask := size - 1
	trials := s.saltTrials(mask)
	if s.workers > 1 && trials > 1 {
		return s.tierParallel(ctx, pos, size, trials, best)
	}

	scratch := s.scratch[0]
	for salt := range trials {
		cost := scratch.evaluate(s.keys, s.id, s.raw, pos, salt, mask, best.cost)
		if s.improve(ctx, best, pos, salt, size, cost) {
			return true, nil
		}
	}
	return false, nil
}

// improve applies one trial result to best and reports whether the search
// is finished.
func (s *searcher) improve(ctx context.Context, best *tuning, pos []uint16, salt, size uint32, cost uint64) bool {
	if cost >= best.cost {
		return false
	}
	*best = tuning{fn: s.fn, pos: pos, salt: salt, size: size, cost: cost}
	clog.FromContext(ctx).Debugf("best cost %d: positions=%d salt=%d size=%d", cost, len(pos), salt, size)
	return cost == s.minCost
}
