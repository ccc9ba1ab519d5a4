// Benchkey measures fixed-width key operations against their []byte and
// strconv counterparts.
//
// Usage:
//
//	go run ./cmd/benchkey -ops eq,compare,toi,fromi -n 10000000
//
// Flags:
//
//	-ops   Comma-separated operations: eq, compare, toi, fromi (default: all)
//	-n     Iterations per measurement (default: 10,000,000)
//	-keys  Distinct keys cycled through (default: 4096)
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"log/slog"
	mrand "math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/klauspost/cpuid/v2"

	"github.com/tamirms/strhash/fixedkey"
)

type config struct {
	n    int
	keys int
	ops  map[string]bool
}

var allOps = []string{"eq", "compare", "toi", "fromi"}

func main() {
	opsFlag := flag.String("ops", strings.Join(allOps, ","), "operations to measure")
	nFlag := flag.Int("n", 10_000_000, "iterations per measurement")
	keysFlag := flag.Int("keys", 4096, "distinct keys cycled through")
	flag.Parse()

	ctx := clog.WithLogger(context.Background(), clog.New(slog.Default().Handler()))
	log := clog.FromContext(ctx)

	cfg := config{n: *nFlag, keys: *keysFlag, ops: make(map[string]bool)}
	for _, op := range strings.Split(*opsFlag, ",") {
		op = strings.TrimSpace(op)
		known := false
		for _, o := range allOps {
			known = known || o == op
		}
		if !known {
			log.Fatalf("unknown operation %q (want one of %v)", op, allOps)
		}
		cfg.ops[op] = true
	}
	if cfg.n < 1 || cfg.keys < 2 {
		log.Fatalf("-n must be positive and -keys at least 2")
	}

	fmt.Printf("CPU: %s, AVX2 %v\n", cpuid.CPU.BrandName, cpuid.CPU.Supports(cpuid.AVX2))
	fmt.Printf("%-8s %6s %12s %12s\n", "op", "width", "fixedkey", "baseline")

	benchWidth[[4]byte](cfg)
	benchWidth[[8]byte](cfg)
	benchWidth[[10]byte](cfg)
	benchWidth[[12]byte](cfg)
	benchWidth[[16]byte](cfg)
	benchWidth[[19]byte](cfg)
	benchWidth[[32]byte](cfg)
	benchWidth[[64]byte](cfg)
	benchWidth[[128]byte](cfg)
}

// timeIt returns the mean duration of one call of f(i) over n calls.
func timeIt(n int, f func(i int)) time.Duration {
	start := time.Now()
	for i := range n {
		f(i)
	}
	return time.Since(start) / time.Duration(n)
}

func report(op string, width int, fast, base time.Duration) {
	fmt.Printf("%-8s %6d %10.2fns %10.2fns\n", op, width, float64(fast.Nanoseconds()), float64(base.Nanoseconds()))
}

func benchWidth[A fixedkey.Array](cfg config) {
	w := fixedkey.Width[A]()
	rng := mrand.New(mrand.NewPCG(uint64(w), 0x5eed))

	// Pairs share a long prefix so comparisons reach the last bytes.
	keys := make([]fixedkey.Key[A], cfg.keys)
	raw := make([][]byte, cfg.keys)
	buf := make([]byte, w)
	for i := range keys {
		for j := range buf {
			buf[j] = 'A'
		}
		buf[w-1] = byte('A' + rng.IntN(4))
		keys[i] = fixedkey.New[A](buf)
		raw[i] = bytes.Clone(buf)
	}
	at := func(i int) int { return i % cfg.keys }

	var sink int
	if cfg.ops["eq"] {
		fast := timeIt(cfg.n, func(i int) {
			if keys[at(i)].Equal(keys[at(i+1)]) {
				sink++
			}
		})
		base := timeIt(cfg.n, func(i int) {
			if bytes.Equal(raw[at(i)], raw[at(i+1)]) {
				sink++
			}
		})
		report("eq", w, fast, base)
	}
	if cfg.ops["compare"] {
		fast := timeIt(cfg.n, func(i int) { sink += keys[at(i)].Compare(keys[at(i+1)]) })
		base := timeIt(cfg.n, func(i int) { sink += bytes.Compare(raw[at(i)], raw[at(i+1)]) })
		report("compare", w, fast, base)
	}

	if cfg.ops["toi"] || cfg.ops["fromi"] {
		digits := min(w, 19)
		limit := uint64(1)
		for range digits {
			limit *= 10
		}
		nums := make([]uint64, cfg.keys)
		decimal := make([]fixedkey.Key[A], cfg.keys)
		text := make([]string, cfg.keys)
		for i := range nums {
			nums[i] = rng.Uint64N(limit)
			decimal[i] = fixedkey.FromUint64[A](nums[i])
			text[i] = string(decimal[i].View()[w-digits:])
		}

		if cfg.ops["toi"] {
			fast := timeIt(cfg.n, func(i int) { sink += int(decimal[at(i)].Uint64()) })
			base := timeIt(cfg.n, func(i int) {
				v, _ := strconv.ParseUint(text[at(i)], 10, 64)
				sink += int(v)
			})
			report("toi", w, fast, base)
		}
		if cfg.ops["fromi"] {
			var k fixedkey.Key[A]
			dst := make([]byte, 0, 20)
			fast := timeIt(cfg.n, func(i int) {
				k.SetUint64(nums[at(i)])
				sink += int(k.View()[w-1])
			})
			base := timeIt(cfg.n, func(i int) {
				dst = strconv.AppendUint(dst[:0], nums[at(i)], 10)
				sink += int(dst[len(dst)-1])
			})
			report("fromi", w, fast, base)
		}
	}
	if sink == -1 {
		fmt.Println(sink)
	}
}
