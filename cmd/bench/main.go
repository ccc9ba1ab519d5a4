// Bench measures strhash build time and lookup latency against a Go map and
// a binary search over the same keys.
//
// Usage:
//
//	go run ./cmd/bench -keys 20000 -width 12 -hash djb1
//	go run ./cmd/bench -scenario runs.yaml
//
// Flags:
//
//	-keys       Number of keys (default: 20,000)
//	-width      Key width in bytes: 4, 8, 10, 12, 16, 24, 32 or 64 (default: 12)
//	-hash       Hash function variant (default: djb1)
//	-workers    Goroutines for the salt search (default: 1)
//	-wide       Use 32-bit hashes (required above 32767 keys)
//	-queries    Lookups per measurement (default: 1,000,000)
//	-scenario   YAML file with a list of runs; flags become defaults
//	-v          Log search progress
package main

import (
	"context"
	"encoding/binary"
	"flag"
	"fmt"
	"log/slog"
	mrand "math/rand/v2"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"
	"slices"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/chainguard-dev/clog"
	"github.com/klauspost/cpuid/v2"
	"github.com/spaolacci/murmur3"

	"github.com/tamirms/strhash"
	"github.com/tamirms/strhash/fixedkey"
)

// getMaxRSS returns the maximum resident set size in bytes.
// Uses getrusage(RUSAGE_SELF) which tracks peak RSS since process start.
func getMaxRSS() uint64 {
	var rusage syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &rusage); err != nil {
		return 0
	}
	// On macOS, MaxRss is in bytes. On Linux, it's in kilobytes.
	maxRSS := uint64(rusage.Maxrss)
	if runtime.GOOS == "linux" {
		maxRSS *= 1024
	}
	return maxRSS
}

// result is the outcome of one scenario.
type result struct {
	stats     *strhash.Stats
	genTime   time.Duration
	buildTime time.Duration
	fileSize  int64
	index     time.Duration // per lookup
	goMap     time.Duration
	binary    time.Duration
	miss      time.Duration
}

func main() {
	keysFlag := flag.Int("keys", 20_000, "number of keys")
	widthFlag := flag.Int("width", 12, "key width in bytes")
	hashFlag := flag.String("hash", "djb1", "hash function: "+hashNames())
	workersFlag := flag.Int("workers", 1, "goroutines for the salt search")
	wideFlag := flag.Bool("wide", false, "use 32-bit hashes")
	queriesFlag := flag.Int("queries", 1_000_000, "lookups per measurement")
	scenarioFlag := flag.String("scenario", "", "YAML scenario file")
	cpuprofile := flag.String("cpuprofile", "", "write cpu profile to file (build phase only)")
	verbose := flag.Bool("v", false, "log search progress")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := clog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	ctx := clog.WithLogger(context.Background(), logger)

	base := scenario{
		Name:    "flags",
		Keys:    *keysFlag,
		Width:   *widthFlag,
		Hash:    *hashFlag,
		Workers: *workersFlag,
		Wide:    *wideFlag,
		Queries: *queriesFlag,
	}
	runs := []scenario{base}
	if *scenarioFlag != "" {
		var err error
		if runs, err = readScenarios(*scenarioFlag, base); err != nil {
			logger.Fatalf("%v", err)
		}
	} else if err := base.validate(); err != nil {
		logger.Fatalf("%v", err)
	}

	printCPU()

	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			logger.Fatalf("could not create CPU profile: %v", err)
		}
		defer func() { _ = f.Close() }()
		if err := pprof.StartCPUProfile(f); err != nil {
			logger.Fatalf("could not start CPU profile: %v", err)
		}
		defer pprof.StopCPUProfile()
	}

	tmpDir, err := os.MkdirTemp("", "strhash-bench-")
	if err != nil {
		logger.Fatalf("failed to create temp dir: %v", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	for _, sc := range runs {
		log := logger.With("run", sc.Name)
		log.Infof("keys=%d width=%d hash=%s workers=%d wide=%v", sc.Keys, sc.Width, sc.Hash, sc.Workers, sc.Wide)
		res, err := dispatch(clog.WithLogger(ctx, log), sc, filepath.Join(tmpDir, sc.Name+".idx"))
		if err != nil {
			log.Errorf("run failed: %v", err)
			continue
		}
		printResult(sc, res)
	}
}

func hashNames() string {
	var names []string
	for _, fn := range strhash.HashFuncs() {
		names = append(names, fn.String())
	}
	return strings.Join(names, ", ")
}

func printCPU() {
	fmt.Printf("CPU: %s (%d cores, %d threads)\n", cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.LogicalCores)
	fmt.Printf("Cache: L1d %d KB, L2 %d KB, L3 %d KB; AVX2 %v, AVX-512 %v\n",
		cpuid.CPU.Cache.L1D/1024, cpuid.CPU.Cache.L2/1024, cpuid.CPU.Cache.L3/1024,
		cpuid.CPU.Supports(cpuid.AVX2), cpuid.CPU.Supports(cpuid.AVX512F))
}

// dispatch instantiates the run for the scenario's key width and hash type.
func dispatch(ctx context.Context, sc scenario, path string) (*result, error) {
	switch sc.Width {
	case 4:
		return runWidth[[4]byte](ctx, sc, path)
	case 8:
		return runWidth[[8]byte](ctx, sc, path)
	case 10:
		return runWidth[[10]byte](ctx, sc, path)
	case 12:
		return runWidth[[12]byte](ctx, sc, path)
	case 16:
		return runWidth[[16]byte](ctx, sc, path)
	case 24:
		return runWidth[[24]byte](ctx, sc, path)
	case 32:
		return runWidth[[32]byte](ctx, sc, path)
	case 64:
		return runWidth[[64]byte](ctx, sc, path)
	}
	return nil, fmt.Errorf("unsupported key width %d", sc.Width)
}

func runWidth[A fixedkey.Array](ctx context.Context, sc scenario, path string) (*result, error) {
	if sc.Wide {
		return run[uint32, A](ctx, sc, path)
	}
	return run[uint16, A](ctx, sc, path)
}

// generateKeys returns n distinct symbol-like keys: a run of uppercase
// letters and digits derived from a murmur3 scramble of the key number,
// zero padded to the width.
func generateKeys[A fixedkey.Array](n int) []fixedkey.Key[A] {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	w := fixedkey.Width[A]()
	seen := make(map[fixedkey.Key[A]]struct{}, n)
	keys := make([]fixedkey.Key[A], 0, n)
	buf := make([]byte, w)
	var counter [8]byte
	for i := uint64(0); len(keys) < n; i++ {
		binary.LittleEndian.PutUint64(counter[:], i)
		h1, h2 := murmur3.Sum128WithSeed(counter[:], 0x1234)
		clear(buf)
		length := min(w, 3+int(h2%uint64(w)))
		for j := range length {
			buf[j] = alphabet[h1%uint64(len(alphabet))]
			h1 /= uint64(len(alphabet))
			if h1 == 0 {
				h1 = h2
			}
		}
		k := fixedkey.New[A](buf)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	return keys
}

func run[H strhash.Hash, A fixedkey.Array](ctx context.Context, sc scenario, path string) (*result, error) {
	log := clog.FromContext(ctx)
	fn, err := strhash.ParseHashFunc(sc.Hash)
	if err != nil {
		return nil, err
	}
	res := &result{}

	genStart := time.Now()
	keys := generateKeys[A](sc.Keys)
	res.genTime = time.Since(genStart)

	b, err := strhash.NewBuilder[A, uint32](strhash.WithHashFunc(fn), strhash.WithWorkers(sc.Workers))
	if err != nil {
		return nil, err
	}
	b.SetNotFound(^uint32(0))
	for i, k := range keys {
		if err := b.Add(k, uint32(i)); err != nil {
			return nil, err
		}
	}

	rssBefore := getMaxRSS()
	buildStart := time.Now()
	idx, err := strhash.Freeze[H](ctx, b)
	if err != nil {
		return nil, err
	}
	res.buildTime = time.Since(buildStart)
	log.Debugf("build grew peak RSS by %d KB", (getMaxRSS()-rssBefore)/1024)
	res.stats = idx.Stats()

	if err := idx.Save(path, strhash.Uint32Codec{}); err != nil {
		return nil, err
	}
	loaded, err := strhash.Open[H, A](path, strhash.Uint32Codec{})
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	res.fileSize = info.Size()

	for i, k := range keys {
		if v := loaded.Find(k); v != uint32(i) {
			return nil, fmt.Errorf("reloaded index: key %d maps to %d", i, v)
		}
	}

	m := make(map[fixedkey.Key[A]]uint32, len(keys))
	for i, k := range keys {
		m[k] = uint32(i)
	}
	sorted := slices.Clone(keys)
	slices.SortFunc(sorted, fixedkey.Key[A].Compare)

	// Randomize query order so the measurements do not walk the table.
	queries := make([]fixedkey.Key[A], sc.Queries)
	for i := range queries {
		queries[i] = keys[mrand.IntN(len(keys))]
	}
	misses := make([]fixedkey.Key[A], min(sc.Queries, 1<<16))
	for i, k := range generateKeys[A](len(keys) + len(misses))[len(keys):] {
		misses[i] = k
	}

	var sink uint32
	res.index = measure(queries, func(k fixedkey.Key[A]) { sink += loaded.Find(k) })
	res.goMap = measure(queries, func(k fixedkey.Key[A]) { sink += m[k] })
	res.binary = measure(queries, func(k fixedkey.Key[A]) {
		sink += uint32(sort.Search(len(sorted), func(j int) bool { return !sorted[j].Less(k) }))
	})
	res.miss = measure(misses, func(k fixedkey.Key[A]) { sink += loaded.Find(k) })
	log.Debugf("checksum %d", sink)
	return res, nil
}

// measure returns the mean time of f over keys after a warm-up pass.
func measure[K any](keys []K, f func(K)) time.Duration {
	for _, k := range keys[:min(len(keys), 10_000)] {
		f(k)
	}
	start := time.Now()
	for _, k := range keys {
		f(k)
	}
	return time.Since(start) / time.Duration(len(keys))
}

func printResult(sc scenario, res *result) {
	st := res.stats
	fmt.Printf("\n")
	fmt.Printf("╔═════════════════════╦══════════════════════════════╗\n")
	fmt.Printf("║ Run                 ║ %-28s ║\n", sc.Name)
	fmt.Printf("╠═════════════════════╬══════════════════════════════╣\n")
	fmt.Printf("║ Keys / width        ║ %8d × %-3d bytes         ║\n", st.Keys, st.KeyWidth)
	fmt.Printf("║ Hash / positions    ║ %-10s %-17v ║\n", st.Config.HashFunc, st.Config.Positions)
	fmt.Printf("║ Table size / salt   ║ %10d / %-15d ║\n", st.TableSize, st.Config.Salt)
	fmt.Printf("║ Load factor         ║ %10.3f                   ║\n", st.LoadFactor)
	fmt.Printf("║ Cost / keys         ║ %10.3f                   ║\n", float64(st.Cost)/float64(max(st.Keys, 1)))
	fmt.Printf("║ Probe mean / max    ║ %10.3f / %-15d ║\n", st.MeanProbe, st.MaxProbe)
	fmt.Printf("║ File size           ║ %10.1f KB                ║\n", float64(res.fileSize)/1024)
	fmt.Printf("║ Key generation      ║ %10.2f ms                ║\n", float64(res.genTime.Microseconds())/1000)
	fmt.Printf("║ Build time          ║ %10.2f ms                ║\n", float64(res.buildTime.Microseconds())/1000)
	fmt.Printf("╠═════════════════════╬══════════════════════════════╣\n")
	fmt.Printf("║ strhash lookup      ║ %10.1f ns                ║\n", float64(res.index.Nanoseconds()))
	fmt.Printf("║ strhash miss        ║ %10.1f ns                ║\n", float64(res.miss.Nanoseconds()))
	fmt.Printf("║ Go map lookup       ║ %10.1f ns                ║\n", float64(res.goMap.Nanoseconds()))
	fmt.Printf("║ Binary search       ║ %10.1f ns                ║\n", float64(res.binary.Nanoseconds()))
	fmt.Printf("╚═════════════════════╩══════════════════════════════╝\n")
}
