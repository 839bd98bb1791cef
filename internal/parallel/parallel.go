// Package parallel provides workgroup-style parallel execution for CPU dispatch.
package parallel

import (
	"context"
	"runtime"
	"sync"

	"code.hybscloud.com/atomix"
)

// Config controls parallel execution behavior.
type Config struct {
	Enabled      bool // Whether parallel execution is enabled.
	NumWorkers   int  // Number of worker goroutines to use.
	MinChunkSize int  // Minimum invocations before fanning out to goroutines.
}

// DefaultConfig returns sensible defaults based on CPU count.
func DefaultConfig() Config {
	n := runtime.NumCPU()
	return Config{
		Enabled:      n > 1,
		NumWorkers:   n,
		MinChunkSize: 64, // Typical cache line aware chunk.
	}
}

// Groups returns the number of groups of size groupSize needed to cover n invocations.
func Groups(n, groupSize int) int {
	if n <= 0 || groupSize <= 0 {
		return 0
	}
	return (n + groupSize - 1) / groupSize
}

// ForGroups executes f(g) for every group g in [0, numGroups).
//
// Workers claim group indices from a shared counter, so groups are not
// assigned to workers in any fixed order. work is the total number of
// invocations the groups cover; below cfg.MinChunkSize the groups run
// sequentially on the calling goroutine.
//
// The context is checked between groups. If it is cancelled, ForGroups stops
// claiming new groups, waits for running ones and returns ctx.Err().
func ForGroups(ctx context.Context, numGroups, work int, f func(g int), cfg Config) error {
	if numGroups <= 0 {
		return ctx.Err()
	}
	workers := min(cfg.NumWorkers, numGroups)
	if !cfg.Enabled || workers < 2 || work < cfg.MinChunkSize {
		// Sequential fallback.
		for g := 0; g < numGroups; g++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			f(g)
		}
		return ctx.Err()
	}

	var next atomix.Uint64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				g := next.AddAcqRel(1) - 1
				if g >= uint64(numGroups) {
					return
				}
				f(int(g))
			}
		}()
	}
	wg.Wait()
	return ctx.Err()
}
