// Package cpu implements the padding transform on CPU goroutines, dispatched
// in fixed-size workgroups the same way a GPU dispatch is sized.
package cpu

import (
	"context"
	"fmt"
	"sync"

	"github.com/born-ml/voxel/internal/pad"
	"github.com/born-ml/voxel/internal/parallel"
	"golang.org/x/sync/errgroup"
)

// DefaultGroupSize matches the WebGPU workgroup size.
const DefaultGroupSize = 256

// Config controls CPU dispatch.
type Config struct {
	Parallel   parallel.Config
	GroupSize  int  // Invocations per workgroup.
	Concurrent bool // Run pass A and pass B at the same time.
}

// DefaultConfig returns the default CPU dispatch configuration.
func DefaultConfig() Config {
	return Config{
		Parallel:   parallel.DefaultConfig(),
		GroupSize:  DefaultGroupSize,
		Concurrent: true,
	}
}

// Backend dispatches the padding passes on the CPU.
type Backend struct {
	cfg Config
}

// Compile-time check that Backend implements pad.Dispatcher.
var _ pad.Dispatcher = (*Backend)(nil)

// New creates a CPU backend with the default configuration.
func New() *Backend {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a CPU backend with cfg.
func NewWithConfig(cfg Config) *Backend {
	if cfg.GroupSize <= 0 {
		cfg.GroupSize = DefaultGroupSize
	}
	return &Backend{cfg: cfg}
}

// Name returns the backend name.
func (b *Backend) Name() string {
	return "CPU"
}

// Dispatch runs pass A over every output slot and pass B over every list
// boundary, then waits for both.
func (b *Backend) Dispatch(ctx context.Context, p *pad.Params, in pad.Inputs, out pad.Outputs) error {
	passA := func(ctx context.Context) error {
		return b.run(ctx, p.NumSlots(), func(idx int) { pad.ExpandSlot(p, &in, &out, idx) })
	}
	passB := func(ctx context.Context) error {
		return b.run(ctx, int(p.NumOuterLists()), func(idx int) { pad.RescaleSlot(p, &in, &out, idx) })
	}

	if !b.cfg.Concurrent {
		if err := passA(ctx); err != nil {
			return err
		}
		return passB(ctx)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return passA(gctx) })
	g.Go(func() error { return passB(gctx) })
	return g.Wait()
}

// run covers n invocations with whole workgroups. The last group is
// over-provisioned; the kernels ignore indices past n.
func (b *Backend) run(ctx context.Context, n int, kernel func(idx int)) (err error) {
	size := b.cfg.GroupSize
	groups := parallel.Groups(n, size)

	var (
		faultOnce sync.Once
		fault     error
	)
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	err = parallel.ForGroups(ctx, groups, n, func(g int) {
		defer func() {
			if r := recover(); r != nil {
				faultOnce.Do(func() { fault = fmt.Errorf("cpu: workgroup %d panicked: %v", g, r) })
				cancel()
			}
		}()
		for idx := g * size; idx < (g+1)*size; idx++ {
			kernel(idx)
		}
	}, b.cfg.Parallel)

	if fault != nil {
		return fault
	}
	return err
}
