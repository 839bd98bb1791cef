// Package pad implements the jagged-tensor padding transform: every coordinate
// is replaced by all coordinates of a fixed window around it, metadata is
// replicated alongside, and list offsets are rescaled by the window volume.
package pad

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/born-ml/voxel/internal/jagged"
)

// Dispatcher executes both passes of the transform on some device.
//
// Dispatch must not return before every write to out is complete. It may run
// the passes concurrently. On error the contents of out are undefined.
type Dispatcher interface {
	Name() string
	Dispatch(ctx context.Context, p *Params, in Inputs, out Outputs) error
}

// Config controls a Transformer.
type Config struct {
	Logger *slog.Logger // Defaults to slog.Default().
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{Logger: slog.Default()}
}

// Transformer validates inputs, builds the parameter block and hands both
// passes to a Dispatcher.
type Transformer struct {
	d      Dispatcher
	logger *slog.Logger
}

// New creates a Transformer that dispatches on d.
func New(d Dispatcher, cfg Config) *Transformer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Transformer{d: d, logger: logger}
}

// Backend returns the dispatcher name.
func (t *Transformer) Backend() string {
	return t.d.Name()
}

// Pad expands every coordinate of src over the window w and returns a new
// tensor. src is not modified.
func (t *Transformer) Pad(ctx context.Context, src *jagged.Tensor, w Window) (*jagged.Tensor, error) {
	if err := checkTensor(src); err != nil {
		return nil, err
	}
	p, err := NewParams(w, src.NumElements(), src.NumOuterLists())
	if err != nil {
		return nil, err
	}

	out := NewOutputs(p)
	in := Inputs{Data: src.Data, BatchIdx: src.BatchIdx, ListIdx: src.ListIdx, Offsets: src.Offsets}
	if err := t.Run(ctx, p, in, out); err != nil {
		return nil, err
	}

	return &jagged.Tensor{
		Data:     out.IJK,
		BatchIdx: out.BatchIdx,
		ListIdx:  out.ListIdx,
		Offsets:  out.Offsets,
		LDim:     src.LDim,
	}, nil
}

// Run dispatches both passes into caller-owned buffers. Every buffer must be
// sized exactly as p requires; in must stay unmodified until Run returns.
func (t *Transformer) Run(ctx context.Context, p *Params, in Inputs, out Outputs) error {
	if p == nil {
		return invalid("params", "nil parameter block")
	}
	if err := checkBuffers(p, in, out); err != nil {
		return err
	}

	start := time.Now()
	err := t.d.Dispatch(ctx, p, in, out)
	attrs := []any{
		slog.String("backend", t.d.Name()),
		slog.Uint64("elems", uint64(p.NumElems())),
		slog.Uint64("total_pad", uint64(p.TotalPad())),
		slog.Int("slots", p.NumSlots()),
		slog.Uint64("lists", uint64(p.NumOuterLists())),
		slog.Duration("elapsed", time.Since(start)),
	}
	if err != nil {
		t.logger.Warn("pad dispatch failed", append(attrs, slog.Any("error", err))...)
		if errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrExecution) {
			return err
		}
		return &executionError{backend: t.d.Name(), cause: err}
	}
	t.logger.Debug("pad dispatch", attrs...)
	return nil
}

func checkTensor(src *jagged.Tensor) error {
	if src == nil {
		return invalid("tensor", "nil tensor")
	}
	if err := src.Validate(); err != nil {
		return invalid("tensor", "%v", err)
	}
	return nil
}

func checkBuffers(p *Params, in Inputs, out Outputs) error {
	n, slots, lists := int(p.NumElems()), p.NumSlots(), int(p.NumOuterLists())
	switch {
	case len(in.Data) != n:
		return invalid("data", "length %d, want %d", len(in.Data), n)
	case len(in.BatchIdx) != n:
		return invalid("batch_idx", "length %d, want %d", len(in.BatchIdx), n)
	case len(in.ListIdx) != n:
		return invalid("list_idx", "length %d, want %d", len(in.ListIdx), n)
	case len(in.Offsets) != lists:
		return invalid("offsets", "length %d, want %d", len(in.Offsets), lists)
	case len(out.IJK) != slots:
		return invalid("out_ijk", "length %d, want %d", len(out.IJK), slots)
	case len(out.BatchIdx) != slots:
		return invalid("out_bidx", "length %d, want %d", len(out.BatchIdx), slots)
	case len(out.ListIdx) != slots:
		return invalid("out_list_idx", "length %d, want %d", len(out.ListIdx), slots)
	case len(out.Offsets) != lists:
		return invalid("out_offsets", "length %d, want %d", len(out.Offsets), lists)
	}
	for k, off := range in.Offsets {
		if int64(off) > int64(n) {
			return invalid("offsets", "offsets[%d] = %d exceeds %d elements", k, off, n)
		}
	}
	return nil
}
