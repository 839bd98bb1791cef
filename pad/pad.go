// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package pad

import (
	internalpad "github.com/born-ml/voxel/internal/pad"
	"github.com/born-ml/voxel/jagged"
)

// Window is an inclusive box of coordinate offsets.
type Window = internalpad.Window

// Params is the immutable parameter block shared by both passes.
type Params = internalpad.Params

// Inputs and Outputs are the flat buffers a Dispatcher reads and writes.
type (
	Inputs  = internalpad.Inputs
	Outputs = internalpad.Outputs
)

// Dispatcher executes the expansion and rescale passes on some device.
type Dispatcher = internalpad.Dispatcher

// Config configures a Transformer.
type Config = internalpad.Config

// Transformer validates inputs and drives a Dispatcher.
type Transformer = internalpad.Transformer

// ConfigError describes which input failed validation.
type ConfigError = internalpad.ConfigError

// Error kinds.
var (
	ErrInvalidConfig = internalpad.ErrInvalidConfig
	ErrExecution     = internalpad.ErrExecution
)

// New creates a Transformer on the given Dispatcher.
func New(d Dispatcher, cfg Config) *Transformer {
	return internalpad.New(d, cfg)
}

// DefaultConfig returns the default Transformer configuration.
func DefaultConfig() Config {
	return internalpad.DefaultConfig()
}

// NewParams validates w and the sizes and builds a parameter block.
func NewParams(w Window, numElems, numOuterLists int) (*Params, error) {
	return internalpad.NewParams(w, numElems, numOuterLists)
}

// NewOutputs allocates output buffers sized for p.
func NewOutputs(p *Params) Outputs {
	return internalpad.NewOutputs(p)
}

// Cube returns the window [-r, r] on every axis.
func Cube(r int32) Window {
	return internalpad.Cube(r)
}

// Box returns the window [bmin, bmax].
func Box(bmin, bmax jagged.Coord) Window {
	return Window{Min: bmin, Max: bmax}
}
