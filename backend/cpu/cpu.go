// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package cpu

import (
	internalcpu "github.com/born-ml/voxel/internal/backend/cpu"
	"github.com/born-ml/voxel/pad"
)

// Backend is the CPU implementation of pad.Dispatcher.
type Backend = internalcpu.Backend

// Config configures the CPU backend.
type Config = internalcpu.Config

// Compile-time check that Backend implements pad.Dispatcher.
var _ pad.Dispatcher = (*Backend)(nil)

// New creates a CPU backend with the default configuration.
func New() *Backend {
	return internalcpu.New()
}

// NewWithConfig creates a CPU backend with a custom configuration.
func NewWithConfig(cfg Config) *Backend {
	return internalcpu.NewWithConfig(cfg)
}

// DefaultConfig returns the default CPU backend configuration.
func DefaultConfig() Config {
	return internalcpu.DefaultConfig()
}
