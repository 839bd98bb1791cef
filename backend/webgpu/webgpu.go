//go:build windows

// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package webgpu provides the WebGPU backend for the padding transform.
//
// Example:
//
//	gpu, err := webgpu.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer gpu.Release()
//
//	t := pad.New(gpu, pad.DefaultConfig())
//	out, err := t.Pad(ctx, src, pad.Cube(1))
package webgpu

import (
	internalwebgpu "github.com/born-ml/voxel/internal/backend/webgpu"
	"github.com/born-ml/voxel/pad"
)

// Backend is the WebGPU implementation of pad.Dispatcher.
type Backend = internalwebgpu.Backend

// Compile-time check that Backend implements pad.Dispatcher.
var _ pad.Dispatcher = (*Backend)(nil)

// New creates a new WebGPU backend.
//
// Call Release() when done to free GPU resources.
// Returns an error if WebGPU initialization fails (e.g., no compatible GPU).
func New() (*Backend, error) {
	return internalwebgpu.New()
}

// IsAvailable checks if WebGPU is available on the current system.
//
// Useful for graceful fallback to the CPU backend.
func IsAvailable() bool {
	return internalwebgpu.IsAvailable()
}
