// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides a pure Go backend for the padding transform.
//
// # Overview
//
// Both passes run on goroutines:
//   - Pure Go implementation (no CGO)
//   - Workgroups claimed by workers from an atomic counter
//   - Expansion and offset rescale run concurrently
//
// # Basic Usage
//
//	t := pad.New(cpu.New(), pad.DefaultConfig())
//	out, err := t.Pad(ctx, src, pad.Cube(1))
package cpu
