// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package pad replicates every coordinate of a jagged tensor over a box
// window.
//
// Each input coordinate c becomes the (dx*dy*dz) coordinates c + bmin + o
// for every offset o in the window, with z varying fastest. Batch and list
// indices are copied to every replica, and outer-list offsets are scaled by
// the replica count.
//
// # Basic Usage
//
//	import (
//	    "github.com/born-ml/voxel/backend/cpu"
//	    "github.com/born-ml/voxel/jagged"
//	    "github.com/born-ml/voxel/pad"
//	)
//
//	func main() {
//	    src, _ := jagged.NewBuilder().WithLDim1(lists).Build()
//	    t := pad.New(cpu.New(), pad.DefaultConfig())
//	    out, err := t.Pad(ctx, src, pad.Cube(1))
//	    if errors.Is(err, pad.ErrInvalidConfig) {
//	        // bad window or malformed tensor
//	    }
//	}
//
// # Errors
//
// Validation failures wrap ErrInvalidConfig and never reach a backend.
// Backend failures, including cancellation, wrap ErrExecution.
package pad
