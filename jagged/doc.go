// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package jagged provides jagged tensors of integer voxel coordinates.
//
// # Layout
//
// A jagged tensor stores a batch of variable-length coordinate lists in
// flat arrays:
//   - Data: one (i, j, k) coordinate per element
//   - BatchIdx: the outer list each element belongs to
//   - ListIdx: per-element auxiliary indices, carried through unchanged
//   - Offsets: the END offset of each outer list (an inclusive prefix sum)
//
// List k occupies Data[Offsets[k-1]:Offsets[k]], with list 0 starting at 0.
//
// # Basic Usage
//
//	t, err := jagged.NewBuilder().WithLDim1([][]jagged.Coord{
//	    {{X: 0, Y: 0, Z: 0}, {X: 1, Y: 2, Z: 3}},
//	    {{X: 5, Y: 5, Z: 5}},
//	}).Build()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(t.ListSizes()) // [2 1]
package jagged
