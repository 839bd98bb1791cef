// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package jagged

import (
	internaljagged "github.com/born-ml/voxel/internal/jagged"
)

// Vec3 is a three-component integer vector.
type Vec3[T internaljagged.Integer] = internaljagged.Vec3[T]

// Coord is a voxel coordinate.
type Coord = internaljagged.Coord

// ListIndex is the per-element auxiliary index.
type ListIndex = internaljagged.ListIndex

// Tensor is a host-side jagged tensor.
type Tensor = internaljagged.Tensor

// Builder assembles a Tensor from nested lists.
type Builder = internaljagged.Builder

// ErrNoLists is returned by Builder.Build when no lists were set.
var ErrNoLists = internaljagged.ErrNoLists

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return internaljagged.NewBuilder()
}

// V3 returns the vector (x, y, z).
func V3[T internaljagged.Integer](x, y, z T) Vec3[T] {
	return internaljagged.V3(x, y, z)
}
