//go:build !windows

package main

import (
	"github.com/born-ml/voxel/backend/cpu"
	"github.com/born-ml/voxel/pad"
)

func newDispatcher(name string) (pad.Dispatcher, func(), error) {
	switch name {
	case "cpu":
		return cpu.New(), func() {}, nil
	case "webgpu":
		return nil, nil, usagef("webgpu backend is only available on windows")
	default:
		return nil, nil, usagef("unknown backend %q", name)
	}
}
