//go:build windows

package main

import (
	"github.com/born-ml/voxel/backend/cpu"
	"github.com/born-ml/voxel/backend/webgpu"
	"github.com/born-ml/voxel/pad"
)

func newDispatcher(name string) (pad.Dispatcher, func(), error) {
	switch name {
	case "cpu":
		return cpu.New(), func() {}, nil
	case "webgpu":
		gpu, err := webgpu.New()
		if err != nil {
			return nil, nil, err
		}
		return gpu, gpu.Release, nil
	default:
		return nil, nil, usagef("unknown backend %q", name)
	}
}
