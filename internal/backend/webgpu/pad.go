//go:build windows

package webgpu

import (
	"context"
	"fmt"

	"github.com/born-ml/voxel/internal/jagged"
	"github.com/born-ml/voxel/internal/pad"
	"github.com/go-webgpu/webgpu/wgpu"
)

// Pipeline cache keys.
const (
	expandPipeline  = "pad_expand"
	rescalePipeline = "pad_rescale"
)

// Dispatch runs the expansion and rescale passes in a single compute pass
// and copies the results into out. The passes write disjoint buffers, so
// they share one submission.
func (b *Backend) Dispatch(ctx context.Context, p *pad.Params, in pad.Inputs, out pad.Outputs) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	b.dispatchMu.Lock()
	defer b.dispatchMu.Unlock()

	if b.device == nil {
		return errReleased
	}

	// The native layer panics on validation errors; surface them as errors.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("webgpu: dispatch panicked: %v", r)
		}
	}()

	slots := p.NumSlots()
	lists := int(p.NumOuterLists())
	if slots == 0 && lists == 0 {
		return nil
	}

	inputs := []upload{
		{data: jagged.EncodeVec3(in.Data[:p.NumElems()])},
		{data: jagged.EncodeUint32(in.BatchIdx[:p.NumElems()])},
		{data: jagged.EncodeVec3(in.ListIdx[:p.NumElems()])},
		{data: jagged.EncodeUint32(in.Offsets[:lists])},
	}
	// Registered before the uploads so a panic mid-loop releases what exists.
	defer b.releaseInputs(inputs)
	for i := range inputs {
		inputs[i].buf = b.createBuffer(inputs[i].data, inputUsage)
	}
	bufData, bufBidx, bufListIdx, bufOffsets := inputs[0].buf, inputs[1].buf, inputs[2].buf, inputs[3].buf

	ijkSize := jagged.PaddedSize(slots, jagged.Vec3Stride)
	bidxSize := jagged.PaddedSize(slots, jagged.Uint32Stride)
	listIdxSize := jagged.PaddedSize(slots, jagged.Vec3Stride)
	offsetsSize := jagged.PaddedSize(lists, jagged.Uint32Stride)

	outIJK := b.bufferPool.Acquire(ijkSize, outputUsage)
	defer b.bufferPool.Release(outIJK, ijkSize, outputUsage)
	outBidx := b.bufferPool.Acquire(bidxSize, outputUsage)
	defer b.bufferPool.Release(outBidx, bidxSize, outputUsage)
	outListIdx := b.bufferPool.Acquire(listIdxSize, outputUsage)
	defer b.bufferPool.Release(outListIdx, listIdxSize, outputUsage)
	outOffsets := b.bufferPool.Acquire(offsetsSize, outputUsage)
	defer b.bufferPool.Release(outOffsets, offsetsSize, outputUsage)

	bufferParams := b.createUniformBuffer(p.Bytes())
	defer bufferParams.Release()

	encoder := b.device.CreateCommandEncoder(nil)
	computePass := encoder.BeginComputePass(nil)

	if slots > 0 {
		pipeline := b.getOrCreatePipeline(expandPipeline, padExpandShader)
		bindGroup := b.device.CreateBindGroupSimple(pipeline.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
			wgpu.BufferBindingEntry(0, bufData, 0, uint64(len(inputs[0].data))),
			wgpu.BufferBindingEntry(1, bufBidx, 0, uint64(len(inputs[1].data))),
			wgpu.BufferBindingEntry(3, bufListIdx, 0, uint64(len(inputs[2].data))),
			wgpu.BufferBindingEntry(4, outIJK, 0, ijkSize),
			wgpu.BufferBindingEntry(5, outBidx, 0, bidxSize),
			wgpu.BufferBindingEntry(7, outListIdx, 0, listIdxSize),
			wgpu.BufferBindingEntry(8, bufferParams, 0, pad.ParamsSize),
		})
		defer bindGroup.Release()

		computePass.SetPipeline(pipeline)
		computePass.SetBindGroup(0, bindGroup, nil)
		x, y := grid(slots)
		computePass.DispatchWorkgroups(x, y, 1)
	}

	if lists > 0 {
		pipeline := b.getOrCreatePipeline(rescalePipeline, padRescaleShader)
		bindGroup := b.device.CreateBindGroupSimple(pipeline.GetBindGroupLayout(0), []wgpu.BindGroupEntry{
			wgpu.BufferBindingEntry(2, bufOffsets, 0, uint64(len(inputs[3].data))),
			wgpu.BufferBindingEntry(6, outOffsets, 0, offsetsSize),
			wgpu.BufferBindingEntry(8, bufferParams, 0, pad.ParamsSize),
		})
		defer bindGroup.Release()

		computePass.SetPipeline(pipeline)
		computePass.SetBindGroup(0, bindGroup, nil)
		x, y := grid(lists)
		computePass.DispatchWorkgroups(x, y, 1)
	}

	computePass.End()
	cmdBuffer := encoder.Finish(nil)
	b.queue.Submit(cmdBuffer)

	if slots > 0 {
		if err := readVec3(b, outIJK, ijkSize, out.IJK[:slots]); err != nil {
			return fmt.Errorf("webgpu: read out_ijk: %w", err)
		}
		if err := b.readUint32(outBidx, bidxSize, out.BatchIdx[:slots]); err != nil {
			return fmt.Errorf("webgpu: read out_bidx: %w", err)
		}
		if err := readVec3(b, outListIdx, listIdxSize, out.ListIdx[:slots]); err != nil {
			return fmt.Errorf("webgpu: read out_list_idx: %w", err)
		}
	}
	if lists > 0 {
		if err := b.readUint32(outOffsets, offsetsSize, out.Offsets[:lists]); err != nil {
			return fmt.Errorf("webgpu: read out_offsets: %w", err)
		}
	}
	return nil
}

// upload is an input array and the GPU buffer it was copied into.
type upload struct {
	data []byte
	buf  *wgpu.Buffer
}

// releaseInputs releases every upload that was created.
func (b *Backend) releaseInputs(inputs []upload) {
	for _, u := range inputs {
		if u.buf != nil {
			b.releaseBuffer(u.buf, uint64(len(u.data)))
		}
	}
}

func readVec3[T jagged.Word32](b *Backend, src *wgpu.Buffer, size uint64, dst []jagged.Vec3[T]) error {
	raw, err := b.readBuffer(src, size)
	if err != nil {
		return err
	}
	return jagged.DecodeVec3(raw, dst)
}

func (b *Backend) readUint32(src *wgpu.Buffer, size uint64, dst []uint32) error {
	raw, err := b.readBuffer(src, size)
	if err != nil {
		return err
	}
	return jagged.DecodeUint32(raw, dst)
}

// grid returns a dispatch size covering n invocations. Grids wider than
// maxWorkgroupsPerDim fold into rows; shaders linearize as
// y*num_workgroups.x*workgroupSize + x and discard the overhang.
func grid(n int) (x, y uint32) {
	groups := (n + workgroupSize - 1) / workgroupSize
	if groups <= maxWorkgroupsPerDim {
		//nolint:gosec // G115: groups is bounded by maxWorkgroupsPerDim
		return uint32(groups), 1
	}
	rows := (groups + maxWorkgroupsPerDim - 1) / maxWorkgroupsPerDim
	cols := (groups + rows - 1) / rows
	//nolint:gosec // G115: both factors are bounded by maxWorkgroupsPerDim
	return uint32(cols), uint32(rows)
}
