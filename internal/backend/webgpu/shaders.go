//go:build windows

package webgpu

// Workgroup size for compute shaders.
const workgroupSize = 256

// maxWorkgroupsPerDim is the WebGPU limit on workgroups along one dispatch
// dimension. Larger grids fold into the y dimension.
const maxWorkgroupsPerDim = 65535

// paramsStruct mirrors pad.Params.Bytes: 48 bytes, vec3 fields 16-byte aligned.
const paramsStruct = `
struct Params {
    bmin: vec3<i32>,
    pad0: u32,
    bmax: vec3<i32>,
    pad1: u32,
    total_pad: u32,
    num_elems: u32,
    num_outer_lists: u32,
    pad2: u32,
}
`

// padExpandShader writes one replica per invocation. Slot idx holds replica
// pad_idx of element eidx, with z varying fastest and x slowest.
const padExpandShader = paramsStruct + `
@group(0) @binding(0) var<storage, read> in_ijk: array<vec3<i32>>;
@group(0) @binding(1) var<storage, read> in_bidx: array<u32>;
@group(0) @binding(3) var<storage, read> in_list_idx: array<vec3<u32>>;
@group(0) @binding(4) var<storage, read_write> out_ijk: array<vec3<i32>>;
@group(0) @binding(5) var<storage, read_write> out_bidx: array<u32>;
@group(0) @binding(7) var<storage, read_write> out_list_idx: array<vec3<u32>>;
@group(0) @binding(8) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>,
        @builtin(num_workgroups) num_groups: vec3<u32>) {
    let idx = global_id.y * num_groups.x * 256u + global_id.x;
    if (idx >= params.num_elems * params.total_pad) {
        return;
    }

    let eidx = idx / params.total_pad;
    let pad_idx = idx % params.total_pad;

    let dims = vec3<u32>(params.bmax - params.bmin + vec3<i32>(1, 1, 1));
    let z_off = pad_idx % dims.z;
    let y_off = (pad_idx / dims.z) % dims.y;
    let x_off = pad_idx / (dims.y * dims.z);

    out_ijk[idx] = in_ijk[eidx] + params.bmin + vec3<i32>(i32(x_off), i32(y_off), i32(z_off));
    out_bidx[idx] = in_bidx[eidx];
    out_list_idx[idx] = in_list_idx[eidx];
}
`

// padRescaleShader scales each outer-list end offset by the replica count.
const padRescaleShader = paramsStruct + `
@group(0) @binding(2) var<storage, read> in_offsets: array<u32>;
@group(0) @binding(6) var<storage, read_write> out_offsets: array<u32>;
@group(0) @binding(8) var<uniform> params: Params;

@compute @workgroup_size(256)
fn main(@builtin(global_invocation_id) global_id: vec3<u32>,
        @builtin(num_workgroups) num_groups: vec3<u32>) {
    let idx = global_id.y * num_groups.x * 256u + global_id.x;
    if (idx >= params.num_outer_lists) {
        return;
    }

    out_offsets[idx] = in_offsets[idx] * params.total_pad;
}
`
