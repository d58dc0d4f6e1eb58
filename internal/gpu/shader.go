//go:build !nogpu

package gpu

// copyRectShaderSource copies one clip rectangle between two pixel planes
// stored as u32 arrays. One invocation moves one pixel; rows are addressed
// through each plane's own stride so padded buffers work unchanged.
const copyRectShaderSource = `
struct Params {
    src_stride: u32,
    dst_stride: u32,
    left: u32,
    top: u32,
    width: u32,
    height: u32,
}

@group(0) @binding(0) var<uniform> params: Params;
@group(0) @binding(1) var<storage, read> src: array<u32>;
@group(0) @binding(2) var<storage, read_write> dst: array<u32>;

@compute @workgroup_size(8, 8)
fn main(@builtin(global_invocation_id) gid: vec3<u32>) {
    if (gid.x >= params.width || gid.y >= params.height) {
        return;
    }
    let x = params.left + gid.x;
    let y = params.top + gid.y;
    dst[y * params.dst_stride + x] = src[y * params.src_stride + x];
}
`
