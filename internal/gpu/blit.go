//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/sgl"
	"github.com/gogpu/sgl/region"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// paramsSize is the byte size of the copy shader's uniform block: six u32
// fields (src stride, dst stride, left, top, width, height).
const paramsSize = 24

// Blitter copies clip regions between pixel planes with a wgpu/hal compute
// shader. It implements sgl.Blitter.
//
// Only 32-bit formats are handled; the shader moves whole u32 pixels. For
// anything else Blit reports sgl.ErrBlitUnsupported and the caller's
// software path takes over.
type Blitter struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	pipeline   hal.ComputePipeline

	gpuReady       bool
	externalDevice bool // true when using a shared device (don't destroy on Close)
}

var _ sgl.Blitter = (*Blitter)(nil)

func (b *Blitter) Name() string { return "wgpu-blit" }

// Init opens a GPU device and builds the copy pipeline. On machines without
// a usable backend it fails, which keeps the engine unregistered and all
// copies on the software path.
func (b *Blitter) Init() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if err := b.initGPU(); err != nil {
		return fmt.Errorf("wgpu-blit: %w", err)
	}
	return nil
}

func (b *Blitter) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.destroyPipeline()
	if !b.externalDevice {
		if b.device != nil {
			b.device.Destroy()
		}
		if b.instance != nil {
			b.instance.Destroy()
		}
	}
	b.device = nil
	b.instance = nil
	b.queue = nil
	b.gpuReady = false
	b.externalDevice = false
}

// SetLogger is called when sgl.SetLogger propagates the process logger.
func (b *Blitter) SetLogger(l *slog.Logger) { setLogger(l) }

// SetDeviceProvider switches the engine to a shared GPU device from an
// external provider. The provider must implement HalDevice() any and
// HalQueue() any returning hal.Device and hal.Queue.
func (b *Blitter) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("wgpu-blit: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("wgpu-blit: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("wgpu-blit: provider HalQueue is not hal.Queue")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.destroyPipeline()
	if !b.externalDevice && b.device != nil {
		b.device.Destroy()
	}
	if b.instance != nil {
		b.instance.Destroy()
		b.instance = nil
	}

	b.device = device
	b.queue = queue
	b.externalDevice = true

	if err := b.buildPipeline(); err != nil {
		b.gpuReady = false
		return err
	}
	b.gpuReady = true
	slogger().Info("wgpu-blit: using shared GPU device")
	return nil
}

// Blit copies the clip region from src to dst on the GPU. Both full planes
// are uploaded, one compute pass runs per clip rectangle, and the result is
// read back into dst's memory.
func (b *Blitter) Blit(dst, src sgl.Plane, clip *region.Region) error {
	if dst.Format != src.Format || dst.Format.BytesPerPixel() != 4 {
		return sgl.ErrBlitUnsupported
	}
	if !dst.Valid() || !src.Valid() {
		return sgl.ErrBlitUnsupported
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.gpuReady {
		return sgl.ErrBlitUnsupported
	}

	srcSize := uint64(len(src.Data))
	dstSize := uint64(len(dst.Data))

	srcBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "blit_src", Size: srcSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create src buffer: %w", err)
	}
	defer b.device.DestroyBuffer(srcBuf)

	dstBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "blit_dst", Size: dstSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create dst buffer: %w", err)
	}
	defer b.device.DestroyBuffer(dstBuf)

	stagingBuf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "blit_staging", Size: dstSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("create staging buffer: %w", err)
	}
	defer b.device.DestroyBuffer(stagingBuf)

	b.queue.WriteBuffer(srcBuf, 0, src.Data)
	// Pixels outside the clip region must survive the round trip.
	b.queue.WriteBuffer(dstBuf, 0, dst.Data)

	uniformBufs, bindGroups, err := b.makeBindings(dst, src, clip, srcBuf, srcSize, dstBuf, dstSize)
	if err != nil {
		return err
	}
	defer b.cleanupBindings(uniformBufs, bindGroups)
	if len(bindGroups) == 0 {
		return nil
	}

	if err := b.dispatch(clip, bindGroups, dstBuf, stagingBuf, dstSize); err != nil {
		return err
	}
	return b.queue.ReadBuffer(stagingBuf, 0, dst.Data)
}

// makeBindings builds one uniform buffer and bind group per non-empty clip
// rectangle.
func (b *Blitter) makeBindings(
	dst, src sgl.Plane, clip *region.Region,
	srcBuf hal.Buffer, srcSize uint64,
	dstBuf hal.Buffer, dstSize uint64,
) ([]hal.Buffer, []hal.BindGroup, error) {
	var uniformBufs []hal.Buffer
	var bindGroups []hal.BindGroup
	fail := func(err error) ([]hal.Buffer, []hal.BindGroup, error) {
		b.cleanupBindings(uniformBufs, bindGroups)
		return nil, nil, err
	}

	it := clip.Iter()
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		if r.Width() <= 0 || r.Height() <= 0 {
			continue
		}
		var params [paramsSize]byte
		binary.LittleEndian.PutUint32(params[0:], uint32(src.Stride))
		binary.LittleEndian.PutUint32(params[4:], uint32(dst.Stride))
		binary.LittleEndian.PutUint32(params[8:], uint32(r.Left))
		binary.LittleEndian.PutUint32(params[12:], uint32(r.Top))
		binary.LittleEndian.PutUint32(params[16:], uint32(r.Width()))
		binary.LittleEndian.PutUint32(params[20:], uint32(r.Height()))

		ub, err := b.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "blit_params", Size: paramsSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fail(fmt.Errorf("create params buffer: %w", err))
		}
		uniformBufs = append(uniformBufs, ub)
		b.queue.WriteBuffer(ub, 0, params[:])

		bg, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
			Layout: b.bindLayout,
			Entries: []gputypes.BindGroupEntry{
				{Binding: 0, Resource: gputypes.BufferBinding{Buffer: ub.NativeHandle(), Offset: 0, Size: paramsSize}},
				{Binding: 1, Resource: gputypes.BufferBinding{Buffer: srcBuf.NativeHandle(), Offset: 0, Size: srcSize}},
				{Binding: 2, Resource: gputypes.BufferBinding{Buffer: dstBuf.NativeHandle(), Offset: 0, Size: dstSize}},
			},
		})
		if err != nil {
			return fail(fmt.Errorf("create bind group: %w", err))
		}
		bindGroups = append(bindGroups, bg)
	}
	return uniformBufs, bindGroups, nil
}

// dispatch records one compute pass per rectangle, copies the destination
// buffer to staging, submits, and waits on the fence.
func (b *Blitter) dispatch(
	clip *region.Region,
	bindGroups []hal.BindGroup, dstBuf, stagingBuf hal.Buffer, dstSize uint64,
) error {
	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "blit_encoder"})
	if err != nil {
		return fmt.Errorf("create encoder: %w", err)
	}
	if err := encoder.BeginEncoding("blit"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	it := clip.Iter()
	i := 0
	for r, ok := it.Next(); ok; r, ok = it.Next() {
		if r.Width() <= 0 || r.Height() <= 0 {
			continue
		}
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "blit_pass"})
		pass.SetPipeline(b.pipeline)
		pass.SetBindGroup(0, bindGroups[i], nil)
		pass.Dispatch((uint32(r.Width())+7)/8, (uint32(r.Height())+7)/8, 1)
		pass.End()
		i++
	}

	encoder.CopyBufferToBuffer(dstBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: dstSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	fence, err := b.device.CreateFence()
	if err != nil {
		return fmt.Errorf("create fence: %w", err)
	}
	defer b.device.DestroyFence(fence)
	if err := b.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	ok, err := b.device.Wait(fence, 1, 5*time.Second)
	if err != nil {
		return fmt.Errorf("fence wait: %w", err)
	}
	if !ok {
		return fmt.Errorf("fence timeout")
	}
	return nil
}

func (b *Blitter) cleanupBindings(uniformBufs []hal.Buffer, bindGroups []hal.BindGroup) {
	for _, bg := range bindGroups {
		if bg != nil {
			b.device.DestroyBindGroup(bg)
		}
	}
	for _, ub := range uniformBufs {
		if ub != nil {
			b.device.DestroyBuffer(ub)
		}
	}
}

// initGPU opens the Vulkan backend, picks a GPU adapter, and builds the
// copy pipeline.
func (b *Blitter) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	b.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil && len(adapters) > 0 {
		selected = &adapters[0]
	}
	if selected == nil {
		return fmt.Errorf("no GPU adapter found")
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	b.device = openDev.Device
	b.queue = openDev.Queue

	if err := b.buildPipeline(); err != nil {
		b.device.Destroy()
		b.device = nil
		return err
	}
	b.gpuReady = true
	slogger().Info("wgpu-blit: GPU ready", "adapter", selected.Info.Name)
	return nil
}

// buildPipeline compiles the copy shader and assembles the compute pipeline.
// WGSL is run through naga up front so shader errors surface at init time
// with a real diagnostic instead of a backend failure.
func (b *Blitter) buildPipeline() error {
	spirv, err := compileToSPIRV(copyRectShaderSource)
	if err != nil {
		return fmt.Errorf("compile shader: %w", err)
	}
	shader, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  "blit_copy_rect",
		Source: hal.ShaderSource{SPIRV: spirv},
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	b.shader = shader

	bindLayout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "blit_bind_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeReadOnlyStorage}},
			{Binding: 2, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
		},
	})
	if err != nil {
		return fmt.Errorf("create bind group layout: %w", err)
	}
	b.bindLayout = bindLayout

	pipeLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: "blit_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{b.bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	b.pipeLayout = pipeLayout

	pipeline, err := b.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:   "blit_pipeline",
		Layout:  b.pipeLayout,
		Compute: hal.ComputeState{Module: b.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	b.pipeline = pipeline
	return nil
}

func (b *Blitter) destroyPipeline() {
	if b.device == nil {
		return
	}
	if b.pipeline != nil {
		b.device.DestroyComputePipeline(b.pipeline)
		b.pipeline = nil
	}
	if b.pipeLayout != nil {
		b.device.DestroyPipelineLayout(b.pipeLayout)
		b.pipeLayout = nil
	}
	if b.bindLayout != nil {
		b.device.DestroyBindGroupLayout(b.bindLayout)
		b.bindLayout = nil
	}
	if b.shader != nil {
		b.device.DestroyShaderModule(b.shader)
		b.shader = nil
	}
}

// compileToSPIRV compiles WGSL source to SPIR-V words, little endian.
func compileToSPIRV(wgsl string) ([]uint32, error) {
	raw, err := naga.Compile(wgsl)
	if err != nil {
		return nil, err
	}
	words := make([]uint32, len(raw)/4)
	for i := range words {
		words[i] = uint32(raw[i*4]) |
			uint32(raw[i*4+1])<<8 |
			uint32(raw[i*4+2])<<16 |
			uint32(raw[i*4+3])<<24
	}
	return words, nil
}
