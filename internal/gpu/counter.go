//go:build !nogpu

package gpu

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"time"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/Hurricane996/picalc"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

const (
	// workgroupSide is the square workgroup edge used by count.wgsl.
	// It matches the @workgroup_size(16, 16) annotation in the shader.
	workgroupSide = 16

	// fenceTimeout is the maximum time to wait for device work to complete.
	fenceTimeout = 5 * time.Second

	// wordSize is the byte size of one result word (u32).
	wordSize = 4
)

// Counter is the WebGPU compute backend. It owns a device and a
// compiled counting pipeline, and dispatches one kernel per
// representative boundary block on Count.
//
// A Counter is acquired once per process with NewCounter and reused
// across runs; acquisition failure is not recoverable.
type Counter struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shader        hal.ShaderModule
	optionsLayout hal.BindGroupLayout
	blockLayout   hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipeline      hal.ComputePipeline
}

var _ picalc.Backend = (*Counter)(nil)

// NewCounter acquires a compute device and compiles the counting
// pipeline. It returns an error when no adapter is available or device
// creation is refused; callers typically fall back to the software
// backend in that case.
func NewCounter() (*Counter, error) {
	c := &Counter{}
	if err := c.initGPU(); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

// Name identifies the backend.
func (c *Counter) Name() string { return "wgpu" }

// SetLogger sets the logger for the gpu package.
// Called by picalc.PropagateLogger to share logging configuration.
func (c *Counter) SetLogger(l *slog.Logger) {
	setLogger(l)
}

func (c *Counter) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	c.instance = instance

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	c.device = openDev.Device
	c.queue = openDev.Queue

	if err := c.createPipeline(); err != nil {
		return fmt.Errorf("create pipeline: %w", err)
	}

	slogger().Info("picalc-gpu: counting backend initialized", "adapter", selected.Info.Name)
	return nil
}

func (c *Counter) createPipeline() error {
	shader, err := compileCountShader(c.device)
	if err != nil {
		return err
	}
	c.shader = shader

	// Group 0: run-wide options uniform, shared by all dispatches.
	optionsLayout, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "picalc_options_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
		},
	})
	if err != nil {
		return fmt.Errorf("create options bind group layout: %w", err)
	}
	c.optionsLayout = optionsLayout

	// Group 1: per-block result storage and offset uniform.
	blockLayout, err := c.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: "picalc_block_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{Binding: 0, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeStorage}},
			{Binding: 1, Visibility: gputypes.ShaderStageCompute, Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform}},
		},
	})
	if err != nil {
		return fmt.Errorf("create block bind group layout: %w", err)
	}
	c.blockLayout = blockLayout

	pipeLayout, err := c.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            "picalc_count_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{c.optionsLayout, c.blockLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	c.pipeLayout = pipeLayout

	pipeline, err := c.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label:  "picalc_count_pipeline",
		Layout: c.pipeLayout,
		Compute: hal.ComputeState{Module: c.shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create compute pipeline: %w", err)
	}
	c.pipeline = pipeline

	return nil
}

// Close releases the pipeline and the device. The Counter must not be
// used after Close. Safe to call on a partially initialized Counter.
func (c *Counter) Close() {
	if c.device != nil {
		if c.pipeline != nil {
			c.device.DestroyComputePipeline(c.pipeline)
			c.pipeline = nil
		}
		if c.pipeLayout != nil {
			c.device.DestroyPipelineLayout(c.pipeLayout)
			c.pipeLayout = nil
		}
		if c.blockLayout != nil {
			c.device.DestroyBindGroupLayout(c.blockLayout)
			c.blockLayout = nil
		}
		if c.optionsLayout != nil {
			c.device.DestroyBindGroupLayout(c.optionsLayout)
			c.optionsLayout = nil
		}
		if c.shader != nil {
			c.device.DestroyShaderModule(c.shader)
			c.shader = nil
		}
		c.device.Destroy()
		c.device = nil
	}
	if c.instance != nil {
		c.instance.Destroy()
		c.instance = nil
	}
	c.queue = nil
}

// blockResources holds the per-block device resources for one dispatch.
type blockResources struct {
	storage hal.Buffer // kernel writes here (Storage | CopySrc)
	staging hal.Buffer // host reads here (MapRead | CopyDst)
	offset  hal.Buffer // block offset uniform
	bind    hal.BindGroup
}

// runResources tracks all per-run device resources for cleanup.
type runResources struct {
	device  hal.Device
	options hal.Buffer
	optBind hal.BindGroup
	blocks  []*blockResources
	cmdBuf  hal.CommandBuffer
	fence   hal.Fence
}

func (r *runResources) cleanup() {
	if r.fence != nil {
		r.device.DestroyFence(r.fence)
	}
	if r.cmdBuf != nil {
		r.device.FreeCommandBuffer(r.cmdBuf)
	}
	for _, b := range r.blocks {
		if b == nil {
			continue
		}
		if b.bind != nil {
			r.device.DestroyBindGroup(b.bind)
		}
		if b.offset != nil {
			r.device.DestroyBuffer(b.offset)
		}
		if b.staging != nil {
			r.device.DestroyBuffer(b.staging)
		}
		if b.storage != nil {
			r.device.DestroyBuffer(b.storage)
		}
	}
	if r.optBind != nil {
		r.device.DestroyBindGroup(r.optBind)
	}
	if r.options != nil {
		r.device.DestroyBuffer(r.options)
	}
}

// Count dispatches the counting kernel once per representative boundary
// block. All eight dispatches and their staging copies are encoded into
// one command buffer and submitted together; readback waits on the
// per-block completion futures, so a returned buffer always reflects a
// finished kernel and a finished copy.
func (c *Counter) Count(plan *picalc.Plan) ([]picalc.ResultBuffer, error) {
	if plan.B == 0 {
		return nil, fmt.Errorf("gpu: grid size %d smaller than one block per axis", plan.N)
	}
	bufSize := plan.PointsPerBlock() * wordSize

	res := &runResources{device: c.device}
	defer res.cleanup()

	if err := c.createRunResources(res, plan, bufSize); err != nil {
		return nil, err
	}
	if err := c.encodeAndSubmit(res, plan, bufSize); err != nil {
		return nil, err
	}

	// Asynchronous readback: one future per block, resolved in
	// submission order after the shared fence signals.
	stagings := make([]hal.Buffer, len(res.blocks))
	for i, b := range res.blocks {
		stagings[i] = b.staging
	}
	futures := mapAll(c.device, c.queue, res.fence, stagings, bufSize)

	// Wait every future before touching any resource: the resolver
	// goroutine reads the staging buffers until the last resolve.
	buffers := make([]picalc.ResultBuffer, picalc.NumBoundary)
	var firstErr error
	for i, fut := range futures {
		data, err := fut.Wait()
		if err != nil {
			if firstErr == nil {
				firstErr = fmt.Errorf("gpu: read back block %d: %w", i, err)
			}
			continue
		}
		buffers[i] = decodeWords(data)
	}
	if firstErr != nil {
		return nil, firstErr
	}

	slogger().Debug("picalc-gpu: run complete",
		"blocks", len(buffers), "block_side", plan.B, "buffer_bytes", bufSize)
	return buffers, nil
}

// createRunResources allocates the options uniform and the per-block
// storage, staging, and offset buffers plus their bind groups.
func (c *Counter) createRunResources(res *runResources, plan *picalc.Plan, bufSize uint64) error {
	options, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "picalc_options", Size: uint64(len(optionsBytes(plan))),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create options buffer: %w", err)
	}
	res.options = options
	c.queue.WriteBuffer(options, 0, optionsBytes(plan))

	optBind, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "picalc_options_bind", Layout: c.optionsLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: options.NativeHandle(), Offset: 0, Size: uint64(len(optionsBytes(plan)))}},
		},
	})
	if err != nil {
		return fmt.Errorf("gpu: create options bind group: %w", err)
	}
	res.optBind = optBind

	res.blocks = make([]*blockResources, picalc.NumBoundary)
	for i := range res.blocks {
		block, err := c.createBlockResources(plan, i, bufSize)
		if err != nil {
			return fmt.Errorf("gpu: block %d: %w", i, err)
		}
		res.blocks[i] = block
	}
	return nil
}

func (c *Counter) createBlockResources(plan *picalc.Plan, i int, bufSize uint64) (*blockResources, error) {
	b := &blockResources{}

	storage, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "picalc_results", Size: bufSize,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc,
	})
	if err != nil {
		return nil, fmt.Errorf("create result buffer: %w", err)
	}
	b.storage = storage

	staging, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "picalc_staging", Size: bufSize,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		c.device.DestroyBuffer(b.storage)
		return nil, fmt.Errorf("create staging buffer: %w", err)
	}
	b.staging = staging

	ox, oy := plan.BoundaryOffset(i)
	offsetData := offsetBytes(ox, oy)
	offset, err := c.device.CreateBuffer(&hal.BufferDescriptor{
		Label: "picalc_offset", Size: uint64(len(offsetData)),
		Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		c.device.DestroyBuffer(b.staging)
		c.device.DestroyBuffer(b.storage)
		return nil, fmt.Errorf("create offset buffer: %w", err)
	}
	b.offset = offset
	c.queue.WriteBuffer(offset, 0, offsetData)

	bind, err := c.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: "picalc_block_bind", Layout: c.blockLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{Buffer: storage.NativeHandle(), Offset: 0, Size: bufSize}},
			{Binding: 1, Resource: gputypes.BufferBinding{Buffer: offset.NativeHandle(), Offset: 0, Size: uint64(len(offsetData))}},
		},
	})
	if err != nil {
		c.device.DestroyBuffer(b.offset)
		c.device.DestroyBuffer(b.staging)
		c.device.DestroyBuffer(b.storage)
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	b.bind = bind

	return b, nil
}

// encodeAndSubmit records one compute pass per block plus the staging
// copies into a single command buffer and submits it with a fence.
func (c *Counter) encodeAndSubmit(res *runResources, plan *picalc.Plan, bufSize uint64) error {
	encoder, err := c.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "picalc_count"})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("picalc_count"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	groups := workgroupCount(plan.B)
	for i, b := range res.blocks {
		pass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: "picalc_count_pass"})
		pass.SetPipeline(c.pipeline)
		pass.SetBindGroup(0, res.optBind, nil)
		pass.SetBindGroup(1, b.bind, nil)
		pass.Dispatch(groups, groups, 1)
		pass.End()

		slogger().Debug("picalc-gpu: dispatched block",
			"index", i, "workgroups", groups)
	}

	for _, b := range res.blocks {
		encoder.CopyBufferToBuffer(b.storage, b.staging, []hal.BufferCopy{
			{SrcOffset: 0, DstOffset: 0, Size: bufSize},
		})
	}

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	res.cmdBuf = cmdBuf

	fence, err := c.device.CreateFence()
	if err != nil {
		return fmt.Errorf("gpu: create fence: %w", err)
	}
	res.fence = fence

	if err := c.queue.Submit([]hal.CommandBuffer{cmdBuf}, fence, 1); err != nil {
		return fmt.Errorf("gpu: submit: %w", err)
	}
	return nil
}

// workgroupCount returns the number of 16-wide workgroups covering one
// block axis, rounding up. The shader discards the overhang.
func workgroupCount(blockSide uint32) uint32 {
	return (blockSide + workgroupSide - 1) / workgroupSide
}

// optionsBytes serializes the run-wide Options uniform: [N, B] as
// little-endian u32, matching the WGSL struct layout.
func optionsBytes(plan *picalc.Plan) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], plan.N)
	binary.LittleEndian.PutUint32(buf[4:8], plan.B)
	return buf
}

// offsetBytes serializes one block's offset uniform: [ox, oy] as
// little-endian u32, matching vec2<u32> in the shader.
func offsetBytes(ox, oy uint32) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint32(buf[0:4], ox)
	binary.LittleEndian.PutUint32(buf[4:8], oy)
	return buf
}

// decodeWords reinterprets staging bytes as the kernel's u32 words.
func decodeWords(data []byte) picalc.ResultBuffer {
	words := make(picalc.ResultBuffer, len(data)/wordSize)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(data[i*wordSize:])
	}
	return words
}
