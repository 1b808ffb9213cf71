// Package gpu implements the boundary counting backend on a WebGPU
// compute device via gogpu/wgpu.
//
// The counting kernel (shaders/count.wgsl) is compiled ahead of time
// with naga and dispatched once per representative boundary block. All
// eight dispatches and their staging copies are encoded into a single
// command buffer and submitted together; result readback is gated on an
// asynchronous completion future resolved after the fence signals, so
// the host never observes a partially written buffer.
//
// Build with the nogpu tag to exclude the device path entirely; the
// package then only exposes an ErrNoGPU constructor.
package gpu
