// Package picalc estimates pi by counting integer lattice points inside
// a quarter-disk inscribed in an N×N grid.
//
// # Overview
//
// The grid is partitioned into an 8×8 layout of equal square blocks. A
// static weight matrix classifies each block as entirely inside the
// disk (Full), entirely outside (Empty), or straddling the edge
// (Boundary). Only the eight representative boundary blocks need exact
// per-point evaluation; the remaining boundary positions reuse those
// counts through the grid's diagonal symmetry. The counting kernel runs
// on a parallel compute backend — a WebGPU device via gogpu/wgpu, or a
// goroutine pool when no device is available.
//
// # Quick Start
//
//	backend := picalc.NewSoftwareCounter()
//	defer backend.Close()
//
//	ratio, err := picalc.Estimate(backend, 1024)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("pi = %s\n", ratio) // exact rational, e.g. 3290084/1047529
//
// # Precision
//
// The estimate is reported as the exact rational 4×count/(N−1)² rather
// than a pre-divided float, so results are reproducible bit for bit and
// testable by exact comparison. Correctness requires N divisible by 8;
// this is a documented precondition, not a validated one.
//
// # Architecture
//
// The library is organized into:
//   - Public API: Plan, Backend, ResultBuffer, Ratio, Estimate
//   - internal/gpu: WebGPU compute backend (gogpu/wgpu HAL)
//   - internal/parallel: worker pool backing the software counter
package picalc
