package picalc

import "github.com/Hurricane996/picalc/internal/parallel"

// SoftwareCounter is the CPU compute backend. It evaluates the circle
// predicate over each boundary block on a work-stealing goroutine pool,
// one task per block row, so per-point evaluations run in arbitrary
// order exactly as the kernel contract allows.
//
// SoftwareCounter never fails to acquire: it is the fallback when no
// GPU device is available, and the deterministic reference in tests.
type SoftwareCounter struct {
	pool *parallel.WorkerPool
}

// NewSoftwareCounter creates a software backend with one worker per
// available CPU.
func NewSoftwareCounter() *SoftwareCounter {
	return NewSoftwareCounterWithWorkers(0)
}

// NewSoftwareCounterWithWorkers creates a software backend with the
// given number of workers. Zero or negative means GOMAXPROCS.
func NewSoftwareCounterWithWorkers(workers int) *SoftwareCounter {
	return &SoftwareCounter{pool: parallel.NewWorkerPool(workers)}
}

// Name identifies the backend.
func (c *SoftwareCounter) Name() string { return "software" }

// Count evaluates all eight boundary blocks concurrently on the pool.
// Each block owns its result buffer exclusively; rows never overlap, so
// workers write without synchronization. ExecuteAll is the completion
// barrier: no buffer is returned before every row task has finished.
func (c *SoftwareCounter) Count(plan *Plan) ([]ResultBuffer, error) {
	b, r := plan.B, plan.R
	buffers := make([]ResultBuffer, NumBoundary)

	work := make([]func(), 0, NumBoundary*int(b))
	for i := range buffers {
		rb := make(ResultBuffer, plan.PointsPerBlock())
		buffers[i] = rb
		ox, oy := plan.BoundaryOffset(i)

		for ly := uint32(0); ly < b; ly++ {
			row := rb[ly*b : (ly+1)*b]
			y := oy + ly
			work = append(work, func() {
				for lx := uint32(0); lx < b; lx++ {
					if InsideQuarterDisk(ox+lx, y, r) {
						row[lx] = 1
					} else {
						row[lx] = 0
					}
				}
			})
		}
	}

	c.pool.ExecuteAll(work)
	return buffers, nil
}

// Close shuts down the worker pool.
func (c *SoftwareCounter) Close() {
	c.pool.Close()
}
