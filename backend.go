package picalc

import (
	"log/slog"
	"strings"
)

// ResultBuffer holds the counting kernel's output for one boundary
// block: one 0/1 word per lattice point, row-major with stride B, so
// the point at local coordinates (lx, ly) lives at index ly*B+lx.
//
// A ResultBuffer is exclusively owned by the block computation that
// produced it until the aggregator consumes it; it is never shared for
// writing.
type ResultBuffer []uint32

// Sum reduces the buffer to the number of points inside the disk.
// Addition over 0/1 words cannot overflow for any realistic grid size.
func (rb ResultBuffer) Sum() uint64 {
	var total uint64
	for _, v := range rb {
		total += uint64(v)
	}
	return total
}

// GridString renders the buffer as rows of 0/1 digits with stride b,
// for debug logging. Mirrors the layout the kernel wrote: row ly first.
func (rb ResultBuffer) GridString(b uint32) string {
	var sb strings.Builder
	for ly := uint32(0); ly < b; ly++ {
		for lx := uint32(0); lx < b; lx++ {
			if rb[ly*b+lx] != 0 {
				sb.WriteByte('1')
			} else {
				sb.WriteByte('0')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Backend runs the boundary counting kernel. Implementations evaluate
// the circle predicate at every point of each representative boundary
// block; per-point evaluations are independent and order-free, so a
// backend may interleave or fully parallelize them.
//
// The gpu counter (internal/gpu) and SoftwareCounter both satisfy this
// interface.
type Backend interface {
	// Name identifies the backend for logs and the CLI.
	Name() string

	// Count dispatches one kernel per representative boundary block of
	// plan and returns the NumBoundary result buffers in boundary-index
	// order. A returned buffer fully reflects the predicate for all B²
	// points; no partial-write state is ever observable. Any dispatch
	// or transfer failure aborts the whole run.
	Count(plan *Plan) ([]ResultBuffer, error)

	// Close releases backend resources. The backend must not be used
	// after Close.
	Close()
}

// loggerSetter is implemented by backends that accept a logger.
type loggerSetter interface {
	SetLogger(*slog.Logger)
}

// PropagateLogger passes the current logger to a backend if it
// implements SetLogger. Callers that construct a backend directly
// (e.g. the gpu counter) use this to share the package logger
// configuration without an import cycle.
func PropagateLogger(b Backend) {
	if ls, ok := b.(loggerSetter); ok {
		ls.SetLogger(Logger())
	}
}
