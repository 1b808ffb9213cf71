package picalc

import "fmt"

// Ratio is an exact rational pi estimate: Num/Den with no floating
// point rounding. For a grid of size N, Num is 4× the lattice total and
// Den is (N−1)².
type Ratio struct {
	Num uint64
	Den uint64
}

// String formats the ratio as "num/den", the form the CLI reports.
func (r Ratio) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// Float64 divides the ratio out. Only for display and tests; the exact
// pair is the canonical result.
func (r Ratio) Float64() float64 {
	return float64(r.Num) / float64(r.Den)
}

// Estimate runs one full estimation on the given backend: build the
// partition plan for n, count the eight boundary blocks, fold the block
// contributions into the lattice total, and convert it to the exact
// rational pi ≈ 4×total/(n−1)².
//
// The run is single-shot and deterministic: the same n on any correct
// backend yields the identical ratio. Any kernel or transfer failure
// aborts with no partial result.
func Estimate(b Backend, n uint32) (Ratio, error) {
	plan, err := NewPlan(n)
	if err != nil {
		return Ratio{}, err
	}

	log := Logger()
	log.Debug("picalc: starting estimation",
		"backend", b.Name(), "n", plan.N, "block", plan.B, "radius", plan.R)

	buffers, err := b.Count(plan)
	if err != nil {
		return Ratio{}, fmt.Errorf("picalc: count on %s backend: %w", b.Name(), err)
	}
	if len(buffers) != NumBoundary {
		return Ratio{}, fmt.Errorf("picalc: backend %s returned %d buffers, want %d",
			b.Name(), len(buffers), NumBoundary)
	}

	var sums [NumBoundary]uint64
	for i, rb := range buffers {
		sums[i] = rb.Sum()
		ox, oy := plan.BoundaryOffset(i)
		log.Debug("picalc: boundary block counted",
			"index", i, "offset_x", ox, "offset_y", oy, "inside", sums[i])
	}

	total := plan.Fold(sums)
	log.Debug("picalc: lattice total folded", "total", total)

	return Ratio{
		Num: 4 * total,
		Den: uint64(plan.R) * uint64(plan.R),
	}, nil
}
