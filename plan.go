package picalc

import "fmt"

const (
	// GridBlocks is the number of blocks along each axis of the grid.
	// The weight matrix below is fixed to this layout.
	GridBlocks = 8

	// NumBoundary is the number of representative boundary blocks that
	// require exact kernel computation. Every other boundary position
	// reuses one of these counts through the grid's diagonal symmetry.
	NumBoundary = 8
)

// CellKind classifies one block of the 8×8 grid.
type CellKind int

const (
	// CellEmpty marks a block entirely outside the quarter-disk. It
	// contributes nothing to the lattice total.
	CellEmpty CellKind = iota

	// CellFull marks a block entirely inside the quarter-disk. It
	// contributes B² points without any kernel work.
	CellFull

	// CellBoundary marks a block straddling the disk edge. It
	// contributes the exact count of one of the NumBoundary computed
	// blocks, selected by Cell.Index.
	CellBoundary
)

// String returns the kind's short name.
func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "Empty"
	case CellFull:
		return "Full"
	case CellBoundary:
		return "Boundary"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// Cell is one entry of the weight matrix. Index selects the boundary
// block whose count this cell reuses; it is only meaningful when Kind
// is CellBoundary.
type Cell struct {
	Kind  CellKind
	Index int
}

// Shorthand for the weight matrix literal.
var (
	cF = Cell{Kind: CellFull}
	cE = Cell{Kind: CellEmpty}
)

func cB(i int) Cell { return Cell{Kind: CellBoundary, Index: i} }

// weightMatrix is the fixed classification of the 8×8 block grid for a
// quarter-disk of radius N−1 anchored at the origin. Row is by, column
// is bx. The layout encodes which sub-squares of the grid are
// geometrically equivalent under the disk's diagonal symmetry: each
// boundary index appears at (bx, by) and at its mirror (by, bx), so
// only eight kernel dispatches are ever needed.
//
// This table is a correctness-critical constant. It is deliberately a
// static literal, not derived at runtime, so it stays auditable and
// testable in isolation.
var weightMatrix = [GridBlocks][GridBlocks]Cell{
	{cF, cF, cF, cF, cF, cF, cF, cB(0)},
	{cF, cF, cF, cF, cF, cF, cF, cB(1)},
	{cF, cF, cF, cF, cF, cF, cF, cB(2)},
	{cF, cF, cF, cF, cF, cF, cB(4), cB(3)},
	{cF, cF, cF, cF, cF, cF, cB(5), cE},
	{cF, cF, cF, cF, cF, cB(7), cB(6), cE},
	{cF, cF, cF, cB(4), cB(5), cB(6), cE, cE},
	{cB(0), cB(1), cB(2), cB(3), cE, cE, cE, cE},
}

// boundaryBlocks lists the block coordinates (bx, by) of the eight
// representative boundary blocks, in boundary-index order. These are
// the blocks the counting kernel actually evaluates.
var boundaryBlocks = [NumBoundary][2]uint32{
	{7, 0}, {7, 1}, {7, 2}, {7, 3},
	{6, 3}, {6, 4}, {6, 5}, {5, 5},
}

// Plan fixes the geometry of one estimation run: the grid size, the
// block side length, and the disk radius. A Plan is immutable after
// creation.
//
// Correctness requires N divisible by GridBlocks; the block side is
// computed with truncating division and is not re-checked anywhere, so
// an indivisible N silently produces a mismatched partition. Callers
// own that precondition.
type Plan struct {
	// N is the grid side length.
	N uint32

	// B is the block side length, N/8.
	B uint32

	// R is the quarter-disk radius, N−1.
	R uint32
}

// NewPlan builds the partition plan for an n×n grid.
// n must be positive; divisibility by 8 is the caller's responsibility.
func NewPlan(n uint32) (*Plan, error) {
	if n == 0 {
		return nil, fmt.Errorf("picalc: grid size must be positive")
	}
	return &Plan{
		N: n,
		B: n / GridBlocks,
		R: n - 1,
	}, nil
}

// Classify returns the weight-matrix cell for block (bx, by).
func (p *Plan) Classify(bx, by int) Cell {
	return weightMatrix[by][bx]
}

// BoundaryOffset returns the global grid coordinates (ox, oy) of the
// top-left point of boundary block i.
func (p *Plan) BoundaryOffset(i int) (ox, oy uint32) {
	return boundaryBlocks[i][0] * p.B, boundaryBlocks[i][1] * p.B
}

// PointsPerBlock returns B², the number of lattice points in one block.
func (p *Plan) PointsPerBlock() uint64 {
	return uint64(p.B) * uint64(p.B)
}

// Fold combines the eight boundary-block sums with the weight matrix
// into the lattice total for the whole grid: Full cells contribute B²
// each, Empty cells nothing, Boundary cells the computed sum they map
// to. Associative integer addition over non-negative terms, so the
// visiting order does not matter.
func (p *Plan) Fold(sums [NumBoundary]uint64) uint64 {
	full := p.PointsPerBlock()
	var total uint64
	for by := 0; by < GridBlocks; by++ {
		for bx := 0; bx < GridBlocks; bx++ {
			switch cell := weightMatrix[by][bx]; cell.Kind {
			case CellFull:
				total += full
			case CellBoundary:
				total += sums[cell.Index]
			}
		}
	}
	return total
}
