package picalc

// InsideQuarterDisk reports whether the lattice point (x, y) lies
// inside the quarter-disk of radius r. The comparison is exact integer
// arithmetic in 64 bits, so there is no rounding bias at the boundary:
// a point with x²+y² == r² counts as inside.
//
// This predicate is the ground truth the whole estimation approximates
// against. It has no side effects and cannot fail.
func InsideQuarterDisk(x, y, r uint32) bool {
	xx := uint64(x)
	yy := uint64(y)
	rr := uint64(r)
	return xx*xx+yy*yy <= rr*rr
}

// BruteForceCount evaluates the predicate independently at every point
// of the n×n grid against radius n−1 and returns the number of points
// inside the quarter-disk. It is the reference the block-classification
// scheme must agree with; the main estimation path never calls it.
func BruteForceCount(n uint32) uint64 {
	r := n - 1
	var total uint64
	for y := uint32(0); y < n; y++ {
		for x := uint32(0); x < n; x++ {
			if InsideQuarterDisk(x, y, r) {
				total++
			}
		}
	}
	return total
}
