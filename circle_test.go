package picalc

import "testing"

func TestInsideQuarterDisk(t *testing.T) {
	tests := []struct {
		name    string
		x, y, r uint32
		want    bool
	}{
		{"origin", 0, 0, 7, true},
		{"origin zero radius", 0, 0, 0, true},
		{"on axis at radius", 7, 0, 7, true},
		{"on axis past radius", 8, 0, 7, false},
		{"exact boundary 3-4-5", 3, 4, 5, true},
		{"just outside 3-4-5", 4, 4, 5, false},
		{"interior", 2, 2, 5, true},
		{"diagonal outside", 5, 5, 7, false},
		{"diagonal boundary", 5, 5, 8, true}, // 50 <= 64
		{"large radius interior", 1000, 1000, 2000, true},
		{"large radius boundary", 1023, 0, 1023, true},
		{"large radius outside", 1023, 1, 1023, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InsideQuarterDisk(tt.x, tt.y, tt.r)
			if got != tt.want {
				t.Errorf("InsideQuarterDisk(%d, %d, %d) = %v, want %v",
					tt.x, tt.y, tt.r, got, tt.want)
			}
		})
	}
}

// TestInsideQuarterDiskExactArithmetic pins the boundary inclusivity
// that floating-point arithmetic would get wrong: sqrt-based tests can
// drop points exactly on the circle.
func TestInsideQuarterDiskExactArithmetic(t *testing.T) {
	// Pythagorean triples scaled up: all exactly on the boundary.
	triples := [][3]uint32{
		{3, 4, 5}, {5, 12, 13}, {8, 15, 17}, {20, 21, 29},
		{300, 400, 500}, {500, 1200, 1300},
	}
	for _, tr := range triples {
		if !InsideQuarterDisk(tr[0], tr[1], tr[2]) {
			t.Errorf("InsideQuarterDisk(%d, %d, %d) = false, want true (exact boundary)",
				tr[0], tr[1], tr[2])
		}
		if !InsideQuarterDisk(tr[1], tr[0], tr[2]) {
			t.Errorf("InsideQuarterDisk(%d, %d, %d) = false, want true (exact boundary, swapped)",
				tr[1], tr[0], tr[2])
		}
	}
}

func TestBruteForceCount(t *testing.T) {
	tests := []struct {
		n    uint32
		want uint64
	}{
		{1, 1},  // only (0,0), radius 0
		{2, 3},  // (1,1) is outside radius 1
		{3, 6},  // radius 2
		{8, 45}, // radius 7, counted by hand per octant row
	}
	for _, tt := range tests {
		if got := BruteForceCount(tt.n); got != tt.want {
			t.Errorf("BruteForceCount(%d) = %d, want %d", tt.n, got, tt.want)
		}
	}
}
