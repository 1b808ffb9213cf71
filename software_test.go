package picalc

import "testing"

func TestSoftwareCounterCount(t *testing.T) {
	backend := NewSoftwareCounter()
	defer backend.Close()

	plan, err := NewPlan(64) // B = 8
	if err != nil {
		t.Fatal(err)
	}

	buffers, err := backend.Count(plan)
	if err != nil {
		t.Fatal(err)
	}
	if len(buffers) != NumBoundary {
		t.Fatalf("Count returned %d buffers, want %d", len(buffers), NumBoundary)
	}

	for i, rb := range buffers {
		if uint64(len(rb)) != plan.PointsPerBlock() {
			t.Fatalf("buffer %d has %d words, want %d", i, len(rb), plan.PointsPerBlock())
		}
		ox, oy := plan.BoundaryOffset(i)
		for ly := uint32(0); ly < plan.B; ly++ {
			for lx := uint32(0); lx < plan.B; lx++ {
				got := rb[ly*plan.B+lx]
				if got > 1 {
					t.Fatalf("buffer %d word (%d,%d) = %d, want 0 or 1", i, lx, ly, got)
				}
				want := uint32(0)
				if InsideQuarterDisk(ox+lx, oy+ly, plan.R) {
					want = 1
				}
				if got != want {
					t.Errorf("buffer %d point (%d,%d): got %d, predicate says %d", i, lx, ly, got, want)
				}
			}
		}
	}
}

func TestSoftwareCounterSingleWorker(t *testing.T) {
	// One worker serializes every row task; the results must be
	// identical to the parallel run since evaluations are order-free.
	serial := NewSoftwareCounterWithWorkers(1)
	defer serial.Close()
	parallelC := NewSoftwareCounterWithWorkers(4)
	defer parallelC.Close()

	plan, err := NewPlan(128)
	if err != nil {
		t.Fatal(err)
	}

	a, err := serial.Count(plan)
	if err != nil {
		t.Fatal(err)
	}
	b, err := parallelC.Count(plan)
	if err != nil {
		t.Fatal(err)
	}
	for i := range a {
		if a[i].Sum() != b[i].Sum() {
			t.Errorf("block %d: serial sum %d != parallel sum %d", i, a[i].Sum(), b[i].Sum())
		}
	}
}

func TestSoftwareCounterName(t *testing.T) {
	backend := NewSoftwareCounter()
	defer backend.Close()
	if backend.Name() != "software" {
		t.Errorf("Name() = %q, want %q", backend.Name(), "software")
	}
}

func TestResultBufferSum(t *testing.T) {
	tests := []struct {
		name string
		rb   ResultBuffer
		want uint64
	}{
		{"empty", ResultBuffer{}, 0},
		{"all zero", ResultBuffer{0, 0, 0, 0}, 0},
		{"all one", ResultBuffer{1, 1, 1, 1}, 4},
		{"mixed", ResultBuffer{1, 0, 1, 1, 0, 0, 1, 0}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rb.Sum(); got != tt.want {
				t.Errorf("Sum() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestResultBufferGridString(t *testing.T) {
	rb := ResultBuffer{1, 0, 1, 1}
	if got, want := rb.GridString(2), "10\n11\n"; got != want {
		t.Errorf("GridString(2) = %q, want %q", got, want)
	}
}
