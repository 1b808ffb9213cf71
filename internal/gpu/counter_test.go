//go:build !nogpu

package gpu

import (
	"testing"

	"github.com/Hurricane996/picalc"
)

func TestWorkgroupCount(t *testing.T) {
	tests := []struct {
		blockSide uint32
		want      uint32
	}{
		{1, 1},
		{15, 1},
		{16, 1},
		{17, 2},
		{128, 8},
		{130, 9},
		{512, 32},
	}
	for _, tt := range tests {
		if got := workgroupCount(tt.blockSide); got != tt.want {
			t.Errorf("workgroupCount(%d) = %d, want %d", tt.blockSide, got, tt.want)
		}
	}
}

func TestOptionsBytes(t *testing.T) {
	plan, err := picalc.NewPlan(1024)
	if err != nil {
		t.Fatal(err)
	}
	got := optionsBytes(plan)
	// [N=1024, B=128] little-endian.
	want := []byte{0x00, 0x04, 0x00, 0x00, 0x80, 0x00, 0x00, 0x00}
	if len(got) != len(want) {
		t.Fatalf("optionsBytes length = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("optionsBytes = % x, want % x", got, want)
		}
	}
}

func TestOffsetBytes(t *testing.T) {
	got := offsetBytes(896, 128)
	want := []byte{0x80, 0x03, 0x00, 0x00, 0x80, 0x00, 0x00, 0x00}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("offsetBytes = % x, want % x", got, want)
		}
	}
}

func TestDecodeWords(t *testing.T) {
	data := []byte{
		0x01, 0x00, 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00,
		0x01, 0x00, 0x00, 0x00,
	}
	words := decodeWords(data)
	want := picalc.ResultBuffer{1, 0, 1}
	if len(words) != len(want) {
		t.Fatalf("decodeWords returned %d words, want %d", len(words), len(want))
	}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("word %d = %d, want %d", i, words[i], want[i])
		}
	}
}

// TestCounterMatchesSoftware runs the device path against the software
// backend for a small grid. Skipped when no compute device is present.
func TestCounterMatchesSoftware(t *testing.T) {
	counter, err := NewCounter()
	if err != nil {
		t.Skipf("GPU not available: %v", err)
	}
	defer counter.Close()

	software := picalc.NewSoftwareCounter()
	defer software.Close()

	for _, n := range []uint32{8, 64, 256} {
		plan, err := picalc.NewPlan(n)
		if err != nil {
			t.Fatal(err)
		}

		gpuBufs, err := counter.Count(plan)
		if err != nil {
			t.Fatalf("n=%d: gpu count: %v", n, err)
		}
		cpuBufs, err := software.Count(plan)
		if err != nil {
			t.Fatalf("n=%d: software count: %v", n, err)
		}

		for i := range cpuBufs {
			if got, want := gpuBufs[i].Sum(), cpuBufs[i].Sum(); got != want {
				t.Errorf("n=%d block %d: gpu sum %d, software sum %d", n, i, got, want)
			}
		}
	}
}

// TestEstimateOnCounter runs the full estimation on the device and
// checks the exact rational against the software reference.
func TestEstimateOnCounter(t *testing.T) {
	counter, err := NewCounter()
	if err != nil {
		t.Skipf("GPU not available: %v", err)
	}
	defer counter.Close()

	software := picalc.NewSoftwareCounter()
	defer software.Close()

	want, err := picalc.Estimate(software, 1024)
	if err != nil {
		t.Fatal(err)
	}
	got, err := picalc.Estimate(counter, 1024)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("Estimate(gpu, 1024) = %v, want %v", got, want)
	}
}
