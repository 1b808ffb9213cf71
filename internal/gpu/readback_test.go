//go:build !nogpu

package gpu

import (
	"errors"
	"testing"
	"time"
)

func TestReadbackResolveThenWait(t *testing.T) {
	fut := newReadback()
	fut.resolve([]byte{1, 2, 3}, nil)

	data, err := fut.Wait()
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if len(data) != 3 || data[0] != 1 {
		t.Errorf("Wait() data = %v, want [1 2 3]", data)
	}
}

func TestReadbackWaitBlocksUntilResolve(t *testing.T) {
	fut := newReadback()

	go func() {
		time.Sleep(10 * time.Millisecond)
		fut.resolve([]byte{7}, nil)
	}()

	start := time.Now()
	data, err := fut.Wait()
	if err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if time.Since(start) < 5*time.Millisecond {
		t.Error("Wait() returned before resolve")
	}
	if len(data) != 1 || data[0] != 7 {
		t.Errorf("Wait() data = %v, want [7]", data)
	}
}

func TestReadbackError(t *testing.T) {
	wantErr := errors.New("map failed")
	fut := newReadback()
	fut.resolve(nil, wantErr)

	data, err := fut.Wait()
	if !errors.Is(err, wantErr) {
		t.Errorf("Wait() error = %v, want %v", err, wantErr)
	}
	if data != nil {
		t.Errorf("Wait() data = %v, want nil on error", data)
	}
}

func TestReadbackWaitIsRepeatable(t *testing.T) {
	fut := newReadback()
	fut.resolve([]byte{9}, nil)

	for i := 0; i < 3; i++ {
		data, err := fut.Wait()
		if err != nil || len(data) != 1 {
			t.Fatalf("Wait() call %d = (%v, %v)", i, data, err)
		}
	}
}
