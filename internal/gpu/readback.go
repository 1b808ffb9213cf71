//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/wgpu/hal"
)

// readback is the completion future for one staging buffer. It resolves
// with the buffer's bytes once the producing kernel and its copy have
// both completed on the device. The aggregator may only observe result
// bytes through Wait; there is no way to poll the memory directly.
type readback struct {
	done chan struct{}
	data []byte
	err  error
}

func newReadback() *readback {
	return &readback{done: make(chan struct{})}
}

// resolve completes the future. Must be called exactly once.
func (r *readback) resolve(data []byte, err error) {
	r.data = data
	r.err = err
	close(r.done)
}

// Wait blocks until the future resolves and returns the mapped bytes.
func (r *readback) Wait() ([]byte, error) {
	<-r.done
	return r.data, r.err
}

// mapAll initiates asynchronous readback of every staging buffer and
// returns one future per buffer, in order. A single resolver goroutine
// waits for the shared fence once, then reads each staging buffer and
// resolves its future in submission order. A fence failure or timeout
// fails every future; a per-buffer read failure fails only that block.
func mapAll(device hal.Device, queue hal.Queue, fence hal.Fence, stagings []hal.Buffer, size uint64) []*readback {
	futures := make([]*readback, len(stagings))
	for i := range futures {
		futures[i] = newReadback()
	}

	go func() {
		ok, err := device.Wait(fence, 1, fenceTimeout)
		if err != nil || !ok {
			if err == nil {
				err = fmt.Errorf("device timeout after %v", fenceTimeout)
			}
			for _, fut := range futures {
				fut.resolve(nil, err)
			}
			return
		}

		for i, staging := range stagings {
			data := make([]byte, size)
			if readErr := queue.ReadBuffer(staging, 0, data); readErr != nil {
				futures[i].resolve(nil, readErr)
				continue
			}
			futures[i].resolve(data, nil)
		}
	}()

	return futures
}
