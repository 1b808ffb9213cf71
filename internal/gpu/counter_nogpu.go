//go:build nogpu

package gpu

import (
	"errors"

	"github.com/Hurricane996/picalc"
)

// ErrNoGPU is returned by NewCounter in nogpu builds.
var ErrNoGPU = errors.New("gpu: built without GPU support")

// Counter is unavailable in nogpu builds.
type Counter struct{}

var _ picalc.Backend = (*Counter)(nil)

// NewCounter always fails in nogpu builds; callers fall back to the
// software backend.
func NewCounter() (*Counter, error) { return nil, ErrNoGPU }

func (c *Counter) Name() string { return "wgpu" }

func (c *Counter) Count(*picalc.Plan) ([]picalc.ResultBuffer, error) {
	return nil, ErrNoGPU
}

func (c *Counter) Close() {}
