//go:build !nogpu

package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

//go:embed shaders/count.wgsl
var countShaderSource string

// compileCountShader compiles the counting kernel to SPIR-V with naga
// and creates the shader module. Compiling ahead of pipeline creation
// surfaces shader errors as ordinary Go errors during backend
// acquisition instead of a device-side validation failure later.
func compileCountShader(device hal.Device) (hal.ShaderModule, error) {
	spirvBytes, err := naga.Compile(countShaderSource)
	if err != nil {
		return nil, fmt.Errorf("compile count shader: %w", err)
	}

	return device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label: "picalc_count",
		Source: hal.ShaderSource{
			SPIRV: spirvWords(spirvBytes),
		},
	})
}

// spirvWords reassembles SPIR-V bytes into little-endian 32-bit words.
func spirvWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}
