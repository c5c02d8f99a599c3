//go:build !nogpu

package gpu

import (
	"fmt"

	"github.com/gogpu/naga"
)

// CompileEscapeShader compiles the escape kernel from WGSL to SPIR-V words.
func CompileEscapeShader() ([]uint32, error) {
	spirvBytes, err := naga.Compile(EscapeShaderWGSL)
	if err != nil {
		return nil, fmt.Errorf("gpu: compile escape shader: %w", err)
	}
	words := toWords(spirvBytes)
	slogger().Debug("escape shader compiled", "words", len(words))
	return words, nil
}

// toWords converts SPIR-V bytes to little-endian 32-bit words.
func toWords(b []byte) []uint32 {
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = uint32(b[i*4]) |
			uint32(b[i*4+1])<<8 |
			uint32(b[i*4+2])<<16 |
			uint32(b[i*4+3])<<24
	}
	return words
}
