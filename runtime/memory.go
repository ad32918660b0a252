package runtime

import (
	"github.com/tetratelabs/wazero/api"

	wasmbridge "github.com/wippyai/wasm-bridge"
	"github.com/wippyai/wasm-bridge/errors"
)

var (
	_ wasmbridge.Memory      = (*Memory)(nil)
	_ wasmbridge.MemorySizer = (*Memory)(nil)
)

// Memory adapts wazero api.Memory to bounds-checked reads and writes.
type Memory struct {
	mem api.Memory
}

// WrapMemory wraps guest memory. It returns nil for nil memory.
func WrapMemory(mem api.Memory) *Memory {
	if mem == nil {
		return nil
	}
	return &Memory{mem: mem}
}

// Read copies length bytes starting at offset.
func (m *Memory) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseDecode, []string{"memory"}, int(offset), int(length))
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Write writes bytes to memory.
func (m *Memory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseRuntime, []string{"memory"}, int(offset), len(data))
	}
	return nil
}

// WriteString copies s into the buffer [ptr, ptr+cap) when it fits and
// returns the full length of s either way.
func (m *Memory) WriteString(ptr, capacity uint32, s string) (uint32, error) {
	n := uint32(len(s))
	if n <= capacity && n > 0 {
		if !m.mem.WriteString(ptr, s) {
			return 0, errors.OutOfBounds(errors.PhaseRuntime, []string{"memory"}, int(ptr), len(s))
		}
	}
	return n, nil
}

// Size returns the memory size in bytes.
func (m *Memory) Size() uint32 {
	return m.mem.Size()
}
