package wasmbridge

// Memory is guest linear memory as seen by host functions.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
	// WriteString copies s to ptr when it fits in capacity bytes and
	// returns len(s) either way.
	WriteString(ptr, capacity uint32, s string) (uint32, error)
}

// MemorySizer provides the current size of WASM linear memory in bytes.
type MemorySizer interface {
	Size() uint32
}
