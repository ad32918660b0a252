package runtime

// Hand-assembled guest modules for tests. Each imported function gets an
// exported wrapper of the same name that forwards its parameters.

const (
	valI32 = 0x7f
	valI64 = 0x7e
)

type funcType struct {
	params  []byte
	results []byte
}

type guestImport struct {
	module string
	name   string
	typ    funcType
}

var (
	typeString = funcType{params: []byte{valI32, valI32}, results: []byte{valI32}}
	typeScalar = funcType{results: []byte{valI32}}
	typeArgs   = funcType{params: []byte{valI32, valI32}, results: []byte{valI64}}
)

// memoryWASM is a minimal WASM module with 1 page of memory exported as "memory"
var memoryWASM = []byte{
	0x00, 0x61, 0x73, 0x6d, // magic
	0x01, 0x00, 0x00, 0x00, // version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 page, no max
	0x07, 0x0a, 0x01, // export section: 10 bytes, 1 export
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, // name: "memory" (6 bytes + string)
	0x02, 0x00, // kind: memory, index 0
}

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func wasmName(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func section(id byte, content []byte) []byte {
	out := []byte{id}
	out = append(out, uleb(uint32(len(content)))...)
	return append(out, content...)
}

func vector(items [][]byte) []byte {
	out := uleb(uint32(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

// guestWASM builds a module importing imports, exporting one wrapper per
// import plus a one-page "memory".
func guestWASM(imports ...guestImport) []byte {
	var types, imps, funcs, exports, bodies [][]byte
	n := uint32(len(imports))

	for i, imp := range imports {
		t := []byte{0x60}
		t = append(t, uleb(uint32(len(imp.typ.params)))...)
		t = append(t, imp.typ.params...)
		t = append(t, uleb(uint32(len(imp.typ.results)))...)
		t = append(t, imp.typ.results...)
		types = append(types, t)

		entry := append(wasmName(imp.module), wasmName(imp.name)...)
		entry = append(entry, 0x00)
		entry = append(entry, uleb(uint32(i))...)
		imps = append(imps, entry)

		funcs = append(funcs, uleb(uint32(i)))

		exp := append(wasmName(imp.name), 0x00)
		exp = append(exp, uleb(n+uint32(i))...)
		exports = append(exports, exp)

		body := []byte{0x00} // no locals
		for p := range imp.typ.params {
			body = append(body, 0x20)
			body = append(body, uleb(uint32(p))...)
		}
		body = append(body, 0x10)
		body = append(body, uleb(uint32(i))...)
		body = append(body, 0x0b)
		bodies = append(bodies, append(uleb(uint32(len(body))), body...))
	}
	exports = append(exports, append(wasmName("memory"), 0x02, 0x00))

	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	out = append(out, section(1, vector(types))...)
	out = append(out, section(2, vector(imps))...)
	out = append(out, section(3, vector(funcs))...)
	out = append(out, section(5, []byte{0x01, 0x00, 0x01})...)
	out = append(out, section(7, vector(exports))...)
	out = append(out, section(10, vector(bodies))...)
	return out
}
