//go:build wasip1

package guest

import (
	"runtime"
	"unsafe"

	"github.com/fxamacker/cbor/v2"
)

//go:wasmimport hello_with_curl hello
func hostHello(buf unsafe.Pointer, capacity uint32) int32

//go:wasmimport hello_with_curl version
func hostVersion() int32

//go:wasmimport hello_with_curl engine_version
func hostEngineVersion() int32

//go:wasmimport hello_with_curl get
func hostGet(args unsafe.Pointer, n uint32) int64

//go:wasmimport hello_with_curl post
func hostPost(args unsafe.Pointer, n uint32) int64

//go:wasmimport hello_with_curl last_error
func hostLastError(buf unsafe.Pointer, capacity uint32) int32

const initialBuf = 128

// readString calls a string-returning import, growing the buffer once if
// the first one was too small.
func readString(op string, fn func(unsafe.Pointer, uint32) int32) (string, error) {
	buf := make([]byte, initialBuf)
	for {
		n := fn(unsafe.Pointer(unsafe.SliceData(buf)), uint32(len(buf)))
		runtime.KeepAlive(buf)
		switch {
		case n < 0:
			return "", lastError(op)
		case int(n) <= len(buf):
			return string(buf[:n]), nil
		default:
			buf = make([]byte, n)
		}
	}
}

func lastError(op string) error {
	buf := make([]byte, 1024)
	n := hostLastError(unsafe.Pointer(unsafe.SliceData(buf)), uint32(len(buf)))
	runtime.KeepAlive(buf)
	if n > int32(len(buf)) {
		buf = make([]byte, n)
		n = hostLastError(unsafe.Pointer(unsafe.SliceData(buf)), uint32(len(buf)))
		runtime.KeepAlive(buf)
	}
	if n <= 0 {
		return &Error{Op: op}
	}
	return &Error{Op: op, Message: string(buf[:n])}
}

func call(op string, fn func(unsafe.Pointer, uint32) int64, args ...any) (int, error) {
	data, err := cbor.Marshal(args)
	if err != nil {
		return 0, err
	}
	res := fn(unsafe.Pointer(unsafe.SliceData(data)), uint32(len(data)))
	runtime.KeepAlive(data)
	if res < 0 {
		return 0, lastError(op)
	}
	return int(res), nil
}

// Hello returns the bridge greeting.
func Hello() (string, error) {
	return readString("hello", hostHello)
}

// Version returns the bridge API version.
func Version() int {
	return int(hostVersion())
}

// EngineVersion returns the transfer engine version packed as 0xXXYYZZ.
func EngineVersion() uint32 {
	return uint32(hostEngineVersion())
}

// Get performs a GET and returns the engine result code.
func Get(url string, followRedirects bool) (int, error) {
	return call("get", hostGet, url, followRedirects)
}

// Post performs a POST and returns the engine result code.
func Post(url, payload string) (int, error) {
	return call("post", hostPost, url, payload)
}

// Call passes arbitrary arguments to get or post. Used to exercise the
// bridge's own argument validation.
func Call(op string, args ...any) (int, error) {
	switch op {
	case "get":
		return call(op, hostGet, args...)
	case "post":
		return call(op, hostPost, args...)
	default:
		return 0, &Error{Op: op, Message: "unknown operation " + op}
	}
}
