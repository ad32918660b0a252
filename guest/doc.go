// Package guest calls the HTTP bridge from Go programs compiled for
// GOOS=wasip1 GOARCH=wasm and run by the runtime package.
//
//	code, err := guest.Get("https://example.com", true)
//	if err != nil {
//	    fmt.Fprintln(os.Stderr, err)
//	}
//
// The imports are bound to Namespace, the default bridge name
// hello_with_curl. The module name of a go:wasmimport directive must be a
// literal, so hosts running these guests must keep the default bridge name;
// a renamed bridge fails at instantiation with a missing import module.
// Arguments are passed as a CBOR array; failures are read back through the
// host's last_error import and returned as *Error.
//
// Only Error is available on other platforms.
package guest
