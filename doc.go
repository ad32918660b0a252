// Package wasmbridge exposes HTTP transfers to host code and WebAssembly
// guests through a small native call bridge.
//
// The bridge registers five exports under the "hello_with_curl" namespace:
//
//	hello()                                  -> string
//	version()                                -> s32
//	engine-version()                         -> u32
//	get(url: string, follow-redirects: bool) -> s32
//	post(url: string, payload: string)       -> s32
//
// get and post validate arity and argument types before touching the
// transfer engine, then run exactly one transfer and return the engine's
// result code (0 on success). A failed transfer surfaces as an error whose
// message carries the engine message followed by the request that failed.
//
// # Packages
//
//	wasmbridge/
//	├── bridge/     Exports, signatures and the export registry
//	├── transfer/   Engine interface, global state and the handle adapter
//	├── runtime/    wazero host modules binding the registry for wasip1 guests
//	├── guest/      Guest-side import wrappers (GOOS=wasip1)
//	├── resource/   Handle tables backing engine transfers
//	├── config/     viper configuration with BRIDGE_* overrides
//	├── logging/    zap logger construction and installation
//	├── errors/     Structured error types
//	└── cmd/bridge  Command line and TUI front end
//
// # Quick Start
//
//	adapter := transfer.NewAdapter(transfer.Probe(transfer.Options{}))
//	b := bridge.New(adapter)
//
//	code, err := b.Get(ctx, "https://example.com", true)
//	if err != nil {
//	    log.Fatal(err) // engine message plus the failed request
//	}
//	fmt.Println(code) // 0
//
// # Global State
//
// Engine global initialization is reference counted. Each transfer holds a
// reference for its duration; long-lived processes can keep the engine
// initialized across transfers with Adapter.Hold.
//
// # Thread Safety
//
// Bridge, Adapter and Runtime are safe for concurrent use. A runtime
// Instance should be used by a single goroutine.
package wasmbridge
