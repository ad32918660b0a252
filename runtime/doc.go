// Package runtime links bridges into WebAssembly guests running on wazero.
//
// # Quick Start
//
//	ctx := context.Background()
//	rt, err := runtime.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	// Register the bridge before loading guests that import it
//	b := bridge.New(transfer.NewAdapter(transfer.Probe(transfer.Options{})))
//	if err := rt.RegisterHost(b); err != nil {
//	    log.Fatal(err)
//	}
//
//	mod, err := rt.LoadWASM(ctx, wasmBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	inst, err := mod.Instantiate(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	results, err := inst.Call(ctx, "run")
//
// # Guest ABI
//
// Each registered namespace becomes a host module of the same name. Export
// names are imported in snake_case (engine-version -> engine_version). The
// function shape follows the export's signature:
//
//	hello(buf_ptr: i32, buf_cap: i32) -> i32   string result
//	version() -> i32                           integer result, no params
//	get(args_ptr: i32, args_len: i32) -> i64   params as a CBOR array
//	last_error(buf_ptr: i32, buf_cap: i32) -> i32
//
// String results are copied into the guest buffer when they fit; the
// return value is always the full length, so a guest can retry with a
// larger buffer. A negative return signals a failed call. The failure
// message is kept per guest instance and read back with last_error.
//
// # WASI
//
// WASI preview1 (wasi_snapshot_preview1) is instantiated once per runtime
// on the first LoadWASM, so Go programs built for GOOS=wasip1 can import
// bridges directly.
//
// # Thread Safety
//
// Runtime and Module are safe for concurrent use. Instance is NOT
// thread-safe; each goroutine should have its own Instance.
package runtime
