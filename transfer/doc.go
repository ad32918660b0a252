// Package transfer wraps a native network transfer engine behind a small
// capability boundary and performs single GET or POST requests with it.
//
// An Engine exposes the engine's raw capabilities: a process-scope
// GlobalInit/GlobalCleanup pair, handle creation, per-handle configuration,
// blocking execution and handle destruction. The Adapter drives one request
// through those capabilities and guarantees that every handle it creates is
// destroyed, and every global state reference it takes is released, before
// Perform returns:
//
//	adapter := transfer.NewAdapter(transfer.Probe(transfer.Options{}))
//	code, err := adapter.Perform(ctx, transfer.NewGet("https://example.com", true))
//
// Global library state is reference counted by GlobalState. The first
// acquirer runs GlobalInit and the last releaser runs GlobalCleanup, so
// overlapping calls share one initialization. A process that wants the state
// to outlive individual calls takes an extra reference with Adapter.Hold.
//
// Engine failures are reported as *NativeFailure values carrying a curl-style
// result Code and a diagnostic message. They never leak engine-specific
// error types to callers.
//
// Probe picks the engine for the host: the net/http backed HTTPEngine, or
// UnsupportedEngine when the module is built with the nonet tag or transfers
// are disabled by configuration.
package transfer
