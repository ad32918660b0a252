// Package bridge exposes native calls to a managed caller.
//
// A bridge is a Host whose exported methods of type Func are its exports.
// The caller passes arguments as a dynamic list; each export validates
// arity and types itself before touching anything native, and returns
// either a value or an error, never both.
//
// The HTTP bridge provides five exports:
//
//	hello()                             -> string
//	version()                           -> s32
//	engine-version()                    -> u32
//	get(url: string, follow-redirects: bool) -> s32
//	post(url: string, payload: string)  -> s32
//
// get and post return the transfer engine's result code, 0 on success.
// Every failure is an *errors.Error. Argument errors match errors.ErrArity
// or errors.ErrTypeMismatch; transfer failures match
// errors.ErrNativeFailure or errors.ErrResourceAcquisition and carry a
// message naming the URL, the operation and the engine's diagnostic:
//
//	Couldn't connect to server
//	hello_with_curl.node: could not post the following request:
//	url: http://localhost:1/
//	data: name=value
//
// Exports are dispatched through a Registry:
//
//	reg := bridge.NewRegistry()
//	reg.RegisterHost(bridge.New(transfer.NewAdapter(engine)))
//	code, err := reg.Call(ctx, "get", "https://example.com", true)
package bridge
