package main

import (
	stderrors "errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/tetratelabs/wazero/sys"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-bridge/bridge"
	"github.com/wippyai/wasm-bridge/guest"
)

// parseArgs converts CLI strings to the Go values sig expects. Values that
// do not parse, and values past the declared params, stay strings so the
// export reports the mismatch itself.
func parseArgs(sig bridge.Signature, raw []string) []any {
	args := make([]any, len(raw))
	for i, s := range raw {
		if i >= len(sig.Params) {
			args[i] = s
			continue
		}
		args[i] = convertArg(s, sig.Params[i].Type)
	}
	return args
}

func convertArg(value string, t wit.Type) any {
	var (
		v   any
		err error
	)
	switch t.(type) {
	case wit.String:
		return value
	case wit.Bool:
		v, err = strconv.ParseBool(value)
	case wit.U8, wit.U16, wit.U32:
		var n uint64
		n, err = strconv.ParseUint(value, 10, 32)
		v = uint32(n)
	case wit.S8, wit.S16, wit.S32:
		var n int64
		n, err = strconv.ParseInt(value, 10, 32)
		v = int32(n)
	case wit.U64:
		v, err = strconv.ParseUint(value, 10, 64)
	case wit.S64:
		v, err = strconv.ParseInt(value, 10, 64)
	case wit.F32:
		var f float64
		f, err = strconv.ParseFloat(value, 32)
		v = float32(f)
	case wit.F64:
		v, err = strconv.ParseFloat(value, 64)
	default:
		return value
	}
	if err != nil {
		return value
	}
	return v
}

// parseEnv splits "K=V,K2=V2".
func parseEnv(s string) map[string]string {
	if s == "" {
		return nil
	}
	env := make(map[string]string)
	for _, kv := range strings.Split(s, ",") {
		k, v, ok := strings.Cut(kv, "=")
		if ok && k != "" {
			env[k] = v
		}
	}
	return env
}

func formatResult(v any) string {
	switch r := v.(type) {
	case string:
		return r
	case nil:
		return "<nil>"
	default:
		return fmt.Sprintf("%v", r)
	}
}

func exitCode(err error) (uint32, bool) {
	var ee *sys.ExitError
	if stderrors.As(err, &ee) {
		return ee.ExitCode(), true
	}
	return 0, false
}

// checkNamespace reports guests built with the guest package that cannot
// link against a bridge registered under another name.
func checkNamespace(imports []string, name string) error {
	if name == guest.Namespace {
		return nil
	}
	prefix := guest.Namespace + "#"
	for _, imp := range imports {
		if strings.HasPrefix(imp, prefix) {
			return fmt.Errorf("guest imports %s but the bridge is named %q; guests built with the guest package need name %q",
				imp, name, guest.Namespace)
		}
	}
	return nil
}
