package runtime

import (
	"context"
	"reflect"
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-bridge/bridge"
	"github.com/wippyai/wasm-bridge/errors"
)

// LastErrorFunc is the import name guests use to read a failure message.
const LastErrorFunc = "last_error"

const failed = -1

type abiKind int

const (
	abiArgs   abiKind = iota // (args_ptr, args_len) -> i64
	abiString                // (buf_ptr, buf_cap) -> i32
	abiScalar                // () -> i32
)

// ImportName converts an export name to its guest import name.
func ImportName(export string) string {
	return strings.ReplaceAll(export, "-", "_")
}

func abiOf(sig bridge.Signature) abiKind {
	if len(sig.Params) > 0 || len(sig.Results) != 1 {
		return abiArgs
	}
	switch sig.Results[0].(type) {
	case wit.String:
		return abiString
	case wit.Bool, wit.U8, wit.S8, wit.U16, wit.S16, wit.U32, wit.S32:
		return abiScalar
	default:
		return abiArgs
	}
}

func (r *Runtime) instantiateHost(ctx context.Context, ns string, exports []*bridge.Export) error {
	builder := r.rt.NewHostModuleBuilder(ns)
	i32 := api.ValueTypeI32

	for _, e := range exports {
		name := ImportName(e.Name)
		if name == LastErrorFunc {
			return errors.Registration(errors.PhaseHost, ns, name,
				errors.InvalidInput(errors.PhaseHost, "export name is reserved"))
		}

		switch abiOf(e.Signature) {
		case abiString:
			builder = builder.NewFunctionBuilder().
				WithGoModuleFunction(api.GoModuleFunc(r.stringCall(e)), []api.ValueType{i32, i32}, []api.ValueType{i32}).
				WithParameterNames("buf_ptr", "buf_cap").
				Export(name)
		case abiScalar:
			builder = builder.NewFunctionBuilder().
				WithGoModuleFunction(api.GoModuleFunc(r.scalarCall(e)), nil, []api.ValueType{i32}).
				Export(name)
		default:
			builder = builder.NewFunctionBuilder().
				WithGoModuleFunction(api.GoModuleFunc(r.argsCall(e)), []api.ValueType{i32, i32}, []api.ValueType{api.ValueTypeI64}).
				WithParameterNames("args_ptr", "args_len").
				Export(name)
		}
	}

	builder = builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(r.lastErrorCall), []api.ValueType{i32, i32}, []api.ValueType{i32}).
		WithParameterNames("buf_ptr", "buf_cap").
		Export(LastErrorFunc)

	if _, err := builder.Instantiate(ctx); err != nil {
		return errors.Registration(errors.PhaseHost, ns, "*", err)
	}
	return nil
}

// stringCall serves exports returning a string.
func (r *Runtime) stringCall(e *bridge.Export) func(context.Context, api.Module, []uint64) {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		ptr, capacity := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])

		n, err := r.writeString(ctx, mod, e, ptr, capacity)
		if err != nil {
			r.fail(mod, e, err)
			stack[0] = api.EncodeI32(failed)
			return
		}
		r.errs.forget(mod)
		stack[0] = api.EncodeU32(n)
	}
}

func (r *Runtime) writeString(ctx context.Context, mod api.Module, e *bridge.Export, ptr, capacity uint32) (uint32, error) {
	v, err := e.Invoke(ctx)
	if err != nil {
		return 0, err
	}
	s, ok := v.(string)
	if !ok {
		return 0, errors.TypeMismatch(errors.PhaseRuntime, []string{e.Name}, typeName(v), "string")
	}
	mem := WrapMemory(mod.Memory())
	if mem == nil {
		return 0, errors.NotFound(errors.PhaseRuntime, "memory", "memory")
	}
	return mem.WriteString(ptr, capacity, s)
}

// scalarCall serves parameterless exports returning a 32-bit scalar.
func (r *Runtime) scalarCall(e *bridge.Export) func(context.Context, api.Module, []uint64) {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		v, err := e.Invoke(ctx)
		if err == nil {
			var n int64
			if n, err = toInt64(e, v); err == nil {
				r.errs.forget(mod)
				stack[0] = api.EncodeI32(int32(n))
				return
			}
		}
		r.fail(mod, e, err)
		stack[0] = api.EncodeI32(failed)
	}
}

// argsCall serves exports taking a CBOR argument array.
func (r *Runtime) argsCall(e *bridge.Export) func(context.Context, api.Module, []uint64) {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		ptr, length := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])

		n, err := r.invokeArgs(ctx, mod, e, ptr, length)
		if err != nil {
			r.fail(mod, e, err)
			stack[0] = api.EncodeI64(failed)
			return
		}
		r.errs.forget(mod)
		stack[0] = api.EncodeI64(n)
	}
}

func (r *Runtime) invokeArgs(ctx context.Context, mod api.Module, e *bridge.Export, ptr, length uint32) (int64, error) {
	mem := WrapMemory(mod.Memory())
	if mem == nil {
		return 0, errors.NotFound(errors.PhaseRuntime, "memory", "memory")
	}
	data, err := mem.Read(ptr, length)
	if err != nil {
		return 0, err
	}
	args, err := DecodeArgs(data)
	if err != nil {
		return 0, err
	}
	v, err := e.Invoke(ctx, args...)
	if err != nil {
		return 0, err
	}
	if v == nil {
		return 0, nil
	}
	return toInt64(e, v)
}

func (r *Runtime) lastErrorCall(_ context.Context, mod api.Module, stack []uint64) {
	ptr, capacity := api.DecodeU32(stack[0]), api.DecodeU32(stack[1])

	msg := r.errs.get(mod)
	if msg == "" {
		stack[0] = 0
		return
	}
	mem := WrapMemory(mod.Memory())
	if mem == nil {
		stack[0] = api.EncodeI32(failed)
		return
	}
	n, err := mem.WriteString(ptr, capacity, msg)
	if err != nil {
		stack[0] = api.EncodeI32(failed)
		return
	}
	stack[0] = api.EncodeU32(n)
}

func (r *Runtime) fail(mod api.Module, e *bridge.Export, err error) {
	r.errs.set(mod, err)
	Logger().Debug("guest call failed",
		zap.String("export", e.Namespace+"#"+e.Name),
		zap.String("guest", mod.Name()),
		zap.Error(err))
}

func toInt64(e *bridge.Export, v any) (int64, error) {
	switch n := v.(type) {
	case int:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint32:
		return int64(n), nil
	case uint64:
		return int64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, errors.TypeMismatch(errors.PhaseRuntime, []string{e.Name}, typeName(v), "s64")
	}
}

// typeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
