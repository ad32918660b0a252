package runtime

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-bridge/errors"
)

type Instance struct {
	module *Module
	mod    api.Module
}

// Call invokes an exported guest function with raw wasm values.
func (i *Instance) Call(ctx context.Context, name string, params ...uint64) ([]uint64, error) {
	if i.mod == nil {
		return nil, errors.NotInitialized(errors.PhaseRuntime, "instance")
	}
	fn := i.mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "function", name)
	}
	results, err := fn.Call(ctx, params...)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseRuntime, errors.KindInvalidData, err, "call "+name)
	}
	return results, nil
}

// Memory returns the guest's exported memory, or nil.
func (i *Instance) Memory() *Memory {
	return WrapMemory(i.mod.Memory())
}

// LastError returns the message of the last failed bridge call made by this
// instance, or "".
func (i *Instance) LastError() string {
	return i.module.runtime.errs.get(i.mod)
}

// Module returns the wazero module backing the instance.
func (i *Instance) Module() api.Module {
	return i.mod
}

func (i *Instance) Close(ctx context.Context) error {
	i.module.runtime.errs.forget(i.mod)
	return i.mod.Close(ctx)
}
