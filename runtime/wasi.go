package runtime

import (
	"context"

	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/zap"
)

// instantiateWASI instantiates wasi_snapshot_preview1 once per runtime.
func (r *Runtime) instantiateWASI(ctx context.Context) error {
	r.wasiOnce.Do(func() {
		if _, err := wasi_snapshot_preview1.Instantiate(ctx, r.rt); err != nil {
			r.wasiErr = err
			Logger().Error("wasi instantiation failed", zap.Error(err))
		}
	})
	return r.wasiErr
}
