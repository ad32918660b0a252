package transfer

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// Adapter performs single requests through an Engine.
type Adapter struct {
	engine Engine
	global *GlobalState
}

// NewAdapter creates an adapter over e. Adapters sharing an engine share
// its global state gate.
func NewAdapter(e Engine) *Adapter {
	return &Adapter{engine: e, global: GlobalStateFor(e)}
}

// Engine returns the underlying engine.
func (a *Adapter) Engine() Engine {
	return a.engine
}

// Global returns the engine's global state gate.
func (a *Adapter) Global() *GlobalState {
	return a.global
}

// Version returns the engine version.
func (a *Adapter) Version() uint32 {
	return a.engine.Version()
}

// Hold keeps the engine's global state alive until the returned release
// function is called. Release is idempotent.
func (a *Adapter) Hold() (release func(), err error) {
	if err := a.global.Acquire(); err != nil {
		return nil, acquisitionFailure(err)
	}
	var once sync.Once
	return func() { once.Do(a.global.Release) }, nil
}

// Perform runs one request to completion and returns the engine's result
// code. Any failure is a *NativeFailure. The handle created for the request
// is destroyed, and the global state reference released, on every path.
func (a *Adapter) Perform(ctx context.Context, req Request) (Code, error) {
	if err := req.Validate(); err != nil {
		nf := AsNativeFailure(err, CodeBadFunctionArgument)
		return nf.Code, nf
	}

	if err := a.global.Acquire(); err != nil {
		nf := acquisitionFailure(err)
		return nf.Code, nf
	}
	defer a.global.Release()

	h, err := a.engine.CreateHandle()
	if err != nil {
		nf := acquisitionFailure(err)
		return nf.Code, nf
	}
	// Deferred after Release so it runs first.
	defer a.engine.Destroy(h)

	log := Logger().With(
		zap.Uint32("handle", uint32(h)),
		zap.Stringer("mode", req.Mode),
		zap.String("url", req.URL),
	)

	for _, opt := range req.Options() {
		if err := a.engine.Configure(h, opt); err != nil {
			nf := AsNativeFailure(err, CodeBadFunctionArgument)
			log.Debug("configure failed", zap.Stringer("option", opt.Kind), zap.Error(nf))
			return nf.Code, nf
		}
	}

	code, err := a.engine.Execute(ctx, h)
	if err == nil && !code.OK() {
		err = Failure(code, nil)
	}
	if err != nil {
		nf := AsNativeFailure(err, CodeRecvError)
		log.Debug("transfer failed", zap.Int("code", int(nf.Code)), zap.Error(nf))
		return nf.Code, nf
	}

	log.Debug("transfer complete")
	return CodeOK, nil
}

// acquisitionFailure copies the engine's failure before flagging it, so a
// failure value shared by the engine is never modified.
func acquisitionFailure(err error) *NativeFailure {
	nf := *AsNativeFailure(err, CodeFailedInit)
	nf.Acquisition = true
	return &nf
}
