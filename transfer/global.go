package transfer

import (
	"reflect"
	"sync"

	"go.uber.org/zap"
)

// GlobalState is a reference counted gate around an engine's
// GlobalInit/GlobalCleanup pair. All methods are safe for concurrent use.
type GlobalState struct {
	engine Engine
	mu     sync.Mutex
	refs   int
}

var (
	gates   = make(map[Engine]*GlobalState)
	gatesMu sync.Mutex
)

// NewGlobalState creates a gate for the engine that is not shared with any
// other caller. Nothing is initialized until the first Acquire.
func NewGlobalState(e Engine) *GlobalState {
	return &GlobalState{engine: e}
}

// GlobalStateFor returns the process-wide gate for e. Every caller passing
// the same engine gets the same gate, so global state stays initialized
// while any of them holds a reference. Engines of non-comparable types get
// a private gate.
func GlobalStateFor(e Engine) *GlobalState {
	if e == nil || !reflect.TypeOf(e).Comparable() {
		return NewGlobalState(e)
	}

	gatesMu.Lock()
	defer gatesMu.Unlock()

	g, ok := gates[e]
	if !ok {
		g = NewGlobalState(e)
		gates[e] = g
	}
	return g
}

// Acquire takes a reference, running GlobalInit if this is the first one.
// On init failure no reference is taken.
func (g *GlobalState) Acquire() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.refs == 0 {
		if err := g.engine.GlobalInit(); err != nil {
			Logger().Debug("global init failed", zap.Error(err))
			return err
		}
		Logger().Debug("global state initialized")
	}
	g.refs++
	return nil
}

// Release drops a reference, running GlobalCleanup when the last one goes.
// Releasing without a matching Acquire is ignored.
func (g *GlobalState) Release() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.refs == 0 {
		Logger().Warn("global state released without acquire")
		return
	}
	g.refs--
	if g.refs == 0 {
		g.engine.GlobalCleanup()
		Logger().Debug("global state cleaned up")
	}
}

// Refs returns the number of outstanding references.
func (g *GlobalState) Refs() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.refs
}

// Active reports whether the engine's global state is initialized.
func (g *GlobalState) Active() bool {
	return g.Refs() > 0
}
