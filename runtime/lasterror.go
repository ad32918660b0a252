package runtime

import (
	stderrors "errors"
	"sync"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/wasm-bridge/errors"
)

// lastErrors keeps the most recent failure message per guest instance.
type lastErrors struct {
	msgs map[api.Module]string
	mu   sync.Mutex
}

func newLastErrors() *lastErrors {
	return &lastErrors{msgs: make(map[api.Module]string)}
}

func (l *lastErrors) set(mod api.Module, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err == nil {
		delete(l.msgs, mod)
		return
	}
	l.msgs[mod] = message(err)
}

func (l *lastErrors) get(mod api.Module) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.msgs[mod]
}

func (l *lastErrors) forget(mod api.Module) {
	l.set(mod, nil)
}

// message returns the caller-visible text of err.
func message(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Message()
	}
	return err.Error()
}
