// Package transfertest provides a recording transfer engine for tests.
package transfertest

import (
	"context"
	"sync"

	"github.com/wippyai/wasm-bridge/transfer"
)

// Outcome scripts the result of one handle's lifetime.
type Outcome struct {
	// CreateErr makes CreateHandle fail.
	CreateErr error
	// ConfigureErr makes the first Configure fail.
	ConfigureErr error
	Message      string
	Code         transfer.Code
}

// Counts is a snapshot of capability invocations.
type Counts struct {
	GlobalInit    int
	GlobalCleanup int
	CreateHandle  int
	Created       int
	Configure     int
	Execute       int
	Destroy       int
	BadDestroy    int
	// CleanupWithLive counts GlobalCleanup calls made while handles were
	// still outstanding.
	CleanupWithLive int
}

// Native returns the number of calls that touched the engine at all.
func (c Counts) Native() int {
	return c.GlobalInit + c.GlobalCleanup + c.CreateHandle + c.Configure + c.Execute + c.Destroy
}

// Engine is a transfer.Engine that records every call and returns
// scripted outcomes. Outcomes pushed with Push are consumed one per
// CreateHandle; when none are queued Default applies.
type Engine struct {
	live    map[transfer.Handle]Outcome
	options map[transfer.Handle][]transfer.Option
	// GlobalInitErr makes GlobalInit fail.
	GlobalInitErr error
	script        []Outcome
	history       [][]transfer.Option
	Default       Outcome
	counts        Counts
	next          transfer.Handle
	VersionNum    uint32
	mu            sync.Mutex
}

var _ transfer.Engine = (*Engine)(nil)

// New creates an engine whose transfers succeed by default.
func New() *Engine {
	return &Engine{
		live:       make(map[transfer.Handle]Outcome),
		options:    make(map[transfer.Handle][]transfer.Option),
		VersionNum: 0x080b01,
	}
}

// Push queues outcomes for upcoming handles.
func (e *Engine) Push(o ...Outcome) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.script = append(e.script, o...)
}

// Counts returns a snapshot of recorded calls.
func (e *Engine) Counts() Counts {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.counts
}

// Live returns the number of created but not destroyed handles.
func (e *Engine) Live() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.live)
}

// Options returns the options applied to every destroyed handle, in order.
func (e *Engine) Options() [][]transfer.Option {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([][]transfer.Option, len(e.history))
	copy(out, e.history)
	return out
}

func (e *Engine) GlobalInit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.counts.GlobalInit++
	return e.GlobalInitErr
}

func (e *Engine) GlobalCleanup() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.counts.GlobalCleanup++
	if len(e.live) > 0 {
		e.counts.CleanupWithLive++
	}
}

func (e *Engine) CreateHandle() (transfer.Handle, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.counts.CreateHandle++

	o := e.Default
	if len(e.script) > 0 {
		o = e.script[0]
		e.script = e.script[1:]
	}
	if o.CreateErr != nil {
		return 0, o.CreateErr
	}

	e.next++
	e.live[e.next] = o
	e.counts.Created++
	return e.next, nil
}

func (e *Engine) Configure(h transfer.Handle, opt transfer.Option) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.counts.Configure++

	o, ok := e.live[h]
	if !ok {
		return &transfer.NativeFailure{Code: transfer.CodeBadFunctionArgument, Message: "unknown handle"}
	}
	if o.ConfigureErr != nil {
		return o.ConfigureErr
	}
	e.options[h] = append(e.options[h], opt)
	return nil
}

func (e *Engine) Execute(_ context.Context, h transfer.Handle) (transfer.Code, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.counts.Execute++

	o, ok := e.live[h]
	if !ok {
		return transfer.CodeBadFunctionArgument, &transfer.NativeFailure{Code: transfer.CodeBadFunctionArgument, Message: "unknown handle"}
	}
	if o.Code.OK() {
		return transfer.CodeOK, nil
	}
	msg := o.Message
	if msg == "" {
		msg = o.Code.String()
	}
	return o.Code, &transfer.NativeFailure{Code: o.Code, Message: msg}
}

func (e *Engine) Destroy(h transfer.Handle) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.counts.Destroy++

	if _, ok := e.live[h]; !ok {
		e.counts.BadDestroy++
		return
	}
	delete(e.live, h)
	e.history = append(e.history, e.options[h])
	delete(e.options, h)
}

func (e *Engine) Version() uint32 {
	return e.VersionNum
}
