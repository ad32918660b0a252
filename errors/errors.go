package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseValidate Phase = "validate" // caller argument validation
	PhaseTransfer Phase = "transfer" // transfer engine execution
	PhaseAcquire  Phase = "acquire"  // handle or global state acquisition
	PhaseHost     Phase = "host"     // host function registration
	PhaseLoad     Phase = "load"     // guest module loading
	PhaseRuntime  Phase = "runtime"  // guest runtime operations
	PhaseDecode   Phase = "decode"   // guest argument decoding
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindArity               Kind = "arity"
	KindTypeMismatch        Kind = "type_mismatch"
	KindNativeFailure       Kind = "native_failure"
	KindResourceAcquisition Kind = "resource_acquisition"
	KindOutOfBounds         Kind = "out_of_bounds"
	KindInvalidData         Kind = "invalid_data"
	KindNotFound            Kind = "not_found"
	KindNotInitialized      Kind = "not_initialized"
	KindInvalidInput        Kind = "invalid_input"
	KindRegistration        Kind = "registration"
	KindInstantiation       Kind = "instantiation"
)

// Sentinels for errors.Is checks by Phase and Kind.
var (
	ErrArity               = &Error{Phase: PhaseValidate, Kind: KindArity}
	ErrTypeMismatch        = &Error{Phase: PhaseValidate, Kind: KindTypeMismatch}
	ErrNativeFailure       = &Error{Phase: PhaseTransfer, Kind: KindNativeFailure}
	ErrResourceAcquisition = &Error{Phase: PhaseAcquire, Kind: KindResourceAcquisition}
)

// Error is the structured error type used throughout the bridge.
// It is the only error value handed back to a bridge caller.
type Error struct {
	Value   any
	Cause   error
	Phase   Phase
	Kind    Kind
	Module  string
	Op      string
	URL     string
	Arg     string
	GoType  string
	WitType string
	Detail  string
	Path    []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Op != "" || len(e.Path) > 0 {
		b.WriteString(" at ")
		parts := e.Path
		if e.Op != "" {
			parts = append([]string{e.Op}, e.Path...)
		}
		b.WriteString(strings.Join(parts, "."))
	}

	if e.GoType != "" || e.WitType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.WitType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
			b.WriteString(", WIT type ")
			b.WriteString(e.WitType)
		} else if e.GoType != "" {
			b.WriteString("Go type ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("WIT type ")
			b.WriteString(e.WitType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.WitType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Message returns the caller-visible message without phase and kind
// decoration. It falls back to Error when no detail was recorded.
func (e *Error) Message() string {
	if e.Detail == "" {
		return e.Error()
	}
	return e.Detail
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the argument path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Module sets the bridge module name
func (b *Builder) Module(name string) *Builder {
	b.err.Module = name
	return b
}

// Op sets the attempted operation
func (b *Builder) Op(op string) *Builder {
	b.err.Op = op
	return b
}

// URL sets the request URL
func (b *Builder) URL(u string) *Builder {
	b.err.URL = u
	return b
}

// Arg sets the string form of the operation's second argument
func (b *Builder) Arg(a string) *Builder {
	b.err.Arg = a
	return b
}

// GoType sets the Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WitType sets the WIT type name
func (b *Builder) WitType(t string) *Builder {
	b.err.WitType = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, goType, witType string) *Error {
	return &Error{
		Phase:   phase,
		Kind:    KindTypeMismatch,
		Path:    path,
		GoType:  goType,
		WitType: witType,
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, offset, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("range [%d, %d) out of bounds", offset, offset+length),
		Value:  offset,
	}
}

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// NotInitialized creates a not-initialized error for missing state
func NotInitialized(phase Phase, component string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotInitialized,
		Detail: fmt.Sprintf("%s not initialized", component),
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Registration creates a registration error
func Registration(phase Phase, namespace, name string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindRegistration,
		Detail: fmt.Sprintf("register %s#%s", namespace, name),
		Cause:  cause,
	}
}

// Instantiation creates an instantiation error
func Instantiation(cause error) *Error {
	return &Error{
		Phase:  PhaseRuntime,
		Kind:   KindInstantiation,
		Detail: "instantiate module",
		Cause:  cause,
	}
}

// Load creates a module loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
