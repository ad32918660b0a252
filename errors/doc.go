// Package errors provides structured error types for the wasm-bridge library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the call context a bridge failure needs for diagnosis:
// module name, operation, URL, the second argument, Go/WIT type names and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseValidate, errors.KindTypeMismatch).
//		Op("get").
//		Path("arg1").
//		GoType("float64").
//		WitType("bool").
//		Detail("Wrong type of arguments!").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.NotFound(errors.PhaseRuntime, "export", "fetch")
//	err := errors.OutOfBounds(errors.PhaseDecode, []string{"args"}, ptr, n)
//
// All errors implement the standard error interface and support errors.Is/As.
// The sentinels ErrArity, ErrTypeMismatch, ErrNativeFailure and
// ErrResourceAcquisition match any error of the same Phase and Kind.
package errors
