package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:   PhaseValidate,
				Kind:    KindTypeMismatch,
				Op:      "get",
				Path:    []string{"arg1"},
				GoType:  "float64",
				WitType: "bool",
				Detail:  "Wrong type of arguments!",
			},
			contains: []string{"[validate]", "type_mismatch", "get.arg1", "float64", "bool", "Wrong type"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseTransfer,
				Kind:  KindNativeFailure,
			},
			contains: []string{"[transfer]", "native_failure"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseAcquire,
				Kind:   KindResourceAcquisition,
				Detail: "create handle",
				Cause:  errors.New("failed init"),
			},
			contains: []string{"[acquire]", "resource_acquisition", "create handle", "caused by", "failed init"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Message(t *testing.T) {
	err := &Error{Phase: PhaseTransfer, Kind: KindNativeFailure, Detail: "connect failed"}
	if err.Message() != "connect failed" {
		t.Errorf("Message() = %q, want detail", err.Message())
	}

	bare := &Error{Phase: PhaseTransfer, Kind: KindNativeFailure}
	if bare.Message() != bare.Error() {
		t.Errorf("Message() without detail = %q, want %q", bare.Message(), bare.Error())
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseTransfer,
		Kind:  KindNativeFailure,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}

	if !errors.Is(errors.Unwrap(err), cause) {
		t.Error("errors.Unwrap did not return cause")
	}
}

func TestError_Is(t *testing.T) {
	err := &Error{
		Phase: PhaseValidate,
		Kind:  KindTypeMismatch,
		Path:  []string{"arg0"},
	}

	if !err.Is(&Error{Phase: PhaseValidate, Kind: KindTypeMismatch}) {
		t.Error("Is should match same phase and kind")
	}

	if err.Is(&Error{Phase: PhaseTransfer, Kind: KindTypeMismatch}) {
		t.Error("Is should not match different phase")
	}

	if err.Is(&Error{Phase: PhaseValidate, Kind: KindArity}) {
		t.Error("Is should not match different kind")
	}

	if !errors.Is(err, ErrTypeMismatch) {
		t.Error("errors.Is should match the sentinel")
	}
	if errors.Is(err, ErrArity) {
		t.Error("errors.Is should not match another sentinel")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseTransfer, KindNativeFailure).
		Module("hello_addon").
		Op("post").
		URL("http://localhost/x").
		Arg("name=value").
		Path("arg0").
		GoType("string").
		WitType("string").
		Value(7).
		Cause(cause).
		Detail("code %d", 7).
		Build()

	if err.Phase != PhaseTransfer {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseTransfer)
	}
	if err.Kind != KindNativeFailure {
		t.Errorf("Kind = %v, want %v", err.Kind, KindNativeFailure)
	}
	if err.Module != "hello_addon" || err.Op != "post" {
		t.Errorf("Module=%q Op=%q", err.Module, err.Op)
	}
	if err.URL != "http://localhost/x" || err.Arg != "name=value" {
		t.Errorf("URL=%q Arg=%q", err.URL, err.Arg)
	}
	if len(err.Path) != 1 || err.Path[0] != "arg0" {
		t.Errorf("Path = %v, want [arg0]", err.Path)
	}
	if err.Value != 7 {
		t.Errorf("Value = %v, want 7", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "code 7" {
		t.Errorf("Detail = %v, want 'code 7'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	t.Run("TypeMismatch", func(t *testing.T) {
		err := TypeMismatch(PhaseValidate, []string{"arg0"}, "int", "string")
		if err.Kind != KindTypeMismatch {
			t.Errorf("Kind = %v, want %v", err.Kind, KindTypeMismatch)
		}
		if err.GoType != "int" || err.WitType != "string" {
			t.Errorf("GoType=%v WitType=%v", err.GoType, err.WitType)
		}
	})

	t.Run("OutOfBounds", func(t *testing.T) {
		err := OutOfBounds(PhaseDecode, []string{"args"}, 10, 5)
		if err.Kind != KindOutOfBounds {
			t.Errorf("Kind = %v, want %v", err.Kind, KindOutOfBounds)
		}
		if err.Value != 10 {
			t.Errorf("Value = %v, want 10", err.Value)
		}
		if !strings.Contains(err.Detail, "[10, 15)") {
			t.Errorf("Detail = %q, should contain range", err.Detail)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		err := NotFound(PhaseRuntime, "export", "put")
		if err.Kind != KindNotFound {
			t.Errorf("Kind = %v, want %v", err.Kind, KindNotFound)
		}
		if !strings.Contains(err.Detail, `"put"`) {
			t.Errorf("Detail = %q, should quote name", err.Detail)
		}
	})

	t.Run("Registration", func(t *testing.T) {
		cause := errors.New("dup")
		err := Registration(PhaseHost, "hello:addon", "get", cause)
		if !strings.Contains(err.Error(), "hello:addon#get") {
			t.Errorf("Error() = %q, should name the function", err.Error())
		}
		if !errors.Is(err, cause) {
			t.Error("Registration should unwrap to its cause")
		}
	})
}
