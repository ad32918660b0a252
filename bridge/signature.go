package bridge

import (
	"fmt"
	"reflect"
	"strings"

	"go.bytecodealliance.org/wit"
)

// Param is a named export parameter.
type Param struct {
	Type wit.Type
	Name string
	// Usage describes the expected value in validation messages,
	// e.g. "a url string".
	Usage string
}

// Signature describes an export's parameters and results.
type Signature struct {
	Params  []Param
	Results []wit.Type
}

// Usage joins the parameter usages: "a url string, and a data string".
func (s Signature) Usage() string {
	parts := make([]string, len(s.Params))
	for i, p := range s.Params {
		parts[i] = p.Usage
		if parts[i] == "" {
			parts[i] = p.Name
		}
	}
	switch len(parts) {
	case 0:
		return "no arguments"
	case 1:
		return parts[0]
	default:
		return strings.Join(parts[:len(parts)-1], ", ") + ", and " + parts[len(parts)-1]
	}
}

// String renders the signature in WIT syntax: "func(url: string) -> s32".
func (s Signature) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.Name + ": " + TypeString(p.Type)
	}
	out := "func(" + strings.Join(params, ", ") + ")"
	switch len(s.Results) {
	case 0:
	case 1:
		out += " -> " + TypeString(s.Results[0])
	default:
		results := make([]string, len(s.Results))
		for i, r := range s.Results {
			results[i] = TypeString(r)
		}
		out += " -> (" + strings.Join(results, ", ") + ")"
	}
	return out
}

// TypeString returns the WIT name of a primitive type.
func TypeString(t wit.Type) string {
	switch v := t.(type) {
	case wit.Bool:
		return "bool"
	case wit.U8:
		return "u8"
	case wit.S8:
		return "s8"
	case wit.U16:
		return "u16"
	case wit.S16:
		return "s16"
	case wit.U32:
		return "u32"
	case wit.S32:
		return "s32"
	case wit.U64:
		return "u64"
	case wit.S64:
		return "s64"
	case wit.F32:
		return "f32"
	case wit.F64:
		return "f64"
	case wit.Char:
		return "char"
	case wit.String:
		return "string"
	case *wit.TypeDef:
		if v.Name != nil {
			return *v.Name
		}
		return "typedef"
	default:
		return fmt.Sprintf("%T", t)
	}
}

// Accepts reports whether a caller value is of the WIT type. Integer types
// accept any Go integer kind; range is not checked.
func Accepts(t wit.Type, v any) bool {
	switch t.(type) {
	case wit.Bool:
		_, ok := v.(bool)
		return ok
	case wit.String:
		_, ok := v.(string)
		return ok
	case wit.Char:
		_, ok := v.(rune)
		return ok
	case wit.U8, wit.S8, wit.U16, wit.S16, wit.U32, wit.S32, wit.U64, wit.S64:
		if v == nil {
			return false
		}
		switch reflect.TypeOf(v).Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return true
		}
		return false
	case wit.F32, wit.F64:
		switch v.(type) {
		case float32, float64:
			return true
		}
		return false
	default:
		return false
	}
}

// typeName returns "nil" for nil values, avoiding reflect.TypeOf(nil) panic.
func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return reflect.TypeOf(v).String()
}
