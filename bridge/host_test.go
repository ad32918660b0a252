package bridge

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/transfer"
	"github.com/wippyai/wasm-bridge/transfer/transfertest"
)

func TestToKebabCase(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Get", "get"},
		{"EngineVersion", "engine-version"},
		{"GetHTTPURL", "get-http-url"},
		{"PostJSONBody", "post-json-body"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, toKebabCase(tt.in), tt.in)
	}
}

func TestRegisterHost(t *testing.T) {
	reg := NewRegistry()
	b := New(transfer.NewAdapter(transfertest.New()))
	require.NoError(t, reg.RegisterHost(b))

	var names []string
	for _, e := range reg.Exports() {
		names = append(names, e.Name)
		assert.Equal(t, DefaultName, e.Namespace)
	}
	assert.Equal(t, []string{"engine-version", "get", "hello", "post", "version"}, names)

	get, ok := reg.Lookup(DefaultName, "get")
	require.True(t, ok)
	assert.Equal(t, "func(url: string, follow-redirects: bool) -> s32", get.Signature.String())

	hello, ok := reg.Lookup(DefaultName, "hello")
	require.True(t, ok)
	assert.Equal(t, "func() -> string", hello.Signature.String())
}

type emptyHost struct{}

func (emptyHost) Namespace() string { return "empty" }

type unnamedHost struct{}

func (unnamedHost) Namespace() string { return "" }

func TestRegisterHostErrors(t *testing.T) {
	reg := NewRegistry()

	err := reg.RegisterHost(emptyHost{})
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseHost, Kind: errors.KindRegistration})
	assert.Empty(t, reg.Namespaces())

	err = reg.RegisterHost(unnamedHost{})
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseHost, Kind: errors.KindInvalidInput})
}

func TestRegisterFunc(t *testing.T) {
	reg := NewRegistry()
	sig := Signature{Params: []Param{{Name: "x", Type: wit.S32{}}}, Results: []wit.Type{wit.S32{}}}

	double := func(_ context.Context, args ...any) (any, error) {
		return args[0].(int) * 2, nil
	}
	require.NoError(t, reg.RegisterFunc("math", "double", double, sig))
	assert.Error(t, reg.RegisterFunc("", "double", double, sig))
	assert.Error(t, reg.RegisterFunc("math", "", double, sig))
	assert.Error(t, reg.RegisterFunc("math", "nil", nil, sig))

	v, err := reg.Call(context.Background(), "math#double", 21)
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = reg.Call(context.Background(), "double", 4)
	require.NoError(t, err)
	assert.Equal(t, 8, v)
}

func TestResolve(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.RegisterHost(New(transfer.NewAdapter(transfertest.New()))))
	require.NoError(t, reg.RegisterHost(New(transfer.NewAdapter(transfertest.New()), WithName("other"))))

	_, err := reg.Resolve("get")
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseRuntime, Kind: errors.KindInvalidInput})

	e, err := reg.Resolve("other#get")
	require.NoError(t, err)
	assert.Equal(t, "other", e.Namespace)

	_, err = reg.Resolve("other#put")
	assert.ErrorIs(t, err, &errors.Error{Phase: errors.PhaseRuntime, Kind: errors.KindNotFound})

	_, err = reg.Call(context.Background(), "missing")
	assert.Error(t, err)

	assert.Equal(t, []string{DefaultName, "other"}, reg.Namespaces())
}

func TestCallID(t *testing.T) {
	assert.Equal(t, "", CallID(context.Background()))

	reg := NewRegistry()
	var seen []string
	record := func(ctx context.Context, _ ...any) (any, error) {
		seen = append(seen, CallID(ctx))
		return nil, nil
	}
	require.NoError(t, reg.RegisterFunc("t", "record", record, Signature{}))

	_, _ = reg.Call(context.Background(), "record")
	_, _ = reg.Call(context.Background(), "record")

	require.Len(t, seen, 2)
	assert.Len(t, seen[0], 36)
	assert.NotEqual(t, seen[0], seen[1])
}

func TestSignatureUsage(t *testing.T) {
	assert.Equal(t, "no arguments", Signature{}.Usage())
	assert.Equal(t, "a url string", Signature{Params: []Param{{Name: "url", Usage: "a url string"}}}.Usage())
	assert.Equal(t, "a url string, and a data string", postSignature.Usage())
	assert.Equal(t, "func() -> (s32, string)", Signature{Results: []wit.Type{wit.S32{}, wit.String{}}}.String())
}

func TestAccepts(t *testing.T) {
	assert.True(t, Accepts(wit.String{}, "x"))
	assert.False(t, Accepts(wit.String{}, 1))
	assert.True(t, Accepts(wit.Bool{}, false))
	assert.False(t, Accepts(wit.Bool{}, nil))
	assert.True(t, Accepts(wit.S32{}, int64(3)))
	assert.True(t, Accepts(wit.U32{}, uint8(3)))
	assert.False(t, Accepts(wit.S32{}, 3.5))
	assert.True(t, Accepts(wit.F64{}, 3.5))
	assert.False(t, Accepts(wit.S32{}, nil))
}
