package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tetratelabs/wazero/sys"
	"go.bytecodealliance.org/wit"

	"github.com/wippyai/wasm-bridge/bridge"
)

func TestConvertArg(t *testing.T) {
	tests := []struct {
		typ  wit.Type
		want any
		in   string
	}{
		{wit.String{}, "true", "true"},
		{wit.Bool{}, true, "true"},
		{wit.Bool{}, false, "0"},
		{wit.Bool{}, "maybe", "maybe"},
		{wit.U32{}, uint32(7), "7"},
		{wit.U32{}, "-1", "-1"},
		{wit.S32{}, int32(-3), "-3"},
		{wit.U64{}, uint64(1 << 40), "1099511627776"},
		{wit.S64{}, int64(-9), "-9"},
		{wit.F32{}, float32(1.5), "1.5"},
		{wit.F64{}, 2.25, "2.25"},
		{wit.Char{}, "x", "x"},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%T/%s", tt.typ, tt.in), func(t *testing.T) {
			assert.Equal(t, tt.want, convertArg(tt.in, tt.typ))
		})
	}
}

func TestParseArgs(t *testing.T) {
	sig := bridge.Signature{Params: []bridge.Param{
		{Name: "url", Type: wit.String{}},
		{Name: "follow-redirects", Type: wit.Bool{}},
	}}

	assert.Equal(t, []any{"http://x", true}, parseArgs(sig, []string{"http://x", "true"}))
	assert.Equal(t, []any{"http://x", true, "extra"}, parseArgs(sig, []string{"http://x", "true", "extra"}))
	assert.Equal(t, []any{"http://x"}, parseArgs(sig, []string{"http://x"}))
	assert.Empty(t, parseArgs(sig, nil))
}

func TestParseEnv(t *testing.T) {
	assert.Nil(t, parseEnv(""))
	assert.Equal(t, map[string]string{"A": "1", "B": "x=y"}, parseEnv("A=1,B=x=y,novalue,=skip"))
}

func TestFormatResult(t *testing.T) {
	assert.Equal(t, "hi", formatResult("hi"))
	assert.Equal(t, "<nil>", formatResult(nil))
	assert.Equal(t, "42", formatResult(42))
}

func TestExitCode(t *testing.T) {
	code, ok := exitCode(fmt.Errorf("wrapped: %w", sys.NewExitError(3)))
	assert.True(t, ok)
	assert.Equal(t, uint32(3), code)

	_, ok = exitCode(fmt.Errorf("plain"))
	assert.False(t, ok)
}

func TestMessage(t *testing.T) {
	a, _ := setup(t, nil)
	_, err := a.call(context.Background(), "get", []string{"http://x"})
	assert.Equal(t, "Wrong number of arguments! Please supply a url string, and a follow redirects boolean.", message(err))
	assert.Equal(t, "read file: boom", message(fmt.Errorf("read file: %w", stderrors.New("boom"))))
}

func TestCheckNamespace(t *testing.T) {
	imports := []string{"hello_with_curl#get", "wasi_snapshot_preview1#fd_write"}

	assert.NoError(t, checkNamespace(imports, "hello_with_curl"))
	assert.NoError(t, checkNamespace([]string{"fetcher#get"}, "fetcher"))
	assert.NoError(t, checkNamespace(nil, "fetcher"))

	err := checkNamespace(imports, "fetcher")
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "hello_with_curl#get")
		assert.Contains(t, err.Error(), `"fetcher"`)
	}
}
