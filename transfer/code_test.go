package transfer

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodeString(t *testing.T) {
	assert.Equal(t, "No error", CodeOK.String())
	assert.Equal(t, "Couldn't connect to server", CodeCouldntConnect.String())
	assert.Equal(t, "Unknown error (99)", Code(99).String())
	assert.True(t, CodeOK.OK())
	assert.False(t, CodeRecvError.OK())
}

func TestFailure(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	f := Failure(CodeCouldntConnect, cause)

	assert.Equal(t, CodeCouldntConnect, f.Code)
	assert.Equal(t, "Couldn't connect to server: dial tcp: connection refused", f.Error())
	assert.ErrorIs(t, f, cause)

	bare := &NativeFailure{Code: CodeOperationTimedOut}
	assert.Equal(t, "Timeout was reached", bare.Error())
}

func TestAsNativeFailure(t *testing.T) {
	assert.Nil(t, AsNativeFailure(nil, CodeFailedInit))

	orig := &NativeFailure{Code: CodeNotBuilt, Message: "unsupported"}
	wrapped := fmt.Errorf("context: %w", orig)
	got := AsNativeFailure(wrapped, CodeFailedInit)
	require.NotNil(t, got)
	assert.Same(t, orig, got)

	foreign := errors.New("boom")
	got = AsNativeFailure(foreign, CodeFailedInit)
	assert.Equal(t, CodeFailedInit, got.Code)
	assert.ErrorIs(t, got, foreign)
}

func TestVersionString(t *testing.T) {
	assert.Equal(t, "8.11.1", VersionString(0x080b01))
	assert.Equal(t, "0.0.0", VersionString(0))
}

func TestGoVersion(t *testing.T) {
	assert.Equal(t, uint32(0x011904), goVersion("go1.25.4"))
	assert.Equal(t, uint32(0x011600), goVersion("go1.22"))
	assert.Equal(t, uint32(0), goVersion("devel go1.26-abcdef"))
}
