package guest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wippyai/wasm-bridge/bridge"
	"github.com/wippyai/wasm-bridge/guest"
)

func TestNamespaceMatchesDefaultBridge(t *testing.T) {
	assert.Equal(t, bridge.DefaultName, guest.Namespace)
}
