package transfer

import "context"

// UnsupportedEngine stands in when no transfer engine is available. Every
// capability fails with CodeNotBuilt; nothing silently succeeds.
type UnsupportedEngine struct {
	// Reason is appended to the failure message.
	Reason string
}

var _ Engine = UnsupportedEngine{}

func (u UnsupportedEngine) failure() *NativeFailure {
	msg := "network transfers are unsupported"
	if u.Reason != "" {
		msg += ": " + u.Reason
	}
	return &NativeFailure{Code: CodeNotBuilt, Message: msg}
}

// GlobalInit always fails.
func (u UnsupportedEngine) GlobalInit() error { return u.failure() }

// GlobalCleanup does nothing; GlobalInit never succeeds.
func (u UnsupportedEngine) GlobalCleanup() {}

// CreateHandle always fails.
func (u UnsupportedEngine) CreateHandle() (Handle, error) { return 0, u.failure() }

// Configure always fails.
func (u UnsupportedEngine) Configure(Handle, Option) error { return u.failure() }

// Execute always fails.
func (u UnsupportedEngine) Execute(context.Context, Handle) (Code, error) {
	return CodeNotBuilt, u.failure()
}

// Destroy does nothing.
func (u UnsupportedEngine) Destroy(Handle) {}

// Version returns 0.
func (u UnsupportedEngine) Version() uint32 { return 0 }
