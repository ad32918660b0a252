package transfer

import (
	"context"
	"fmt"

	"github.com/wippyai/wasm-bridge/resource"
)

// Handle identifies one transfer inside an engine. Zero is never valid.
type Handle = resource.Handle

// Engine is the native transfer engine boundary.
//
// GlobalInit and GlobalCleanup bracket all handle use. A handle is created,
// configured, executed at most once and then destroyed by its owner.
type Engine interface {
	GlobalInit() error
	GlobalCleanup()
	CreateHandle() (Handle, error)
	Configure(h Handle, opt Option) error
	Execute(ctx context.Context, h Handle) (Code, error)
	Destroy(h Handle)
	// Version returns the engine version packed as 0xXXYYZZ.
	Version() uint32
}

// OptionKind names a per-handle setting.
type OptionKind uint8

const (
	OptionURL OptionKind = iota + 1
	OptionFollowLocation
	OptionPostFields
)

func (k OptionKind) String() string {
	switch k {
	case OptionURL:
		return "URL"
	case OptionFollowLocation:
		return "FOLLOWLOCATION"
	case OptionPostFields:
		return "POSTFIELDS"
	default:
		return "UNKNOWN"
	}
}

// Option is a single per-handle setting.
type Option struct {
	Str  string
	Kind OptionKind
	Flag bool
}

// OptURL sets the target URL.
func OptURL(u string) Option {
	return Option{Kind: OptionURL, Str: u}
}

// OptFollowLocation enables or disables redirect following.
func OptFollowLocation(follow bool) Option {
	return Option{Kind: OptionFollowLocation, Flag: follow}
}

// OptPostFields turns the transfer into a POST with the given body.
func OptPostFields(body string) Option {
	return Option{Kind: OptionPostFields, Str: body}
}

// VersionString renders a packed engine version as "X.Y.Z".
func VersionString(v uint32) string {
	return fmt.Sprintf("%d.%d.%d", v>>16&0xff, v>>8&0xff, v&0xff)
}
