package transfer

import "go.uber.org/zap"

// Options selects and configures the engine returned by Probe.
type Options struct {
	HTTP     HTTPOptions
	Disabled bool
}

// Available reports whether this build includes a network transfer engine.
func Available() bool {
	return networkBuilt
}

// Probe returns the engine for this host: an HTTPEngine when networking is
// built in and not disabled, an UnsupportedEngine otherwise.
func Probe(opts Options) Engine {
	switch {
	case !networkBuilt:
		Logger().Info("transfer engine unavailable", zap.String("reason", "built with nonet"))
		return UnsupportedEngine{Reason: "built with nonet tag"}
	case opts.Disabled:
		Logger().Info("transfer engine unavailable", zap.String("reason", "disabled by configuration"))
		return UnsupportedEngine{Reason: "disabled by configuration"}
	default:
		return NewHTTPEngine(opts.HTTP)
	}
}
