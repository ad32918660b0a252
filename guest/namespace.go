package guest

// Namespace is the host module every import of this package is bound to.
// go:wasmimport needs a literal module name, so a host that renames its
// bridge (config name) cannot serve guests built with this package.
const Namespace = "hello_with_curl"
