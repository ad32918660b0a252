package runtime

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-bridge/bridge"
	"github.com/wippyai/wasm-bridge/errors"
)

type Runtime struct {
	rt       wazero.Runtime
	hosts    *bridge.Registry
	errs     *lastErrors
	bound    map[string]bool
	wasiErr  error
	mu       sync.Mutex
	wasiOnce sync.Once
}

type config struct {
	hosts      *bridge.Registry
	memoryPage uint32
}

// Option configures a Runtime.
type Option func(*config)

// WithMemoryLimitPages caps guest memory at n 64KiB pages. Zero keeps the
// wazero default.
func WithMemoryLimitPages(n uint32) Option {
	return func(c *config) { c.memoryPage = n }
}

// WithRegistry shares an existing export registry.
func WithRegistry(reg *bridge.Registry) Option {
	return func(c *config) { c.hosts = reg }
}

func New(ctx context.Context, opts ...Option) (*Runtime, error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.hosts == nil {
		cfg.hosts = bridge.NewRegistry()
	}

	rc := wazero.NewRuntimeConfig()
	if cfg.memoryPage > 0 {
		if cfg.memoryPage > 65536 {
			return nil, errors.InvalidInput(errors.PhaseLoad, "memory limit exceeds 65536 pages")
		}
		rc = rc.WithMemoryLimitPages(cfg.memoryPage)
	}

	return &Runtime{
		rt:    wazero.NewRuntimeWithConfig(ctx, rc),
		hosts: cfg.hosts,
		errs:  newLastErrors(),
		bound: make(map[string]bool),
	}, nil
}

// Close releases all runtime resources.
// All instances must be closed before calling this.
func (r *Runtime) Close(ctx context.Context) error {
	return r.rt.Close(ctx)
}

// RegisterHost registers all exports of h.
// Must be called BEFORE loading modules that import these functions.
func (r *Runtime) RegisterHost(h bridge.Host) error {
	return r.hosts.RegisterHost(h)
}

// RegisterFunc registers a single export.
func (r *Runtime) RegisterFunc(namespace, name string, fn bridge.Func, sig bridge.Signature) error {
	return r.hosts.RegisterFunc(namespace, name, fn, sig)
}

func (r *Runtime) Hosts() *bridge.Registry {
	return r.hosts
}

// LoadWASM compiles a core WebAssembly module after instantiating WASI and
// every registered namespace not yet bound.
func (r *Runtime) LoadWASM(ctx context.Context, wasm []byte) (*Module, error) {
	if len(wasm) < 8 || string(wasm[:4]) != "\x00asm" {
		return nil, errors.InvalidInput(errors.PhaseLoad, "not a WebAssembly binary")
	}

	if err := r.instantiateWASI(ctx); err != nil {
		return nil, errors.Load("instantiate wasi", err)
	}

	if err := r.bind(ctx); err != nil {
		return nil, errors.Load("bind hosts", err)
	}

	compiled, err := r.rt.CompileModule(ctx, wasm)
	if err != nil {
		return nil, errors.Load("compile module", err)
	}

	return &Module{
		runtime:  r,
		compiled: compiled,
	}, nil
}

// bind instantiates a host module per namespace. Namespaces are bound once;
// exports registered afterwards are not visible to guests.
func (r *Runtime) bind(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	exports := r.hosts.Exports()
	byNS := make(map[string][]*bridge.Export)
	var order []string
	for _, e := range exports {
		if r.bound[e.Namespace] {
			continue
		}
		if byNS[e.Namespace] == nil {
			order = append(order, e.Namespace)
		}
		byNS[e.Namespace] = append(byNS[e.Namespace], e)
	}

	for _, ns := range order {
		if err := r.instantiateHost(ctx, ns, byNS[ns]); err != nil {
			return err
		}
		r.bound[ns] = true
		Logger().Debug("bound host module", zap.String("namespace", ns), zap.Int("exports", len(byNS[ns])))
	}
	return nil
}
