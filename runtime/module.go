package runtime

import (
	"context"
	"io"
	"sort"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/wasm-bridge/errors"
)

type Module struct {
	runtime  *Runtime
	compiled wazero.CompiledModule
}

// InstanceConfig configures a guest instance.
type InstanceConfig struct {
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
	Env    map[string]string
	// Name must be unique among live instances. Empty names are allowed
	// any number of times.
	Name string
	Args []string
	// StartFunctions run on instantiation. Nil runs "_start" when the
	// guest exports it.
	StartFunctions []string
}

func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	return m.InstantiateWithConfig(ctx, &InstanceConfig{})
}

// InstantiateWithConfig creates an instance with stdio, args and
// environment wired through WASI.
func (m *Module) InstantiateWithConfig(ctx context.Context, cfg *InstanceConfig) (*Instance, error) {
	if cfg == nil {
		cfg = &InstanceConfig{}
	}

	mc := wazero.NewModuleConfig().WithName(cfg.Name)
	if cfg.Stdin != nil {
		mc = mc.WithStdin(cfg.Stdin)
	}
	if cfg.Stdout != nil {
		mc = mc.WithStdout(cfg.Stdout)
	}
	if cfg.Stderr != nil {
		mc = mc.WithStderr(cfg.Stderr)
	}
	if len(cfg.Args) > 0 {
		mc = mc.WithArgs(cfg.Args...)
	}
	keys := make([]string, 0, len(cfg.Env))
	for k := range cfg.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		mc = mc.WithEnv(k, cfg.Env[k])
	}
	if cfg.StartFunctions != nil {
		mc = mc.WithStartFunctions(cfg.StartFunctions...)
	}

	mod, err := m.runtime.rt.InstantiateModule(ctx, m.compiled, mc)
	if err != nil {
		return nil, errors.Instantiation(err)
	}

	return &Instance{
		module: m,
		mod:    mod,
	}, nil
}

type Export struct {
	Name    string
	Params  int
	Results int
}

// Exports lists the module's exported functions sorted by name.
func (m *Module) Exports() []Export {
	fns := m.compiled.ExportedFunctions()
	exports := make([]Export, 0, len(fns))
	for name, def := range fns {
		exports = append(exports, Export{
			Name:    name,
			Params:  len(def.ParamTypes()),
			Results: len(def.ResultTypes()),
		})
	}
	sort.Slice(exports, func(i, j int) bool { return exports[i].Name < exports[j].Name })
	return exports
}

// Imports lists "module#name" for every function the guest imports.
func (m *Module) Imports() []string {
	var out []string
	for _, def := range m.compiled.ImportedFunctions() {
		mod, name, _ := def.Import()
		out = append(out, mod+"#"+name)
	}
	sort.Strings(out)
	return out
}

// Close releases the compiled module.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}
