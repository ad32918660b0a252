package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-bridge/bridge"
	"github.com/wippyai/wasm-bridge/config"
	"github.com/wippyai/wasm-bridge/logging"
	"github.com/wippyai/wasm-bridge/runtime"
	"github.com/wippyai/wasm-bridge/transfer"
)

// app wires configuration, logging, the transfer engine and the bridge.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	adapter  *transfer.Adapter
	bridge   *bridge.Bridge
	registry *bridge.Registry
	restore  func()
	release  func()
}

func newApp(cfg *config.Config) (*app, error) {
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	return newAppWithLogger(cfg, log, transfer.Probe(cfg.TransferOptions()))
}

func newAppWithLogger(cfg *config.Config, log *zap.Logger, engine transfer.Engine) (*app, error) {
	a := &app{
		cfg:      cfg,
		log:      log,
		restore:  logging.Install(log),
		adapter:  transfer.NewAdapter(engine),
		registry: bridge.NewRegistry(),
	}
	a.bridge = bridge.New(a.adapter, cfg.BridgeOptions()...)
	if err := a.registry.RegisterHost(a.bridge); err != nil {
		a.Close()
		return nil, err
	}

	if cfg.Transfer.HoldGlobal {
		if err := a.hold(); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

// hold keeps engine global state initialized until Close.
func (a *app) hold() error {
	if a.release != nil {
		return nil
	}
	release, err := a.adapter.Hold()
	if err != nil {
		return err
	}
	a.release = release
	return nil
}

// call resolves ref ("name" or "namespace#name"), converts raw CLI
// arguments with the export signature and invokes it.
func (a *app) call(ctx context.Context, ref string, raw []string) (any, error) {
	exp, err := a.registry.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return exp.Invoke(ctx, parseArgs(exp.Signature, raw)...)
}

func (a *app) list() []string {
	exports := a.registry.Exports()
	out := make([]string, 0, len(exports))
	for _, e := range exports {
		out = append(out, fmt.Sprintf("%s#%s: %s", e.Namespace, e.Name, e.Signature))
	}
	return out
}

// runGuest loads a wasip1 module with the bridge bound as host imports and
// runs its start function, or fn when given.
func (a *app) runGuest(ctx context.Context, path, fn string, args []string, env map[string]string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	var opts []runtime.Option
	opts = append(opts, runtime.WithRegistry(a.registry))
	if pages := a.cfg.Runtime.MemoryLimitPages; pages > 0 {
		opts = append(opts, runtime.WithMemoryLimitPages(pages))
	}
	rt, err := runtime.New(ctx, opts...)
	if err != nil {
		return fmt.Errorf("create runtime: %w", err)
	}
	defer rt.Close(ctx)

	mod, err := rt.LoadWASM(ctx, data)
	if err != nil {
		return fmt.Errorf("load module: %w", err)
	}
	defer mod.Close(ctx)
	if err := checkNamespace(mod.Imports(), a.bridge.Namespace()); err != nil {
		return err
	}

	icfg := &runtime.InstanceConfig{
		Stdin:  os.Stdin,
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Env:    env,
		Args:   append([]string{path}, args...),
	}
	if fn != "" {
		icfg.StartFunctions = []string{}
	}

	a.log.Info("instantiating guest", zap.String("file", path), zap.Strings("imports", mod.Imports()))
	inst, err := mod.InstantiateWithConfig(ctx, icfg)
	if err != nil {
		if code, ok := exitCode(err); ok && code == 0 {
			return nil
		}
		return fmt.Errorf("instantiate: %w", err)
	}
	defer inst.Close(ctx)

	if fn == "" {
		return nil
	}
	results, err := inst.Call(ctx, fn)
	if err != nil {
		if msg := inst.LastError(); msg != "" {
			return fmt.Errorf("call %s: %w (last bridge error: %s)", fn, err, msg)
		}
		return fmt.Errorf("call %s: %w", fn, err)
	}
	fmt.Printf("Result: %v\n", results)
	return nil
}

func (a *app) Close() {
	if a.release != nil {
		a.release()
		a.release = nil
	}
	if a.restore != nil {
		a.restore()
		a.restore = nil
	}
	_ = a.log.Sync()
}
