// Command bridge calls hello_with_curl exports from the command line, in an
// interactive TUI, or from a wasip1 guest module.
package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/wippyai/wasm-bridge/config"
	"github.com/wippyai/wasm-bridge/errors"
)

func main() {
	var (
		cfgPath     = flag.String("config", "", "Path to config file (default: bridge.yaml search, BRIDGE_CONFIG)")
		callRef     = flag.String("call", "", "Export to call, e.g. get or hello_with_curl#post; remaining args are passed to it")
		list        = flag.Bool("list", false, "List bridge exports and exit")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		wasmFile    = flag.String("wasm", "", "Path to wasip1 guest module")
		funcName    = flag.String("func", "", "Guest function to call instead of _start")
		envVars     = flag.String("env", "", "Guest environment variables (KEY=VAL,KEY2=VAL2)")
	)
	flag.Parse()

	if err := run(*cfgPath, *callRef, *wasmFile, *funcName, *envVars, *list, *interactive, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", message(err))
		os.Exit(1)
	}
}

// message prefers the caller-visible bridge message over the decorated form.
func message(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Message()
	}
	return err.Error()
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: bridge -call <export> [args...]")
	fmt.Fprintln(os.Stderr, "       bridge -list")
	fmt.Fprintln(os.Stderr, "       bridge -i  (interactive mode)")
	fmt.Fprintln(os.Stderr, "       bridge -wasm <guest.wasm> [-func name] [-env K=V,...] [args...]")
}

func run(cfgPath, callRef, wasmFile, funcName, envStr string, listOnly, interactive bool, args []string) error {
	if callRef == "" && wasmFile == "" && !listOnly && !interactive {
		usage()
		return fmt.Errorf("nothing to do")
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := context.Background()

	switch {
	case listOnly:
		for _, line := range a.list() {
			fmt.Println(line)
		}
		return nil

	case interactive:
		if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
			return fmt.Errorf("interactive mode requires a terminal")
		}
		// one engine init for the whole session
		if err := a.hold(); err != nil {
			return err
		}
		return runInteractive(a)

	case wasmFile != "":
		return a.runGuest(ctx, wasmFile, funcName, args, parseEnv(envStr))

	default:
		result, err := a.call(ctx, callRef, args)
		if err != nil {
			return err
		}
		fmt.Println(formatResult(result))
		return nil
	}
}
