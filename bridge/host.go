package bridge

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-bridge/errors"
)

// Func is the shape of every bridge export. Arguments arrive exactly as the
// caller supplied them; the export validates them itself. An export returns
// either a value or an error, never both.
type Func func(ctx context.Context, args ...any) (any, error)

var funcType = reflect.TypeOf(Func(nil))

// Host is the interface for struct-based bridges.
// Exported methods of type Func are registered as exports.
type Host interface {
	// Namespace returns the bridge's module name (e.g., "hello_with_curl").
	Namespace() string
}

// SignedHost extends Host with export signatures keyed by export name.
// Exports without an entry are registered with an empty signature.
type SignedHost interface {
	Host
	Signatures() map[string]Signature
}

// Export is a registered bridge function.
type Export struct {
	Fn        Func
	Namespace string
	Name      string
	Signature Signature
}

// Registry maps namespace and name to exports.
type Registry struct {
	funcs map[string]map[string]*Export
	mu    sync.RWMutex
}

func NewRegistry() *Registry {
	return &Registry{
		funcs: make(map[string]map[string]*Export),
	}
}

// RegisterHost registers every exported method of h whose type is Func.
// Method names are converted from PascalCase to kebab-case
// (EngineVersion -> engine-version).
func (r *Registry) RegisterHost(h Host) error {
	ns := h.Namespace()
	if ns == "" {
		return errors.InvalidInput(errors.PhaseHost, "namespace cannot be empty")
	}

	var sigs map[string]Signature
	if sh, ok := h.(SignedHost); ok {
		sigs = sh.Signatures()
	}

	rv := reflect.ValueOf(h)
	rt := rv.Type()

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.funcs[ns] == nil {
		r.funcs[ns] = make(map[string]*Export)
	}

	for i := 0; i < rt.NumMethod(); i++ {
		method := rt.Method(i)
		if !method.IsExported() {
			continue
		}
		bound := rv.Method(i)
		if !bound.Type().ConvertibleTo(funcType) {
			continue
		}

		name := toKebabCase(method.Name)
		r.funcs[ns][name] = &Export{
			Fn:        bound.Convert(funcType).Interface().(Func),
			Namespace: ns,
			Name:      name,
			Signature: sigs[name],
		}
	}

	if len(r.funcs[ns]) == 0 {
		delete(r.funcs, ns)
		return errors.Registration(errors.PhaseHost, ns, "*",
			errors.InvalidInput(errors.PhaseHost, "host has no exports"))
	}
	return nil
}

// RegisterFunc registers a single export.
func (r *Registry) RegisterFunc(namespace, name string, fn Func, sig Signature) error {
	if namespace == "" {
		return errors.InvalidInput(errors.PhaseHost, "namespace cannot be empty")
	}
	if name == "" {
		return errors.InvalidInput(errors.PhaseHost, "function name cannot be empty")
	}
	if fn == nil {
		return errors.Registration(errors.PhaseHost, namespace, name,
			errors.InvalidInput(errors.PhaseHost, "handler cannot be nil"))
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.funcs[namespace] == nil {
		r.funcs[namespace] = make(map[string]*Export)
	}
	r.funcs[namespace][name] = &Export{
		Fn:        fn,
		Namespace: namespace,
		Name:      name,
		Signature: sig,
	}
	return nil
}

// Lookup returns the export registered under namespace and name.
func (r *Registry) Lookup(namespace, name string) (*Export, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.funcs[namespace][name]
	return e, ok
}

// Resolve finds an export by "namespace#name" or by bare name. A bare name
// must be unique across namespaces.
func (r *Registry) Resolve(ref string) (*Export, error) {
	if ns, name, ok := strings.Cut(ref, "#"); ok {
		if e, ok := r.Lookup(ns, name); ok {
			return e, nil
		}
		return nil, errors.NotFound(errors.PhaseRuntime, "export", ref)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *Export
	for _, funcs := range r.funcs {
		if e, ok := funcs[ref]; ok {
			if found != nil {
				return nil, errors.InvalidInput(errors.PhaseRuntime,
					"export "+ref+" is ambiguous, qualify it as namespace#name")
			}
			found = e
		}
	}
	if found == nil {
		return nil, errors.NotFound(errors.PhaseRuntime, "export", ref)
	}
	return found, nil
}

// Namespaces returns the registered namespaces in sorted order.
func (r *Registry) Namespaces() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.funcs))
	for ns := range r.funcs {
		out = append(out, ns)
	}
	sort.Strings(out)
	return out
}

// Exports returns all exports sorted by namespace and name.
func (r *Registry) Exports() []*Export {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Export
	for _, funcs := range r.funcs {
		for _, e := range funcs {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Namespace != out[j].Namespace {
			return out[i].Namespace < out[j].Namespace
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Call resolves ref and invokes the export. Each call is tagged with a
// fresh call ID, available to the export through CallID.
func (r *Registry) Call(ctx context.Context, ref string, args ...any) (any, error) {
	e, err := r.Resolve(ref)
	if err != nil {
		return nil, err
	}
	return e.Invoke(ctx, args...)
}

// Invoke runs the export with a fresh call ID.
func (e *Export) Invoke(ctx context.Context, args ...any) (any, error) {
	id := uuid.NewString()
	ctx = withCallID(ctx, id)

	log := Logger().With(
		zap.String("call_id", id),
		zap.String("export", e.Namespace+"#"+e.Name),
	)
	log.Debug("call", zap.Int("args", len(args)))

	v, err := e.Fn(ctx, args...)
	if err != nil {
		log.Debug("call failed", zap.Error(err))
		return nil, err
	}
	log.Debug("call returned", zap.Any("value", v))
	return v, nil
}

type callIDKey struct{}

func withCallID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, callIDKey{}, id)
}

// CallID returns the ID of the call ctx belongs to, or "" outside a call.
func CallID(ctx context.Context) string {
	id, _ := ctx.Value(callIDKey{}).(string)
	return id
}

// toKebabCase converts PascalCase to kebab-case.
// Handles acronyms: GetHTTPURL -> get-http-url
func toKebabCase(s string) string {
	if len(s) == 0 {
		return ""
	}

	runes := []rune(s)
	var result strings.Builder

	for i := 0; i < len(runes); i++ {
		r := runes[i]

		if unicode.IsUpper(r) {
			acronymEnd := i + 1
			for acronymEnd < len(runes) && unicode.IsUpper(runes[acronymEnd]) {
				acronymEnd++
			}

			if acronymEnd > i+1 {
				// Last uppercase before lowercase starts next word, not part of acronym
				if acronymEnd < len(runes) && unicode.IsLower(runes[acronymEnd]) {
					acronymEnd--
				}
			}

			if i > 0 {
				result.WriteByte('-')
			}

			for j := i; j < acronymEnd; j++ {
				result.WriteRune(unicode.ToLower(runes[j]))
			}
			i = acronymEnd - 1
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}
