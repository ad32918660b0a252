package bridge

import (
	"context"
	stderrors "errors"
	"fmt"

	"go.bytecodealliance.org/wit"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-bridge/errors"
	"github.com/wippyai/wasm-bridge/transfer"
)

const (
	DefaultName       = "hello_with_curl"
	DefaultVersion    = "1.0.0"
	DefaultAPIVersion = 9
)

// Bridge is the HTTP GET/POST call bridge. Its Func methods are the
// caller-facing exports: hello, version, engine-version, get and post.
// A Bridge holds no per-call state and is safe for concurrent use.
type Bridge struct {
	adapter    *transfer.Adapter
	name       string
	version    string
	hello      string
	apiVersion int
}

var _ SignedHost = (*Bridge)(nil)

// Option configures a Bridge.
type Option func(*Bridge)

// WithName sets the bridge module name used in greetings and error messages.
func WithName(name string) Option {
	return func(b *Bridge) { b.name = name }
}

// WithVersion sets the version reported by hello.
func WithVersion(v string) Option {
	return func(b *Bridge) { b.version = v }
}

// WithAPIVersion sets the number returned by version.
func WithAPIVersion(v int) Option {
	return func(b *Bridge) { b.apiVersion = v }
}

// New creates a bridge performing transfers through adapter.
func New(adapter *transfer.Adapter, opts ...Option) *Bridge {
	b := &Bridge{
		adapter:    adapter,
		name:       DefaultName,
		version:    DefaultVersion,
		apiVersion: DefaultAPIVersion,
	}
	for _, opt := range opts {
		opt(b)
	}
	b.hello = fmt.Sprintf("%s v.%s is online!", b.module(), b.version)
	return b
}

// Namespace returns the bridge name.
func (b *Bridge) Namespace() string {
	return b.name
}

// Adapter returns the transfer adapter.
func (b *Bridge) Adapter() *transfer.Adapter {
	return b.adapter
}

func (b *Bridge) module() string {
	return b.name + ".node"
}

var (
	getSignature = Signature{
		Params: []Param{
			{Name: "url", Type: wit.String{}, Usage: "a url string"},
			{Name: "follow-redirects", Type: wit.Bool{}, Usage: "a follow redirects boolean"},
		},
		Results: []wit.Type{wit.S32{}},
	}
	postSignature = Signature{
		Params: []Param{
			{Name: "url", Type: wit.String{}, Usage: "a url string"},
			{Name: "payload", Type: wit.String{}, Usage: "a data string"},
		},
		Results: []wit.Type{wit.S32{}},
	}
)

// Signatures returns the WIT signature of every export.
func (b *Bridge) Signatures() map[string]Signature {
	return map[string]Signature{
		"hello":          {Results: []wit.Type{wit.String{}}},
		"version":        {Results: []wit.Type{wit.S32{}}},
		"engine-version": {Results: []wit.Type{wit.U32{}}},
		"get":            getSignature,
		"post":           postSignature,
	}
}

// Hello returns the bridge greeting. Arguments are ignored.
func (b *Bridge) Hello(context.Context, ...any) (any, error) {
	return b.hello, nil
}

// Version returns the bridge API version. Arguments are ignored.
func (b *Bridge) Version(context.Context, ...any) (any, error) {
	return b.apiVersion, nil
}

// EngineVersion returns the transfer engine version packed as 0xXXYYZZ.
// It does not touch engine state.
func (b *Bridge) EngineVersion(context.Context, ...any) (any, error) {
	return b.adapter.Version(), nil
}

// Get performs get(url: string, followRedirects: bool) and returns the
// engine result code.
func (b *Bridge) Get(ctx context.Context, args ...any) (any, error) {
	if err := b.validate(ctx, "get", getSignature, args); err != nil {
		return nil, err
	}
	return b.dispatch(ctx, "get", transfer.NewGet(args[0].(string), args[1].(bool)))
}

// Post performs post(url: string, payload: string) and returns the engine
// result code.
func (b *Bridge) Post(ctx context.Context, args ...any) (any, error) {
	if err := b.validate(ctx, "post", postSignature, args); err != nil {
		return nil, err
	}
	return b.dispatch(ctx, "post", transfer.NewPost(args[0].(string), args[1].(string)))
}

// validate checks arity first, then argument types, in order.
func (b *Bridge) validate(ctx context.Context, op string, sig Signature, args []any) error {
	var err *errors.Error
	if len(args) != len(sig.Params) {
		err = errors.New(errors.PhaseValidate, errors.KindArity).
			Module(b.module()).
			Op(op).
			Value(len(args)).
			Detail("Wrong number of arguments! Please supply %s.", sig.Usage()).
			Build()
	} else {
		for i, p := range sig.Params {
			if Accepts(p.Type, args[i]) {
				continue
			}
			err = errors.New(errors.PhaseValidate, errors.KindTypeMismatch).
				Module(b.module()).
				Op(op).
				Path(p.Name).
				GoType(typeName(args[i])).
				WitType(TypeString(p.Type)).
				Value(args[i]).
				Detail("Wrong type of arguments! Please supply %s.", sig.Usage()).
				Build()
			break
		}
	}
	if err == nil {
		return nil
	}
	Logger().Debug("invalid arguments",
		zap.String("call_id", CallID(ctx)),
		zap.String("op", op),
		zap.String("kind", string(err.Kind)),
		zap.String("detail", err.Detail))
	return err
}

func (b *Bridge) dispatch(ctx context.Context, op string, req transfer.Request) (any, error) {
	code, err := b.adapter.Perform(ctx, req)
	if err == nil {
		return int(code), nil
	}

	berr := b.failure(op, req, err)
	Logger().Error(berr.Detail,
		zap.String("call_id", CallID(ctx)),
		zap.String("op", op),
		zap.String("url", req.URL),
		zap.Int("code", int(code)))
	return nil, berr
}

// failure turns an adapter error into the caller-visible error. Its detail
// is the native message followed by the request that failed.
func (b *Bridge) failure(op string, req transfer.Request, err error) *errors.Error {
	nf := transfer.AsNativeFailure(err, transfer.CodeRecvError)

	phase, kind := errors.PhaseTransfer, errors.KindNativeFailure
	if nf.Acquisition {
		phase, kind = errors.PhaseAcquire, errors.KindResourceAcquisition
	}

	label := "follow redirects"
	if req.Mode == transfer.ModePost {
		label = "data"
	}
	msg := fmt.Sprintf("%s\n%s: could not %s the following request:\nurl: %s\n%s: %s",
		nf.Message, b.module(), op, req.URL, label, req.Arg())

	return errors.New(phase, kind).
		Module(b.module()).
		Op(op).
		URL(req.URL).
		Arg(req.Arg()).
		Value(int(nf.Code)).
		Cause(nf).
		Detail("%s", msg).
		Build()
}

// IsValidation reports whether err is an arity or type error.
func IsValidation(err error) bool {
	return stderrors.Is(err, errors.ErrArity) || stderrors.Is(err, errors.ErrTypeMismatch)
}
