package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	goruntime "runtime"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-bridge/resource"
)

// Defaults for HTTPOptions zero values.
const (
	DefaultTimeout      = 30 * time.Second
	DefaultMaxRedirects = 50
	DefaultUserAgent    = "wasm-bridge"
)

var errTooManyRedirects = errors.New("stopped after maximum redirects")

// HTTPOptions configures an HTTPEngine.
type HTTPOptions struct {
	UserAgent string
	// Timeout bounds a whole transfer. Negative disables it.
	Timeout time.Duration
	// MaxRedirects bounds followed redirects. Zero or less selects
	// DefaultMaxRedirects; config rejects zero before it gets here.
	MaxRedirects int
	// MaxHandles caps live handles. Zero means unlimited.
	MaxHandles int
}

// HTTPEngine is a transfer engine backed by net/http.
type HTTPEngine struct {
	transport *http.Transport
	client    *http.Client
	handles   *resource.Table
	opts      HTTPOptions
	mu        sync.RWMutex
}

var _ Engine = (*HTTPEngine)(nil)

type httpTransfer struct {
	url      string
	body     string
	status   int
	follow   bool
	post     bool
	executed bool
}

func (t *httpTransfer) Drop() {
	t.body = ""
}

// NewHTTPEngine creates an engine. The HTTP transport is only created by
// GlobalInit.
func NewHTTPEngine(opts HTTPOptions) *HTTPEngine {
	if opts.Timeout == 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Timeout < 0 {
		opts.Timeout = 0
	}
	if opts.MaxRedirects <= 0 {
		opts.MaxRedirects = DefaultMaxRedirects
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	e := &HTTPEngine{
		opts:    opts,
		handles: resource.NewTable(opts.MaxHandles),
	}
	e.handles.Subscribe(resource.ObserverFunc(logHandleEvent))
	return e
}

func logHandleEvent(ev resource.Event) {
	Logger().Debug("transfer handle "+ev.Type.String(), zap.Uint32("handle", uint32(ev.Handle)))
}

// GlobalInit creates the shared transport and client.
func (e *HTTPEngine) GlobalInit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.client != nil {
		return nil
	}
	base, ok := http.DefaultTransport.(*http.Transport)
	if !ok {
		return Failure(CodeFailedInit, errors.New("default transport is not *http.Transport"))
	}
	e.transport = base.Clone()
	e.client = &http.Client{
		Transport: e.transport,
		Timeout:   e.opts.Timeout,
	}
	return nil
}

// GlobalCleanup closes idle connections and drops the client. Handles still
// live at this point are leaked transfers; they are reaped and logged.
func (e *HTTPEngine) GlobalCleanup() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if leaked := e.handles.Reap(); len(leaked) > 0 {
		Logger().Warn("reaped leaked transfer handles", zap.Int("count", len(leaked)))
	}

	if e.transport != nil {
		e.transport.CloseIdleConnections()
	}
	e.transport = nil
	e.client = nil
}

// CreateHandle allocates a transfer handle. It fails before GlobalInit.
func (e *HTTPEngine) CreateHandle() (Handle, error) {
	e.mu.RLock()
	ready := e.client != nil
	e.mu.RUnlock()
	if !ready {
		return 0, &NativeFailure{Code: CodeFailedInit, Message: "transfer engine not initialized"}
	}

	h, err := e.handles.Insert(resource.TypeTransfer, &httpTransfer{})
	if err != nil {
		code := CodeFailedInit
		if errors.Is(err, resource.ErrExhausted) {
			code = CodeOutOfMemory
		}
		return 0, Failure(code, err)
	}
	return h, nil
}

func (e *HTTPEngine) transfer(h Handle) (*httpTransfer, error) {
	v, ok := e.handles.Lookup(h, resource.TypeTransfer)
	if !ok {
		return nil, &NativeFailure{Code: CodeBadFunctionArgument, Message: fmt.Sprintf("invalid transfer handle %d", h)}
	}
	return v.(*httpTransfer), nil
}

// Configure applies one option to the handle.
func (e *HTTPEngine) Configure(h Handle, opt Option) error {
	t, err := e.transfer(h)
	if err != nil {
		return err
	}
	switch opt.Kind {
	case OptionURL:
		t.url = opt.Str
	case OptionFollowLocation:
		t.follow = opt.Flag
	case OptionPostFields:
		t.post = true
		t.body = opt.Str
	default:
		return &NativeFailure{Code: CodeBadFunctionArgument, Message: "unknown option " + opt.Kind.String()}
	}
	return nil
}

// Execute performs the transfer and blocks until the response body has been
// read. HTTP error statuses are not failures.
func (e *HTTPEngine) Execute(ctx context.Context, h Handle) (Code, error) {
	t, err := e.transfer(h)
	if err != nil {
		return CodeBadFunctionArgument, err
	}
	if t.executed {
		return CodeBadFunctionArgument, &NativeFailure{Code: CodeBadFunctionArgument, Message: "transfer handle already executed"}
	}
	t.executed = true

	e.mu.RLock()
	base := e.client
	e.mu.RUnlock()
	if base == nil {
		return CodeFailedInit, &NativeFailure{Code: CodeFailedInit, Message: "transfer engine not initialized"}
	}

	if code := checkURL(t.url); !code.OK() {
		return code, Failure(code, nil)
	}

	method := http.MethodGet
	var body io.Reader
	if t.post {
		method = http.MethodPost
		body = strings.NewReader(t.body)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.url, body)
	if err != nil {
		return CodeURLMalformat, Failure(CodeURLMalformat, err)
	}
	req.Header.Set("User-Agent", e.opts.UserAgent)
	if t.post {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	client := *base
	client.CheckRedirect = e.redirectPolicy(t.follow)

	resp, err := client.Do(req)
	if err != nil {
		code := classify(err)
		return code, Failure(code, err)
	}
	_, readErr := io.Copy(io.Discard, resp.Body)
	// Close error is intentionally ignored after full body read
	_ = resp.Body.Close()
	if readErr != nil {
		return CodeRecvError, Failure(CodeRecvError, readErr)
	}

	t.status = resp.StatusCode
	Logger().Debug("http transfer",
		zap.String("method", method),
		zap.String("url", t.url),
		zap.Int("status", resp.StatusCode))
	return CodeOK, nil
}

// Status returns the HTTP status recorded by the last Execute on h.
func (e *HTTPEngine) Status(h Handle) (int, bool) {
	t, err := e.transfer(h)
	if err != nil || !t.executed {
		return 0, false
	}
	return t.status, true
}

// Destroy releases the handle. Unknown handles are ignored.
func (e *HTTPEngine) Destroy(h Handle) {
	e.handles.Remove(h)
}

// Live returns the number of handles not yet destroyed.
func (e *HTTPEngine) Live() int {
	return e.handles.Len()
}

// Version returns the Go runtime version the engine was built with.
func (e *HTTPEngine) Version() uint32 {
	return goVersion(goruntime.Version())
}

func (e *HTTPEngine) redirectPolicy(follow bool) func(*http.Request, []*http.Request) error {
	if !follow {
		return func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	limit := e.opts.MaxRedirects
	return func(_ *http.Request, via []*http.Request) error {
		if len(via) > limit {
			return errTooManyRedirects
		}
		return nil
	}
}

func checkURL(raw string) Code {
	u, err := url.Parse(raw)
	if err != nil {
		return CodeURLMalformat
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
	case "":
		return CodeURLMalformat
	default:
		return CodeUnsupportedProtocol
	}
	if u.Host == "" {
		return CodeURLMalformat
	}
	return CodeOK
}

func classify(err error) Code {
	if errors.Is(err, errTooManyRedirects) {
		return CodeTooManyRedirects
	}
	if errors.Is(err, context.Canceled) {
		return CodeAbortedByCallback
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return CodeOperationTimedOut
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return CodeCouldntResolveHost
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return CodeOperationTimedOut
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		switch opErr.Op {
		case "dial":
			return CodeCouldntConnect
		case "write":
			return CodeSendError
		}
	}
	return CodeRecvError
}

// goVersion packs "go1.25.4" as 0x011904. Development builds yield 0.
func goVersion(v string) uint32 {
	var major, minor, patch uint32
	n, _ := fmt.Sscanf(strings.TrimPrefix(v, "go"), "%d.%d.%d", &major, &minor, &patch)
	if n < 2 {
		return 0
	}
	return major<<16 | minor<<8 | patch
}
