package transfer

import "strconv"

// Mode selects the request method.
type Mode uint8

const (
	ModeGet Mode = iota
	ModePost
)

func (m Mode) String() string {
	switch m {
	case ModeGet:
		return "get"
	case ModePost:
		return "post"
	default:
		return "mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// Request describes one transfer. Payload is set only for POST and
// FollowRedirects is only consulted for GET.
type Request struct {
	Payload         *string
	URL             string
	Mode            Mode
	FollowRedirects bool
}

// NewGet builds a GET request.
func NewGet(url string, followRedirects bool) Request {
	return Request{URL: url, Mode: ModeGet, FollowRedirects: followRedirects}
}

// NewPost builds a POST request. An empty payload is allowed.
func NewPost(url, payload string) Request {
	return Request{URL: url, Mode: ModePost, Payload: &payload}
}

// Validate checks the request invariants. A missing URL is reported as
// CodeURLMalformat, a payload that does not match the mode as
// CodeBadFunctionArgument.
func (r Request) Validate() error {
	if r.URL == "" {
		return &NativeFailure{Code: CodeURLMalformat, Message: CodeURLMalformat.String()}
	}
	switch r.Mode {
	case ModeGet:
		if r.Payload != nil {
			return &NativeFailure{Code: CodeBadFunctionArgument, Message: "get request must not carry a payload"}
		}
	case ModePost:
		if r.Payload == nil {
			return &NativeFailure{Code: CodeBadFunctionArgument, Message: "post request requires a payload"}
		}
	default:
		return &NativeFailure{Code: CodeBadFunctionArgument, Message: "unknown request " + r.Mode.String()}
	}
	return nil
}

// Options returns the per-handle configuration for the request, URL first.
func (r Request) Options() []Option {
	opts := []Option{OptURL(r.URL)}
	if r.Mode == ModePost {
		return append(opts, OptPostFields(*r.Payload))
	}
	return append(opts, OptFollowLocation(r.FollowRedirects))
}

// Arg returns the string form of the request's second argument: the
// payload for POST, the redirect flag for GET.
func (r Request) Arg() string {
	if r.Mode == ModePost && r.Payload != nil {
		return *r.Payload
	}
	return strconv.FormatBool(r.FollowRedirects)
}
