package transfer

import (
	"errors"
	"strconv"
)

// Code is a transfer engine result code. Values follow libcurl's CURLcode
// numbering so diagnostics stay familiar.
type Code int

const (
	CodeOK                  Code = 0
	CodeUnsupportedProtocol Code = 1
	CodeFailedInit          Code = 2
	CodeURLMalformat        Code = 3
	CodeNotBuilt            Code = 4
	CodeCouldntResolveHost  Code = 6
	CodeCouldntConnect      Code = 7
	CodeOutOfMemory         Code = 27
	CodeOperationTimedOut   Code = 28
	CodeAbortedByCallback   Code = 42
	CodeBadFunctionArgument Code = 43
	CodeTooManyRedirects    Code = 47
	CodeSendError           Code = 55
	CodeRecvError           Code = 56
)

var codeText = map[Code]string{
	CodeOK:                  "No error",
	CodeUnsupportedProtocol: "Unsupported protocol",
	CodeFailedInit:          "Failed initialization",
	CodeURLMalformat:        "URL using bad/illegal format or missing URL",
	CodeNotBuilt:            "A requested feature, protocol or option was not found built-in",
	CodeCouldntResolveHost:  "Couldn't resolve host name",
	CodeCouldntConnect:      "Couldn't connect to server",
	CodeOutOfMemory:         "Out of memory",
	CodeOperationTimedOut:   "Timeout was reached",
	CodeAbortedByCallback:   "Operation was aborted by an application callback",
	CodeBadFunctionArgument: "A libcurl function was given a bad argument",
	CodeTooManyRedirects:    "Number of redirects hit maximum amount",
	CodeSendError:           "Failed sending data to the peer",
	CodeRecvError:           "Failure when receiving data from the peer",
}

// String returns the engine's diagnostic text for the code.
func (c Code) String() string {
	if s, ok := codeText[c]; ok {
		return s
	}
	return "Unknown error (" + strconv.Itoa(int(c)) + ")"
}

// OK reports whether the code signals success.
func (c Code) OK() bool {
	return c == CodeOK
}

// NativeFailure is a non-success result reported by a transfer engine.
type NativeFailure struct {
	Cause   error
	Message string
	Code    Code
	// Acquisition is set when the failure happened while acquiring global
	// state or a handle, before any transfer was attempted.
	Acquisition bool
}

// Failure builds a NativeFailure whose message is the code's diagnostic
// text, followed by the cause when there is one.
func Failure(code Code, cause error) *NativeFailure {
	msg := code.String()
	if cause != nil {
		msg += ": " + cause.Error()
	}
	return &NativeFailure{Code: code, Message: msg, Cause: cause}
}

func (f *NativeFailure) Error() string {
	if f.Message != "" {
		return f.Message
	}
	return f.Code.String()
}

func (f *NativeFailure) Unwrap() error {
	return f.Cause
}

// AsNativeFailure converts err into a *NativeFailure. Foreign errors are
// wrapped with the fallback code.
func AsNativeFailure(err error, fallback Code) *NativeFailure {
	if err == nil {
		return nil
	}
	var nf *NativeFailure
	if errors.As(err, &nf) {
		return nf
	}
	return Failure(fallback, err)
}
