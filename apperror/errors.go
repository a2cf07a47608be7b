/*
 * MIT License
 *
 * Copyright (c) 2026 plebhash
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Package apperror provides the supervisor's coded error type.
//
// The config, unixsock, rpcclient and handover paths return an
// *apperror.Error so that the failure's classification (fatal startup,
// transient IPC, protocol, peer-gone, JSON-RPC, child-crash) is carried on
// the value itself rather than reconstructed from message text at the call
// site that needs to react to it (cmd/ckpoold's startup path). Some other
// calls (supervisor launch and setup, logsink.New) return plain wrapped
// errors, which CodeOf classifies as Unknown.
package apperror

import (
	"errors"
	"fmt"
	"runtime"
)

// Code classifies the kind of failure an Error represents.
type Code uint8

const (
	Unknown Code = iota
	FatalStartup
	TransientIPC
	Protocol
	PeerGone
	JSONRPC
	ChildCrash
)

func (c Code) String() string {
	switch c {
	case FatalStartup:
		return "fatal-startup"
	case TransientIPC:
		return "transient-ipc"
	case Protocol:
		return "protocol"
	case PeerGone:
		return "peer-gone"
	case JSONRPC:
		return "json-rpc"
	case ChildCrash:
		return "child-crash"
	default:
		return "unknown"
	}
}

// Error is this repository's error value: a code, a message, an optional
// parent, and the call site that created it.
type Error struct {
	code   Code
	msg    string
	parent error
	file   string
	line   int
}

// New builds an *Error with the given code and message, optionally wrapping
// parent (nil is fine).
func New(code Code, msg string, parent error) *Error {
	_, file, line, _ := runtime.Caller(1)
	return &Error{code: code, msg: msg, parent: parent, file: file, line: line}
}

func (e *Error) Error() string {
	if e.parent != nil {
		return fmt.Sprintf("%s: %s: %v", e.code, e.msg, e.parent)
	}
	return fmt.Sprintf("%s: %s", e.code, e.msg)
}

// Unwrap lets errors.Is / errors.As walk the parent chain.
func (e *Error) Unwrap() error {
	return e.parent
}

// Code returns the classification of this error.
func (e *Error) Code() Code {
	if e == nil {
		return Unknown
	}
	return e.code
}

// Site returns the file:line that constructed this error, for diagnostics.
func (e *Error) Site() string {
	return fmt.Sprintf("%s:%d", e.file, e.line)
}

// CodeOf classifies any error by walking its Unwrap chain for an *Error,
// defaulting to Unknown. cmd/ckpoold uses this to tell a fatal config error
// from a non-fatal warning without type-switching at every call site.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code()
	}
	return Unknown
}
