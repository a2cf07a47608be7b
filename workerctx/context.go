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

// Package workerctx is the contract between the supervisor and the three
// worker entry functions (generator, stratifier, connector), kept in its
// own package to avoid an import cycle between supervisor and child.
package workerctx

import (
	"net"

	"github.com/plebhash/ckpool-solo-signet-workshop/config"
	"github.com/plebhash/ckpool-solo-signet-workshop/logsink"
)

// Context is everything an entry function needs: its own name, its
// pre-bound control socket (inherited from the supervisor over fd 3), its
// log sink, the resolved operating mode, and — for the connector only — a
// listening socket fd inherited from a prior generation during handover.
type Context struct {
	Name    string
	Control *net.UnixListener
	Logger  *logsink.Sink
	Mode    config.Mode
	Cfg     *config.Config

	// OldConnFD is >= 0 only when this is the connector entry function of
	// a supervisor that performed a handover: the listening socket fd to
	// adopt instead of binding afresh.
	OldConnFD int
}

// EntryFunc is a worker's entry point. It runs until it decides to
// return, at which point the owning process exits with its return value.
type EntryFunc func(ctx Context) int
