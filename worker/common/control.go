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

// Package common holds the control-socket accept loop shared by the three
// worker stand-ins (generator, stratifier, connector). Each worker is
// handed its own pre-bound net.UnixListener by the supervisor before it
// even starts (child.Child's socket is created by the parent, inherited
// over fd 3); this package just answers the handful of admin verbs every
// child must support.
package common

import (
	"net"
	"strconv"
	"strings"

	"github.com/plebhash/ckpool-solo-signet-workshop/level"
	"github.com/plebhash/ckpool-solo-signet-workshop/unixsock"
	"github.com/plebhash/ckpool-solo-signet-workshop/workerctx"
)

// Extra lets a caller (currently only the connector) answer commands this
// package doesn't know about. It returns true if it handled cmd itself.
type Extra func(ctx workerctx.Context, conn net.Conn, cmd string) bool

// ServeControlLoop accepts connections on ctx.Control forever, replying to
// "ping" and "loglevel=N" directly and delegating anything else to extra
// (if non-nil). It returns only when the listener is closed, which happens
// when the supervisor sends SIGUSR1/SIGKILL and the process exits — so in
// practice this call never returns during normal operation.
func ServeControlLoop(ctx workerctx.Context, extra Extra) {
	for {
		conn, err := ctx.Control.Accept()
		if err != nil {
			return
		}
		go handleConn(ctx, conn, extra)
	}
}

func handleConn(ctx workerctx.Context, conn net.Conn, extra Extra) {
	defer conn.Close()

	cmd, err := unixsock.RecvString(conn)
	if err != nil {
		return
	}

	switch {
	case cmd == "ping":
		_ = unixsock.SendString(conn, "pong")
	case strings.HasPrefix(cmd, "loglevel="):
		n, err := strconv.Atoi(strings.TrimPrefix(cmd, "loglevel="))
		if err != nil {
			_ = unixsock.SendString(conn, "invalid")
			return
		}
		lvl, ok := level.Parse(n)
		if !ok {
			_ = unixsock.SendString(conn, "invalid")
			return
		}
		if ctx.Logger != nil {
			ctx.Logger.SetLevel(lvl)
		}
		_ = unixsock.SendString(conn, "ok")
	default:
		if extra != nil && extra(ctx, conn, cmd) {
			return
		}
		_ = unixsock.SendString(conn, "unknown")
	}
}
