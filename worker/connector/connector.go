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

// Package connector is a minimal stand-in for the miner-facing TCP
// listener. Accepting and framing the stratum wire protocol itself is a
// separate concern from process supervision — what this package does
// exercise fully is the handover contract: on a normal start it binds its
// own listening socket; on a handover restart it adopts the fd the
// supervisor already received from the prior generation instead of
// binding afresh, and it answers "getfd" on its control socket so a later
// handover can hand the same listener on again.
package connector

import (
	"net"

	"github.com/plebhash/ckpool-solo-signet-workshop/level"
	"github.com/plebhash/ckpool-solo-signet-workshop/unixsock"
	"github.com/plebhash/ckpool-solo-signet-workshop/worker/common"
	"github.com/plebhash/ckpool-solo-signet-workshop/workerctx"
)

// minerPort is the fixed TCP port this stand-in binds for miner
// connections when not adopting one via handover.
const minerPort = 3333

func Entry(ctx workerctx.Context) int {
	ln, err := bindOrAdopt(ctx)
	if err != nil {
		ctx.Logger.Log(level.Critical, err, "connector: cannot obtain listening socket")
		return 1
	}
	defer ln.Close()

	ctx.Logger.Log(level.Info, nil, "connector listening on %s", ln.Addr())

	go acceptMiners(ctx, ln)

	common.ServeControlLoop(ctx, func(wctx workerctx.Context, conn net.Conn, cmd string) bool {
		if cmd != "getfd" {
			return false
		}
		handleGetFD(wctx, conn, ln)
		return true
	})
	return 0
}

func bindOrAdopt(ctx workerctx.Context) (*net.TCPListener, error) {
	if ctx.OldConnFD >= 0 {
		return unixsock.AdoptTCPListener(ctx.OldConnFD)
	}
	addr := &net.TCPAddr{Port: minerPort}
	return net.ListenTCP("tcp", addr)
}

func acceptMiners(ctx workerctx.Context, ln *net.TCPListener) {
	for {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		go func(c net.Conn) {
			defer c.Close()
		}(conn)
	}
}

// handleGetFD extracts the raw fd backing ln and sends it over conn via
// ancillary data, for a future generation's handover.
func handleGetFD(ctx workerctx.Context, conn net.Conn, ln *net.TCPListener) {
	unixConn, ok := conn.(*net.UnixConn)
	if !ok {
		return
	}

	f, err := ln.File()
	if err != nil {
		ctx.Logger.Log(level.Error, err, "connector: dup listening socket for getfd")
		return
	}
	defer f.Close()

	if err := unixsock.SendFD(unixConn, int(f.Fd())); err != nil {
		ctx.Logger.Log(level.Error, err, "connector: send_fd failed")
	}
}
