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

package unixsock

import (
	"net"
	"os"

	"github.com/plebhash/ckpool-solo-signet-workshop/apperror"
)

// OpenServer unlinks any stale socket node at path, binds, and listens.
// Failure here is fatal at startup. When gid >= 0 the socket node is
// chown-ed to that group, matching the --group CLI flag.
func OpenServer(path string, gid int) (*net.UnixListener, error) {
	_ = os.Remove(path)

	addr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		return nil, apperror.New(apperror.FatalStartup, "resolve unix addr "+path, err)
	}

	ln, err := net.ListenUnix("unix", addr)
	if err != nil {
		return nil, apperror.New(apperror.FatalStartup, "listen unix "+path, err)
	}

	if gid >= 0 {
		if err := os.Chown(path, -1, gid); err != nil {
			_ = ln.Close()
			return nil, apperror.New(apperror.FatalStartup, "chown "+path, err)
		}
	}
	return ln, nil
}

// OpenClient connects to a Unix domain socket server. Callers must Close
// the connection on every exit path.
func OpenClient(path string) (*net.UnixConn, error) {
	addr, err := net.ResolveUnixAddr("unix", path)
	if err != nil {
		return nil, apperror.New(apperror.TransientIPC, "resolve unix addr "+path, err)
	}
	conn, err := net.DialUnix("unix", nil, addr)
	if err != nil {
		return nil, apperror.New(apperror.TransientIPC, "dial unix "+path, err)
	}
	return conn, nil
}
