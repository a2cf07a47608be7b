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

package supervisor

import (
	"github.com/plebhash/ckpool-solo-signet-workshop/apperror"
	"github.com/plebhash/ckpool-solo-signet-workshop/unixsock"
)

// PerformHandover connects to the still-running old generation's listener,
// requests its connector's listening fd, then tells it to shut down. The
// caller stores the returned fd on State.OldConnFD before its own connector
// child starts, so the old generation's accept loop stops before the new
// generation's begins — no window where both generations hold the
// listening fd active at once.
func PerformHandover(sockDir string) (int, error) {
	conn, err := unixsock.OpenClient(sockDir + "listener")
	if err != nil {
		return -1, apperror.New(apperror.FatalStartup, "handover: cannot reach prior generation's listener", err)
	}

	if err := unixsock.SendString(conn, "getfd"); err != nil {
		_ = conn.Close()
		return -1, err
	}
	fd, err := unixsock.RecvFD(conn)
	_ = conn.Close()
	if err != nil {
		return -1, err
	}

	shutdownConn, err := unixsock.OpenClient(sockDir + "listener")
	if err != nil {
		// We already have the fd; a failure to request the old
		// generation's shutdown is logged by the caller but must not
		// discard the inherited fd.
		return fd, apperror.New(apperror.TransientIPC, "handover: cannot request old generation shutdown", err)
	}
	_ = unixsock.SendString(shutdownConn, "shutdown")
	_, _ = unixsock.RecvString(shutdownConn)
	_ = shutdownConn.Close()

	return fd, nil
}
