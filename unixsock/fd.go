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

	"golang.org/x/sys/unix"

	"github.com/plebhash/ckpool-solo-signet-workshop/apperror"
)

// SendFD transmits one byte plus one file-descriptor ancillary message
// (SCM_RIGHTS) over conn. Exactly one FD per exchange — this is the
// mechanism handover relies on to hand the connector's listening socket
// from one generation to the next.
func SendFD(conn *net.UnixConn, fd int) error {
	rights := unix.UnixRights(fd)
	if _, _, err := conn.WriteMsgUnix([]byte{0}, rights, nil); err != nil {
		_ = conn.Close()
		return apperror.New(apperror.TransientIPC, "send_fd failed", err)
	}
	return nil
}

// RecvFD mirrors SendFD: it reads one byte plus the ancillary data and
// extracts exactly one file descriptor.
func RecvFD(conn *net.UnixConn) (int, error) {
	buf := make([]byte, 1)
	oob := make([]byte, unix.CmsgSpace(4))

	_, oobn, _, _, err := conn.ReadMsgUnix(buf, oob)
	if err != nil {
		_ = conn.Close()
		return -1, apperror.New(apperror.TransientIPC, "recv_fd: read failed", err)
	}

	cmsgs, err := unix.ParseSocketControlMessage(oob[:oobn])
	if err != nil {
		_ = conn.Close()
		return -1, apperror.New(apperror.TransientIPC, "recv_fd: parse control message failed", err)
	}
	if len(cmsgs) == 0 {
		_ = conn.Close()
		return -1, apperror.New(apperror.TransientIPC, "recv_fd: no control message received", nil)
	}

	fds, err := unix.ParseUnixRights(&cmsgs[0])
	if err != nil {
		_ = conn.Close()
		return -1, apperror.New(apperror.TransientIPC, "recv_fd: parse unix rights failed", err)
	}
	if len(fds) != 1 {
		_ = conn.Close()
		return -1, apperror.New(apperror.TransientIPC, "recv_fd: expected exactly one fd", nil)
	}
	return fds[0], nil
}
