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

// Package unixsock is a façade over Unix stream domain sockets:
// length-prefixed control-plane messages, and ancillary file-descriptor
// passing for connector handover.
package unixsock

import (
	"encoding/binary"
	"fmt"
	"io"
	"net"

	"github.com/plebhash/ckpool-solo-signet-workshop/apperror"
)

// MaxMessage bounds an individual length-prefixed message. Control-plane
// traffic never comes close to this size; the ceiling exists purely to
// stop a corrupted length prefix from causing an enormous allocation.
const MaxMessage = 16 * 1024 * 1024

// SendMsg writes a length-prefixed message: 4-byte big-endian length
// followed by payload. Any short write closes the connection and returns a
// TransientIPC error.
func SendMsg(conn net.Conn, payload []byte) error {
	var hdr [4]byte
	binary.BigEndian.PutUint32(hdr[:], uint32(len(payload)))

	if _, err := conn.Write(hdr[:]); err != nil {
		_ = conn.Close()
		return apperror.New(apperror.TransientIPC, "send_msg: header write failed", err)
	}
	if len(payload) == 0 {
		return nil
	}
	if _, err := conn.Write(payload); err != nil {
		_ = conn.Close()
		return apperror.New(apperror.TransientIPC, "send_msg: payload write failed", err)
	}
	return nil
}

// RecvMsg reads one length-prefixed message: the 4-byte length, then
// exactly that many payload bytes. Returns an owned buffer. Any short read
// or a length exceeding MaxMessage closes the connection and returns a
// TransientIPC error.
func RecvMsg(conn net.Conn) ([]byte, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(conn, hdr[:]); err != nil {
		_ = conn.Close()
		return nil, apperror.New(apperror.TransientIPC, "recv_msg: header read failed", err)
	}

	n := binary.BigEndian.Uint32(hdr[:])
	if n > MaxMessage {
		_ = conn.Close()
		return nil, apperror.New(apperror.TransientIPC, fmt.Sprintf("recv_msg: length %d exceeds maximum", n), nil)
	}
	if n == 0 {
		return nil, nil
	}

	buf := make([]byte, n)
	if _, err := io.ReadFull(conn, buf); err != nil {
		_ = conn.Close()
		return nil, apperror.New(apperror.TransientIPC, "recv_msg: payload read failed", err)
	}
	return buf, nil
}

// SendString is a convenience wrapper: every control-plane command and
// reply is a plain string.
func SendString(conn net.Conn, s string) error {
	return SendMsg(conn, []byte(s))
}

// RecvString is the string-returning counterpart of RecvMsg.
func RecvString(conn net.Conn) (string, error) {
	b, err := RecvMsg(conn)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
