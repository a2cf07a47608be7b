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

// Package rpcclient implements a line-framed JSON-RPC client: an
// HTTP/1.1 basic-auth JSON POST over a persistent TCP socket, with a read
// loop that preserves carry-over bytes across calls.
package rpcclient

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"net"
	"time"

	"github.com/plebhash/ckpool-solo-signet-workshop/apperror"
)

const bufSize = 64 * 1024

// Conn is the JSON-RPC client's connection state: fd, url, port,
// pre-encoded auth, and a carry-over read buffer.
type Conn struct {
	conn net.Conn
	url  string
	port int
	auth string // pre-encoded "user:pass" -> base64

	buf    []byte
	bufOfs int
	bufLen int
}

// New builds a client bound to url:port with basic-auth credentials
// user/pass. It does not connect immediately; the first Call dials lazily,
// and a closed socket reopens on the next call after any failure.
func New(url string, port int, user, pass string) *Conn {
	cred := base64.StdEncoding.EncodeToString([]byte(user + ":" + pass))
	return &Conn{
		url:  url,
		port: port,
		auth: cred,
		buf:  make([]byte, bufSize),
	}
}

// ensureConn dials if the socket is not currently open.
func (c *Conn) ensureConn() error {
	if c.conn != nil {
		return nil
	}
	addr := fmt.Sprintf("%s:%d", c.url, c.port)
	conn, err := net.DialTimeout("tcp", addr, 10*time.Second)
	if err != nil {
		return apperror.New(apperror.JSONRPC, "dial "+addr, err)
	}
	c.conn = conn
	c.bufOfs = 0
	c.bufLen = 0
	return nil
}

// reopen closes the current socket (if any) so the next Call dials fresh.
// Called on any read/write failure.
func (c *Conn) reopen() {
	if c.conn != nil {
		_ = c.conn.Close()
		c.conn = nil
	}
	c.bufOfs = 0
	c.bufLen = 0
}

// readLine reads from the connection until a '\n' is seen. Bytes received
// after the newline are preserved in c.buf[c.bufOfs:c.bufOfs+c.bufLen] for
// the next call, relocated to the front of the buffer before any new read.
func (c *Conn) readLine(timeout time.Duration) (string, error) {
	// Relocate carry-over to the front.
	if c.bufOfs > 0 {
		copy(c.buf, c.buf[c.bufOfs:c.bufOfs+c.bufLen])
		c.bufOfs = 0
	}

	for {
		if idx := bytes.IndexByte(c.buf[:c.bufLen], '\n'); idx >= 0 {
			lineText := string(c.buf[:idx])
			remaining := c.bufLen - idx - 1
			copy(c.buf, c.buf[idx+1:idx+1+remaining])
			c.bufLen = remaining
			c.bufOfs = 0
			return lineText, nil
		}

		if c.bufLen == len(c.buf) {
			c.reopen()
			return "", apperror.New(apperror.JSONRPC, "read_line: line too long", nil)
		}

		deadline := time.Now().Add(timeout)
		_ = c.conn.SetReadDeadline(deadline)

		n, err := c.conn.Read(c.buf[c.bufLen:])
		if n > 0 {
			c.bufLen += n
			// A complete line may now be present; the next iteration's
			// IndexByte check handles it. We only block again if no '\n' was
			// found in what's already been read.
			continue
		}
		if err != nil {
			c.reopen()
			return "", apperror.New(apperror.JSONRPC, "read_line: read failed", err)
		}
	}
}
