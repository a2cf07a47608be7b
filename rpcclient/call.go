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

package rpcclient

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/plebhash/ckpool-solo-signet-workshop/apperror"
)

const callTimeout = 15 * time.Second

// Call constructs an HTTP/1.1 POST of rpcBody (already-serialized JSON) to
// the configured url:port with basic auth, reads and validates the status
// line, skips headers until the JSON body line, parses it, and drains any
// remaining bytes. The request id is tagged with a uuid purely for log
// correlation; it has no bearing on the wire protocol itself.
func (c *Conn) Call(rpcBody []byte) (json.RawMessage, error) {
	reqID := uuid.NewString()

	if err := c.ensureConn(); err != nil {
		return nil, err
	}

	req := fmt.Sprintf(
		"POST / HTTP/1.1\r\n"+
			"Authorization: Basic %s\r\n"+
			"Host: %s:%d\r\n"+
			"Content-type: application/json\r\n"+
			"Content-Length: %d\r\n"+
			"X-Request-Id: %s\r\n"+
			"\r\n%s",
		c.auth, c.url, c.port, len(rpcBody), reqID, rpcBody,
	)

	if err := c.conn.SetWriteDeadline(time.Now().Add(callTimeout)); err != nil {
		c.reopen()
		return nil, apperror.New(apperror.JSONRPC, "set write deadline", err)
	}
	if _, err := c.conn.Write([]byte(req)); err != nil {
		c.reopen()
		return nil, apperror.New(apperror.JSONRPC, "write request", err)
	}

	status, err := c.readLine(callTimeout)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(status, "HTTP/1.1 200 OK") {
		c.reopen()
		return nil, apperror.New(apperror.JSONRPC, "unexpected status line: "+status, nil)
	}

	var bodyLine string
	for {
		l, err := c.readLine(callTimeout)
		if err != nil {
			return nil, err
		}
		if strings.HasPrefix(l, "{") {
			bodyLine = l
			break
		}
	}

	var raw json.RawMessage
	if err := json.Unmarshal([]byte(bodyLine), &raw); err != nil {
		c.reopen()
		return nil, apperror.New(apperror.JSONRPC, "unmarshal response body", err)
	}

	c.drainResidual()

	return raw, nil
}

// drainResidual discards any bytes already buffered beyond the body line
// so the next Call starts from a clean carry-over state.
func (c *Conn) drainResidual() {
	c.bufOfs = 0
	c.bufLen = 0
}

// Close closes the underlying socket, if open.
func (c *Conn) Close() error {
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}
