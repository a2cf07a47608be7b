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
	"bufio"
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"
)

// startFakeRPCServer answers every request with a canned HTTP/1.1 response,
// split across two separate TCP writes to exercise readLine's carry-over
// buffering across reads.
func startFakeRPCServer(t *testing.T, body string) (host string, port int) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { ln.Close() })

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()

		r := bufio.NewReader(conn)
		// Drain the request line and headers.
		for {
			line, err := r.ReadString('\n')
			if err != nil {
				return
			}
			if line == "\r\n" {
				break
			}
		}

		resp := "HTTP/1.1 200 OK\r\n" +
			"Content-type: application/json\r\n" +
			"\r\n" + body + "\n"

		// Split mid-line to force readLine to span two Read calls.
		split := len(resp) / 2
		_, _ = conn.Write([]byte(resp[:split]))
		time.Sleep(20 * time.Millisecond)
		_, _ = conn.Write([]byte(resp[split:]))
	}()

	addr := ln.Addr().(*net.TCPAddr)
	return "127.0.0.1", addr.Port
}

func TestCallRoundTripAcrossSplitReads(t *testing.T) {
	const wantBody = `{"result":42,"id":"x"}`
	host, port := startFakeRPCServer(t, wantBody)

	c := New(host, port, "user", "pass")
	defer c.Close()

	raw, err := c.Call([]byte(`{"method":"getinfo"}`))
	if err != nil {
		t.Fatalf("Call: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if got["id"] != "x" {
		t.Fatalf("got id %v, want x", got["id"])
	}
}

func TestCallRejectsNon200Status(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		r := bufio.NewReader(conn)
		for {
			line, err := r.ReadString('\n')
			if err != nil || line == "\r\n" {
				break
			}
		}
		_, _ = conn.Write([]byte("HTTP/1.1 500 Internal Server Error\r\n\r\n"))
	}()

	addr := ln.Addr().(*net.TCPAddr)

	c := New("127.0.0.1", addr.Port, "user", "pass")
	defer c.Close()

	_, err = c.Call([]byte(`{}`))
	if err == nil {
		t.Fatal("expected an error for a non-200 status line")
	}
	if !strings.Contains(err.Error(), "unexpected status line") {
		t.Fatalf("got error %v, want unexpected status line", err)
	}
}
