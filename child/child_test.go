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

package child

import (
	"testing"
	"time"

	"github.com/plebhash/ckpool-solo-signet-workshop/workerctx"
)

func noopEntry(workerctx.Context) int { return 0 }

func TestNewDefaultsSockName(t *testing.T) {
	c := New("generator", "", "/tmp/ckpool/", "/tmp/ckpool/", noopEntry)
	if c.SockName != "generator" {
		t.Fatalf("SockName = %q, want generator", c.SockName)
	}
	if c.SockPath != "/tmp/ckpool/generator" {
		t.Fatalf("SockPath = %q, want /tmp/ckpool/generator", c.SockPath)
	}
	if c.PIDPath != "/tmp/ckpool/generator.pid" {
		t.Fatalf("PIDPath = %q, want /tmp/ckpool/generator.pid", c.PIDPath)
	}
}

func TestSetPIDRecordsLastStart(t *testing.T) {
	c := New("connector", "connector", "/tmp/ckpool/", "/tmp/ckpool/", noopEntry)
	before := time.Now()
	c.SetPID(4242)
	after := time.Now()

	if c.PID() != 4242 {
		t.Fatalf("PID() = %d, want 4242", c.PID())
	}
	ls := c.LastStart()
	if ls.Before(before) || ls.After(after) {
		t.Fatalf("LastStart() = %v, want between %v and %v", ls, before, after)
	}
}

func TestListenerRoundTrip(t *testing.T) {
	c := New("stratifier", "stratifier", "/tmp/ckpool/", "/tmp/ckpool/", noopEntry)
	if c.Listener() != nil {
		t.Fatal("expected a nil listener before SetListener")
	}
	c.SetListener(nil)
	if c.Listener() != nil {
		t.Fatal("expected Listener() to still report nil")
	}
}
