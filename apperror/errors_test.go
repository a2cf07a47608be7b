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

package apperror

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestCodeOfClassifiesWrappedError(t *testing.T) {
	base := New(TransientIPC, "dial failed", errors.New("connection refused"))
	wrapped := fmt.Errorf("calling peer: %w", base)

	if got := CodeOf(wrapped); got != TransientIPC {
		t.Fatalf("CodeOf = %v, want %v", got, TransientIPC)
	}
}

func TestCodeOfDefaultsToUnknownForPlainError(t *testing.T) {
	if got := CodeOf(errors.New("plain")); got != Unknown {
		t.Fatalf("CodeOf(plain) = %v, want Unknown", got)
	}
}

func TestCodeOfNilError(t *testing.T) {
	if got := CodeOf(nil); got != Unknown {
		t.Fatalf("CodeOf(nil) = %v, want Unknown", got)
	}
}

func TestErrorMessageIncludesParent(t *testing.T) {
	parent := errors.New("boom")
	e := New(Protocol, "parse failed", parent)

	msg := e.Error()
	if !errors.Is(e, parent) {
		t.Fatal("expected errors.Is to find the wrapped parent")
	}
	if !strings.Contains(msg, parent.Error()) {
		t.Fatalf("error message %q does not include parent %q", msg, parent.Error())
	}
}

func TestCodeStringCoversEveryValue(t *testing.T) {
	codes := []Code{Unknown, FatalStartup, TransientIPC, Protocol, PeerGone, JSONRPC, ChildCrash}
	seen := map[string]bool{}
	for _, c := range codes {
		s := c.String()
		if s == "" {
			t.Fatalf("Code(%d).String() is empty", c)
		}
		if seen[s] {
			t.Fatalf("duplicate String() %q for code %d", s, c)
		}
		seen[s] = true
	}
}
