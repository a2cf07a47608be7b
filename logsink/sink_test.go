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

package logsink

import (
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/plebhash/ckpool-solo-signet-workshop/level"
)

func waitForFileContent(t *testing.T, path string, want string) string {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	var last string
	for time.Now().Before(deadline) {
		b, err := os.ReadFile(path)
		if err == nil {
			last = string(b)
			if strings.Contains(last, want) {
				return last
			}
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %q to appear in %s; got %q", want, path, last)
	return ""
}

func TestLogWritesFormattedLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	lvl := &atomic.Int32{}
	lvl.Store(int32(level.Debug))

	s, err := New("test", path, lvl)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	s.Log(level.Info, nil, "hello %s", "world")

	content := waitForFileContent(t, path, "hello world")
	if !strings.Contains(content, "info") && !strings.Contains(content, "Info") {
		t.Fatalf("expected level name in log line, got %q", content)
	}
}

func TestLogDropsBelowThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	lvl := &atomic.Int32{}
	lvl.Store(int32(level.Warning)) // only Warning(4) and more severe pass

	s, err := New("test", path, lvl)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	s.Log(level.Debug, nil, "should not appear")
	s.Log(level.Critical, nil, "should appear")

	content := waitForFileContent(t, path, "should appear")
	if strings.Contains(content, "should not appear") {
		t.Fatalf("expected debug line to be filtered out, got %q", content)
	}
}

func TestSetLevelTakesEffectForNextLog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.log")

	lvl := &atomic.Int32{}
	lvl.Store(int32(level.Error))

	s, err := New("test", path, lvl)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	s.Log(level.Debug, nil, "suppressed before raising threshold")
	s.SetLevel(level.Debug)
	s.Log(level.Debug, nil, "visible after raising threshold")

	content := waitForFileContent(t, path, "visible after raising threshold")
	if strings.Contains(content, "suppressed before raising threshold") {
		t.Fatalf("expected the pre-SetLevel debug line to stay suppressed, got %q", content)
	}
}

func TestSharedThresholdVisibleAcrossSinks(t *testing.T) {
	dir := t.TempDir()
	lvl := &atomic.Int32{}
	lvl.Store(int32(level.Error))

	a, err := New("a", filepath.Join(dir, "a.log"), lvl)
	if err != nil {
		t.Fatalf("New a: %v", err)
	}
	defer a.Close()

	b, err := New("b", filepath.Join(dir, "b.log"), lvl)
	if err != nil {
		t.Fatalf("New b: %v", err)
	}
	defer b.Close()

	a.SetLevel(level.Debug)

	b.Log(level.Debug, nil, "b sees the raised threshold")
	waitForFileContent(t, filepath.Join(dir, "b.log"), "b sees the raised threshold")
}
