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

// Package supervisor is the top-level orchestrator: it launches the
// generator, stratifier and connector children, fans out signals, runs
// the watchdog and the administrative control listener, and drives the
// handover dance.
//
// There is deliberately no process-wide singleton: State is constructed
// once in cmd/ckpoold and threaded explicitly into every goroutine that
// needs it (listener, watchdog, signal handler).
package supervisor

import (
	"fmt"
	"net"
	"os"
	"sync/atomic"

	"github.com/plebhash/ckpool-solo-signet-workshop/child"
	"github.com/plebhash/ckpool-solo-signet-workshop/config"
	"github.com/plebhash/ckpool-solo-signet-workshop/logsink"
	"github.com/plebhash/ckpool-solo-signet-workshop/workerctx"
)

// State is the supervisor's process-wide state.
type State struct {
	Name     string
	SockDir  string
	LogDir   string
	LogLevel *atomic.Int32 // atomic: read concurrently by every log call

	Mode config.Mode
	GID  int

	Children     []*child.Child
	InitialArgs  []string
	BTCDs        []config.Endpoint
	Proxies      []config.Endpoint

	Logger *logsink.Sink

	// OldConnFD is the listening-socket fd inherited from a prior
	// generation during handover; -1 when not performing a handover.
	OldConnFD int

	listenerLn *net.UnixListener
	shutdownCh chan struct{}
	shutdownOk atomic.Bool
}

// childNames is the fixed set of workers this supervisor coordinates.
var childNames = []string{"generator", "stratifier", "connector"}

// New constructs the supervisor state and prepares (but does not launch)
// every child: one control socket each, chowned to cfg.Group.
func New(cfg *config.Config, entries map[string]workerctx.EntryFunc) (*State, error) {
	lvl := &atomic.Int32{}
	lvl.Store(int32(cfg.LogLevel))

	st := &State{
		Name:        cfg.Name,
		SockDir:     cfg.SockDir,
		LogDir:      cfg.LogDir,
		LogLevel:    lvl,
		Mode:        cfg.Mode,
		InitialArgs: cfg.InitialArgs,
		BTCDs:       cfg.BTCDs,
		Proxies:     cfg.Proxies,
		OldConnFD:   -1,
		shutdownCh:  make(chan struct{}),
	}

	if err := os.MkdirAll(cfg.SockDir, 0750); err != nil {
		return nil, fmt.Errorf("supervisor: mkdir sockdir: %w", err)
	}
	for _, d := range []string{cfg.LogDir, cfg.LogDir + "/users", cfg.LogDir + "/pool"} {
		if err := os.MkdirAll(d, 0750); err != nil {
			return nil, fmt.Errorf("supervisor: mkdir logdir %s: %w", d, err)
		}
	}

	gid := groupGID(cfg.Group)
	st.GID = gid

	for _, name := range childNames {
		entry, ok := entries[name]
		if !ok {
			return nil, fmt.Errorf("supervisor: no entry function registered for %q", name)
		}
		c := child.New(name, name, cfg.SockDir, cfg.SockDir, entry)
		ln, err := prepareChildSocket(c.SockPath, gid)
		if err != nil {
			return nil, err
		}
		c.SetListener(ln)
		st.Children = append(st.Children, c)
	}

	return st, nil
}

// Connector returns the connector child descriptor, the only one the
// control listener's "getfd" command needs to reach directly.
func (s *State) Connector() *child.Child {
	return s.childByName("connector")
}

func (s *State) childByName(name string) *child.Child {
	for _, c := range s.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ShutdownRequested returns the channel that closes once teardown has been
// requested by any source (control listener, watchdog, signal handler).
func (s *State) ShutdownRequested() <-chan struct{} {
	return s.shutdownCh
}

// RequestShutdown triggers process-wide teardown exactly once.
func (s *State) RequestShutdown() {
	if s.shutdownOk.CompareAndSwap(false, true) {
		close(s.shutdownCh)
	}
}
