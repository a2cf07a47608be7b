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

// Package child describes a supervised worker process: name, pid, control
// socket, and the entry function that it runs once started.
package child

import (
	"net"
	"os/exec"
	"sync"
	"time"

	"github.com/plebhash/ckpool-solo-signet-workshop/workerctx"
)

// Child is one worker descriptor, owned by the supervisor.
type Child struct {
	Name     string
	SockName string
	SockPath string
	PIDPath  string
	Entry    workerctx.EntryFunc

	mu        sync.Mutex
	cmd       *exec.Cmd
	listener  *net.UnixListener
	pid       int
	lastStart time.Time
}

// New builds a Child descriptor. sockName defaults to name.
func New(name, sockName, sockDir, pidDir string, entry workerctx.EntryFunc) *Child {
	if sockName == "" {
		sockName = name
	}
	return &Child{
		Name:     name,
		SockName: sockName,
		SockPath: sockDir + sockName,
		PIDPath:  pidDir + name + ".pid",
		Entry:    entry,
	}
}

// PID returns the current known pid (0 if never started).
func (c *Child) PID() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pid
}

// SetPID records the pid of a freshly (re)launched process and the launch
// timestamp, used by the watchdog's respawn-storm brake.
func (c *Child) SetPID(pid int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pid = pid
	c.lastStart = time.Now()
}

// LastStart returns the timestamp of the most recent (re)launch.
func (c *Child) LastStart() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastStart
}

// SetListener stores the pre-bound control socket listener created before
// the child process exists, passed to the child via exec.Cmd.ExtraFiles
// at launch — Go's FD-inheritance analogue to fork() sharing the parent's
// address space.
func (c *Child) SetListener(ln *net.UnixListener) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.listener = ln
}

// Listener returns the pre-bound control socket listener, if any.
func (c *Child) Listener() *net.UnixListener {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.listener
}

// SetCmd stores the exec.Cmd handle of the currently running OS process.
func (c *Child) SetCmd(cmd *exec.Cmd) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cmd = cmd
}

// Cmd returns the current exec.Cmd handle, or nil.
func (c *Child) Cmd() *exec.Cmd {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cmd
}
