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

package supervisor

import (
	"os"
	"syscall"
	"time"

	"github.com/plebhash/ckpool-solo-signet-workshop/level"
)

// Teardown runs the orderly shutdown sequence: signal every child to stop,
// give them a second to exit cleanly, then kill anything still alive. The
// watchdog's context must already be cancelled (and its goroutine joined)
// by the caller before invoking Teardown, so it doesn't react to our own
// kills below.
func (s *State) Teardown(pid int) {
	s.sendToLiveChildren(syscall.SIGUSR1)

	time.Sleep(1 * time.Second)

	s.sendToLiveChildren(syscall.SIGKILL)

	s.CloseListener()
	_ = os.Remove(s.SockDir + s.Name + ".pid")
	_ = os.Remove(s.SockDir + "listener")

	if s.Logger != nil {
		s.Logger.Log(level.Notice, nil, "teardown complete, exiting")
		_ = s.Logger.Close()
	}
}

// sendToLiveChildren signals every child whose pid is still reachable. A
// dead pid (pidLive reporting false) is logged at alert and the send
// suppressed rather than risking a signal landing on a reused pid.
func (s *State) sendToLiveChildren(sig syscall.Signal) {
	for _, c := range s.Children {
		pid := c.PID()
		if pid <= 0 {
			continue
		}
		if !pidLive(pid) {
			if s.Logger != nil {
				s.Logger.Log(level.Alert, nil, "child %q (pid %d) already gone, skipping signal %v", c.Name, pid, sig)
			}
			continue
		}
		_ = syscall.Kill(pid, sig)
	}
}
