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
	"context"
	"syscall"
	"time"

	"github.com/plebhash/ckpool-solo-signet-workshop/child"
	"github.com/plebhash/ckpool-solo-signet-workshop/level"
)

// RunWatchdog is the watchdog loop: wait4(-1, &status, 0, nil), reacting
// to whichever child exits next. ctx is cancelled at teardown so the
// watchdog stops reacting to our own kills.
func (s *State) RunWatchdog(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		var status syscall.WaitStatus
		wpid, err := syscall.Wait4(-1, &status, 0, nil)
		if err != nil {
			if err == syscall.ECHILD {
				// No children left to wait for; teardown is presumably
				// already in progress.
				return
			}
			time.Sleep(100 * time.Millisecond)
			continue
		}

		select {
		case <-ctx.Done():
			return
		default:
		}

		s.handleChildExit(wpid, status)
	}
}

// handleChildExit applies the respawn policy for one reaped pid.
func (s *State) handleChildExit(pid int, status syscall.WaitStatus) {
	c := s.childByPID(pid)
	if c == nil {
		// Unknown pid: something we didn't launch died under us. Treat
		// it as unrecoverable rather than silently ignore it.
		if s.Logger != nil {
			s.Logger.Log(level.Alert, nil, "watchdog: reaped unknown pid %d", pid)
		}
		s.requestShutdownViaListener()
		return
	}

	if status.Exited() && !status.Signaled() {
		if s.Logger != nil {
			s.Logger.Log(level.Notice, nil, "child %q (pid %d) exited normally, status %d", c.Name, pid, status.ExitStatus())
		}
		s.requestShutdownViaListener()
		return
	}

	if time.Since(c.LastStart()) < time.Second {
		if s.Logger != nil {
			s.Logger.Log(level.Emergency, nil, "child %q crashed within 1s of its last (re)start — respawn-storm brake engaged", c.Name)
		}
		s.requestShutdownViaListener()
		return
	}

	if s.Logger != nil {
		s.Logger.Log(level.Warning, nil, "child %q (pid %d) died, respawning", c.Name, pid)
	}
	if err := s.LaunchProcess(c); err != nil {
		if s.Logger != nil {
			s.Logger.Log(level.Critical, err, "failed to respawn child %q", c.Name)
		}
		s.requestShutdownViaListener()
	}
}

func (s *State) childByPID(pid int) *child.Child {
	for _, c := range s.Children {
		if c.PID() == pid {
			return c
		}
	}
	return nil
}

// requestShutdownViaListener is equivalent to sending "shutdown" to our
// own admin socket, but implemented directly against in-process state
// since we already hold the reference — no need to round-trip through
// the socket we'd just be talking to ourselves on.
func (s *State) requestShutdownViaListener() {
	s.RequestShutdown()
}
