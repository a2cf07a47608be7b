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
	"fmt"
	"os"
	"os/exec"

	"github.com/plebhash/ckpool-solo-signet-workshop/child"
)

// ChildEnvVar is set in a child process's environment to tell the re-exec'd
// binary which entry function to run (cmd/ckpoold's main checks this
// before any cobra/flag parsing). This is internal plumbing, never exposed
// as a CLI flag.
const ChildEnvVar = "CKPOOL_CHILD"

// OldConnEnvVar tells a freshly launched connector child which inherited
// fd carries the listening socket handed over from a prior generation.
// Only ever set when State.OldConnFD >= 0 and the child being launched is
// the connector.
const OldConnEnvVar = "CKPOOL_OLDCONN_FD"

// oldConnChildFD is the fd number the old-connection file always lands on
// inside the child, since it is always the second entry in ExtraFiles
// (the control socket is always the first, landing on fd 3).
const oldConnChildFD = 4

// LaunchProcess (re)launches one child. Go's runtime cannot fork() safely
// once it has spawned more than one OS thread, so this re-execs the
// supervisor's own binary with ChildEnvVar set, passing the pre-bound
// control socket as inherited fd 3 via exec.Cmd.ExtraFiles — Go's
// equivalent of the fd surviving a real fork().
func (s *State) LaunchProcess(c *child.Child) error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("supervisor: resolve executable path: %w", err)
	}

	ln := c.Listener()
	if ln == nil {
		return fmt.Errorf("supervisor: child %q has no prepared control socket", c.Name)
	}
	lnFile, err := ln.File()
	if err != nil {
		return fmt.Errorf("supervisor: dup control socket for %q: %w", c.Name, err)
	}

	cmd := exec.Command(exe, s.InitialArgs[1:]...)
	cmd.Env = append(os.Environ(), ChildEnvVar+"="+c.Name)
	cmd.ExtraFiles = []*os.File{lnFile}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	var oldConnFile *os.File
	if c.Name == "connector" && s.OldConnFD >= 0 {
		oldConnFile = os.NewFile(uintptr(s.OldConnFD), "oldconn")
		cmd.ExtraFiles = append(cmd.ExtraFiles, oldConnFile)
		cmd.Env = append(cmd.Env, fmt.Sprintf("%s=%d", OldConnEnvVar, oldConnChildFD))
	}

	if err := cmd.Start(); err != nil {
		_ = lnFile.Close()
		if oldConnFile != nil {
			_ = oldConnFile.Close()
		}
		return fmt.Errorf("supervisor: start %q: %w", c.Name, err)
	}
	_ = lnFile.Close() // the child has its own dup now
	if oldConnFile != nil {
		_ = oldConnFile.Close()
		s.OldConnFD = -1 // consumed; only the connector's first launch adopts it
	}

	c.SetCmd(cmd)
	c.SetPID(cmd.Process.Pid)
	return nil
}

// LaunchAll starts every child in order.
func (s *State) LaunchAll() error {
	for _, c := range s.Children {
		if err := s.LaunchProcess(c); err != nil {
			return err
		}
	}
	return nil
}
