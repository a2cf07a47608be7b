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
	"net"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync/atomic"
	"syscall"

	"github.com/plebhash/ckpool-solo-signet-workshop/apperror"
	"github.com/plebhash/ckpool-solo-signet-workshop/config"
	"github.com/plebhash/ckpool-solo-signet-workshop/level"
	"github.com/plebhash/ckpool-solo-signet-workshop/logsink"
	"github.com/plebhash/ckpool-solo-signet-workshop/proctitle"
	"github.com/plebhash/ckpool-solo-signet-workshop/workerctx"
)

// ChildControlFD is the fd number a worker's pre-bound control socket
// arrives on, per exec.Cmd.ExtraFiles ordering (ExtraFiles[0] is always
// fd 3: 0,1,2 are stdin/stdout/stderr).
const ChildControlFD = 3

// RunChild is the per-child entry sequence: starts its own Log Sink,
// installs the child signal handler, renames its process title, writes
// (and races for) its PID file, runs entry, then cleans up. Returns the
// process's exit code.
func RunChild(name string, cfg *config.Config, entry workerctx.EntryFunc, oldConnFD int) int {
	lvl := &atomic.Int32{}
	lvl.Store(int32(cfg.LogLevel))

	sink, err := logsink.New(cfg.Name, cfg.LogDir+"/"+cfg.Name+".log", lvl)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: log sink: %v\n", name, err)
		return 1
	}
	defer sink.Close()

	installChildSignals(sink)

	proctitle.Set(name)

	pidPath := cfg.SockDir + name + ".pid"
	if err := claimPIDFile(pidPath, cfg.Mode.KillOld, sink); err != nil {
		sink.Log(level.Critical, err, "%s: cannot claim pid file", name)
		return 1
	}
	defer os.Remove(pidPath)

	ctrl, err := adoptControlSocket()
	if err != nil {
		sink.Log(level.Critical, err, "%s: cannot adopt control socket", name)
		return 1
	}
	defer ctrl.Close()

	ctx := workerctx.Context{
		Name:      name,
		Control:   ctrl,
		Logger:    sink,
		Mode:      cfg.Mode,
		Cfg:       cfg,
		OldConnFD: oldConnFD,
	}

	rc := entry(ctx)
	return rc
}

// adoptControlSocket wraps the inherited fd 3 as a *net.UnixListener. This
// is the Go analogue of a forked child inheriting its already-bound
// control socket fd from the parent's address space.
func adoptControlSocket() (*net.UnixListener, error) {
	f := os.NewFile(uintptr(ChildControlFD), "control")
	if f == nil {
		return nil, apperror.New(apperror.FatalStartup, "control socket fd not inherited", nil)
	}
	ln, err := net.FileListener(f)
	_ = f.Close()
	if err != nil {
		return nil, apperror.New(apperror.FatalStartup, "wrap control socket fd", err)
	}
	unixLn, ok := ln.(*net.UnixListener)
	if !ok {
		return nil, apperror.New(apperror.FatalStartup, "inherited fd is not a unix listener", nil)
	}
	return unixLn, nil
}

// claimPIDFile checks whether the pid file already names a live process:
// if so and kill_old is unset, this is a fatal startup error; if kill_old
// is set, the prior process is killed first. The file is then overwritten
// with our own pid.
func claimPIDFile(path string, killOld bool, sink *logsink.Sink) error {
	if b, err := os.ReadFile(path); err == nil {
		if prev, perr := strconv.Atoi(strings.TrimSpace(string(b))); perr == nil && prev > 0 && pidLive(prev) {
			if !killOld {
				return apperror.New(apperror.FatalStartup, fmt.Sprintf("pid file %s names live pid %d", path, prev), nil)
			}
			sink.Log(level.Warning, nil, "killing old process %d from stale pid file %s", prev, path)
			_ = syscall.Kill(prev, syscall.SIGKILL)
		}
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0640)
}

// installChildSignals sets up the child's signal topology: SIGUSR1 means
// "graceful local shutdown requested by the parent", exit silently; every
// other handled signal is forwarded to the parent (getppid()) before this
// process exits, so Ctrl-C anywhere converges on the supervisor.
// SIGINT/SIGQUIT are ignored.
func installChildSignals(sink *logsink.Sink) {
	ch := make(chan os.Signal, 4)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGUSR1)
	signal.Ignore(syscall.SIGINT, syscall.SIGQUIT)

	go func() {
		sig := <-ch
		if sig == syscall.SIGUSR1 {
			os.Exit(0)
		}
		sink.Log(level.Notice, nil, "forwarding signal %v to parent", sig)
		_ = syscall.Kill(os.Getppid(), sig.(syscall.Signal))
		os.Exit(0)
	}()
}
