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

// Command ckpoold is the supervisor binary. Started plain, it becomes the
// top-level orchestrator; re-exec'd with CKPOOL_CHILD set in its
// environment, the very same binary instead runs one worker's entry
// function (see supervisor.RunChild).
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync/atomic"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/plebhash/ckpool-solo-signet-workshop/apperror"
	"github.com/plebhash/ckpool-solo-signet-workshop/config"
	"github.com/plebhash/ckpool-solo-signet-workshop/internal/buildinfo"
	"github.com/plebhash/ckpool-solo-signet-workshop/level"
	"github.com/plebhash/ckpool-solo-signet-workshop/logsink"
	"github.com/plebhash/ckpool-solo-signet-workshop/supervisor"
	"github.com/plebhash/ckpool-solo-signet-workshop/worker/connector"
	"github.com/plebhash/ckpool-solo-signet-workshop/worker/generator"
	"github.com/plebhash/ckpool-solo-signet-workshop/worker/stratifier"
	"github.com/plebhash/ckpool-solo-signet-workshop/workerctx"
)

// entries maps each worker name to its EntryFunc, handed to supervisor.New
// and consulted by runChild when CKPOOL_CHILD names this process's role.
var entries = map[string]workerctx.EntryFunc{
	"generator":  generator.Entry,
	"stratifier": stratifier.Entry,
	"connector":  connector.Entry,
}

func main() {
	if name := os.Getenv(supervisor.ChildEnvVar); name != "" {
		os.Exit(runChild(name))
	}

	v := viper.New()
	root := &cobra.Command{
		Use:     "ckpoold",
		Short:   "solo-signet mining pool supervisor",
		Version: buildinfo.String(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSupervisor(v, os.Args)
		},
	}
	if err := config.BindFlags(root, v); err != nil {
		fmt.Fprintf(os.Stderr, "ckpoold: bind flags: %v\n", err)
		os.Exit(1)
	}

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// runChild parses the fd handed over for a connector restart (if any) and
// runs the named worker's entry sequence in place of the supervisor path.
func runChild(name string) int {
	v := viper.New()
	root := &cobra.Command{Use: "ckpoold"}
	_ = config.BindFlags(root, v)
	_ = root.ParseFlags(os.Args[1:])

	cfg, warnErr := config.Load(v, os.Args)
	if warnErr != nil && apperror.CodeOf(warnErr) == apperror.FatalStartup {
		fmt.Fprintf(os.Stderr, "%s: config: %v\n", name, warnErr)
		return 1
	}

	entry, ok := entries[name]
	if !ok {
		fmt.Fprintf(os.Stderr, "ckpoold: unknown child role %q\n", name)
		return 1
	}

	oldConnFD := -1
	if s := os.Getenv(supervisor.OldConnEnvVar); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			oldConnFD = n
		}
	}

	return supervisor.RunChild(name, cfg, entry, oldConnFD)
}

// runSupervisor is the top-level orchestrator path: resolve config, perform
// a handover if requested, launch every child, and block until shutdown is
// requested from any source before tearing everything down.
func runSupervisor(v *viper.Viper, initialArgs []string) error {
	cfg, warnErr := config.Load(v, initialArgs)
	if warnErr != nil {
		if apperror.CodeOf(warnErr) == apperror.FatalStartup {
			return warnErr
		}
		fmt.Fprintf(os.Stderr, "ckpoold: %v\n", warnErr)
	}

	lvl := &atomic.Int32{}
	lvl.Store(int32(cfg.LogLevel))
	sink, err := logsink.New(cfg.Name, cfg.LogDir+"/"+cfg.Name+".log", lvl)
	if err != nil {
		return fmt.Errorf("ckpoold: log sink: %w", err)
	}
	defer sink.Close()

	st, err := supervisor.New(cfg, entries)
	if err != nil {
		sink.Log(level.Critical, err, "startup failed")
		return err
	}
	st.Logger = sink
	st.LogLevel = lvl // shared atomic: a "loglevel=N" admin command updates both

	// Handover must complete — and obtain the prior generation's listening
	// fd — before we claim the shared pid file: claiming it kills the prior
	// generation's supervisor (KillOld is forced on whenever Handover is),
	// which would tear down the very listener PerformHandover needs to dial.
	if cfg.Mode.Handover {
		fd, err := supervisor.PerformHandover(cfg.SockDir)
		if err != nil && fd < 0 {
			sink.Log(level.Critical, err, "handover failed")
			return err
		}
		if err != nil {
			sink.Log(level.Warning, err, "handover: fd inherited, old generation shutdown not requested")
		}
		st.OldConnFD = fd
		sink.Log(level.Notice, nil, "handover: inherited listening socket fd %d", fd)
	}

	pidPath, err := st.ClaimOwnPIDFile()
	if err != nil {
		sink.Log(level.Critical, err, "cannot claim own pid file")
		return err
	}
	defer st.RemoveOwnPIDFile(pidPath)

	if err := st.LaunchAll(); err != nil {
		sink.Log(level.Critical, err, "failed to launch children")
		return err
	}

	st.InstallSignals()

	wdCtx, cancelWatchdog := context.WithCancel(context.Background())
	watchdogDone := make(chan struct{})
	go func() {
		st.RunWatchdog(wdCtx)
		close(watchdogDone)
	}()

	go func() {
		if err := st.RunListener(os.Getpid()); err != nil {
			sink.Log(level.Error, err, "admin listener exited")
		}
	}()

	<-st.ShutdownRequested()

	cancelWatchdog()
	<-watchdogDone

	st.Teardown(os.Getpid())
	return nil
}
