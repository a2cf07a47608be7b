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
	"encoding/json"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/plebhash/ckpool-solo-signet-workshop/level"
	"github.com/plebhash/ckpool-solo-signet-workshop/unixsock"
)

// statusReply is the payload of the "status" admin verb: a snapshot of the
// supervisor's own pid and log level plus each child's pid and uptime.
type statusReply struct {
	Name     string        `json:"name"`
	PID      int           `json:"pid"`
	LogLevel int32         `json:"log_level"`
	Children []childStatus `json:"children"`
}

type childStatus struct {
	Name    string `json:"name"`
	PID     int    `json:"pid"`
	UptimeS int64  `json:"uptime_s"`
}

// RunListener accepts on <socket_dir>/listener and serves the admin
// command table until the listener is asked to stop or the process is
// shutting down.
func (s *State) RunListener(pid int) error {
	ln, err := unixsock.OpenServer(s.SockDir+"listener", s.GID)
	if err != nil {
		return err
	}
	s.listenerLn = ln

	go func() {
		<-s.ShutdownRequested()
		_ = ln.Close()
	}()

	for {
		conn, err := ln.AcceptUnix()
		if err != nil {
			return nil
		}
		go s.handleAdminConn(conn, pid)
	}
}

// CloseListener closes the bound listener socket, used by teardown.
func (s *State) CloseListener() {
	if s.listenerLn != nil {
		_ = s.listenerLn.Close()
	}
}

func (s *State) handleAdminConn(conn *net.UnixConn, pid int) {
	defer conn.Close()

	cmd, err := unixsock.RecvString(conn)
	if err != nil {
		return
	}

	switch {
	case cmd == "shutdown":
		_ = unixsock.SendString(conn, "exiting")
		s.RequestShutdown()

	case cmd == "ping":
		_ = unixsock.SendString(conn, "pong")

	case strings.HasPrefix(cmd, "loglevel"):
		s.handleLogLevel(conn, cmd)

	case cmd == "getfd":
		s.handleGetFD(conn)

	case cmd == "restart":
		s.handleRestart()
		// No reply for restart: the process that would send one is about
		// to be replaced.

	case cmd == "status":
		s.handleStatus(conn, pid)

	default:
		_ = unixsock.SendString(conn, "unknown")
	}
}

// handleLogLevel parses "loglevel=N", validates 0..7, sets it, and
// broadcasts it to every child.
func (s *State) handleLogLevel(conn *net.UnixConn, cmd string) {
	parts := strings.SplitN(cmd, "=", 2)
	if len(parts) != 2 {
		_ = unixsock.SendString(conn, "Failed")
		return
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		_ = unixsock.SendString(conn, "Failed")
		return
	}
	lvl, ok := level.Parse(n)
	if !ok {
		_ = unixsock.SendString(conn, "Invalid")
		return
	}

	s.LogLevel.Store(int32(lvl))
	if s.Logger != nil {
		s.Logger.Log(level.Notice, nil, "log level changed to %d via control socket", n)
	}
	s.broadcastLogLevel(lvl)
	_ = unixsock.SendString(conn, "success")
}

// broadcastLogLevel sends "loglevel=N" to every child's control socket.
func (s *State) broadcastLogLevel(lvl level.Level) {
	for _, c := range s.Children {
		go func(path string) {
			conn, err := unixsock.OpenClient(path)
			if err != nil {
				return
			}
			defer conn.Close()
			_ = unixsock.SendString(conn, "loglevel="+strconv.Itoa(int(lvl)))
			_, _ = unixsock.RecvString(conn)
		}(c.SockPath)
	}
}

// handleGetFD asks the connector for its listening fd, receives one fd
// back via ancillary data, and forwards that same fd to the requester,
// closing the local copy.
func (s *State) handleGetFD(conn *net.UnixConn) {
	connector := s.Connector()
	if connector == nil {
		return
	}

	cConn, err := unixsock.OpenClient(connector.SockPath)
	if err != nil {
		return
	}
	defer cConn.Close()

	if err := unixsock.SendString(cConn, "getfd"); err != nil {
		return
	}

	fd, err := unixsock.RecvFD(cConn)
	if err != nil {
		return
	}
	defer closeFD(fd)

	_ = unixsock.SendFD(conn, fd)
}

// handleRestart launches a new supervisor generation that execs the
// original argv with "-H" appended unless already in handover mode. It
// deliberately does not wait on the launched process before returning —
// if its exec fails outright we at least log it so the failure isn't
// silent, but we don't block the admin connection on the new generation's
// startup.
func (s *State) handleRestart() {
	args := append([]string{}, s.InitialArgs...)
	if !s.Mode.Handover {
		args = append(args, "-H")
	}
	if err := relaunchSelf(args); err != nil && s.Logger != nil {
		s.Logger.Log(level.Error, err, "restart: failed to relaunch")
	}
}

func (s *State) handleStatus(conn *net.UnixConn, pid int) {
	st := statusReply{
		Name:     s.Name,
		PID:      pid,
		LogLevel: s.LogLevel.Load(),
	}
	for _, c := range s.Children {
		st.Children = append(st.Children, childStatus{
			Name:    c.Name,
			PID:     c.PID(),
			UptimeS: int64(time.Since(c.LastStart()).Seconds()),
		})
	}
	b, err := json.Marshal(st)
	if err != nil {
		return
	}
	_ = unixsock.SendMsg(conn, b)
}
