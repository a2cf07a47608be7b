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

// Package logsink is the per-process log sink: a logrus.Logger whose hooks
// do the actual writing. The file hook enqueues onto a MsgQueue whose
// consumer serializes formatted lines to a shared log file under an
// advisory exclusive lock; the stderr hook mirrors warning-and-above lines
// synchronously. Never inherited across fork: every child calls New again
// at entry.
package logsink

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"github.com/plebhash/ckpool-solo-signet-workshop/level"
	"github.com/plebhash/ckpool-solo-signet-workshop/msgqueue"
)

// sinkLevelField is the logrus.Entry.Data key Sink stashes its own 8-value
// level.Level under. logrus's native Level is only 6-valued and lossy for
// our purposes (level.Level.Logrus collapses Emergency/Alert/Critical onto
// PanicLevel and Notice onto InfoLevel), so formatting and the stderr
// mirror's color choice both read this field instead of entry.Level.
const sinkLevelField = "sink_level"

// lineFormatter renders a logrus.Entry as
// "[YYYY-MM-DD HH:MM:SS] <level>: <message>\n".
type lineFormatter struct{}

func (lineFormatter) Format(e *logrus.Entry) ([]byte, error) {
	lvl, _ := e.Data[sinkLevelField].(level.Level)
	stamp := e.Time.Format("2006-01-02 15:04:05")
	return []byte(fmt.Sprintf("[%s] %s: %s\n", stamp, lvl.String(), e.Message)), nil
}

// fileHook is a logrus.Hook that hands every entry to a MsgQueue for async,
// flock-serialized file writes: one hook per concern, with the write itself
// queued through a single-consumer MsgQueue instead of a buffered writer.
type fileHook struct {
	queue *msgqueue.Queue
	file  *os.File
}

func (h *fileHook) Levels() []logrus.Level { return logrus.AllLevels }

func (h *fileHook) Fire(e *logrus.Entry) error {
	text, err := (lineFormatter{}).Format(e)
	if err != nil {
		return err
	}
	h.queue.Enqueue(string(text))
	return nil
}

// consumeFileLine is the MsgQueue ConsumerFunc backing fileHook: lock the
// file, write the line, unlock.
func consumeFileLine(owner any, payload any) {
	h := owner.(*fileHook)
	text := payload.(string)

	if err := unix.Flock(int(h.file.Fd()), unix.LOCK_EX); err != nil {
		// Nothing else to log this failure to; best-effort stderr note.
		fmt.Fprintf(os.Stderr, "logsink: flock failed: %v\n", err)
	}
	_, _ = h.file.WriteString(text)
	_ = unix.Flock(int(h.file.Fd()), unix.LOCK_UN)
}

// stderrHook mirrors warning-and-above entries to stderr synchronously,
// colorized by severity: warnings in yellow, error-and-worse in red.
type stderrHook struct{}

func (stderrHook) Levels() []logrus.Level {
	return []logrus.Level{logrus.PanicLevel, logrus.FatalLevel, logrus.ErrorLevel, logrus.WarnLevel}
}

func (stderrHook) Fire(e *logrus.Entry) error {
	text, err := (lineFormatter{}).Format(e)
	if err != nil {
		return err
	}
	lvl, _ := e.Data[sinkLevelField].(level.Level)
	if lvl <= level.Error {
		color.New(color.FgRed).Fprint(os.Stderr, string(text))
	} else {
		color.New(color.FgYellow).Fprint(os.Stderr, string(text))
	}
	return nil
}

// Sink is the per-process Log Sink.
type Sink struct {
	name   string
	logger *logrus.Logger
	file   *os.File
	queue  *msgqueue.Queue

	threshold *atomic.Int32 // shared, so concurrent readers never tear a partial update
}

// New opens (or creates) the log file at path, wires a logrus.Logger with
// the file and stderr hooks, and starts the file hook's consumer goroutine.
// threshold may be shared with the control listener so that a "loglevel=N"
// broadcast is visible here without a lock.
func New(name, path string, threshold *atomic.Int32) (*Sink, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0640)
	if err != nil {
		return nil, fmt.Errorf("logsink: open %s: %w", path, err)
	}

	fh := &fileHook{file: f}
	fh.queue = msgqueue.New(name+"-log", fh, consumeFileLine)

	logger := logrus.New()
	logger.SetOutput(io.Discard) // hooks do all writing; no default stdout line
	logger.SetLevel(logrus.TraceLevel) // Sink.Log already gates on threshold before logging
	logger.SetFormatter(lineFormatter{})
	logger.AddHook(fh)
	logger.AddHook(stderrHook{})

	return &Sink{
		name:      name,
		logger:    logger,
		file:      f,
		queue:     fh.queue,
		threshold: threshold,
	}, nil
}

// Log formats msg at lvl, drops it if more verbose than the current
// threshold, and otherwise routes it through the logrus.Logger's hooks
// (file, and stderr when lvl <= Warning).
func (s *Sink) Log(lvl level.Level, sysErr error, format string, args ...any) {
	if int32(lvl) > s.threshold.Load() {
		return
	}

	msg := fmt.Sprintf(format, args...)
	if lvl <= level.Error && sysErr != nil {
		msg = fmt.Sprintf("%s: %v", msg, sysErr)
	}

	// logrus's Entry.Log panics after firing the hooks when given
	// PanicLevel, so levels that collapse onto it are dispatched at
	// FatalLevel instead (Entry.Log never exits). Hooks and formatter read
	// sinkLevelField, so the written line is unchanged.
	ll := lvl.Logrus()
	if ll == logrus.PanicLevel {
		ll = logrus.FatalLevel
	}
	s.logger.WithField(sinkLevelField, lvl).Log(ll, msg)
}

// SetLevel updates the shared threshold in place. Safe to call from any
// goroutine; takes effect for the very next Log call on every sink sharing
// this threshold pointer.
func (s *Sink) SetLevel(lvl level.Level) {
	s.threshold.Store(int32(lvl))
}

// Close stops the file hook's consumer and closes the underlying file.
// Worst-case latency to observe the stop request is the queue's 1s wait
// bound.
func (s *Sink) Close() error {
	s.queue.Stop()
	return s.file.Close()
}
