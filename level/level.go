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

// Package level defines the syslog-style 0..7 severity scale used across
// the supervisor and its children.
package level

import "github.com/sirupsen/logrus"

// Level is the standard syslog severity, 0 (most severe) .. 7 (least).
type Level uint8

const (
	Emergency Level = iota
	Alert
	Critical
	Error
	Warning
	Notice
	Info
	Debug
)

// Parse converts an int in the valid 0..7 range to a Level. It does not
// clamp: out-of-range input returns ok=false (and Emergency), so the caller,
// e.g. the "loglevel=N" control command, can reject it.
func Parse(n int) (lvl Level, ok bool) {
	if n < int(Emergency) || n > int(Debug) {
		return Emergency, false
	}
	return Level(n), true
}

// String returns the syslog name of the level.
func (l Level) String() string {
	switch l {
	case Emergency:
		return "emerg"
	case Alert:
		return "alert"
	case Critical:
		return "crit"
	case Error:
		return "err"
	case Warning:
		return "warning"
	case Notice:
		return "notice"
	case Info:
		return "info"
	case Debug:
		return "debug"
	default:
		return "unknown"
	}
}

// Logrus maps a syslog level onto the nearest logrus level. logrus only has
// six levels against our eight, so Emergency/Alert/Critical collapse onto
// PanicLevel and Notice collapses onto InfoLevel.
func (l Level) Logrus() logrus.Level {
	switch l {
	case Emergency, Alert, Critical:
		return logrus.PanicLevel
	case Error:
		return logrus.ErrorLevel
	case Warning:
		return logrus.WarnLevel
	case Notice, Info:
		return logrus.InfoLevel
	case Debug:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}

// LessSevereThan reports whether l is a lower-priority level than threshold,
// i.e. whether a message at level l would be dropped when the configured
// threshold is other.
func (l Level) LessSevereThan(threshold Level) bool {
	return l > threshold
}
