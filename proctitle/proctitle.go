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

// Package proctitle implements a best-effort process title rename. Go has
// no direct equivalent of POSIX prctl(PR_SET_NAME) / argv rewriting in the
// standard library, and doing the real in-place argv rewrite that makes
// `ps`/`/proc/pid/cmdline` pick up the new name requires unsafe access to
// the C runtime's argv pointer, which this package deliberately avoids.
// Set only rewrites os.Args[0] in this process's own view, which is
// enough for this process's own diagnostics and log lines to agree on a
// name, without claiming POSIX prctl parity.
package proctitle

import "os"

// Set renames the process title to name, truncating if the new name is
// longer than the original argv[0].
func Set(name string) {
	if len(os.Args) == 0 {
		return
	}
	orig := os.Args[0]
	b := []byte(orig)

	n := copy(b, name)
	for i := n; i < len(b); i++ {
		b[i] = 0
	}
	os.Args[0] = string(b)
}
