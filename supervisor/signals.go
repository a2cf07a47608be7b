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
	"os/signal"
	"sync"
	"syscall"

	"github.com/plebhash/ckpool-solo-signet-workshop/level"
)

// InstallSignals wires the supervisor's own SIGTERM/SIGINT handling.
// SIGQUIT and SIGPIPE are ignored process-wide. Only the first received
// signal triggers teardown; further signals of the same kind are ignored
// once teardown is already underway.
func (s *State) InstallSignals() {
	signal.Ignore(syscall.SIGQUIT, syscall.SIGPIPE)

	ch := make(chan os.Signal, 4)
	signal.Notify(ch, syscall.SIGTERM, syscall.SIGINT)

	var once sync.Once
	go func() {
		for range ch {
			once.Do(func() {
				signal.Stop(ch)
				if s.Logger != nil {
					s.Logger.Log(level.Notice, nil, "signal received, beginning teardown")
				}
				s.RequestShutdown()
			})
		}
	}()
}
