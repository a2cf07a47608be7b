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

import "os"

// ClaimOwnPIDFile runs the same stale-pid race logic claimPIDFile applies
// to a child against the supervisor's own pid file, then returns the path
// so the caller can remove it during teardown.
func (s *State) ClaimOwnPIDFile() (string, error) {
	path := s.SockDir + s.Name + ".pid"
	if err := claimPIDFile(path, s.Mode.KillOld, s.Logger); err != nil {
		return path, err
	}
	return path, nil
}

// RemoveOwnPIDFile is a teardown-time best-effort cleanup, separate from
// Teardown itself so cmd/ckpoold can call it even on early startup
// failure paths that never reach Teardown.
func (s *State) RemoveOwnPIDFile(path string) {
	_ = os.Remove(path)
}
