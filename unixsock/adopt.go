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

package unixsock

import (
	"net"
	"os"

	"github.com/plebhash/ckpool-solo-signet-workshop/apperror"
)

// AdoptTCPListener wraps a raw file descriptor received via handover (or
// inherited directly) as a *net.TCPListener, without binding a fresh
// socket. The fd is consumed: the returned listener owns its own dup, so
// the caller should not also close fd itself.
func AdoptTCPListener(fd int) (*net.TCPListener, error) {
	f := os.NewFile(uintptr(fd), "inherited-listener")
	if f == nil {
		return nil, apperror.New(apperror.FatalStartup, "adopt tcp listener: invalid fd", nil)
	}
	ln, err := net.FileListener(f)
	_ = f.Close()
	if err != nil {
		return nil, apperror.New(apperror.FatalStartup, "adopt tcp listener: wrap fd", err)
	}
	tcpLn, ok := ln.(*net.TCPListener)
	if !ok {
		return nil, apperror.New(apperror.FatalStartup, "adopted fd is not a tcp listener", nil)
	}
	return tcpLn, nil
}
