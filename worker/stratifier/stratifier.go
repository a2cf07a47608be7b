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

// Package stratifier is a minimal stand-in for the stratum protocol and
// share-validation worker. Its own protocol (accepting miner connections,
// validating shares, tracking difficulty) is a separate concern from
// process supervision — this package exists only to exercise the Child
// contract end to end. When a btcd endpoint is configured it constructs an
// rpcclient.Conn for it; no JSON-RPC call is made and no block templates
// are polled.
package stratifier

import (
	"github.com/plebhash/ckpool-solo-signet-workshop/level"
	"github.com/plebhash/ckpool-solo-signet-workshop/rpcclient"
	"github.com/plebhash/ckpool-solo-signet-workshop/worker/common"
	"github.com/plebhash/ckpool-solo-signet-workshop/workerctx"
)

// Entry is this worker's EntryFunc.
func Entry(ctx workerctx.Context) int {
	ctx.Logger.Log(level.Info, nil, "stratifier started, mindiff=%d startdiff=%d", ctx.Cfg.MinDiff, ctx.Cfg.StartDiff)

	if len(ctx.Cfg.BTCDs) > 0 {
		btcd := ctx.Cfg.BTCDs[0]
		_ = rpcclient.New(btcd.URL, 8332, btcd.Auth, btcd.Pass)
		ctx.Logger.Log(level.Debug, nil, "stratifier holds a JSON-RPC client for %s", btcd.URL)
	}

	common.ServeControlLoop(ctx, nil)
	return 0
}
