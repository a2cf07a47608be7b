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

package msgqueue

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestEnqueueOrderPreserved(t *testing.T) {
	var mu sync.Mutex
	var got []int

	q := New("order", nil, func(_ any, payload any) {
		mu.Lock()
		got = append(got, payload.(int))
		mu.Unlock()
	})
	defer q.Stop()

	for i := 0; i < 50; i++ {
		q.Enqueue(i)
	}

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		mu.Lock()
		n := len(got)
		mu.Unlock()
		if n == 50 {
			break
		}
		time.Sleep(time.Millisecond)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(got) != 50 {
		t.Fatalf("expected 50 items consumed, got %d", len(got))
	}
	for i, v := range got {
		if v != i {
			t.Fatalf("out of order at index %d: got %d want %d", i, v, i)
		}
	}
}

func TestNilPayloadDropped(t *testing.T) {
	consumed := make(chan any, 1)
	q := New("nilcheck", nil, func(_ any, payload any) {
		consumed <- payload
	})
	defer q.Stop()

	q.Enqueue(nil)
	q.Enqueue("real")

	select {
	case got := <-consumed:
		if got != "real" {
			t.Fatalf("expected the nil enqueue to be dropped, got %v first", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for consumer")
	}
}

func TestNameTruncatedTo15Bytes(t *testing.T) {
	q := New("this-name-is-definitely-too-long", nil, func(any, any) {})
	defer q.Stop()

	if len(q.Name()) != 15 {
		t.Fatalf("expected name truncated to 15 bytes, got %q (%d bytes)", q.Name(), len(q.Name()))
	}
}

func TestStopIsIdempotent(t *testing.T) {
	q := New("stopper", nil, func(any, any) {})
	q.Stop()
	q.Stop() // must not panic on double-close
}

func TestWaitIdleReturnsTrueOnceDrained(t *testing.T) {
	release := make(chan struct{})
	q := New("idle", nil, func(_ any, _ any) {
		<-release
	})
	defer q.Stop()

	// "one" is picked up by the consumer immediately and blocks on release;
	// "two"/"three" then sit in the queue behind it.
	q.Enqueue("one")
	time.Sleep(20 * time.Millisecond)
	q.Enqueue("two")
	q.Enqueue("three")

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	if q.WaitIdle(ctx) {
		t.Fatal("expected WaitIdle to time out while items are still queued")
	}

	close(release)

	ctx2, cancel2 := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel2()
	if !q.WaitIdle(ctx2) {
		t.Fatal("expected WaitIdle to observe the drained queue")
	}
}
