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

// Package msgqueue implements a named, single-consumer, in-process FIFO
// queue: producers enqueue under a lock and signal a condition variable,
// one dedicated consumer goroutine drains the queue with a 1s bounded wait
// so teardown is observed with bounded latency even when nothing is being
// produced.
package msgqueue

import (
	"context"
	"sync"
	"time"
)

// waitTimeout bounds how long a consumer with an empty queue blocks
// before re-checking for a stop request, so teardown is noticed within
// one second even when nothing is being produced.
const waitTimeout = 1 * time.Second

// ConsumerFunc processes one dequeued payload. owner is whatever opaque
// handle the queue was created with; Queue never inspects it.
type ConsumerFunc func(owner any, payload any)

// node is one link of the singly-linked, insertion-ordered queue.
type node struct {
	payload any
	next    *node
}

// Queue is a named single-consumer FIFO with condition-variable wakeup.
type Queue struct {
	name  string
	owner any

	mu   sync.Mutex
	cond *sync.Cond
	head *node
	tail *node

	consumer ConsumerFunc
	done     chan struct{}
	stopOnce sync.Once
}

// New creates a queue and immediately starts its dedicated consumer
// goroutine. name is truncated to 15 bytes to match the usual POSIX
// thread-name limit, purely for diagnostic consistency (goroutines have
// no OS-visible name in Go).
func New(name string, owner any, consumer ConsumerFunc) *Queue {
	if len(name) > 15 {
		name = name[:15]
	}
	q := &Queue{
		name:     name,
		owner:    owner,
		consumer: consumer,
		done:     make(chan struct{}),
	}
	q.cond = sync.NewCond(&q.mu)

	go q.run()
	return q
}

// Name returns the queue's (possibly truncated) name.
func (q *Queue) Name() string {
	return q.name
}

// Enqueue appends payload to the tail and wakes the consumer. payload
// ownership transfers to the queue; the consumer is responsible for any
// cleanup. Enqueuing a nil payload is a programmer error and is dropped
// without reaching the consumer.
func (q *Queue) Enqueue(payload any) {
	if payload == nil {
		return
	}

	n := &node{payload: payload}

	q.mu.Lock()
	if q.tail == nil {
		q.head = n
		q.tail = n
	} else {
		q.tail.next = n
		q.tail = n
	}
	q.mu.Unlock()

	q.cond.Signal()
}

// Stop requests the consumer goroutine to exit. Draining whatever is
// already queued is not guaranteed: the 1s wait bound means worst-case
// teardown latency is one second.
func (q *Queue) Stop() {
	q.stopOnce.Do(func() {
		close(q.done)
		q.cond.Signal()
	})
}

// run is the consumer loop: acquire the lock, wait up to 1s if empty,
// detach the head, release the lock, invoke consumer_fn outside the lock.
func (q *Queue) run() {
	for {
		select {
		case <-q.done:
			return
		default:
		}

		payload, ok := q.dequeueOrWait()
		if !ok {
			continue
		}
		q.consumer(q.owner, payload)
	}
}

// dequeueOrWait pops the head if present, else blocks on the condition
// variable for at most waitTimeout, waking early on Enqueue or Stop.
func (q *Queue) dequeueOrWait() (any, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.head == nil {
		// sync.Cond has no timed wait; splice in a deadline by waking
		// ourselves from a timer goroutine, equivalent to
		// pthread_cond_timedwait(&cond, &mutex, 1s).
		timedOut := make(chan struct{})
		timer := time.AfterFunc(waitTimeout, func() {
			close(timedOut)
			q.cond.Signal()
		})
		defer timer.Stop()

		for q.head == nil {
			select {
			case <-q.done:
				return nil, false
			case <-timedOut:
				return nil, false
			default:
			}
			q.cond.Wait()
		}
	}

	n := q.head
	q.head = n.next
	if q.head == nil {
		q.tail = nil
	}
	return n.payload, true
}

// WaitIdle blocks until the queue has drained or ctx is done; used by tests
// and by graceful teardown paths that want to know the backlog is empty
// before proceeding.
func (q *Queue) WaitIdle(ctx context.Context) bool {
	t := time.NewTicker(10 * time.Millisecond)
	defer t.Stop()
	for {
		q.mu.Lock()
		empty := q.head == nil
		q.mu.Unlock()
		if empty {
			return true
		}
		select {
		case <-ctx.Done():
			return false
		case <-t.C:
		}
	}
}
