// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"code.hybscloud.com/lfq"
)

// NewQueue creates a non-blocking fixed-capacity queue split into a
// Producer and a Consumer. Unlike the channels it has no disconnect
// protocol and no blocking operations; the ring is reclaimed by the
// garbage collector once both halves are unreachable.
//
// Capacity is rounded up to a power of two, with a minimum of two.
func NewQueue[T any](capacity int) (*Producer[T], *Consumer[T]) {
	n := roundCapacity(capacity)
	if n < 2 {
		n = 2
	}
	q := lfq.NewSPSC[T](int(n))
	return &Producer[T]{q: q}, &Consumer[T]{q: q}
}

// Producer is the write half of a Queue.
// It must be used by one goroutine at a time.
type Producer[T any] struct {
	q *lfq.SPSC[T]
}

// Push appends v. It returns false if the queue is full.
func (p *Producer[T]) Push(v T) bool {
	return p.q.Enqueue(&v) == nil
}

// Cap returns the queue capacity.
func (p *Producer[T]) Cap() int {
	return p.q.Cap()
}

// Consumer is the read half of a Queue.
// It must be used by one goroutine at a time.
type Consumer[T any] struct {
	q *lfq.SPSC[T]
}

// Pop removes the oldest value. It returns false if the queue is empty.
func (c *Consumer[T]) Pop() (T, bool) {
	v, err := c.q.Dequeue()
	return v, err == nil
}

// Cap returns the queue capacity.
func (c *Consumer[T]) Cap() int {
	return c.q.Cap()
}
