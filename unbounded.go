// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"fmt"
	"runtime"
	"sync/atomic"

	"code.hybscloud.com/atomix"
)

// unboundedProducer is written only by the sending goroutine, except for
// recvPark which the receiver sleeps on.
//
// The chain runs reuse -> ... -> tail -> ... -> head. Nodes strictly
// before tailCache have been retired by the consumer.
type unboundedProducer[T any] struct {
	head      *node[T] // newest linked node
	reuse     *node[T] // oldest retired node
	tailCache *node[T] // last observed tail
	recvPark  Parker
	allocated atomix.Uint64
	reused    atomix.Uint64
}

// unbounded is the shared state of an unbounded free-list channel.
type unbounded[T any] struct {
	prod CachePadded[unboundedProducer[T]]
	tail CachePadded[atomic.Pointer[node[T]]] // consumer cursor
	life lifetime
}

// NewUnbounded creates a channel without a capacity limit.
func NewUnbounded[T any]() (*UnboundedSender[T], *UnboundedReceiver[T]) {
	return Unbounded[T](New(0))
}

// Unbounded creates a channel without a capacity limit configured by b.
// The builder capacity is ignored.
func Unbounded[T any](b *Builder) (*UnboundedSender[T], *UnboundedReceiver[T]) {
	c := &unbounded[T]{}
	sentinel := &node[T]{state: nodeConsumed}
	p := &c.prod.Value
	p.head = sentinel
	p.reuse = sentinel
	p.tailCache = sentinel
	p.allocated.StoreRelaxed(1)
	p.recvPark.init()
	c.tail.Value.Store(sentinel)
	c.life.init("unbounded", b.config())
	c.life.cfg.logger.Debug().
		Uint64("serial", uint64(c.life.serial)).
		Log("spsc: unbounded channel created")

	tx := &UnboundedSender[T]{ch: c}
	rx := &UnboundedReceiver[T]{ch: c}
	arm(&tx.h, tx, (*unbounded[T]).releaseSender, c)
	arm(&rx.h, rx, (*unbounded[T]).releaseReceiver, c)
	return tx, rx
}

// nextNode recycles the oldest retired node or allocates a new one.
func (c *unbounded[T]) nextNode() *node[T] {
	p := &c.prod.Value
	if p.reuse == p.tailCache {
		p.tailCache = c.tail.Value.Load()
	}
	if p.reuse != p.tailCache {
		c.life.at(PointNodeReuse)
		n := p.reuse
		p.reuse = n.next.Load()
		n.next.Store(nil)
		n.state = nodeFree
		p.reused.Add(1)
		return n
	}
	p.allocated.Add(1)
	return &node[T]{}
}

func (c *unbounded[T]) send(v T) error {
	if c.life.disconnectedRelaxed() {
		return ErrDisconnected
	}
	n := c.nextNode()
	c.life.at(PointSendReserve)
	n.value = v
	n.state = nodeLinked
	p := &c.prod.Value
	prev := p.head
	p.head = n
	c.life.at(PointSendPublish)
	prev.next.Store(n)
	p.recvPark.Unpark()
	return nil
}

func (c *unbounded[T]) tryRecv() (T, error) {
	var zero T
	tail := c.tail.Value.Load()
	next := tail.next.Load()
	c.life.at(PointRecvObserve)
	if next == nil {
		if c.life.connected() {
			return zero, ErrEmpty
		}
		next = tail.next.Load()
		if next == nil {
			return zero, ErrDisconnected
		}
	}
	v := next.value
	next.value = zero
	next.state = nodeConsumed
	tail.state = nodeRetired
	c.life.at(PointRecvAdvance)
	c.tail.Value.Store(next)
	return v, nil
}

func (c *unbounded[T]) recv() (T, error) {
	for {
		v, err := c.tryRecv()
		if err != ErrEmpty {
			return v, err
		}
		c.life.at(PointPark)
		c.prod.Value.recvPark.ParkSpin(c.life.cfg.spin)
	}
}

func (c *unbounded[T]) releaseSender() {
	c.life.release("sender", c.prod.Value.recvPark.Unpark, c.teardown)
}

// releaseReceiver has no peer to wake: the sender never blocks.
func (c *unbounded[T]) releaseReceiver() {
	c.life.release("receiver", func() {}, c.teardown)
}

// teardown unlinks retired nodes from the reuse cursor to the tail, then
// discards the values held from the tail to the head.
func (c *unbounded[T]) teardown() int {
	var zero T
	p := &c.prod.Value
	tail := c.tail.Value.Load()
	freed := 0
	for n := p.reuse; n != tail; {
		next := n.next.Load()
		n.next.Store(nil)
		n = next
		freed++
	}
	discarded := 0
	for n := tail.next.Load(); n != nil; {
		c.life.discard(n.value)
		n.value = zero
		n.state = nodeRetired
		next := n.next.Load()
		n.next.Store(nil)
		n = next
		freed++
		discarded++
	}
	tail.next.Store(nil)
	p.reuse, p.tailCache, p.head = tail, tail, tail
	c.life.freed.StoreRelaxed(uint64(freed))
	return discarded
}

// UnboundedSender is the producing endpoint of an unbounded channel.
// It must be used by one goroutine at a time.
type UnboundedSender[T any] struct {
	h  handle
	ch *unbounded[T]
}

// Send publishes v. It never blocks; it may allocate when no retired node
// is available. It returns ErrDisconnected if the receiver has been closed.
// On any error v remains owned by the caller.
func (s *UnboundedSender[T]) Send(v T) error {
	if s.h.closed {
		return ErrClosed
	}
	err := s.ch.send(v)
	runtime.KeepAlive(s)
	return err
}

// IsPeerConnected reports whether the receiver is still open.
func (s *UnboundedSender[T]) IsPeerConnected() bool {
	return s.ch.life.connected()
}

// Stats returns node allocation counters.
func (s *UnboundedSender[T]) Stats() NodeStats {
	p := &s.ch.prod.Value
	return NodeStats{
		Allocated: p.allocated.LoadRelaxed(),
		Reused:    p.reused.LoadRelaxed(),
	}
}

// Serial returns the channel serial.
func (s *UnboundedSender[T]) Serial() Serial {
	return s.ch.life.serial
}

// Close disconnects the sender. The receiver drains every value already
// sent and then observes ErrDisconnected. Close is idempotent.
func (s *UnboundedSender[T]) Close() error {
	if s.h.close() {
		s.ch.releaseSender()
	}
	return nil
}

func (s *UnboundedSender[T]) String() string {
	return fmt.Sprintf("spsc.UnboundedSender{serial: %d}", s.ch.life.serial)
}

// UnboundedReceiver is the consuming endpoint of an unbounded channel.
// It must be used by one goroutine at a time.
type UnboundedReceiver[T any] struct {
	h  handle
	ch *unbounded[T]
}

// TryRecv returns the oldest value without blocking. It returns ErrEmpty
// if none is available and ErrDisconnected once the sender has been
// closed and every value it sent has been received.
func (r *UnboundedReceiver[T]) TryRecv() (T, error) {
	if r.h.closed {
		var zero T
		return zero, ErrClosed
	}
	v, err := r.ch.tryRecv()
	runtime.KeepAlive(r)
	return v, err
}

// Recv returns the oldest value, blocking while the channel is empty.
func (r *UnboundedReceiver[T]) Recv() (T, error) {
	if r.h.closed {
		var zero T
		return zero, ErrClosed
	}
	v, err := r.ch.recv()
	runtime.KeepAlive(r)
	return v, err
}

// IsPeerConnected reports whether the sender is still open.
func (r *UnboundedReceiver[T]) IsPeerConnected() bool {
	return r.ch.life.connected()
}

// Serial returns the channel serial.
func (r *UnboundedReceiver[T]) Serial() Serial {
	return r.ch.life.serial
}

// Close disconnects the receiver. Close is idempotent.
func (r *UnboundedReceiver[T]) Close() error {
	if r.h.close() {
		r.ch.releaseReceiver()
	}
	return nil
}

func (r *UnboundedReceiver[T]) String() string {
	return fmt.Sprintf("spsc.UnboundedReceiver{serial: %d}", r.ch.life.serial)
}
