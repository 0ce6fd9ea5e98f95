// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"fmt"
	"math/bits"
	"runtime"

	"code.hybscloud.com/atomix"
)

// maxCapacity is the largest power of two a capacity may round up to.
const maxCapacity = 1 << 62

// boundedProducer is written only by the sending goroutine, except for
// recvPark which the receiver sleeps on.
type boundedProducer struct {
	tail      atomix.Uint64 // next index to write
	headCache uint64        // last observed head
	recvPark  Parker
}

// boundedConsumer is written only by the receiving goroutine, except for
// sendPark which the sender sleeps on.
type boundedConsumer struct {
	head      atomix.Uint64 // next index to read
	tailCache uint64        // last observed tail
	sendPark  Parker
}

// bounded is the shared state of a fixed-capacity ring channel.
//
// Slot i&mask is owned by the producer while i >= tail and by the
// consumer while head <= i < tail. The tail store-release publishes a slot;
// the head store-release returns it.
type bounded[T any] struct {
	prod CachePadded[boundedProducer]
	cons CachePadded[boundedConsumer]
	life lifetime
	buf  []T
	mask uint64
}

// roundCapacity returns the smallest power of two >= n, treating 0 as 1.
func roundCapacity(n int) uint64 {
	if n < 0 || uint64(n) > maxCapacity {
		panic("spsc: capacity overflow")
	}
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len64(uint64(n-1))
}

// NewBounded creates a fixed-capacity channel holding at least
// minCapacity values. Capacity is rounded up to a power of two.
// It panics if the rounded capacity is not representable.
func NewBounded[T any](minCapacity int) (*BoundedSender[T], *BoundedReceiver[T]) {
	return Bounded[T](New(minCapacity))
}

// Bounded creates a fixed-capacity channel configured by b.
func Bounded[T any](b *Builder) (*BoundedSender[T], *BoundedReceiver[T]) {
	n := roundCapacity(b.capacity)
	c := &bounded[T]{
		buf:  make([]T, n),
		mask: n - 1,
	}
	c.prod.Value.recvPark.init()
	c.cons.Value.sendPark.init()
	c.life.init("bounded", b.config())
	c.life.cfg.logger.Debug().
		Uint64("serial", uint64(c.life.serial)).
		Int("requested", b.capacity).
		Uint64("capacity", n).
		Log("spsc: bounded channel created")

	tx := &BoundedSender[T]{ch: c}
	rx := &BoundedReceiver[T]{ch: c}
	arm(&tx.h, tx, (*bounded[T]).releaseSender, c)
	arm(&rx.h, rx, (*bounded[T]).releaseReceiver, c)
	return tx, rx
}

func (c *bounded[T]) trySend(v T) error {
	if c.life.disconnectedRelaxed() {
		return ErrDisconnected
	}
	p := &c.prod.Value
	tail := p.tail.LoadRelaxed()
	if tail-p.headCache > c.mask {
		p.headCache = c.cons.Value.head.LoadAcquire()
		if tail-p.headCache > c.mask {
			p.recvPark.Unpark()
			return ErrFull
		}
	}
	c.life.at(PointSendReserve)
	c.buf[tail&c.mask] = v
	c.life.at(PointSendPublish)
	p.tail.StoreRelease(tail + 1)
	p.recvPark.Unpark()
	return nil
}

func (c *bounded[T]) send(v T) error {
	for {
		err := c.trySend(v)
		if err != ErrFull {
			return err
		}
		c.life.at(PointPark)
		c.cons.Value.sendPark.ParkSpin(c.life.cfg.spin)
	}
}

func (c *bounded[T]) tryRecv() (T, error) {
	var zero T
	q := &c.cons.Value
	head := q.head.LoadRelaxed()
	if head == q.tailCache {
		q.tailCache = c.prod.Value.tail.LoadAcquire()
		c.life.at(PointRecvObserve)
		if head == q.tailCache {
			if c.life.connected() {
				return zero, ErrEmpty
			}
			// A value may have been published just before the sender
			// released; drain it before reporting the disconnect.
			q.tailCache = c.prod.Value.tail.LoadAcquire()
			if head == q.tailCache {
				return zero, ErrDisconnected
			}
		}
	}
	i := head & c.mask
	v := c.buf[i]
	c.buf[i] = zero
	c.life.at(PointRecvAdvance)
	q.head.StoreRelease(head + 1)
	q.sendPark.Unpark()
	return v, nil
}

func (c *bounded[T]) recv() (T, error) {
	for {
		v, err := c.tryRecv()
		if err != ErrEmpty {
			return v, err
		}
		c.life.at(PointPark)
		c.prod.Value.recvPark.ParkSpin(c.life.cfg.spin)
	}
}

func (c *bounded[T]) releaseSender() {
	c.life.release("sender", c.prod.Value.recvPark.Unpark, c.teardown)
}

func (c *bounded[T]) releaseReceiver() {
	c.life.release("receiver", c.cons.Value.sendPark.Unpark, c.teardown)
}

// teardown discards the values in [head, tail). Both endpoints are gone.
func (c *bounded[T]) teardown() int {
	var zero T
	head := c.cons.Value.head.LoadAcquire()
	tail := c.prod.Value.tail.LoadAcquire()
	n := 0
	for ; head != tail; head++ {
		i := head & c.mask
		c.life.discard(c.buf[i])
		c.buf[i] = zero
		n++
	}
	c.cons.Value.head.StoreRelease(head)
	return n
}

func (c *bounded[T]) len() int {
	tail := c.prod.Value.tail.LoadAcquire()
	head := c.cons.Value.head.LoadAcquire()
	if tail < head {
		return 0
	}
	return int(tail - head)
}

// BoundedSender is the producing endpoint of a bounded channel.
// It must be used by one goroutine at a time.
type BoundedSender[T any] struct {
	h  handle
	ch *bounded[T]
}

// TrySend publishes v without blocking. It returns ErrFull if no slot is
// free and ErrDisconnected if the receiver has been closed. On any error
// v remains owned by the caller.
func (s *BoundedSender[T]) TrySend(v T) error {
	if s.h.closed {
		return ErrClosed
	}
	err := s.ch.trySend(v)
	runtime.KeepAlive(s)
	return err
}

// Send publishes v, blocking while the channel is full. It returns
// ErrDisconnected if the receiver has been closed. On any error v
// remains owned by the caller.
func (s *BoundedSender[T]) Send(v T) error {
	if s.h.closed {
		return ErrClosed
	}
	err := s.ch.send(v)
	runtime.KeepAlive(s)
	return err
}

// IsPeerConnected reports whether the receiver is still open.
func (s *BoundedSender[T]) IsPeerConnected() bool {
	return s.ch.life.connected()
}

// Cap returns the channel capacity.
func (s *BoundedSender[T]) Cap() int {
	return len(s.ch.buf)
}

// Len returns the number of values sent but not yet received.
// The result is approximate under concurrent use.
func (s *BoundedSender[T]) Len() int {
	return s.ch.len()
}

// Serial returns the channel serial.
func (s *BoundedSender[T]) Serial() Serial {
	return s.ch.life.serial
}

// Close disconnects the sender. The receiver drains every value already
// sent and then observes ErrDisconnected. Close is idempotent.
func (s *BoundedSender[T]) Close() error {
	if s.h.close() {
		s.ch.releaseSender()
	}
	return nil
}

func (s *BoundedSender[T]) String() string {
	return fmt.Sprintf("spsc.BoundedSender{serial: %d, cap: %d}", s.ch.life.serial, len(s.ch.buf))
}

// BoundedReceiver is the consuming endpoint of a bounded channel.
// It must be used by one goroutine at a time.
type BoundedReceiver[T any] struct {
	h  handle
	ch *bounded[T]
}

// TryRecv returns the oldest value without blocking. It returns ErrEmpty
// if none is available and ErrDisconnected once the sender has been
// closed and every value it sent has been received.
func (r *BoundedReceiver[T]) TryRecv() (T, error) {
	if r.h.closed {
		var zero T
		return zero, ErrClosed
	}
	v, err := r.ch.tryRecv()
	runtime.KeepAlive(r)
	return v, err
}

// Recv returns the oldest value, blocking while the channel is empty.
// It returns ErrDisconnected once the sender has been closed and the
// channel is drained.
func (r *BoundedReceiver[T]) Recv() (T, error) {
	if r.h.closed {
		var zero T
		return zero, ErrClosed
	}
	v, err := r.ch.recv()
	runtime.KeepAlive(r)
	return v, err
}

// IsPeerConnected reports whether the sender is still open.
func (r *BoundedReceiver[T]) IsPeerConnected() bool {
	return r.ch.life.connected()
}

// Cap returns the channel capacity.
func (r *BoundedReceiver[T]) Cap() int {
	return len(r.ch.buf)
}

// Len returns the number of values available to receive.
// The result is approximate under concurrent use.
func (r *BoundedReceiver[T]) Len() int {
	return r.ch.len()
}

// Serial returns the channel serial.
func (r *BoundedReceiver[T]) Serial() Serial {
	return r.ch.life.serial
}

// Close disconnects the receiver. Values still in the channel are handed
// to the discard callback when both endpoints are closed. Close is
// idempotent.
func (r *BoundedReceiver[T]) Close() error {
	if r.h.close() {
		r.ch.releaseReceiver()
	}
	return nil
}

func (r *BoundedReceiver[T]) String() string {
	return fmt.Sprintf("spsc.BoundedReceiver{serial: %d, cap: %d}", r.ch.life.serial, len(r.ch.buf))
}
