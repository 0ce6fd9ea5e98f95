// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"github.com/joeycumines/logiface"
)

// defaultSpin is the number of spin rounds a blocking operation performs
// before sleeping on its Parker.
const defaultSpin = 16

// Builder configures channel construction.
//
// Example:
//
//	tx, rx := spsc.Bounded[int](spsc.New(1024).Logger(logger).Spin(64))
type Builder struct {
	capacity int
	logger   *logiface.Logger[logiface.Event]
	discard  func(any)
	yield    func(Point)
	spin     int
}

// New returns a Builder for channels of at least the given capacity.
// Capacity is ignored by Unbounded.
func New(capacity int) *Builder {
	return &Builder{capacity: capacity, spin: defaultSpin}
}

// Logger sets the logger used for lifecycle events. A nil logger
// disables logging.
func (b *Builder) Logger(l *logiface.Logger[logiface.Event]) *Builder {
	b.logger = l
	return b
}

// Discard sets a callback receiving each value still held by the channel
// when it is torn down. Every undelivered value is passed exactly once.
func (b *Builder) Discard(fn func(any)) *Builder {
	b.discard = fn
	return b
}

// Yield sets a callback invoked at every interleaving Point.
func (b *Builder) Yield(fn func(Point)) *Builder {
	b.yield = fn
	return b
}

// Spin sets how many spin rounds blocking operations perform before
// sleeping. Zero sleeps immediately.
func (b *Builder) Spin(n int) *Builder {
	if n < 0 {
		n = 0
	}
	b.spin = n
	return b
}

// Capacity returns the requested capacity.
func (b *Builder) Capacity() int {
	return b.capacity
}

// config is the per-channel immutable view of a Builder.
type config struct {
	logger  *logiface.Logger[logiface.Event]
	discard func(any)
	yield   func(Point)
	spin    int
}

func (b *Builder) config() config {
	return config{
		logger:  b.logger,
		discard: b.discard,
		yield:   b.yield,
		spin:    b.spin,
	}
}

func (c *config) at(p Point) {
	if c.yield != nil {
		c.yield(p)
	}
}
