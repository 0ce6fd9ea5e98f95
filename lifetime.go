// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"runtime"

	"code.hybscloud.com/atomix"
)

// lifetime is the disconnect handshake shared by the two endpoints of a
// channel. Exactly two holders exist, so a closed three-value protocol
// replaces general reference counting:
//
//	0: the peer is alive. Wake it so it observes the disconnect, then
//	   increment again and re-evaluate.
//	1: the peer has started releasing concurrently and will finish.
//	2: both endpoints are gone. Tear down the shared state.
//
// Teardown therefore runs exactly once, after the peer has been woken.
type lifetime struct {
	count     atomix.Uint64
	teardowns atomix.Uint32
	discarded atomix.Uint64
	freed     atomix.Uint64 // nodes unlinked by teardown
	serial    Serial
	kind      string
	cfg       config
}

func (l *lifetime) init(kind string, cfg config) {
	l.serial = nextSerial()
	l.kind = kind
	l.cfg = cfg
}

// connected reports whether neither endpoint has been released.
// Once false it never becomes true again.
func (l *lifetime) connected() bool {
	return l.count.LoadAcquire() == 0
}

// disconnectedRelaxed is the hot-path form of !connected used by senders.
func (l *lifetime) disconnectedRelaxed() bool {
	return l.count.LoadRelaxed() != 0
}

func (l *lifetime) at(p Point) {
	l.cfg.at(p)
}

// release runs the handshake for one endpoint.
func (l *lifetime) release(side string, wakePeer func(), teardown func() int) {
	for {
		l.at(PointRelease)
		switch l.count.AddAcqRel(1) - 1 {
		case 0:
			l.cfg.logger.Debug().
				Uint64("serial", uint64(l.serial)).
				Str("kind", l.kind).
				Str("side", side).
				Log("spsc: endpoint released")
			wakePeer()
		case 1:
			return
		case 2:
			n := teardown()
			l.teardowns.Add(1)
			l.cfg.logger.Debug().
				Uint64("serial", uint64(l.serial)).
				Str("kind", l.kind).
				Int("discarded", n).
				Uint64("freed", l.freed.LoadRelaxed()).
				Log("spsc: channel torn down")
			return
		default:
			panic("spsc: disconnect handshake observed an invalid state")
		}
	}
}

// discard hands an undelivered value to the configured callback.
func (l *lifetime) discard(v any) {
	l.discarded.Add(1)
	if l.cfg.discard != nil {
		l.cfg.discard(v)
	}
}

// handle is the per-endpoint close state. It is owned by the goroutine
// using the endpoint.
type handle struct {
	closed  bool
	armed   bool
	cleanup runtime.Cleanup
}

// arm registers release to run if owner becomes unreachable without
// being closed. release must not reference owner.
func arm[E any, S any](h *handle, owner *E, release func(S), shared S) {
	h.cleanup = runtime.AddCleanup(owner, release, shared)
	h.armed = true
}

// close marks the handle closed and cancels its cleanup. It reports
// whether this call performed the close.
func (h *handle) close() bool {
	if h.closed {
		return false
	}
	h.closed = true
	if h.armed {
		h.cleanup.Stop()
	}
	return true
}
