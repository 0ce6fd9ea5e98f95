// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"sync"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"
)

// Parker states. Park increments, Unpark stores notified.
const (
	parkNotified uint64 = iota
	parkEmpty
	parkParked
)

// Parker is a single-waiter block/wake primitive.
//
// Park may only be called by one fixed owner and never concurrently with
// itself. Unpark may be called from any goroutine. A notification sent
// while the owner is not parked is remembered and consumed by the next
// Park, which then returns without sleeping.
//
// The mutex and condition variable are touched only when the owner
// actually sleeps. A Parker must be created with NewParker.
type Parker struct {
	state atomix.Uint64
	mu    sync.Mutex
	cond  sync.Cond
}

// NewParker returns a Parker with no pending notification.
func NewParker() *Parker {
	p := &Parker{}
	p.init()
	return p
}

func (p *Parker) init() {
	p.state.StoreRelaxed(parkEmpty)
	p.cond.L = &p.mu
}

// Park blocks until a notification is available and consumes it.
func (p *Parker) Park() {
	// notified -> empty: consume and return.
	// empty -> parked: go to sleep.
	if p.state.AddAcqRel(1)-1 == parkNotified {
		return
	}
	p.parkSlow()
}

func (p *Parker) parkSlow() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for {
		if p.state.CompareAndSwapAcqRel(parkNotified, parkEmpty) {
			return
		}
		p.cond.Wait()
	}
}

// ParkSpin spins up to spins rounds waiting for a notification before
// falling back to Park.
func (p *Parker) ParkSpin(spins int) {
	var sw spin.Wait
	for range spins {
		if p.state.CompareAndSwapAcqRel(parkNotified, parkEmpty) {
			return
		}
		sw.Once()
	}
	p.Park()
}

// Unpark makes a notification available, waking the owner if it sleeps.
func (p *Parker) Unpark() {
	var prev uint64
	for {
		prev = p.state.LoadAcquire()
		if prev == parkNotified {
			return
		}
		if p.state.CompareAndSwapAcqRel(prev, parkNotified) {
			break
		}
	}
	if prev == parkParked {
		// The owner may have incremented to parked but not yet entered
		// Wait. Taking the lock orders this Signal after that Wait.
		p.mu.Lock()
		p.mu.Unlock()
		p.cond.Signal()
	}
}
