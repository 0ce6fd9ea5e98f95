// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package spsc provides single-producer single-consumer channels that are
// lock-free on the fast path.
//
// Exactly one goroutine may send on a channel and exactly one goroutine may
// receive from it. The implementation does not detect violations.
//
// # Flavors
//
//   - Bounded: [NewBounded] creates a ring of fixed power-of-two capacity.
//     [BoundedSender.TrySend] fails with [ErrFull]; [BoundedSender.Send]
//     blocks until room is available.
//   - Unbounded: [NewUnbounded] creates a linked queue whose retired nodes
//     are recycled, so steady-state sends do not allocate.
//   - Queue: [NewQueue] is a non-blocking split ring on
//     [code.hybscloud.com/lfq] without a disconnect protocol.
//
// # Disconnect
//
// Closing an endpoint disconnects it. The peer observes
// [ErrDisconnected] on its next operation; a receiver first drains every
// value sent before the close. Shared state is torn down exactly once,
// after both endpoints are closed, and any undelivered values are passed
// to the [Builder.Discard] callback. Endpoints that become unreachable
// without being closed are closed by a runtime cleanup.
//
// # Errors
//
// [ErrFull] and [ErrEmpty] wrap [code.hybscloud.com/iox.ErrWouldBlock]
// and are transient. [ErrDisconnected] is terminal. Blocking operations
// only return nil or [ErrDisconnected].
//
// # Blocking
//
// Blocking operations spin briefly and then sleep on a [Parker]. The
// Parker's lock is touched only when a goroutine actually sleeps.
//
// # Example
//
//	tx, rx := spsc.NewBounded[int](3) // capacity 4
//	go func() {
//		defer tx.Close()
//		for i := range 10 {
//			tx.Send(i)
//		}
//	}()
//	for {
//		v, err := rx.Recv()
//		if err != nil {
//			break // ErrDisconnected after all ten values
//		}
//		fmt.Println(v)
//	}
package spsc
