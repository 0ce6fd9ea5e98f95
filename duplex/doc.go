// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package duplex provides bidirectional sessions over
// [code.hybscloud.com/spsc] channels, driven by algebraic effects on
// [code.hybscloud.com/kont].
//
// # Architecture
//
//   - Transport: [New] creates an [Endpoint] pair joined by four bounded
//     spsc channels, data and branch choice in each direction.
//   - Non-blocking: operations fail with [code.hybscloud.com/spsc.ErrFull]
//     or [code.hybscloud.com/spsc.ErrEmpty], both satisfying
//     [code.hybscloud.com/spsc.IsTransient], on backpressure.
//   - Disconnect: [Close] ends one side. The peer drains what was sent and
//     then observes [code.hybscloud.com/spsc.ErrDisconnected], surfaced as
//     a [*SessionError].
//   - Execution: closure-based (Cont-world) and defunctionalized
//     (Expr-world) evaluation.
//
// # Operations
//
//   - Effects: [Send], [Recv], [Next], [Close], [SelectL], [SelectR], [Offer].
//     Endpoint delegation is [Send]/[Recv] of [*Endpoint].
//   - Cont-world: [SendThen], [RecvBind], [NextBind], [RecvOrDone],
//     [CloseThen], [CloseDone],
//     [SelectLThen], [SelectRThen], [OfferBranch], [SendAll], [Drain].
//   - Expr-world: [ExprSendThen], [ExprRecvBind], [ExprNextBind],
//     [ExprRecvOrDone], [ExprCloseThen], [ExprCloseDone],
//     [ExprSelectLThen], [ExprSelectRThen],
//     [ExprOfferBranch], [ExprDrain].
//   - Recursive: [Loop] and [ExprLoop].
//
// # Integration
//
//   - Stepping: [Step] and [Advance] (or [StepError]/[AdvanceError])
//     evaluate a protocol one effect at a time for use from an event loop.
//   - Blocking: [Exec], [Run] and their Error/Expr variants wait with
//     adaptive backoff.
//
// # Example
//
//	epA, epB := duplex.New()
//	defer epA.Close()
//	defer epB.Close()
//	protocol := duplex.ExprSendThen(42, duplex.ExprCloseDone[struct{}](struct{}{}))
//	_, susp := duplex.Step[struct{}](protocol)
//	for susp != nil {
//		var err error
//		if _, susp, err = duplex.Advance(epA, susp); err != nil {
//			continue // retry while the channel is full
//		}
//	}
package duplex
