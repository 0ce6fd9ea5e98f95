// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex

import (
	"code.hybscloud.com/kont"
	"code.hybscloud.com/spsc"
)

// Step evaluates a session protocol until the first effect suspension.
// Returns (result, nil) on completion, or (zero, suspension) if pending.
func Step[R any](protocol kont.Expr[R]) (R, *kont.Suspension[R]) {
	return kont.StepExpr(protocol)
}

// Advance dispatches the suspended session operation on ep without
// blocking.
//
// On success the suspension is consumed and the protocol advances to
// the next effect or completion. On an error satisfying spsc.IsTransient
// (spsc.ErrFull or spsc.ErrEmpty) the suspension is unconsumed and may
// be retried after the peer makes progress. Any other error is terminal
// for the suspension and is returned as a *SessionError.
func Advance[R any](ep *Endpoint, susp *kont.Suspension[R]) (R, *kont.Suspension[R], error) {
	sop, ok := susp.Op().(sessionDispatcher)
	if !ok {
		panic("duplex: unhandled effect in Advance")
	}
	v, err := sop.DispatchSession(&ep.ctx)
	if err != nil {
		var zero R
		if spsc.IsTransient(err) {
			return zero, susp, err
		}
		return zero, susp, newSessionError(&ep.ctx, susp.Op(), err)
	}
	result, next := susp.Resume(v)
	return result, next, nil
}
