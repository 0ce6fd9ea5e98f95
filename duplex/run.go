// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/spsc"
)

// Run creates a session pair, runs both Cont-world protocols, and returns
// both results. See RunExpr.
func Run[A, B any](a kont.Eff[A], b kont.Eff[B]) (A, B) {
	return RunExpr(kont.Reify(a), kont.Reify(b))
}

// RunExpr creates a session pair, runs both Expr-world protocols, and
// returns both results. Both sides are interleaved on the calling
// goroutine, backing off with iox.Backoff when neither can make progress.
// A side that completes closes its outgoing channels; a peer that then
// waits on it panics with a *SessionError. Both endpoints are closed
// before RunExpr returns.
func RunExpr[A, B any](a kont.Expr[A], b kont.Expr[B]) (A, B) {
	epA, epB := New()
	defer epA.Close()
	defer epB.Close()
	resultA, suspA := Step[A](a)
	resultB, suspB := Step[B](b)
	var bo iox.Backoff

	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			r, next, err := Advance(epA, suspA)
			switch {
			case err == nil:
				resultA, suspA = r, next
				progress = true
			case !spsc.IsTransient(err):
				panic(err)
			}
		}
		if suspB != nil {
			r, next, err := Advance(epB, suspB)
			switch {
			case err == nil:
				resultB, suspB = r, next
				progress = true
			case !spsc.IsTransient(err):
				panic(err)
			}
		}
		if suspA == nil {
			epA.closeOutgoing()
		}
		if suspB == nil {
			epB.closeOutgoing()
		}
		if !progress {
			bo.Wait()
		} else {
			bo.Reset()
		}
	}
	return resultA, resultB
}
