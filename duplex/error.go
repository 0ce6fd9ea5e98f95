// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/spsc"
)

// SessionError reports a session operation that failed terminally,
// typically because the peer closed its side.
type SessionError struct {
	Serial spsc.Serial
	Op     kont.Operation
	Err    error
}

func newSessionError(ctx *sessionContext, op kont.Operation, err error) *SessionError {
	return &SessionError{Serial: ctx.serial, Op: op, Err: err}
}

func (e *SessionError) Error() string {
	return fmt.Sprintf("duplex: session %d: %T: %v", e.Serial, e.Op, e.Err)
}

func (e *SessionError) Unwrap() error {
	return e.Err
}

// IsDisconnected reports whether err was caused by the peer closing.
func IsDisconnected(err error) bool {
	return errors.Is(err, spsc.ErrDisconnected)
}

// asLeft converts a terminal transport error into the error type of an
// Either, when E can hold it.
func asLeft[E any](err error) (E, bool) {
	e, ok := any(err).(E)
	return e, ok
}

// sessionErrorHandler handles both session and error effects.
// Session ops wait via iox.Backoff; a terminal transport error
// short-circuits to Left when E can hold it. Error ops short-circuit on
// Throw.
type sessionErrorHandler[E, A any] struct {
	ctx    *sessionContext
	errCtx *kont.ErrorContext[E]
}

// Dispatch implements kont.Handler for the composed Session+Error handler.
// Dispatch order: Session → Error.
func (h sessionErrorHandler[E, A]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	if sop, ok := op.(sessionDispatcher); ok {
		v, err := dispatchWait(h.ctx, sop)
		if err != nil {
			serr := newSessionError(h.ctx, op, err)
			if e, ok := asLeft[E](serr); ok {
				return kont.Left[E, A](e), false
			}
			panic(serr)
		}
		return v, true
	}
	if eop, ok := op.(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		v, _ := eop.DispatchError(h.errCtx)
		if h.errCtx.HasErr {
			return kont.Left[E, A](h.errCtx.Err), false
		}
		return v, true
	}
	panic("duplex: unhandled effect in sessionErrorHandler")
}

// ExecError runs a session protocol with error handling on ep.
// Returns Right on success and Left on Throw. With E = error a closed
// peer also yields Left holding a *SessionError.
func ExecError[E, R any](ep *Endpoint, protocol kont.Eff[R]) kont.Either[E, R] {
	wrapped := kont.Map[kont.Resumed, R, kont.Either[E, R]](protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	h := sessionErrorHandler[E, R]{ctx: &ep.ctx, errCtx: &errCtx}
	return kont.Handle(wrapped, h)
}

// ExecErrorExpr is ExecError for Expr-world protocols.
func ExecErrorExpr[E, R any](ep *Endpoint, protocol kont.Expr[R]) kont.Either[E, R] {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	var errCtx kont.ErrorContext[E]
	h := sessionErrorHandler[E, R]{ctx: &ep.ctx, errCtx: &errCtx}
	return kont.HandleExpr(wrapped, h)
}

// RunError creates a session pair, runs both Cont-world protocols with
// error handling on the calling goroutine, and closes both endpoints.
func RunError[E, A, B any](a kont.Eff[A], b kont.Eff[B]) (kont.Either[E, A], kont.Either[E, B]) {
	return RunErrorExpr[E](kont.Reify(a), kont.Reify(b))
}

// RunErrorExpr creates a session pair, runs both Expr-world protocols
// with error handling, and closes both endpoints. Execution of the two
// sides is interleaved on the calling goroutine, backing off with
// iox.Backoff when neither can make progress. A side that completes
// closes its outgoing channels, so a peer still receiving observes the
// disconnect instead of waiting forever.
func RunErrorExpr[E, A, B any](a kont.Expr[A], b kont.Expr[B]) (kont.Either[E, A], kont.Either[E, B]) {
	epA, epB := New()
	defer epA.Close()
	defer epB.Close()
	resultA, suspA := StepError[E, A](a)
	resultB, suspB := StepError[E, B](b)
	var bo iox.Backoff
	for suspA != nil || suspB != nil {
		progress := false
		if suspA != nil {
			var err error
			resultA, suspA, err = AdvanceError[E](epA, suspA)
			if err == nil {
				progress = true
			} else if !spsc.IsTransient(err) {
				panic(err)
			}
		}
		if suspB != nil {
			var err error
			resultB, suspB, err = AdvanceError[E](epB, suspB)
			if err == nil {
				progress = true
			} else if !spsc.IsTransient(err) {
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

// StepError evaluates a session protocol with error support until the
// first effect suspension.
func StepError[E, R any](protocol kont.Expr[R]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]]) {
	wrapped := kont.ExprMap(protocol, func(r R) kont.Either[E, R] {
		return kont.Right[E, R](r)
	})
	return kont.StepExpr(wrapped)
}

// AdvanceError dispatches the suspended operation on ep.
//
// Session ops are non-blocking: a transient error leaves the suspension
// unconsumed. A terminal transport error completes the protocol with
// Left when E can hold a *SessionError, and is returned otherwise.
// Error ops are eager: Throw discards the suspension and returns Left.
func AdvanceError[E, R any](ep *Endpoint, susp *kont.Suspension[kont.Either[E, R]]) (kont.Either[E, R], *kont.Suspension[kont.Either[E, R]], error) {
	if sop, ok := susp.Op().(sessionDispatcher); ok {
		v, err := sop.DispatchSession(&ep.ctx)
		if err != nil {
			var zero kont.Either[E, R]
			if spsc.IsTransient(err) {
				return zero, susp, err
			}
			serr := newSessionError(&ep.ctx, susp.Op(), err)
			if e, ok := asLeft[E](serr); ok {
				susp.Discard()
				return kont.Left[E, R](e), nil, nil
			}
			return zero, susp, serr
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	if eop, ok := susp.Op().(interface {
		DispatchError(ctx *kont.ErrorContext[E]) (kont.Resumed, bool)
	}); ok {
		var ctx kont.ErrorContext[E]
		v, _ := eop.DispatchError(&ctx)
		if ctx.HasErr {
			susp.Discard()
			return kont.Left[E, R](ctx.Err), nil, nil
		}
		result, next := susp.Resume(v)
		return result, next, nil
	}
	panic("duplex: unhandled effect in AdvanceError")
}
