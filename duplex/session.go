// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex

import (
	"code.hybscloud.com/iox"
	"code.hybscloud.com/kont"
	"code.hybscloud.com/spsc"
)

// channelCapacity is the default capacity of each direction.
const channelCapacity = 4

// sessionContext holds the transport of one endpoint: the sending half of
// each outgoing channel and the receiving half of each incoming channel.
type sessionContext struct {
	sendQ   *spsc.BoundedSender[any]
	recvQ   *spsc.BoundedReceiver[any]
	signalQ *spsc.BoundedSender[bool]
	awaitQ  *spsc.BoundedReceiver[bool]
	serial  spsc.Serial
}

// sessionDispatcher is the structural interface for session operations.
// DispatchSession never blocks. It returns a transient error (see
// spsc.IsTransient) while the peer has not produced or consumed yet, and
// a terminal error once the peer is gone.
type sessionDispatcher interface {
	DispatchSession(ctx *sessionContext) (kont.Resumed, error)
}

// sessionHandler implements kont.Handler for session effects, turning
// non-blocking dispatch into blocking evaluation for Exec and ExecExpr.
type sessionHandler[R any] struct {
	ctx *sessionContext
}

// Dispatch implements kont.Handler. A terminal transport error panics
// with a *SessionError.
func (h sessionHandler[R]) Dispatch(op kont.Operation) (kont.Resumed, bool) {
	sop, ok := op.(sessionDispatcher)
	if !ok {
		panic("duplex: unhandled effect in sessionHandler")
	}
	v, err := dispatchWait(h.ctx, sop)
	if err != nil {
		panic(newSessionError(h.ctx, op, err))
	}
	return v, true
}

// Exec runs a Cont-world protocol on ep, blocking with iox.Backoff while
// the peer is not ready. It panics with a *SessionError if the peer
// closes while an operation is pending.
func Exec[R any](ep *Endpoint, protocol kont.Eff[R]) R {
	return kont.Handle(protocol, sessionHandler[R]{ctx: &ep.ctx})
}

// ExecExpr runs an Expr-world protocol on ep. See Exec.
func ExecExpr[R any](ep *Endpoint, protocol kont.Expr[R]) R {
	return kont.HandleExpr(protocol, sessionHandler[R]{ctx: &ep.ctx})
}

// dispatchWait retries DispatchSession with iox.Backoff until it
// succeeds or fails terminally.
func dispatchWait(ctx *sessionContext, sop sessionDispatcher) (kont.Resumed, error) {
	var bo iox.Backoff
	for {
		v, err := sop.DispatchSession(ctx)
		if err == nil {
			return v, nil
		}
		if !spsc.IsTransient(err) {
			return nil, err
		}
		bo.Wait()
	}
}

// Endpoint is one side of a duplex session. Each direction is a bounded
// spsc channel, so an Endpoint must be driven by one goroutine at a time.
type Endpoint struct {
	ctx sessionContext
}

// Serial returns the serial shared by both endpoints of the session.
func (ep *Endpoint) Serial() spsc.Serial {
	return ep.ctx.serial
}

// PeerConnected reports whether the peer has not yet closed its side.
func (ep *Endpoint) PeerConnected() bool {
	return ep.ctx.recvQ.IsPeerConnected()
}

// closeOutgoing ends this endpoint's side of the session.
func (ep *Endpoint) closeOutgoing() {
	ep.ctx.closeOutgoing()
}

func (ctx *sessionContext) closeOutgoing() {
	ctx.sendQ.Close()
	ctx.signalQ.Close()
}

// Close releases every channel half held by the endpoint. Values the
// peer sent but this endpoint never received are discarded. Close is
// idempotent.
func (ep *Endpoint) Close() error {
	ep.ctx.closeOutgoing()
	ep.ctx.recvQ.Close()
	ep.ctx.awaitQ.Close()
	return nil
}

// New creates a connected pair of endpoints with the default capacity.
func New() (*Endpoint, *Endpoint) {
	return NewSize(channelCapacity)
}

// NewSize creates a connected pair of endpoints whose data and choice
// channels hold at least capacity values in each direction.
//
// Transport is four bounded spsc channels: data A→B and B→A, and branch
// choice A→B and B→A.
func NewSize(capacity int) (*Endpoint, *Endpoint) {
	dataAB, dataABRecv := spsc.NewBounded[any](capacity)
	dataBA, dataBARecv := spsc.NewBounded[any](capacity)
	choiceAB, choiceABRecv := spsc.NewBounded[bool](capacity)
	choiceBA, choiceBARecv := spsc.NewBounded[bool](capacity)
	s := dataAB.Serial()

	a := &Endpoint{ctx: sessionContext{
		sendQ:   dataAB,
		recvQ:   dataBARecv,
		signalQ: choiceAB,
		awaitQ:  choiceBARecv,
		serial:  s,
	}}
	b := &Endpoint{ctx: sessionContext{
		sendQ:   dataBA,
		recvQ:   dataABRecv,
		signalQ: choiceBA,
		awaitQ:  choiceABRecv,
		serial:  s,
	}}
	return a, b
}
