// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex

import (
	"errors"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/spsc"
)

// Send is the effect operation for sending a value of type T.
// Perform(Send[T]{Value: v}) sends v to the peer endpoint.
type Send[T any] struct {
	kont.Phantom[struct{}]
	Value T
}

// DispatchSession handles Send on the outgoing data channel.
// Returns spsc.ErrFull while the channel is full.
func (s Send[T]) DispatchSession(ctx *sessionContext) (kont.Resumed, error) {
	if err := ctx.sendQ.TrySend(s.Value); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

// Recv is the effect operation for receiving a value of type T.
// Perform(Recv[T]{}) receives a typed value from the peer.
type Recv[T any] struct {
	kont.Phantom[T]
}

// DispatchSession handles Recv on the incoming data channel.
// Returns spsc.ErrEmpty while no value is available and
// spsc.ErrDisconnected once the peer has closed and the channel is
// drained.
func (Recv[T]) DispatchSession(ctx *sessionContext) (kont.Resumed, error) {
	v, err := ctx.recvQ.TryRecv()
	if err != nil {
		return nil, err
	}
	return v.(T), nil
}

// Item is the result of Next: a value, or OK false once the peer has
// closed and every value it sent has been received.
type Item[T any] struct {
	Value T
	OK    bool
}

// Next is the effect operation for receiving a value or the end of the
// peer's stream. Unlike Recv it does not fail on disconnect.
type Next[T any] struct {
	kont.Phantom[Item[T]]
}

// DispatchSession handles Next on the incoming data channel.
func (Next[T]) DispatchSession(ctx *sessionContext) (kont.Resumed, error) {
	v, err := ctx.recvQ.TryRecv()
	if errors.Is(err, spsc.ErrDisconnected) {
		return Item[T]{}, nil
	}
	if err != nil {
		return nil, err
	}
	return Item[T]{Value: v.(T), OK: true}, nil
}

// Close is the effect operation for ending this endpoint's side of the
// session. The peer receives every value sent before Close and then
// observes the disconnect.
type Close struct {
	kont.Phantom[struct{}]
}

// DispatchSession handles Close by closing the outgoing channels.
// Never blocks.
func (Close) DispatchSession(ctx *sessionContext) (kont.Resumed, error) {
	ctx.closeOutgoing()
	return struct{}{}, nil
}

// offerLeft and offerRight are pre-boxed Resumed values for Offer dispatch.
var (
	offerLeft  kont.Resumed = kont.Left[struct{}, struct{}](struct{}{})
	offerRight kont.Resumed = kont.Right[struct{}](struct{}{})
)

// SelectL is the effect operation for choosing the left branch.
// Perform(SelectL{}) signals the left choice to the peer.
type SelectL struct {
	kont.Phantom[struct{}]
}

// DispatchSession handles SelectL on the outgoing choice channel.
func (SelectL) DispatchSession(ctx *sessionContext) (kont.Resumed, error) {
	if err := ctx.signalQ.TrySend(true); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

// SelectR is the effect operation for choosing the right branch.
// Perform(SelectR{}) signals the right choice to the peer.
type SelectR struct {
	kont.Phantom[struct{}]
}

// DispatchSession handles SelectR on the outgoing choice channel.
func (SelectR) DispatchSession(ctx *sessionContext) (kont.Resumed, error) {
	if err := ctx.signalQ.TrySend(false); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

// Offer is the effect operation for receiving a branch choice from the peer.
// Perform(Offer{}) receives the peer's Left or Right selection.
type Offer struct {
	kont.Phantom[kont.Either[struct{}, struct{}]]
}

// DispatchSession handles Offer on the incoming choice channel.
// true is Left, false is Right.
func (Offer) DispatchSession(ctx *sessionContext) (kont.Resumed, error) {
	v, err := ctx.awaitQ.TryRecv()
	if err != nil {
		return nil, err
	}
	if v {
		return offerLeft, nil
	}
	return offerRight, nil
}
