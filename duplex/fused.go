// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex

import (
	"code.hybscloud.com/kont"
)

// Cont-world combinators pairing one session operation with its
// continuation.

// SendThen sends v to the peer, then runs next.
func SendThen[T, B any](v T, next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Send[T]{Value: v}), next)
}

// RecvBind receives one value and continues with f. It fails if the peer
// has closed.
func RecvBind[T, B any](f func(T) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Recv[T]{}), f)
}

// NextBind receives a value or the end of the peer's stream and passes
// it to f.
func NextBind[T, B any](f func(Item[T]) kont.Eff[B]) kont.Eff[B] {
	return kont.Bind(kont.Perform(Next[T]{}), f)
}

// RecvOrDone continues with onValue for a received value, or with onDone
// once the peer has closed and every value it sent has been received.
func RecvOrDone[T, B any](onValue func(T) kont.Eff[B], onDone func() kont.Eff[B]) kont.Eff[B] {
	return NextBind(func(it Item[T]) kont.Eff[B] {
		if it.OK {
			return onValue(it.Value)
		}
		return onDone()
	})
}

// CloseThen ends this side of the session, then runs next. next may still
// receive from the peer.
func CloseThen[B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(Close{}), next)
}

// CloseDone ends this side of the session and returns a.
func CloseDone[A any](a A) kont.Eff[A] {
	return CloseThen(kont.Pure(a))
}

// SelectLThen signals the left branch to the peer, then runs next.
func SelectLThen[B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(SelectL{}), next)
}

// SelectRThen signals the right branch to the peer, then runs next.
func SelectRThen[B any](next kont.Eff[B]) kont.Eff[B] {
	return kont.Then(kont.Perform(SelectR{}), next)
}

// OfferBranch waits for the peer's choice and runs onLeft or onRight.
func OfferBranch[A any](onLeft, onRight func() kont.Eff[A]) kont.Eff[A] {
	return kont.Bind(kont.Perform(Offer{}), func(e kont.Either[struct{}, struct{}]) kont.Eff[A] {
		if e.IsLeft() {
			return onLeft()
		}
		return onRight()
	})
}
