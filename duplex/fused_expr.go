// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex

import (
	"code.hybscloud.com/kont"
)

// Pre-boxed operations and frames so that Expr-world combinators do not
// allocate when erasing empty structs.
var (
	exprReturnFrame kont.Frame  = kont.ReturnFrame{}
	exprClose       kont.Erased = Close{}
	exprSelectL     kont.Erased = SelectL{}
	exprSelectR     kont.Erased = SelectR{}
	exprOffer       kont.Erased = Offer{}
)

func identityResume(v kont.Erased) kont.Erased { return v }

// exprThen performs op and continues with next, discarding op's result.
func exprThen[B any](op kont.Erased, next kont.Expr[B]) kont.Expr[B] {
	tf := kont.AcquireThenFrame()
	tf.Second = kont.Expr[kont.Erased]{Value: kont.Erased(next.Value), Frame: next.Frame}
	tf.Next = exprReturnFrame
	ef := kont.AcquireEffectFrame()
	ef.Operation = op
	ef.Resume = identityResume
	ef.Next = tf
	return kont.ExprSuspend[B](ef)
}

// exprBind performs op and passes its result, of type T, to f.
func exprBind[T, B any](op kont.Erased, f func(T) kont.Expr[B]) kont.Expr[B] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = f
	bf.Unwind = bindUnwind[T, B]
	ef := kont.AcquireEffectFrame()
	ef.Operation = op
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[B](ef)
}

func bindUnwind[T, B any](data, _, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	f := data.(func(T) kont.Expr[B])
	result := f(current.(T))
	return kont.Erased(result.Value), result.Frame
}

// ExprSendThen sends v and continues with next.
func ExprSendThen[T, B any](v T, next kont.Expr[B]) kont.Expr[B] {
	return exprThen(Send[T]{Value: v}, next)
}

// ExprRecvBind receives a value and passes it to f.
func ExprRecvBind[T, B any](f func(T) kont.Expr[B]) kont.Expr[B] {
	return exprBind[T](Recv[T]{}, f)
}

// ExprNextBind receives a value or the end of the peer's stream and
// passes it to f.
func ExprNextBind[T, B any](f func(Item[T]) kont.Expr[B]) kont.Expr[B] {
	return exprBind[Item[T]](Next[T]{}, f)
}

// ExprRecvOrDone is RecvOrDone for Expr-world protocols.
func ExprRecvOrDone[T, B any](onValue func(T) kont.Expr[B], onDone func() kont.Expr[B]) kont.Expr[B] {
	return ExprNextBind(func(it Item[T]) kont.Expr[B] {
		if it.OK {
			return onValue(it.Value)
		}
		return onDone()
	})
}

// ExprCloseThen ends this side of the session, then runs next.
func ExprCloseThen[B any](next kont.Expr[B]) kont.Expr[B] {
	return exprThen(exprClose, next)
}

// ExprCloseDone closes this side of the session and returns a.
func ExprCloseDone[A any](a A) kont.Expr[A] {
	return ExprCloseThen(kont.Expr[A]{Value: a, Frame: exprReturnFrame})
}

// ExprSelectLThen selects the left branch and continues with next.
func ExprSelectLThen[B any](next kont.Expr[B]) kont.Expr[B] {
	return exprThen(exprSelectL, next)
}

// ExprSelectRThen selects the right branch and continues with next.
func ExprSelectRThen[B any](next kont.Expr[B]) kont.Expr[B] {
	return exprThen(exprSelectR, next)
}

func offerBranchUnwind[A any](data, data2, _ kont.Erased, current kont.Erased) (kont.Erased, kont.Frame) {
	var result kont.Expr[A]
	if current.(kont.Either[struct{}, struct{}]).IsLeft() {
		result = data.(func() kont.Expr[A])()
	} else {
		result = data2.(func() kont.Expr[A])()
	}
	return kont.Erased(result.Value), result.Frame
}

// ExprOfferBranch waits for the peer's choice and calls onLeft or onRight.
func ExprOfferBranch[A any](onLeft func() kont.Expr[A], onRight func() kont.Expr[A]) kont.Expr[A] {
	bf := kont.AcquireUnwindFrame()
	bf.Data1 = onLeft
	bf.Data2 = onRight
	bf.Unwind = offerBranchUnwind[A]
	ef := kont.AcquireEffectFrame()
	ef.Operation = exprOffer
	ef.Resume = identityResume
	ef.Next = bf
	return kont.ExprSuspend[A](ef)
}
