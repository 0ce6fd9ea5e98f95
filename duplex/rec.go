// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex

import (
	"code.hybscloud.com/kont"
)

// Loop runs a recursive Cont-world protocol.
// step returns Left(nextState) to continue or Right(result) to finish.
func Loop[S, A any](initial S, step func(S) kont.Eff[kont.Either[S, A]]) kont.Eff[A] {
	return kont.Bind(step(initial), func(e kont.Either[S, A]) kont.Eff[A] {
		if left, ok := e.GetLeft(); ok {
			return Loop(left, step)
		}
		right, _ := e.GetRight()
		return kont.Pure(right)
	})
}

// ExprLoop runs a recursive Expr-world protocol.
// step returns Left(nextState) to continue or Right(result) to finish.
// Steps that complete without suspending are unrolled in place.
func ExprLoop[S, A any](initial S, step func(S) kont.Expr[kont.Either[S, A]]) kont.Expr[A] {
	m := step(initial)
	for {
		if _, ok := m.Frame.(kont.ReturnFrame); !ok {
			break
		}
		left, ok := m.Value.GetLeft()
		if !ok {
			right, _ := m.Value.GetRight()
			return kont.ExprReturn(right)
		}
		m = step(left)
	}
	bf := kont.AcquireBindFrame()
	bf.F = func(a kont.Erased) kont.Expr[kont.Erased] {
		e := a.(kont.Either[S, A])
		if left, ok := e.GetLeft(); ok {
			result := ExprLoop(left, step)
			return kont.Expr[kont.Erased]{Value: kont.Erased(result.Value), Frame: result.Frame}
		}
		right, _ := e.GetRight()
		return kont.Expr[kont.Erased]{Value: kont.Erased(right), Frame: kont.ReturnFrame{}}
	}
	bf.Next = kont.ReturnFrame{}
	var zero A
	return kont.Expr[A]{
		Value: zero,
		Frame: kont.ChainFrames(m.Frame, bf),
	}
}

// SendAll sends every value of vs in order and continues with next.
func SendAll[T, B any](vs []T, next kont.Eff[B]) kont.Eff[B] {
	sent := Loop(0, func(i int) kont.Eff[kont.Either[int, struct{}]] {
		if i == len(vs) {
			return kont.Pure(kont.Right[int](struct{}{}))
		}
		return SendThen(vs[i], kont.Pure(kont.Left[int, struct{}](i+1)))
	})
	return kont.Then(sent, next)
}

// Drain receives values until the peer closes and returns them in order.
func Drain[T any]() kont.Eff[[]T] {
	return Loop([]T(nil), func(acc []T) kont.Eff[kont.Either[[]T, []T]] {
		return NextBind(func(it Item[T]) kont.Eff[kont.Either[[]T, []T]] {
			if !it.OK {
				return kont.Pure(kont.Right[[]T](acc))
			}
			return kont.Pure(kont.Left[[]T, []T](append(acc, it.Value)))
		})
	})
}

// ExprDrain is Drain for Expr-world protocols.
func ExprDrain[T any]() kont.Expr[[]T] {
	return ExprLoop([]T(nil), func(acc []T) kont.Expr[kont.Either[[]T, []T]] {
		return ExprNextBind(func(it Item[T]) kont.Expr[kont.Either[[]T, []T]] {
			if !it.OK {
				return kont.ExprReturn(kont.Right[[]T](acc))
			}
			return kont.ExprReturn(kont.Left[[]T, []T](append(acc, it.Value)))
		})
	})
}
