// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex_test

import (
	"reflect"
	"testing"
	"testing/quick"

	"code.hybscloud.com/kont"
	"code.hybscloud.com/spsc/duplex"
)

func TestLoopCounter(t *testing.T) {
	skipRace(t)
	// Client sends 0..4, each announced with SelectR, then SelectL to stop.
	server := duplex.Loop(0, func(acc int) kont.Eff[kont.Either[int, int]] {
		return duplex.OfferBranch(
			func() kont.Eff[kont.Either[int, int]] {
				return kont.Pure(kont.Right[int, int](acc))
			},
			func() kont.Eff[kont.Either[int, int]] {
				return duplex.RecvBind(func(n int) kont.Eff[kont.Either[int, int]] {
					return kont.Pure(kont.Left[int, int](acc + n))
				})
			},
		)
	})
	client := duplex.Loop(0, func(i int) kont.Eff[kont.Either[int, string]] {
		if i >= 5 {
			return duplex.SelectLThen(duplex.CloseDone(kont.Right[int, string]("done")))
		}
		return duplex.SelectRThen(
			duplex.SendThen(i, kont.Pure(kont.Left[int, string](i+1))),
		)
	})

	clientResult, serverResult := duplex.Run[string, int](client, server)
	if clientResult != "done" {
		t.Fatalf("client got %q, want %q", clientResult, "done")
	}
	if serverResult != 10 {
		t.Fatalf("server got %d, want 10", serverResult)
	}
}

func TestExprLoopPingPong(t *testing.T) {
	skipRace(t)
	// Client doubles through the server until the value reaches 64.
	client := duplex.ExprLoop(1, func(n int) kont.Expr[kont.Either[int, int]] {
		if n >= 64 {
			return duplex.ExprCloseDone(kont.Right[int, int](n))
		}
		return duplex.ExprSendThen(n, duplex.ExprRecvBind(func(m int) kont.Expr[kont.Either[int, int]] {
			return kont.ExprReturn(kont.Left[int, int](m))
		}))
	})
	server := duplex.ExprLoop(0, func(rounds int) kont.Expr[kont.Either[int, int]] {
		return duplex.ExprNextBind(func(it duplex.Item[int]) kont.Expr[kont.Either[int, int]] {
			if !it.OK {
				return duplex.ExprCloseDone(kont.Right[int, int](rounds))
			}
			return duplex.ExprSendThen(it.Value*2, kont.ExprReturn(kont.Left[int, int](rounds+1)))
		})
	})

	clientResult, serverResult := duplex.RunExpr[int, int](client, server)
	if clientResult != 64 {
		t.Fatalf("client got %d, want 64", clientResult)
	}
	if serverResult != 6 {
		t.Fatalf("server got %d rounds, want 6", serverResult)
	}
}

func TestExprLoopImmediate(t *testing.T) {
	// Steps that never suspend are unrolled without effects.
	m := duplex.ExprLoop(0, func(i int) kont.Expr[kont.Either[int, int]] {
		if i == 1000 {
			return kont.ExprReturn(kont.Right[int, int](i))
		}
		return kont.ExprReturn(kont.Left[int, int](i + 1))
	})
	got, susp := duplex.Step[int](m)
	if susp != nil {
		t.Fatalf("unexpected suspension on %T", susp.Op())
	}
	if got != 1000 {
		t.Fatalf("got %d, want 1000", got)
	}
}

func TestDrainEmpty(t *testing.T) {
	skipRace(t)
	_, got := duplex.Run[struct{}, []string](duplex.CloseDone(struct{}{}), duplex.Drain[string]())
	if len(got) != 0 {
		t.Fatalf("got %v, want nothing", got)
	}
}

func TestExprDrain(t *testing.T) {
	skipRace(t)
	epA, epB := duplex.New()
	defer epA.Close()
	defer epB.Close()

	done := make(chan []int)
	go func() {
		done <- execExpr(epB, duplex.ExprDrain[int]())
	}()
	duplex.Exec(epA, duplex.SendAll([]int{3, 1, 4, 1, 5}, duplex.CloseDone(struct{}{})))
	got := <-done
	if want := []int{3, 1, 4, 1, 5}; !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

// TestPropertyTransportFIFO checks that arbitrary payloads arrive in
// order, without loss or duplication, and that the end of the stream is
// observed only after the last value.
func TestPropertyTransportFIFO(t *testing.T) {
	skipRace(t)
	fifo := func(payload []int) bool {
		_, received := duplex.Run[struct{}, []int](
			duplex.SendAll(payload, duplex.CloseDone(struct{}{})),
			duplex.Drain[int](),
		)
		if len(payload) == 0 {
			return len(received) == 0
		}
		return reflect.DeepEqual(payload, received)
	}
	if err := quick.Check(fifo, nil); err != nil {
		t.Error(err)
	}
}
