// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package spsc_test

import "testing"

// skipRace skips tests that move values between goroutines through the
// channels. The race detector tracks per-variable happens-before and
// cannot see the cross-variable ordering of the ring (store-release on
// the cursor, plain store on the slot), producing false positives.
func skipRace(tb testing.TB) {
	tb.Helper()
	tb.Skip("skip: SPSC uses cross-variable memory ordering")
}
