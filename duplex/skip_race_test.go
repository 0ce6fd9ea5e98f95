// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build race

package duplex_test

import "testing"

// skipRace skips tests that move values between endpoints. The race
// detector cannot see the cross-variable ordering of the spsc ring
// (store-release on the cursor, plain store on the slot) and reports
// false positives.
func skipRace(tb testing.TB) {
	tb.Helper()
	tb.Skip("skip: SPSC uses cross-variable memory ordering")
}
