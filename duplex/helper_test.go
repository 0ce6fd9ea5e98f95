// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package duplex_test

import (
	"code.hybscloud.com/kont"
	"code.hybscloud.com/spsc"
	"code.hybscloud.com/spsc/duplex"
)

// execExpr drives a protocol to completion on ep via Step+Advance,
// retrying while the peer is not ready. A terminal error panics.
func execExpr[R any](ep *duplex.Endpoint, protocol kont.Expr[R]) R {
	result, susp := duplex.Step[R](protocol)
	for susp != nil {
		var err error
		result, susp, err = duplex.Advance(ep, susp)
		if err != nil && !spsc.IsTransient(err) {
			panic(err)
		}
	}
	return result
}
