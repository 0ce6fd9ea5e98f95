// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"strconv"

	"code.hybscloud.com/atomix"
)

// Serial identifies a channel. Both endpoints of a channel report the
// same Serial, and serials increase in construction order.
type Serial uint32

func (s Serial) String() string {
	return "#" + strconv.FormatUint(uint64(s), 10)
}

var serials atomix.Uint32

func nextSerial() Serial {
	return Serial(serials.Add(1))
}
