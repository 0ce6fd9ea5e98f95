// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize is the false-sharing boundary producer-owned and
// consumer-owned state is padded to.
const CacheLineSize = int(unsafe.Sizeof(cpu.CacheLinePad{}))

// CachePadded places Value on its own cache line(s).
// Two adjacent CachePadded fields never share a false-sharing boundary.
type CachePadded[T any] struct {
	_     cpu.CacheLinePad
	Value T
	_     cpu.CacheLinePad
}
