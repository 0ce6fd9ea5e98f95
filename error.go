// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"errors"
	"fmt"

	"code.hybscloud.com/iox"
)

var (
	// ErrFull is returned by TrySend when every slot holds an undelivered
	// value. It wraps iox.ErrWouldBlock.
	ErrFull = fmt.Errorf("spsc: channel full: %w", iox.ErrWouldBlock)

	// ErrEmpty is returned by TryRecv when no value is available and the
	// peer is still connected. It wraps iox.ErrWouldBlock.
	ErrEmpty = fmt.Errorf("spsc: channel empty: %w", iox.ErrWouldBlock)

	// ErrDisconnected is returned once the peer endpoint has been closed.
	// For receives it is only returned after every value sent before the
	// close has been delivered.
	ErrDisconnected = errors.New("spsc: peer disconnected")

	// ErrClosed is returned by operations on an endpoint that was itself
	// closed.
	ErrClosed = errors.New("spsc: endpoint closed")
)

// IsTransient reports whether err is a retriable Full or Empty condition.
func IsTransient(err error) bool {
	return errors.Is(err, iox.ErrWouldBlock)
}
