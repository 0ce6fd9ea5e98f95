// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

// Sender is the producing endpoint common to both channel flavors.
type Sender[T any] interface {
	Send(v T) error
	IsPeerConnected() bool
	Serial() Serial
	Close() error
}

// TrySender is a Sender that can fail fast when the channel is full.
type TrySender[T any] interface {
	Sender[T]
	TrySend(v T) error
}

// Receiver is the consuming endpoint common to both channel flavors.
type Receiver[T any] interface {
	TryRecv() (T, error)
	Recv() (T, error)
	IsPeerConnected() bool
	Serial() Serial
	Close() error
}

var (
	_ TrySender[int] = (*BoundedSender[int])(nil)
	_ Receiver[int]  = (*BoundedReceiver[int])(nil)
	_ Sender[int]    = (*UnboundedSender[int])(nil)
	_ Receiver[int]  = (*UnboundedReceiver[int])(nil)
)
