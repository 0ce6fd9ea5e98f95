// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"sync/atomic"
)

// nodeState is the lifecycle stage of an unbounded channel node.
//
//	nodeFree -> nodeLinked -> nodeConsumed -> nodeRetired -> nodeFree ...
//
// A node leaves the cycle only at teardown.
type nodeState uint8

const (
	// nodeFree: freshly allocated or recycled, not in the chain.
	nodeFree nodeState = iota
	// nodeLinked: in the chain holding an undelivered value.
	nodeLinked
	// nodeConsumed: value taken; the node is the consumer's tail sentinel.
	nodeConsumed
	// nodeRetired: strictly behind the tail, available for reuse.
	nodeRetired
)

var nodeStateNames = [...]string{
	nodeFree:     "free",
	nodeLinked:   "linked",
	nodeConsumed: "consumed",
	nodeRetired:  "retired",
}

func (s nodeState) String() string {
	if int(s) < len(nodeStateNames) {
		return nodeStateNames[s]
	}
	return "invalid"
}

// node is one link of the unbounded chain. next is published with a
// release store by the producer and observed with an acquire load by the
// consumer. value and state are plain fields whose ownership moves with
// those stores.
type node[T any] struct {
	next  atomic.Pointer[node[T]]
	value T
	state nodeState
}

// NodeStats reports node allocation behaviour of an unbounded channel.
type NodeStats struct {
	// Allocated counts nodes obtained from the allocator, including the
	// initial sentinel.
	Allocated uint64
	// Reused counts sends served by a retired node.
	Reused uint64
}
