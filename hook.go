// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

// Point names a site in the channel algorithms where another goroutine's
// progress may interleave. A yield callback installed with Builder.Yield
// is invoked at every Point, letting an external scheduler or a stress
// test perturb the interleaving of producer and consumer.
type Point uint8

const (
	// PointSendReserve follows the producer's capacity check.
	PointSendReserve Point = iota
	// PointSendPublish precedes the release-store that publishes a value.
	PointSendPublish
	// PointRecvObserve follows the consumer's acquire-load of the
	// producer cursor.
	PointRecvObserve
	// PointRecvAdvance precedes the release-store that frees a slot or node.
	PointRecvAdvance
	// PointPark precedes a blocking wait.
	PointPark
	// PointRelease precedes each step of the disconnect handshake.
	PointRelease
	// PointNodeReuse precedes recycling a retired node.
	PointNodeReuse
)

var pointNames = [...]string{
	PointSendReserve: "send-reserve",
	PointSendPublish: "send-publish",
	PointRecvObserve: "recv-observe",
	PointRecvAdvance: "recv-advance",
	PointPark:        "park",
	PointRelease:     "release",
	PointNodeReuse:   "node-reuse",
}

func (p Point) String() string {
	if int(p) < len(pointNames) {
		return pointNames[p]
	}
	return "unknown"
}
