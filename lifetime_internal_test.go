// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package spsc

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// tracked is a value whose discards are counted by id.
type tracked struct{ id int }

type discardLog struct {
	mu  sync.Mutex
	ids map[int]int
}

func newDiscardLog() *discardLog {
	return &discardLog{ids: make(map[int]int)}
}

func (d *discardLog) discard(v any) {
	d.mu.Lock()
	d.ids[v.(tracked).id]++
	d.mu.Unlock()
}

func (d *discardLog) snapshot() map[int]int {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make(map[int]int, len(d.ids))
	for k, v := range d.ids {
		out[k] = v
	}
	return out
}

func TestBoundedTeardownDiscardsUndelivered(t *testing.T) {
	d := newDiscardLog()
	tx, rx := Bounded[tracked](New(8).Discard(d.discard))
	for i := range 6 {
		require.NoError(t, tx.TrySend(tracked{i}))
	}
	for want := range 2 {
		v, err := rx.TryRecv()
		require.NoError(t, err)
		require.Equal(t, want, v.id)
	}
	tx.Close()
	require.Zero(t, tx.ch.life.teardowns.Load())
	rx.Close()

	require.Equal(t, uint32(1), tx.ch.life.teardowns.Load())
	require.Equal(t, map[int]int{2: 1, 3: 1, 4: 1, 5: 1}, d.snapshot())
	require.Equal(t, uint64(4), tx.ch.life.discarded.Load())
}

func TestUnboundedTeardownDiscardsUndelivered(t *testing.T) {
	d := newDiscardLog()
	tx, rx := Unbounded[tracked](New(0).Discard(d.discard))
	for i := range 10 {
		require.NoError(t, tx.Send(tracked{i}))
	}
	for range 3 {
		_, err := rx.TryRecv()
		require.NoError(t, err)
	}
	rx.Close()
	tx.Close()

	c := tx.ch
	require.Equal(t, uint32(1), c.life.teardowns.Load())
	want := map[int]int{}
	for i := 3; i < 10; i++ {
		want[i] = 1
	}
	require.Equal(t, want, d.snapshot())
	// 3 retired nodes behind the tail plus 7 holding values.
	require.Equal(t, uint64(10), c.life.freed.Load())
}

func TestTeardownExactlyOnceConcurrentClose(t *testing.T) {
	for range 500 {
		d := newDiscardLog()
		tx, rx := Bounded[tracked](New(4).Discard(d.discard))
		require.NoError(t, tx.TrySend(tracked{1}))
		var wg sync.WaitGroup
		wg.Add(2)
		go func() {
			defer wg.Done()
			tx.Close()
		}()
		go func() {
			defer wg.Done()
			rx.Close()
		}()
		wg.Wait()
		require.Equal(t, uint32(1), tx.ch.life.teardowns.Load())
		require.Equal(t, map[int]int{1: 1}, d.snapshot())
		require.Equal(t, uint64(3), tx.ch.life.count.Load())
	}
}

func TestHandshakeSequence(t *testing.T) {
	var l lifetime
	l.init("test", config{})
	var woken, torn int
	l.release("a", func() { woken++ }, func() int { torn++; return 0 })
	require.Equal(t, 1, woken)
	require.Zero(t, torn)
	require.False(t, l.connected())
	l.release("b", func() { woken++ }, func() int { torn++; return 0 })
	require.Equal(t, 1, woken)
	require.Equal(t, 1, torn)
}

func TestHandshakeInvalidState(t *testing.T) {
	var l lifetime
	l.init("test", config{})
	l.count.Store(3)
	require.Panics(t, func() {
		l.release("a", func() {}, func() int { return 0 })
	})
}

func TestNodeLifecycle(t *testing.T) {
	tx, rx := NewUnbounded[int]()
	c := tx.ch
	sentinel := c.tail.Value.Load()
	require.Equal(t, nodeConsumed, sentinel.state)

	require.NoError(t, tx.Send(1))
	n1 := sentinel.next.Load()
	require.Equal(t, nodeLinked, n1.state)
	require.Equal(t, 1, n1.value)

	_, err := rx.TryRecv()
	require.NoError(t, err)
	require.Equal(t, nodeConsumed, n1.state)
	require.Equal(t, nodeRetired, sentinel.state)
	require.Zero(t, n1.value)

	require.NoError(t, tx.Send(2))
	require.Equal(t, nodeLinked, sentinel.state, "retired node is recycled")
	require.Same(t, sentinel, n1.next.Load())
	require.Equal(t, "linked", sentinel.state.String())

	tx.Close()
	rx.Close()
}

func TestCleanupReleasesAbandonedSender(t *testing.T) {
	rx := func() *BoundedReceiver[int] {
		tx, rx := NewBounded[int](4)
		require.NoError(t, tx.TrySend(7))
		return rx
	}()
	require.Eventually(t, func() bool {
		runtime.GC()
		return !rx.IsPeerConnected()
	}, 5*time.Second, 10*time.Millisecond)

	v, err := rx.TryRecv()
	require.NoError(t, err)
	require.Equal(t, 7, v)
	_, err = rx.TryRecv()
	require.ErrorIs(t, err, ErrDisconnected)
	rx.Close()
	require.Equal(t, uint32(1), rx.ch.life.teardowns.Load())
}

// collect runs the collector repeatedly so that cleanups of unreachable
// endpoints get a chance to run.
func collect() {
	for range 5 {
		runtime.GC()
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCleanupSparesBlockedBoundedReceiver(t *testing.T) {
	tx, rx := NewBounded[int](1)
	got := make(chan int, 1)
	go func(rx *BoundedReceiver[int]) {
		v, err := rx.Recv()
		if err != nil {
			v = -1
		}
		got <- v
	}(rx)
	rx = nil
	time.Sleep(20 * time.Millisecond)
	collect()

	require.True(t, tx.IsPeerConnected())
	require.NoError(t, tx.Send(1))
	select {
	case v := <-got:
		require.Equal(t, 1, v)
	case <-time.After(5 * time.Second):
		t.Fatal("receiver never woke")
	}
	require.NoError(t, tx.Close())
}

func TestCleanupSparesBlockedUnboundedReceiver(t *testing.T) {
	tx, rx := NewUnbounded[int]()
	got := make(chan int, 1)
	go func(rx *UnboundedReceiver[int]) {
		v, err := rx.Recv()
		if err != nil {
			v = -1
		}
		got <- v
	}(rx)
	rx = nil
	time.Sleep(20 * time.Millisecond)
	collect()

	require.True(t, tx.IsPeerConnected())
	require.NoError(t, tx.Send(1))
	select {
	case v := <-got:
		require.Equal(t, 1, v)
	case <-time.After(5 * time.Second):
		t.Fatal("receiver never woke")
	}
	require.NoError(t, tx.Close())
}

func TestCleanupSparesBlockedBoundedSender(t *testing.T) {
	tx, rx := NewBounded[int](1)
	require.NoError(t, tx.TrySend(1))
	done := make(chan error, 1)
	go func(tx *BoundedSender[int]) {
		done <- tx.Send(2)
	}(tx)
	tx = nil
	time.Sleep(20 * time.Millisecond)
	collect()

	require.True(t, rx.IsPeerConnected())
	for want := 1; want <= 2; want++ {
		v, err := rx.Recv()
		require.NoError(t, err)
		require.Equal(t, want, v)
	}
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("sender never woke")
	}
	require.NoError(t, rx.Close())
}

func TestRoundCapacity(t *testing.T) {
	tests := []struct {
		in   int
		want uint64
	}{
		{0, 1}, {1, 1}, {2, 2}, {3, 4}, {7, 8}, {8, 8}, {9, 16}, {1 << 20, 1 << 20},
	}
	for _, tt := range tests {
		if got := roundCapacity(tt.in); got != tt.want {
			t.Fatalf("roundCapacity(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
