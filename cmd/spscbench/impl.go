// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"errors"
	"sync/atomic"
	"time"

	"code.hybscloud.com/iox"
	"code.hybscloud.com/lfq"
	"code.hybscloud.com/spsc"
	"github.com/joeycumines/logiface"
	ring "github.com/randomizedcoder/go-lock-free-ring"
)

type runConfig struct {
	n      int
	size   int
	logger *logiface.Logger[logiface.Event]
}

// impl transfers cfg.n values from a producer goroutine to the calling
// goroutine and reports the elapsed time.
type impl struct {
	name string
	run  func(cfg runConfig) time.Duration
}

var impls = []impl{
	{"bounded", runBounded},
	{"bounded-try", runBoundedTry},
	{"unbounded", runUnbounded},
	{"queue", runQueue},
	{"lfq", runLFQ},
	{"chan", runChan},
	{"sharded", runSharded},
}

func names() []string {
	out := make([]string, len(impls))
	for i, im := range impls {
		out[i] = im.name
	}
	return out
}

func lookup(name string) (impl, bool) {
	for _, im := range impls {
		if im.name == name {
			return im, true
		}
	}
	return impl{}, false
}

func runBounded(cfg runConfig) time.Duration {
	tx, rx := spsc.Bounded[int](spsc.New(cfg.size).Logger(cfg.logger))
	defer rx.Close()
	start := time.Now()
	go func() {
		defer tx.Close()
		for i := range cfg.n {
			if tx.Send(i) != nil {
				return
			}
		}
	}()
	for {
		if _, err := rx.Recv(); err != nil {
			break
		}
	}
	return time.Since(start)
}

func runBoundedTry(cfg runConfig) time.Duration {
	tx, rx := spsc.Bounded[int](spsc.New(cfg.size).Logger(cfg.logger))
	defer rx.Close()
	start := time.Now()
	go func() {
		defer tx.Close()
		var bo iox.Backoff
		for i := 0; i < cfg.n; {
			err := tx.TrySend(i)
			if spsc.IsTransient(err) {
				bo.Wait()
				continue
			}
			if err != nil {
				return
			}
			bo.Reset()
			i++
		}
	}()
	var bo iox.Backoff
	for {
		_, err := rx.TryRecv()
		if errors.Is(err, spsc.ErrDisconnected) {
			break
		}
		if err != nil {
			bo.Wait()
			continue
		}
		bo.Reset()
	}
	return time.Since(start)
}

func runUnbounded(cfg runConfig) time.Duration {
	tx, rx := spsc.Unbounded[int](spsc.New(0).Logger(cfg.logger))
	defer rx.Close()
	start := time.Now()
	go func() {
		defer tx.Close()
		for i := range cfg.n {
			if tx.Send(i) != nil {
				return
			}
		}
	}()
	for {
		if _, err := rx.Recv(); err != nil {
			break
		}
	}
	elapsed := time.Since(start)
	st := tx.Stats()
	cfg.logger.Info().
		Uint64("allocated", st.Allocated).
		Uint64("reused", st.Reused).
		Log("unbounded node stats")
	return elapsed
}

func runQueue(cfg runConfig) time.Duration {
	p, c := spsc.NewQueue[int](cfg.size)
	start := time.Now()
	go func() {
		for i := 0; i < cfg.n; {
			if p.Push(i) {
				i++
			}
		}
	}()
	for got := 0; got < cfg.n; {
		if _, ok := c.Pop(); ok {
			got++
		}
	}
	return time.Since(start)
}

func runLFQ(cfg runConfig) time.Duration {
	q := lfq.NewSPSC[int](max(cfg.size, 2))
	start := time.Now()
	go func() {
		for i := 0; i < cfg.n; {
			if q.Enqueue(&i) == nil {
				i++
			}
		}
	}()
	for got := 0; got < cfg.n; {
		if _, err := q.Dequeue(); err == nil {
			got++
		}
	}
	return time.Since(start)
}

func runChan(cfg runConfig) time.Duration {
	ch := make(chan int, cfg.size)
	start := time.Now()
	go func() {
		defer close(ch)
		for i := range cfg.n {
			ch <- i
		}
	}()
	for range ch {
	}
	return time.Since(start)
}

// runSharded measures the producer side only: the ring does not report
// per-read success in a form this tool relies on.
func runSharded(cfg runConfig) time.Duration {
	r, err := ring.NewShardedRing(1024, 1)
	if err != nil {
		cfg.logger.Err().Err(err).Log("sharded ring")
		return 0
	}
	var stop atomic.Bool
	done := make(chan struct{})
	go func() {
		defer close(done)
		for !stop.Load() {
			r.TryRead()
		}
	}()
	start := time.Now()
	for i := range cfg.n {
		for !r.Write(0, i) {
		}
	}
	elapsed := time.Since(start)
	stop.Store(true)
	<-done
	return elapsed
}
