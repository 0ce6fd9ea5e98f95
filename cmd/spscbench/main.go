// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command spscbench compares one-producer one-consumer throughput of the
// spsc channels against other queue implementations.
//
// Usage:
//
//	go run ./cmd/spscbench -n 10000000 -size 1024 -impl bounded,chan
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joeycumines/logiface"
	"github.com/joeycumines/stumpy"
)

func main() {
	iterations := flag.Int("n", 10_000_000, "number of values to transfer")
	size := flag.Int("size", 1024, "queue capacity")
	impls := flag.String("impl", strings.Join(names(), ","), "comma separated implementations")
	verbose := flag.Bool("v", false, "log channel lifecycle events to stderr")
	flag.Parse()

	level := logiface.LevelInformational
	if *verbose {
		level = logiface.LevelDebug
	}
	logger := stumpy.L.New(
		stumpy.L.WithStumpy(stumpy.WithWriter(os.Stderr)),
		stumpy.L.WithLevel(level),
	).Logger()

	selected, err := selectImpls(*impls)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		flag.Usage()
		os.Exit(2)
	}

	cfg := runConfig{n: *iterations, size: *size, logger: logger}
	fmt.Printf("Benchmarking 1P1C transfer (%d values, size=%d)\n", cfg.n, cfg.size)
	fmt.Println("─────────────────────────────────────────────────")

	var baseline float64
	for _, im := range selected {
		logger.Info().Str("impl", im.name).Log("running")
		d := im.run(cfg)
		perOp := float64(d.Nanoseconds()) / float64(cfg.n)
		if baseline == 0 {
			baseline = perOp
		}
		fmt.Printf("  %-12s %12v  %8.2f ns/op  %8.2f M ops/sec  %5.2fx\n",
			im.name, d.Round(time.Microsecond), perOp, 1000/perOp, baseline/perOp)
	}
}

func selectImpls(list string) ([]impl, error) {
	var out []impl
	for _, name := range strings.Split(list, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		im, ok := lookup(name)
		if !ok {
			return nil, fmt.Errorf("spscbench: unknown implementation %q (have %s)", name, strings.Join(names(), ", "))
		}
		out = append(out, im)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("spscbench: no implementation selected")
	}
	return out, nil
}
