// Package main is an example benchmark binary: it registers a few
// deterministic workloads and hands control to the harness, which
// re-invokes this same binary under cachegrind for each measurement.
package main

import (
	"fmt"
	"os"

	"github.com/cgbench/cgbench/harness"
	"github.com/cgbench/cgbench/workload"
)

func main() {
	suite := harness.NewSuite()

	register := func(name string, fn func()) {
		if err := suite.Register(name, fn); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}

	register("fib_20", func() {
		harness.BlackBox(workload.Fib(20))
	})
	register("sequential_sum_64k", func() {
		harness.BlackBox(workload.SequentialSum(1<<16, 42))
	})
	register("strided_sum_64k", func() {
		harness.BlackBox(workload.StridedSum(1<<16, 512, 42))
	})
	register("map_churn_16k", func() {
		harness.BlackBox(workload.MapChurn(1<<14, 42))
	})

	harness.Main(suite)
}
