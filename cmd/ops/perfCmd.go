package ops

import (
	"encoding/csv"
	"fmt"
	"log"
	"math"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benchkv/benchkv/cmd/util"
	"github.com/benchkv/benchkv/lib/harness"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for store bindings",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfKeyPrefix   = "__perf"
	perfNumThreads  = 10
	perfKeySpread   = 100
	perfFieldCount  = 10
	perfFieldLength = 100
	perfSkip        = make([]string, 0)
)

func init() {
	// add flags
	key := "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the benchmark"))
	key = "keys"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("How many different keys to use for the tests"))
	key = "record-fields"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("How many fields each test record should have"))
	key = "field-length"
	perfTestCmd.Flags().Int(key, 100, util.WrapString("The length of each field value in bytes"))
	key = "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. insert,read)"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
	key = "metrics-endpoint"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional address to serve operation counters in Prometheus format while the benchmark runs (e.g. localhost:9100)"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfNumThreads = viper.GetInt("threads")
	perfKeySpread = viper.GetInt("keys")
	perfFieldCount = viper.GetInt("record-fields")
	perfFieldLength = viper.GetInt("field-length")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for store bindings")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Printf("Binding: %s\n", viper.GetString("binding"))
	fmt.Printf("Table: %s\n", util.GetTable())
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Printf("Record: %d fields x %d bytes\n", perfFieldCount, perfFieldLength)
	fmt.Println()

	// All rounds run against the instrumented binding so latency timers and
	// status counters are populated alongside the benchmark results
	perfBinding := harness.Instrument("perf", binding)
	table := util.GetTable()

	if endpoint := viper.GetString("metrics-endpoint"); endpoint != "" {
		go serveMetrics(endpoint)
		fmt.Printf("Serving metrics on http://%s/metrics\n\n", endpoint)
	}

	fmt.Println("starting tests...")

	record := buildRecord()

	// Create results map
	results := make(map[string]testing.BenchmarkResult)

	insertResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("insert") {
			return
		}

		// unique keys - a repeated insert of a live key is a conflict
		var nextKey atomic.Int64
		var failed atomic.Int64

		// cleanup
		b.Cleanup(func() {
			for i := int64(0); i < nextKey.Load(); i++ {
				perfBinding.Delete(table, fmt.Sprintf("%s-insert-%d", perfKeyPrefix, i))
			}
			reportFailures("insert", failed.Load())
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				key := fmt.Sprintf("%s-insert-%d", perfKeyPrefix, nextKey.Add(1)-1)
				if status := perfBinding.Insert(table, key, record); status != harness.StatusOK {
					failed.Add(1)
				}
			}
		})
	})

	results["insert"] = insertResult
	printResult("insert", insertResult)

	readResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("read") {
			return
		}

		// prepare keys
		getKey, iter := getKeys("read")

		// populate
		iter(func(k string) {
			if status := perfBinding.Insert(table, k, record); status != harness.StatusOK {
				log.Printf("(read) - error inserting key %s: %s\n", k, status)
			}
		})

		// cleanup
		var failed atomic.Int64
		b.Cleanup(func() {
			iter(func(k string) {
				perfBinding.Delete(table, k)
			})
			reportFailures("read", failed.Load())
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				status, _ := perfBinding.Read(table, getKey(counter), nil)
				if status != harness.StatusOK {
					failed.Add(1)
				}
				counter++
			}
		})
	})

	results["read"] = readResult
	printResult("read", readResult)

	updateResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("update") {
			return
		}

		// prepare keys
		getKey, iter := getKeys("update")

		// populate
		iter(func(k string) {
			if status := perfBinding.Insert(table, k, record); status != harness.StatusOK {
				log.Printf("(update) - error inserting key %s: %s\n", k, status)
			}
		})

		// cleanup
		var failed atomic.Int64
		b.Cleanup(func() {
			iter(func(k string) {
				perfBinding.Delete(table, k)
			})
			reportFailures("update", failed.Load())
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				if status := perfBinding.Update(table, getKey(counter), record); status != harness.StatusOK {
					failed.Add(1)
				}
				counter++
			}
		})
	})

	results["update"] = updateResult
	printResult("update", updateResult)

	deleteResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("delete") {
			return
		}

		// each iteration creates its own record and removes it again, so the
		// round measures an insert+delete pair on unique keys
		var nextKey atomic.Int64
		var failed atomic.Int64

		b.Cleanup(func() {
			reportFailures("delete", failed.Load())
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		b.RunParallel(func(pb *testing.PB) {
			for pb.Next() {
				key := fmt.Sprintf("%s-delete-%d", perfKeyPrefix, nextKey.Add(1)-1)
				if status := perfBinding.Insert(table, key, record); status != harness.StatusOK {
					failed.Add(1)
					continue
				}
				if status := perfBinding.Delete(table, key); status != harness.StatusOK {
					failed.Add(1)
				}
			}
		})
	})

	results["insert+delete"] = deleteResult
	printResult("insert+delete", deleteResult)

	mixedResult := testing.Benchmark(func(b *testing.B) {
		if shouldSkip("mixed") {
			return
		}

		// prepare keys
		getKey, iter := getKeys("mixed")

		// populate
		iter(func(k string) {
			if status := perfBinding.Insert(table, k, record); status != harness.StatusOK {
				log.Printf("(mixed) - error inserting key %s: %s\n", k, status)
			}
		})

		// cleanup
		b.Cleanup(func() {
			iter(func(k string) {
				perfBinding.Delete(table, k)
			})
		})

		b.SetParallelism(perfNumThreads)

		b.ResetTimer()

		// statuses are ignored here: interleaved goroutines race on the same
		// keys, so conflicts and misses are part of the workload
		b.RunParallel(func(pb *testing.PB) {
			counter := 0
			for pb.Next() {
				key := getKey(counter)
				switch counter % 4 {
				case 0:
					perfBinding.Insert(table, key, record)
				case 1:
					perfBinding.Read(table, key, nil)
				case 2:
					perfBinding.Update(table, key, record)
				case 3:
					perfBinding.Delete(table, key)
				}
				counter++
			}
		})
	})

	results["mixed"] = mixedResult
	printResult("mixed", mixedResult)

	// Print latency percentiles collected by the instrumented binding
	printLatencies()

	// Write results to csv if specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// buildRecord creates one test record with the configured shape
func buildRecord() map[string]string {
	value := strings.Repeat("x", perfFieldLength)
	record := make(map[string]string, perfFieldCount)
	for i := 0; i < perfFieldCount; i++ {
		record[fmt.Sprintf("field%d", i)] = value
	}
	return record
}

// creates an array of test keys and functions to work with them
func getKeys(prefix string) (func(int) string, func(func(string))) {
	keys := make([]string, perfKeySpread)
	for i := 0; i < perfKeySpread; i++ {
		keys[i] = fmt.Sprintf("%s-%s-%d", perfKeyPrefix, prefix, i)
	}

	// Function to get a key by index (with wraparound)
	getKey := func(i int) string {
		return keys[i%perfKeySpread]
	}

	// Function to iterate over all keys and apply a function to each
	iterateKeys := func(fn func(string)) {
		for _, key := range keys {
			fn(key)
		}
	}

	return getKey, iterateKeys
}

func reportFailures(test string, failed int64) {
	if failed > 0 {
		log.Printf("(%s) - %d operations did not return OK\n", test, failed)
	}
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, result testing.BenchmarkResult) {
	if result.NsPerOp() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	nsPerOp := math.Max(float64(result.NsPerOp()), 1) // prevent division by zero
	opsPerSec := 1.0 / (nsPerOp / 1e9)

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\t%.0f ops/sec\n", test, nsPerOp, time.Duration(nsPerOp), opsPerSec)
}

// printLatencies prints per-operation latency percentiles
func printLatencies() {
	fmt.Println()
	fmt.Println("Latency percentiles:")
	for _, op := range []string{"read", "insert", "update", "delete"} {
		timer := harness.OpTimer("perf", op)
		if timer.Count() == 0 {
			continue
		}
		p := timer.Percentiles([]float64{0.5, 0.95, 0.99})
		fmt.Printf("%-10sp50=%-12s p95=%-12s p99=%-12s (%d samples)\n",
			op,
			time.Duration(p[0]).String(),
			time.Duration(p[1]).String(),
			time.Duration(p[2]).String(),
			timer.Count())
	}
}

// serveMetrics exposes the operation counters in Prometheus text format
func serveMetrics(endpoint string) {
	http.HandleFunc("/metrics", func(w http.ResponseWriter, _ *http.Request) {
		harness.WriteMetrics(w)
	})
	if err := http.ListenAndServe(endpoint, nil); err != nil {
		log.Printf("metrics endpoint error: %v\n", err)
	}
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]testing.BenchmarkResult) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	// Write header
	header := []string{
		"Test", "NsPerOp", "DurationPerOp", "OpsPerSec", "Skipped",
		"Binding", "Host", "Bucket", "Table",
		"Threads", "RecordFields", "FieldLength", "Keys Count",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, result := range results {
		var nsPerOp float64
		var opsPerSec float64
		var skipped string

		if result.NsPerOp() == 0 {
			skipped = "true"
			nsPerOp = 0
			opsPerSec = 0
		} else {
			skipped = "false"
			nsPerOp = math.Max(float64(result.NsPerOp()), 1)
			opsPerSec = 1.0 / (nsPerOp / 1e9)
		}

		row := []string{
			test,
			fmt.Sprintf("%.0f", nsPerOp),
			time.Duration(nsPerOp).String(),
			fmt.Sprintf("%.0f", opsPerSec),
			skipped,
			viper.GetString("binding"),
			viper.GetString("host"),
			viper.GetString("bucket"),
			util.GetTable(),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfFieldCount),
			strconv.Itoa(perfFieldLength),
			strconv.Itoa(perfKeySpread),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
