package harness

import (
	"fmt"
	"io"
	"time"

	vmetrics "github.com/VictoriaMetrics/metrics"
	gometrics "github.com/rcrowley/go-metrics"
)

// --------------------------------------------------------------------------
// Instrumented Binding
// --------------------------------------------------------------------------

// Instrument wraps a binding so that every operation updates a latency timer
// and a per-status counter. The wrapper is transparent: status values and
// read results are passed through unchanged.
//
// Timers are registered in the default go-metrics registry under
// "<name>.<operation>" and can be inspected via OpTimer. Counters are
// exported in Prometheus text format via WriteMetrics.
func Instrument(name string, binding Binding) Binding {
	return &instrumentedBinding{
		name:    name,
		binding: binding,
	}
}

type instrumentedBinding struct {
	name    string
	binding Binding
}

// OpTimer returns the latency timer for one operation of an instrumented
// binding, registering it on first use.
func OpTimer(name, op string) gometrics.Timer {
	return gometrics.GetOrRegisterTimer(name+"."+op, nil)
}

// observe records one finished operation in both metric systems.
func (b *instrumentedBinding) observe(op string, start time.Time, status Status) Status {
	OpTimer(b.name, op).UpdateSince(start)
	counter := fmt.Sprintf(`benchkv_ops_total{binding=%q,op=%q,status=%q}`, b.name, op, status.String())
	vmetrics.GetOrCreateCounter(counter).Inc()
	return status
}

// --------------------------------------------------------------------------
// Interface Methods (docu see interface.go)
// --------------------------------------------------------------------------

func (b *instrumentedBinding) Init() error {
	return b.binding.Init()
}

func (b *instrumentedBinding) Cleanup() error {
	return b.binding.Cleanup()
}

func (b *instrumentedBinding) Read(table, key string, fields []string) (Status, map[string]string) {
	start := time.Now()
	status, result := b.binding.Read(table, key, fields)
	b.observe("read", start, status)
	return status, result
}

func (b *instrumentedBinding) Insert(table, key string, values map[string]string) Status {
	start := time.Now()
	return b.observe("insert", start, b.binding.Insert(table, key, values))
}

func (b *instrumentedBinding) Update(table, key string, values map[string]string) Status {
	start := time.Now()
	return b.observe("update", start, b.binding.Update(table, key, values))
}

func (b *instrumentedBinding) Delete(table, key string) Status {
	start := time.Now()
	return b.observe("delete", start, b.binding.Delete(table, key))
}

func (b *instrumentedBinding) Scan(table, startKey string, recordCount int, fields []string) Status {
	start := time.Now()
	return b.observe("scan", start, b.binding.Scan(table, startKey, recordCount, fields))
}

// --------------------------------------------------------------------------
// Exposition
// --------------------------------------------------------------------------

// WriteMetrics writes all operation counters in Prometheus text format.
func WriteMetrics(w io.Writer) {
	vmetrics.WritePrometheus(w, false)
}
