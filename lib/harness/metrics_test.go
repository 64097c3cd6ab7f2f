package harness

import (
	"strings"
	"testing"
)

// stubBinding returns fixed statuses and counts invocations.
type stubBinding struct {
	calls int
}

func (s *stubBinding) Init() error    { return nil }
func (s *stubBinding) Cleanup() error { return nil }

func (s *stubBinding) Read(table, key string, fields []string) (Status, map[string]string) {
	s.calls++
	return StatusNotFound, nil
}

func (s *stubBinding) Insert(table, key string, values map[string]string) Status {
	s.calls++
	return StatusOK
}

func (s *stubBinding) Update(table, key string, values map[string]string) Status {
	s.calls++
	return StatusError
}

func (s *stubBinding) Delete(table, key string) Status {
	s.calls++
	return StatusOK
}

func (s *stubBinding) Scan(table, startKey string, recordCount int, fields []string) Status {
	s.calls++
	return StatusNotImplemented
}

func TestInstrumentPassesThrough(t *testing.T) {
	stub := &stubBinding{}
	binding := Instrument("stub", stub)

	if status, _ := binding.Read("t", "k", nil); status != StatusNotFound {
		t.Errorf("read: expected NOT_FOUND, got %s", status)
	}
	if status := binding.Insert("t", "k", nil); status != StatusOK {
		t.Errorf("insert: expected OK, got %s", status)
	}
	if status := binding.Update("t", "k", nil); status != StatusError {
		t.Errorf("update: expected ERROR, got %s", status)
	}
	if status := binding.Delete("t", "k"); status != StatusOK {
		t.Errorf("delete: expected OK, got %s", status)
	}
	if status := binding.Scan("t", "k", 1, nil); status != StatusNotImplemented {
		t.Errorf("scan: expected NOT_IMPLEMENTED, got %s", status)
	}
	if stub.calls != 5 {
		t.Errorf("expected 5 delegated calls, got %d", stub.calls)
	}
}

func TestInstrumentRecordsTimers(t *testing.T) {
	binding := Instrument("timed", &stubBinding{})

	binding.Insert("t", "k", nil)
	binding.Insert("t", "k2", nil)

	if count := OpTimer("timed", "insert").Count(); count < 2 {
		t.Errorf("expected at least 2 timer samples, got %d", count)
	}
}

func TestWriteMetrics(t *testing.T) {
	binding := Instrument("exported", &stubBinding{})
	binding.Delete("t", "k")

	var sb strings.Builder
	WriteMetrics(&sb)

	if !strings.Contains(sb.String(), `benchkv_ops_total{binding="exported",op="delete",status="OK"}`) {
		t.Errorf("expected delete counter in metrics output, got:\n%s", sb.String())
	}
}
