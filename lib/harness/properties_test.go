package harness

import (
	"testing"
)

func TestPropertiesGetString(t *testing.T) {
	props := Properties{"host": "10.0.0.1", "empty": ""}

	if got := props.GetString("host", "127.0.0.1"); got != "10.0.0.1" {
		t.Errorf("expected configured value, got %q", got)
	}
	if got := props.GetString("missing", "127.0.0.1"); got != "127.0.0.1" {
		t.Errorf("expected fallback, got %q", got)
	}
	// a present empty value wins over the fallback
	if got := props.GetString("empty", "fallback"); got != "" {
		t.Errorf("expected empty value, got %q", got)
	}
}

func TestPropertiesGetInt(t *testing.T) {
	props := Properties{"timeout": "2500", "bad": "fast"}

	if got, err := props.GetInt("timeout", 10000); err != nil || got != 2500 {
		t.Errorf("expected 2500, got %d (err=%v)", got, err)
	}
	if got, err := props.GetInt("missing", 10000); err != nil || got != 10000 {
		t.Errorf("expected fallback 10000, got %d (err=%v)", got, err)
	}
	if _, err := props.GetInt("bad", 0); err == nil {
		t.Errorf("expected error for non-numeric value")
	}
}

func TestPropertiesHas(t *testing.T) {
	props := Properties{"durability": "0"}

	if !props.Has("durability") {
		t.Errorf("expected durability to be present")
	}
	if props.Has("persistTo") {
		t.Errorf("expected persistTo to be absent")
	}
}

func TestStatusString(t *testing.T) {
	cases := map[Status]string{
		StatusOK:             "OK",
		StatusNotFound:       "NOT_FOUND",
		StatusError:          "ERROR",
		StatusNotImplemented: "NOT_IMPLEMENTED",
		Status(42):           "Status(42)",
	}
	for status, want := range cases {
		if got := status.String(); got != want {
			t.Errorf("Status(%d).String() = %q, expected %q", uint64(status), got, want)
		}
	}
}
