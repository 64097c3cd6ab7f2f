package harness

import (
	"fmt"
	"strconv"
)

// Properties is a flat string-to-string configuration mapping handed to a
// binding at creation time. Bindings resolve it exactly once during Init;
// the mapping itself is never mutated by this package.
type Properties map[string]string

// Has reports whether a key is present, regardless of its value.
func (p Properties) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// GetString returns the value for key, or fallback if the key is absent.
func (p Properties) GetString(key, fallback string) string {
	if v, ok := p[key]; ok {
		return v
	}
	return fallback
}

// GetInt returns the integer value for key, or fallback if the key is
// absent. A present but non-numeric value is a configuration error.
func (p Properties) GetInt(key string, fallback int) (int, error) {
	v, ok := p[key]
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("property %q must be an integer, got %q", key, v)
	}
	return n, nil
}
