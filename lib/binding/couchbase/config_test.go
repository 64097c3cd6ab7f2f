package couchbase

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/benchkv/benchkv/lib/harness"
	"github.com/couchbase/gocb/v2"
)

func TestResolveConfigDefaults(t *testing.T) {
	cfg, err := resolveConfig(harness.Properties{})
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}

	if cfg.host != "127.0.0.1" {
		t.Errorf("expected default host, got %q", cfg.host)
	}
	if cfg.bucket != "ycsb" {
		t.Errorf("expected default bucket, got %q", cfg.bucket)
	}
	if cfg.username != "Administrator" || cfg.password != "password" {
		t.Errorf("expected default credentials, got %q/%q", cfg.username, cfg.password)
	}
	if cfg.kvTimeout != 10*time.Second {
		t.Errorf("expected default timeout 10s, got %v", cfg.kvTimeout)
	}
	if cfg.kvEndpoints != 1 {
		t.Errorf("expected default kvEndpoints 1, got %d", cfg.kvEndpoints)
	}
	if cfg.durability.useLevel {
		t.Errorf("expected legacy durability by default")
	}
	if cfg.durability.persistTo != 0 || cfg.durability.replicateTo != 0 {
		t.Errorf("expected zero persist/replicate counts, got %d/%d",
			cfg.durability.persistTo, cfg.durability.replicateTo)
	}
}

func TestResolveConfigLegacyDurability(t *testing.T) {
	// all valid combinations select the legacy scheme with the exact counts
	for persistTo := 0; persistTo <= 4; persistTo++ {
		for replicateTo := 0; replicateTo <= 3; replicateTo++ {
			cfg, err := resolveConfig(harness.Properties{
				propPersistTo:   strconv.Itoa(persistTo),
				propReplicateTo: strconv.Itoa(replicateTo),
			})
			if err != nil {
				t.Fatalf("persistTo=%d replicateTo=%d: %v", persistTo, replicateTo, err)
			}
			if cfg.durability.useLevel {
				t.Fatalf("persistTo=%d replicateTo=%d: expected legacy scheme", persistTo, replicateTo)
			}
			if cfg.durability.persistTo != uint(persistTo) || cfg.durability.replicateTo != uint(replicateTo) {
				t.Fatalf("expected counts %d/%d, got %d/%d", persistTo, replicateTo,
					cfg.durability.persistTo, cfg.durability.replicateTo)
			}
		}
	}
}

func TestResolveConfigLegacyOutOfRange(t *testing.T) {
	cases := []struct {
		props harness.Properties
		key   string
	}{
		{harness.Properties{propPersistTo: "5"}, propPersistTo},
		{harness.Properties{propPersistTo: "-1"}, propPersistTo},
		{harness.Properties{propReplicateTo: "4"}, propReplicateTo},
		{harness.Properties{propReplicateTo: "-1"}, propReplicateTo},
	}

	for _, c := range cases {
		_, err := resolveConfig(c.props)
		if err == nil {
			t.Errorf("props %v: expected error", c.props)
			continue
		}
		if !strings.Contains(err.Error(), c.key) {
			t.Errorf("props %v: error should name %q, got %q", c.props, c.key, err)
		}
	}
}

func TestResolveConfigDurabilityLevels(t *testing.T) {
	levels := []gocb.DurabilityLevel{
		gocb.DurabilityLevelNone,
		gocb.DurabilityLevelMajority,
		gocb.DurabilityLevelMajorityAndPersistOnMaster,
		gocb.DurabilityLevelPersistToMajority,
	}

	for value, level := range levels {
		cfg, err := resolveConfig(harness.Properties{propDurability: strconv.Itoa(value)})
		if err != nil {
			t.Fatalf("durability=%d: %v", value, err)
		}
		if !cfg.durability.useLevel {
			t.Fatalf("durability=%d: expected level scheme", value)
		}
		if cfg.durability.level != level {
			t.Fatalf("durability=%d: expected level %v, got %v", value, level, cfg.durability.level)
		}
	}
}

func TestResolveConfigDurabilityOverridesLegacy(t *testing.T) {
	cfg, err := resolveConfig(harness.Properties{
		propDurability: "1",
		// out of range, but must be ignored once a level is configured
		propPersistTo:   "9",
		propReplicateTo: "9",
	})
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}
	if !cfg.durability.useLevel || cfg.durability.level != gocb.DurabilityLevelMajority {
		t.Errorf("expected majority level, got %s", cfg.durability.String())
	}
}

func TestResolveConfigDurabilityOutOfRange(t *testing.T) {
	for _, value := range []string{"-1", "4"} {
		if _, err := resolveConfig(harness.Properties{propDurability: value}); err == nil {
			t.Errorf("durability=%s: expected error", value)
		}
	}
}

func TestResolveConfigNonNumeric(t *testing.T) {
	for _, key := range []string{
		propPersistTo, propReplicateTo, propDurability, propKVTimeoutMillis, propKVEndpoints,
	} {
		_, err := resolveConfig(harness.Properties{key: "not-a-number"})
		if err == nil {
			t.Errorf("%s: expected error for non-numeric value", key)
			continue
		}
		if !strings.Contains(err.Error(), key) {
			t.Errorf("%s: error should name the key, got %q", key, err)
		}
	}
}

func TestConnectionString(t *testing.T) {
	cfg, err := resolveConfig(harness.Properties{
		propHost:        "db.example.com",
		propKVEndpoints: "4",
	})
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}

	want := "couchbase://db.example.com?kv_pool_size=4"
	if got := cfg.connectionString(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestConfigStringOmitsPassword(t *testing.T) {
	cfg, err := resolveConfig(harness.Properties{propPassword: "s3cret"})
	if err != nil {
		t.Fatalf("resolveConfig failed: %v", err)
	}
	if strings.Contains(cfg.String(), "s3cret") {
		t.Errorf("config string must not contain the password:\n%s", cfg.String())
	}
}
