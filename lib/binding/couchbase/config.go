package couchbase

import (
	"fmt"
	"strings"
	"time"

	"github.com/benchkv/benchkv/lib/harness"
	"github.com/couchbase/gocb/v2"
)

// --------------------------------------------------------------------------
// Property keys and defaults
// --------------------------------------------------------------------------

const (
	propHost            = "host"
	propBucket          = "bucket"
	propUsername        = "username"
	propPassword        = "password"
	propKVTimeoutMillis = "kvTimeoutMillis"
	propKVEndpoints     = "kvEndpoints"
	propDurability      = "durability"
	propPersistTo       = "persistTo"
	propReplicateTo     = "replicateTo"
)

const (
	defaultHost            = "127.0.0.1"
	defaultBucket          = "ycsb"
	defaultUsername        = "Administrator"
	defaultPassword        = "password"
	defaultKVTimeoutMillis = 10000
	defaultKVEndpoints     = 1
)

// --------------------------------------------------------------------------
// Durability policy
// --------------------------------------------------------------------------

// durability is the write durability policy, resolved exactly once at Init
// and consumed read-only by every mutation afterwards. Exactly one of the
// two schemes is active: either a durability level, or the legacy
// persist/replicate node counts.
type durability struct {
	useLevel    bool
	level       gocb.DurabilityLevel
	persistTo   uint
	replicateTo uint
}

// apply writes the active scheme into gocb mutation options.
func (d durability) apply(level *gocb.DurabilityLevel, persistTo, replicateTo *uint) {
	if d.useLevel {
		*level = d.level
	} else {
		*persistTo = d.persistTo
		*replicateTo = d.replicateTo
	}
}

func (d durability) String() string {
	if d.useLevel {
		return fmt.Sprintf("level=%s", durabilityLevelName(d.level))
	}
	return fmt.Sprintf("persistTo=%d, replicateTo=%d", d.persistTo, d.replicateTo)
}

func durabilityLevelName(level gocb.DurabilityLevel) string {
	switch level {
	case gocb.DurabilityLevelNone:
		return "none"
	case gocb.DurabilityLevelMajority:
		return "majority"
	case gocb.DurabilityLevelMajorityAndPersistOnMaster:
		return "majority-and-persist-on-master"
	case gocb.DurabilityLevelPersistToMajority:
		return "persist-to-majority"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Config resolution
// --------------------------------------------------------------------------

// config holds all resolved connection parameters for the binding.
type config struct {
	host        string
	bucket      string
	username    string
	password    string
	kvTimeout   time.Duration
	kvEndpoints int
	durability  durability
}

// resolveConfig validates the raw properties and produces the resolved
// configuration. It is a pure function of the property mapping; any invalid
// or out-of-range value is a fatal configuration error naming the key.
func resolveConfig(props harness.Properties) (*config, error) {
	cfg := &config{
		host:     props.GetString(propHost, defaultHost),
		bucket:   props.GetString(propBucket, defaultBucket),
		username: props.GetString(propUsername, defaultUsername),
		password: props.GetString(propPassword, defaultPassword),
	}

	timeoutMillis, err := props.GetInt(propKVTimeoutMillis, defaultKVTimeoutMillis)
	if err != nil {
		return nil, err
	}
	cfg.kvTimeout = time.Duration(timeoutMillis) * time.Millisecond

	cfg.kvEndpoints, err = props.GetInt(propKVEndpoints, defaultKVEndpoints)
	if err != nil {
		return nil, err
	}

	// The presence of a durability level selects level mode and ignores the
	// legacy persist/replicate keys entirely.
	if props.Has(propDurability) {
		cfg.durability, err = parseDurabilityLevel(props)
	} else {
		cfg.durability, err = parseLegacyDurability(props)
	}
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

func parseDurabilityLevel(props harness.Properties) (durability, error) {
	value, err := props.GetInt(propDurability, 0)
	if err != nil {
		return durability{}, err
	}

	var level gocb.DurabilityLevel
	switch value {
	case 0:
		level = gocb.DurabilityLevelNone
	case 1:
		level = gocb.DurabilityLevelMajority
	case 2:
		level = gocb.DurabilityLevelMajorityAndPersistOnMaster
	case 3:
		level = gocb.DurabilityLevelPersistToMajority
	default:
		return durability{}, fmt.Errorf("%q must be between 0 and 3", propDurability)
	}

	return durability{useLevel: true, level: level}, nil
}

func parseLegacyDurability(props harness.Properties) (durability, error) {
	persistTo, err := props.GetInt(propPersistTo, 0)
	if err != nil {
		return durability{}, err
	}
	if persistTo < 0 || persistTo > 4 {
		return durability{}, fmt.Errorf("%q must be between 0 and 4", propPersistTo)
	}

	replicateTo, err := props.GetInt(propReplicateTo, 0)
	if err != nil {
		return durability{}, err
	}
	if replicateTo < 0 || replicateTo > 3 {
		return durability{}, fmt.Errorf("%q must be between 0 and 3", propReplicateTo)
	}

	return durability{persistTo: uint(persistTo), replicateTo: uint(replicateTo)}, nil
}

// connectionString builds the cluster address. The kv_pool_size option
// controls how many key-value connections the SDK opens per node.
func (c *config) connectionString() string {
	return fmt.Sprintf("couchbase://%s?kv_pool_size=%d", c.host, c.kvEndpoints)
}

// String returns a formatted string representation of the configuration.
// The password is not included.
func (c *config) String() string {
	var sb strings.Builder

	addField := func(name, value string) {
		sb.WriteString(fmt.Sprintf("  %-22s: %s\n", name, value))
	}

	sb.WriteString("COUCHBASE BINDING\n")
	addField("Host", c.host)
	addField("Bucket", c.bucket)
	addField("Username", c.username)
	addField("KV Timeout", c.kvTimeout.String())
	addField("KV Endpoints", fmt.Sprintf("%d", c.kvEndpoints))
	addField("Durability", c.durability.String())

	return sb.String()
}
