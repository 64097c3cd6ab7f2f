package util

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/benchkv/benchkv/lib/binding/couchbase"
	"github.com/benchkv/benchkv/lib/binding/memory"
	"github.com/benchkv/benchkv/lib/harness"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Wrap is the number of characters to Wrap the help text at
	Wrap int = 50
)

// WrapString wraps a string at Wrap characters
func WrapString(text string) string {
	var wrappedLines []string
	var currentLine strings.Builder
	lineWidth := 0

	for _, word := range strings.Fields(text) {
		wordWidth := len(word)

		// Check if we need to wrap
		if lineWidth > 0 && lineWidth+1+wordWidth > Wrap {
			wrappedLines = append(wrappedLines, currentLine.String())
			currentLine.Reset()
			lineWidth = 0
		}

		// Add space before word (if not first word on line)
		if lineWidth > 0 {
			currentLine.WriteString(" ")
			lineWidth++
		}

		// Add the word
		currentLine.WriteString(word)
		lineWidth += wordWidth
	}

	// Add any remaining text
	if currentLine.Len() > 0 {
		wrappedLines = append(wrappedLines, currentLine.String())
	}

	return strings.Join(wrappedLines, "\n")
}

// SetupBindingFlags adds the store connection flags to a command
func SetupBindingFlags(cmd *cobra.Command) {
	key := "host"
	cmd.PersistentFlags().String(key, "127.0.0.1", WrapString("The store endpoint to connect to"))

	key = "bucket"
	cmd.PersistentFlags().String(key, "ycsb", WrapString("The bucket (logical namespace) to operate on"))

	key = "username"
	cmd.PersistentFlags().String(key, "Administrator", WrapString("Username for the store"))

	key = "password"
	cmd.PersistentFlags().String(key, "password", WrapString("Password for the store"))

	key = "kv-timeout-millis"
	cmd.PersistentFlags().Int(key, 10000, WrapString("Per-operation timeout in milliseconds"))

	key = "kv-endpoints"
	cmd.PersistentFlags().Int(key, 1, WrapString("Number of key-value connections per node"))

	key = "durability"
	cmd.PersistentFlags().String(key, "", WrapString("Durability level 0-3 (none, majority, majority-and-persist-on-master, persist-to-majority). When set, the legacy persist-to/replicate-to flags are ignored"))

	key = "persist-to"
	cmd.PersistentFlags().Int(key, 0, WrapString("Legacy durability: number of nodes a write must be persisted to (0-4)"))

	key = "replicate-to"
	cmd.PersistentFlags().Int(key, 0, WrapString("Legacy durability: number of nodes a write must be replicated to (0-3)"))
}

// InitConfig initializes configuration from environment variables
func InitConfig() {
	// load env files
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")

	// initialize viper
	viper.SetEnvPrefix("benchkv")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // read in environment variables that match
}

// GetProperties assembles the binding property mapping from viper. Flag
// names are kebab-case on the command line and camelCase property keys on
// the binding side.
func GetProperties() harness.Properties {
	props := harness.Properties{
		"host":            viper.GetString("host"),
		"bucket":          viper.GetString("bucket"),
		"username":        viper.GetString("username"),
		"password":        viper.GetString("password"),
		"kvTimeoutMillis": strconv.Itoa(viper.GetInt("kv-timeout-millis")),
		"kvEndpoints":     strconv.Itoa(viper.GetInt("kv-endpoints")),
		"persistTo":       strconv.Itoa(viper.GetInt("persist-to")),
		"replicateTo":     strconv.Itoa(viper.GetInt("replicate-to")),
	}

	// the durability key must stay absent unless the flag was set: its mere
	// presence switches the binding into level mode
	if durability := viper.GetString("durability"); durability != "" {
		props["durability"] = durability
	}

	return props
}

// GetBinding creates a binding based on configuration
func GetBinding(props harness.Properties) (harness.Binding, error) {
	switch viper.GetString("binding") {
	case "couchbase":
		return couchbase.NewBinding(props), nil
	case "memory":
		return memory.NewBinding(props), nil
	default:
		return nil, fmt.Errorf("invalid binding %s", viper.GetString("binding"))
	}
}

// GetTable retrieves the configured logical table name
func GetTable() string {
	return viper.GetString("table")
}

// BindCommandFlags binds a command's flags to viper
func BindCommandFlags(cmd *cobra.Command) error {
	return viper.BindPFlags(cmd.Flags())
}
