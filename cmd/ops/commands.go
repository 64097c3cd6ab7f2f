package ops

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/benchkv/benchkv/cmd/util"
	"github.com/benchkv/benchkv/lib/harness"
	"github.com/spf13/cobra"
)

var (
	readFields []string

	readCmd = &cobra.Command{
		Use:   "read [key]",
		Short: "Reads the record for a key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			status, record := binding.Read(util.GetTable(), key, readFields)
			if status != harness.StatusOK {
				fmt.Printf("key=%s, status=%s\n", key, status)
				return statusErr(status)
			}
			fmt.Printf("key=%s, status=%s\n", key, status)
			for field, value := range record {
				fmt.Printf("  %s=%s\n", field, value)
			}
			return nil
		},
	}
	insertCmd = &cobra.Command{
		Use:   "insert [key] [field=value ...]",
		Short: "Creates a new record",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			values, err := parseFieldValues(args[1:])
			if err != nil {
				return err
			}
			status := binding.Insert(util.GetTable(), key, values)
			fmt.Printf("key=%s, status=%s\n", key, status)
			return statusErr(status)
		},
	}
	updateCmd = &cobra.Command{
		Use:   "update [key] [field=value ...]",
		Short: "Replaces an existing record",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			values, err := parseFieldValues(args[1:])
			if err != nil {
				return err
			}
			status := binding.Update(util.GetTable(), key, values)
			fmt.Printf("key=%s, status=%s\n", key, status)
			return statusErr(status)
		},
	}
	deleteCmd = &cobra.Command{
		Use:   "delete [key]",
		Short: "Removes a record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := args[0]
			status := binding.Delete(util.GetTable(), key)
			fmt.Printf("key=%s, status=%s\n", key, status)
			return statusErr(status)
		},
	}
	scanCmd = &cobra.Command{
		Use:   "scan [startKey] [recordCount]",
		Short: "Reads a range of records starting at a key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			startKey := args[0]
			recordCount, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("recordCount must be a number: %w", err)
			}
			status := binding.Scan(util.GetTable(), startKey, recordCount, readFields)
			fmt.Printf("startKey=%s, status=%s\n", startKey, status)
			return statusErr(status)
		},
	}
)

func init() {
	readCmd.Flags().StringSliceVar(&readFields, "fields", nil, util.WrapString("Fields to read (comma separated, all fields when omitted)"))
	scanCmd.Flags().StringSliceVar(&readFields, "fields", nil, util.WrapString("Fields to read (comma separated, all fields when omitted)"))
}

// statusErr turns a failed status into a command error so the process exit
// code reflects the outcome. NOT_FOUND and NOT_IMPLEMENTED are legitimate
// outcomes, not command failures.
func statusErr(status harness.Status) error {
	if status == harness.StatusError {
		return fmt.Errorf("operation failed with status %s", status)
	}
	return nil
}

// parseFieldValues parses field=value arguments into a record
func parseFieldValues(args []string) (map[string]string, error) {
	values := make(map[string]string, len(args))
	for _, arg := range args {
		parts := strings.SplitN(arg, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid field format: %s (expected field=value)", arg)
		}
		values[parts[0]] = parts[1]
	}
	return values, nil
}
