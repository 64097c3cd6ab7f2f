package cmd

import (
	"fmt"
	"os"

	"github.com/benchkv/benchkv/cmd/ops"
	"github.com/benchkv/benchkv/cmd/util"
	"github.com/spf13/cobra"
)

const (
	Version = "0.4.2"
)

var (

	// RootCmd represents the base command when called without any subcommands
	RootCmd = &cobra.Command{
		Use:   "benchkv",
		Short: "benchmark bindings for key-value document stores",
		Long: fmt.Sprintf(`benchkv (v%s)

A CRUD benchmark layer for document stores: pluggable backend bindings
(couchbase, memory) behind one uniform four-valued status contract.`, Version),
	}
	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version number of benchkv",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("benchkv v%s\n", Version)
		},
	}
)

func init() {
	// Add Commands
	RootCmd.AddCommand(ops.OpsCommands)
	RootCmd.AddCommand(versionCmd)

	// Add Flags
	key := "binding"
	RootCmd.PersistentFlags().String(key, "memory", util.WrapString("binding to use (couchbase, memory)"))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
