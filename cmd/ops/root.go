package ops

import (
	"github.com/benchkv/benchkv/cmd/util"
	"github.com/benchkv/benchkv/lib/harness"
	"github.com/spf13/cobra"
)

var (
	binding harness.Binding

	// OpsCommands represents the record operation command group
	OpsCommands = &cobra.Command{
		Use:                "ops",
		Short:              "Perform record operations against a store binding",
		PersistentPreRunE:  setupBinding,
		PersistentPostRunE: teardownBinding,
	}
)

func init() {
	// Initialize viper
	cobra.OnInitialize(util.InitConfig)

	// Add the store connection flags to the ops command
	util.SetupBindingFlags(OpsCommands)

	// All operations address records inside one logical table
	OpsCommands.PersistentFlags().String("table", "usertable", util.WrapString("Logical table name for record operations"))

	// Add subcommands
	OpsCommands.AddCommand(readCmd)
	OpsCommands.AddCommand(insertCmd)
	OpsCommands.AddCommand(updateCmd)
	OpsCommands.AddCommand(deleteCmd)
	OpsCommands.AddCommand(scanCmd)
	OpsCommands.AddCommand(perfTestCmd)
}

// setupBinding creates and initializes the configured binding
func setupBinding(cmd *cobra.Command, _ []string) error {
	// Bind command flags to viper
	if err := util.BindCommandFlags(cmd); err != nil {
		return err
	}

	// Assemble binding properties from flags and environment
	props := util.GetProperties()

	b, err := util.GetBinding(props)
	if err != nil {
		return err
	}

	// Establish the connection up front so configuration and connection
	// failures abort before any operation runs
	if err := b.Init(); err != nil {
		return err
	}

	binding = b
	return nil
}

// teardownBinding releases the binding connection
func teardownBinding(_ *cobra.Command, _ []string) error {
	if binding == nil {
		return nil
	}
	return binding.Cleanup()
}
