package main

import (
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "evremap",
		Short:         "Remap a physical keyboard's key events",
		Long:          "evremap grabs a physical input device exclusively and re-emits a transformed event stream through a synthetic device, driven by a TOML mapping configuration.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newListDevicesCmd())
	root.AddCommand(newListKeysCmd())
	root.AddCommand(newDebugEventsCmd())
	root.AddCommand(newRemapCmd())

	return root
}
