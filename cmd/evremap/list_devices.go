package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prime-run/evremap/internal/device"
	"github.com/prime-run/evremap/internal/display"
)

func newListDevicesCmd() *cobra.Command {
	var theme string
	cmd := &cobra.Command{
		Use:   "list-devices",
		Short: "Print Name/Path/Phys for every /dev/input/event* device",
		RunE: func(cmd *cobra.Command, args []string) error {
			infos, err := device.List()
			if err != nil {
				return fmt.Errorf("list devices: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), display.DeviceTable(infos, display.LoadTheme(theme)))
			return nil
		},
	}
	cmd.Flags().StringVar(&theme, "theme", "synthwave", "output color theme (synthwave, everforest, monochrome)")
	return cmd
}
