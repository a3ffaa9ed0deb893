package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/prime-run/evremap/internal/device"
	"github.com/prime-run/evremap/internal/display"
)

func newDebugEventsCmd() *cobra.Command {
	var deviceName, phys, theme string
	cmd := &cobra.Command{
		Use:   "debug-events",
		Short: "Print raw key events as observed on a physical device",
		RunE: func(cmd *cobra.Command, args []string) error {
			if deviceName == "" {
				return errors.New("debug-events: --device-name is required")
			}
			path, err := device.Find("", deviceName, phys)
			if err != nil {
				return fmt.Errorf("resolve device: %w", err)
			}
			dev, err := device.Open(path, "evremap debug-events", nil)
			if err != nil {
				return fmt.Errorf("open device %s: %w", path, err)
			}
			defer dev.Close()

			th := display.LoadTheme(theme)
			for {
				ev, err := dev.NextEvent()
				if err != nil {
					if errors.Is(err, io.EOF) {
						return nil
					}
					return fmt.Errorf("read event: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), display.EventLine(ev, th))
			}
		},
	}
	cmd.Flags().StringVar(&deviceName, "device-name", "", "substring or exact device name to select")
	cmd.Flags().StringVar(&phys, "phys", "", "physical-port identifier to disambiguate")
	cmd.Flags().StringVar(&theme, "theme", "synthwave", "output color theme (synthwave, everforest, monochrome)")
	return cmd
}
