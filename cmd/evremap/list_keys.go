package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/prime-run/evremap/internal/display"
)

func newListKeysCmd() *cobra.Command {
	var filter string
	var theme string
	cmd := &cobra.Command{
		Use:   "list-keys",
		Short: "Enumerate available KEY_* identifiers",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), display.KeyTable(filter, display.LoadTheme(theme)))
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "only print KEY_* names containing this substring")
	cmd.Flags().StringVar(&theme, "theme", "synthwave", "output color theme (synthwave, everforest, monochrome)")
	return cmd
}
