// Command evremap remaps a physical keyboard's key events according to
// a TOML mapping config, exposing the CLI surface of spec §6.2:
// list-devices, list-keys, debug-events, and remap.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
