package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/prime-run/evremap/internal/config"
	"github.com/prime-run/evremap/internal/device"
	"github.com/prime-run/evremap/internal/display"
	"github.com/prime-run/evremap/internal/engine"
	"github.com/prime-run/evremap/internal/keycode"
	"github.com/prime-run/evremap/internal/logging"
	"github.com/prime-run/evremap/internal/mapping"
)

func newRemapCmd() *cobra.Command {
	var delaySeconds int
	var deviceName, phys, theme string
	var waitForDevice, monitor bool

	cmd := &cobra.Command{
		Use:   "remap <config>",
		Short: "Remap a physical keyboard's events according to a mapping config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemap(cmd, remapOptions{
				configPath:    args[0],
				delaySeconds:  delaySeconds,
				deviceName:    deviceName,
				phys:          phys,
				waitForDevice: waitForDevice,
				monitor:       monitor,
				theme:         theme,
			})
		},
	}

	cmd.Flags().IntVar(&delaySeconds, "delay", 0, "seconds to wait before acquiring the device (lets a triggering keypress finish)")
	cmd.Flags().StringVar(&deviceName, "device-name", "", "substring or exact device name to select (overrides config device_name)")
	cmd.Flags().StringVar(&phys, "phys", "", "physical-port identifier to disambiguate (overrides config phys)")
	cmd.Flags().BoolVar(&waitForDevice, "wait-for-device", false, "retry device acquisition with backoff instead of failing immediately")
	cmd.Flags().BoolVar(&monitor, "monitor", false, "show a live engine-state dashboard instead of plain logging")
	cmd.Flags().StringVar(&theme, "theme", "synthwave", "monitor color theme (synthwave, everforest, monochrome)")
	return cmd
}

type remapOptions struct {
	configPath    string
	delaySeconds  int
	deviceName    string
	phys          string
	waitForDevice bool
	monitor       bool
	theme         string
}

func runRemap(cmd *cobra.Command, opts remapOptions) error {
	src, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	logger := logging.New()

	set, err := mapping.Build(src, logger.Std())
	if err != nil {
		return fmt.Errorf("invalid mapping config: %w", err)
	}
	lookup := mapping.NewLookup(set)

	name := opts.deviceName
	if name == "" {
		name = src.DeviceName
	}
	physID := opts.phys
	if physID == "" {
		physID = src.Phys
	}

	if opts.delaySeconds > 0 {
		time.Sleep(time.Duration(opts.delaySeconds) * time.Second)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	dev, err := device.Acquire(ctx, func() (device.Device, error) {
		path, err := device.Find("", name, physID)
		if err != nil {
			return nil, fmt.Errorf("resolve device: %w", err)
		}
		capabilities := synthesizeCapabilities(set, path, logger)
		return device.Open(path, "evremap virtual keyboard", capabilities)
	}, opts.waitForDevice, logger.Std())
	if err != nil {
		return fmt.Errorf("acquire device: %w", err)
	}
	defer dev.Close()

	var program *tea.Program
	if opts.monitor {
		model := display.NewModel(name, opts.theme)
		program = tea.NewProgram(model)
		logger = logging.NewWithWriter(display.NewLogWriter(program), logging.LevelDebug)
	}

	eng := engine.New(lookup, device.Sink{Device: dev}, logger.Std())

	loopDone := make(chan error, 1)
	go func() { loopDone <- runEventLoop(ctx, dev, eng, program) }()

	if program != nil {
		if _, err := program.Run(); err != nil {
			return fmt.Errorf("monitor: %w", err)
		}
	}

	select {
	case err := <-loopDone:
		return err
	case <-ctx.Done():
		return nil
	}
}

// runEventLoop is spec §4.5's trivial main loop: read one event; dispatch
// key events to the engine's three operations; pass everything else
// through unchanged. If program is non-nil (monitor mode), a state
// snapshot is pushed after every processed event.
func runEventLoop(ctx context.Context, dev device.Device, eng *engine.Engine, program *tea.Program) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		ev, err := dev.NextEvent()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("read event: %w", err)
		}

		if !ev.IsKey() {
			if err := dev.WriteEvent(ev); err != nil {
				return fmt.Errorf("write passthrough event: %w", err)
			}
			if err := dev.Sync(); err != nil {
				return fmt.Errorf("sync passthrough event: %w", err)
			}
			continue
		}

		if err := dispatch(eng, ev); err != nil {
			return fmt.Errorf("process event: %w", err)
		}

		if program != nil {
			program.Send(display.SnapshotMsg{Snapshot: snapshotOf(eng)})
		}
	}
}

func dispatch(eng *engine.Engine, ev device.Event) error {
	switch ev.Value {
	case device.ValuePress:
		return eng.OnPress(ev.Code, ev.Time)
	case device.ValueRelease:
		return eng.OnRelease(ev.Code, ev.Time)
	case device.ValueRepeat:
		return eng.OnRepeat(ev.Code, ev.Time)
	default:
		return nil
	}
}

func snapshotOf(eng *engine.Engine) display.Snapshot {
	held := eng.Held()
	heldNames := make([]string, 0, len(held))
	for k := range held {
		heldNames = append(heldNames, k.String())
	}

	emitted := eng.Emitted()
	emittedNames := make([]string, 0, len(emitted))
	for k := range emitted {
		emittedNames = append(emittedNames, k.String())
	}

	var engagedNames []string
	for _, ar := range eng.Engaged() {
		engagedNames = append(engagedNames, fmt.Sprintf("%s(%v)", ar.Kind, ar.Inputs))
	}

	suppressed := eng.Suppressed()
	suppressedNames := make([]string, 0, len(suppressed))
	for k := range suppressed {
		suppressedNames = append(suppressedNames, k.String())
	}

	var tapCandidate string
	if k, ok := eng.TapCandidate(); ok {
		tapCandidate = k.String()
	}

	return display.Snapshot{
		Mode:         string(eng.Mode()),
		Held:         heldNames,
		Emitted:      emittedNames,
		Suppressed:   suppressedNames,
		Engaged:      engagedNames,
		TapCandidate: tapCandidate,
	}
}

// synthesizeCapabilities builds the synthetic device's EV_KEY capability
// set (spec §4.5 "shared resources"): the union of every mapping output
// key and the physical device's own advertised keys, so the uinput
// device device.Open creates can actually emit every Remap output and
// DualRole hold/tap key, not just whatever the physical keyboard already
// reports. If the physical capabilities can't be read, the mapping's own
// output keys are still passed through so the session can proceed.
func synthesizeCapabilities(set *mapping.Set, path string, logger *logging.Logger) []keycode.Key {
	phys, err := device.PhysicalCapabilities(path)
	if err != nil {
		logger.Debug("device: could not read physical capabilities: %v", err)
		return device.OutputCapabilities(set, nil)
	}

	wanted := device.OutputCapabilities(set, phys)

	physSet := make(map[keycode.Key]bool, len(phys))
	for _, k := range phys {
		physSet[k] = true
	}
	for _, r := range set.Rules() {
		var outputs []keycode.Key
		switch r.Kind {
		case mapping.KindDualRole:
			outputs = append(outputs, r.DualRole.Hold...)
			outputs = append(outputs, r.DualRole.Tap...)
		case mapping.KindRemap:
			outputs = r.Remap.Outputs
		}
		for _, k := range outputs {
			if !physSet[k] {
				logger.Debug("mapping references %s, which the physical device does not natively advertise; widening the synthetic device to include it", k)
			}
		}
	}

	return wanted
}
