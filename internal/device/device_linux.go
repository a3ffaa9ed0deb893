//go:build linux

package device

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	evdev "github.com/holoplot/go-evdev"

	"github.com/prime-run/evremap/internal/evtime"
	"github.com/prime-run/evremap/internal/keycode"
)

// evdevDevice is the real Device implementation: a grabbed physical
// input device paired with a synthetic uinput device built to carry
// the mapping's output capabilities (spec §4.5 "shared resources").
type evdevDevice struct {
	phys *evdev.InputDevice
	virt *evdev.InputDevice
}

// Open acquires the physical device at path, grabs it exclusively
// (spec §4.5), and builds a synthetic uinput output device carrying
// name and advertising capabilities. capabilities should be
// OutputCapabilities(set, physicalKeys) — the union of every mapping
// output plus the physical device's own passthrough keys (spec §4.5
// "shared resources") — so a Remap output or DualRole hold/tap key the
// physical keyboard itself never advertises can still reach the wire.
// A nil capabilities falls back to exactly the physical device's own
// EV_KEY set (plain passthrough, used by debug-events which has no
// mapping config to widen against).
func Open(path, name string, capabilities []keycode.Key) (Device, error) {
	phys, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open device %s: %w", path, err)
	}

	if err := grab(phys); err != nil {
		_ = phys.Close()
		return nil, fmt.Errorf("grab device %s: %w", path, err)
	}

	if capabilities == nil {
		for _, c := range phys.CapableEvents(evdev.EV_KEY) {
			capabilities = append(capabilities, keycode.Key(c))
		}
	}
	codes := make([]evdev.EvCode, len(capabilities))
	for i, k := range capabilities {
		codes[i] = evdev.EvCode(k)
	}

	id, err := phys.InputID()
	if err != nil {
		id = evdev.InputID{}
	}

	virt, err := evdev.CreateDevice(name, id, map[evdev.EvType][]evdev.EvCode{evdev.EV_KEY: codes})
	if err != nil {
		_ = ungrab(phys)
		_ = phys.Close()
		return nil, fmt.Errorf("create synthetic device: %w", err)
	}

	return &evdevDevice{phys: phys, virt: virt}, nil
}

func (d *evdevDevice) NextEvent() (Event, error) {
	for {
		ev, err := d.phys.ReadOne()
		if err != nil {
			return Event{}, err
		}
		if ev.Type == evdev.EV_SYN {
			continue
		}
		return Event{
			Type:  uint16(ev.Type),
			Code:  keycode.Key(ev.Code),
			Value: int(ev.Value),
			Time:  evtime.FromParts(int64(ev.Time.Sec), int64(ev.Time.Usec)),
		}, nil
	}
}

func (d *evdevDevice) WriteEvent(e Event) error {
	return d.virt.WriteOne(&evdev.InputEvent{
		Type:  evdev.EvType(e.Type),
		Code:  evdev.EvCode(e.Code),
		Value: int32(e.Value),
	})
}

func (d *evdevDevice) Sync() error {
	return d.virt.WriteOne(&evdev.InputEvent{Type: evdev.EV_SYN, Code: evdev.SYN_REPORT, Value: 0})
}

func (d *evdevDevice) Close() error {
	_ = ungrab(d.phys)
	_ = d.virt.Close()
	return d.phys.Close()
}

// List enumerates every /dev/input/event* device (spec §6.2 list-devices).
func List() ([]Info, error) {
	matches, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		return nil, fmt.Errorf("glob /dev/input/event*: %w", err)
	}
	sort.Slice(matches, func(i, j int) bool {
		ni, _ := strconv.Atoi(strings.TrimPrefix(matches[i], "/dev/input/event"))
		nj, _ := strconv.Atoi(strings.TrimPrefix(matches[j], "/dev/input/event"))
		return ni < nj
	})

	var out []Info
	for _, path := range matches {
		dev, err := evdev.Open(path)
		if err != nil {
			continue
		}
		name, _ := dev.Name()
		phys, _ := dev.Phys()
		out = append(out, Info{Path: path, Name: name, Phys: phys})
		_ = dev.Close()
	}
	return out, nil
}

// Find resolves a device by exact path, or by name/phys matching if path
// is empty, falling back to the first device that looks like a keyboard
// (spec §6.1 device_name/phys, §4.5).
func Find(path, name, phys string) (string, error) {
	if path != "" {
		return path, nil
	}

	infos, err := List()
	if err != nil {
		return "", err
	}

	for _, info := range infos {
		if name != "" && !strings.Contains(strings.ToLower(info.Name), strings.ToLower(name)) {
			continue
		}
		if phys != "" && info.Phys != phys {
			continue
		}
		if name == "" && phys == "" {
			dev, err := evdev.Open(info.Path)
			if err != nil {
				continue
			}
			ok := isKeyboard(dev)
			_ = dev.Close()
			if !ok {
				continue
			}
		}
		return info.Path, nil
	}
	return "", ErrNoKeyboard
}

// isKeyboard rejects devices with relative axes (mice, trackpads) and
// requires both KEY_A and KEY_Z, distinguishing a real keyboard
// from a power button or similar single-purpose device.
func isKeyboard(dev *evdev.InputDevice) bool {
	for _, evType := range dev.CapableTypes() {
		if evType == evdev.EV_REL {
			return false
		}
	}
	keys := dev.CapableEvents(evdev.EV_KEY)
	hasA, hasZ := false, false
	for _, code := range keys {
		if code == evdev.EvCode(keycode.KeyA) {
			hasA = true
		}
		if code == evdev.EvCode(keycode.KeyZ) {
			hasZ = true
		}
	}
	return hasA && hasZ
}

// PhysicalCapabilities reads back the EV_KEY codes a just-opened device
// advertises, for OutputCapabilities' passthrough union.
func PhysicalCapabilities(path string) ([]keycode.Key, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, err
	}
	defer dev.Close()
	codes := dev.CapableEvents(evdev.EV_KEY)
	out := make([]keycode.Key, len(codes))
	for i, c := range codes {
		out[i] = keycode.Key(c)
	}
	return out, nil
}
