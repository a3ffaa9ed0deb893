// Package device implements the event adapter (spec §4.5, §6.3, C1): a
// blocking read from the physical device, write-plus-sync to the
// synthetic device, and device acquisition with optional wait-for-device
// backoff (spec §7). The OS-specific evdev/uinput plumbing lives in
// device_linux.go; this file holds the platform-independent interface,
// types, and pure helpers so they can be unit tested without real
// hardware.
package device

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/prime-run/evremap/internal/evtime"
	"github.com/prime-run/evremap/internal/keycode"
	"github.com/prime-run/evremap/internal/mapping"
)

// Value mirrors the evdev EV_KEY value field (spec §6.3).
const (
	ValueRelease = 0
	ValuePress   = 1
	ValueRepeat  = 2
)

// Event is a single input_event read from or written to a device.
type Event struct {
	Type  uint16
	Code  keycode.Key
	Value int
	Time  evtime.Time
}

// IsKey reports whether the event is an EV_KEY event, as opposed to a
// SYN, relative-axis, or other event type that the engine never looks at
// and the adapter must pass through unchanged (spec §4.5).
func (e Event) IsKey() bool { return e.Type == evKey }

// Info describes an enumerated input device for `list-devices` (spec §6.2).
type Info struct {
	Path string
	Name string
	Phys string
}

// Device is the opaque device the engine drives (spec §6.3): blocking
// next_event, write_event, and sync. A real implementation also owns the
// physical device's exclusive grab and the synthetic device created to
// carry its output.
type Device interface {
	NextEvent() (Event, error)
	WriteEvent(Event) error
	Sync() error
	Close() error
}

// Sink adapts a Device to emit.Sink (C5's write interface), translating
// the three narrow calls the emission layer makes into Device events.
type Sink struct {
	Device Device
}

func (s Sink) Write(k keycode.Key, press bool, t evtime.Time) error {
	value := ValueRelease
	if press {
		value = ValuePress
	}
	return s.Device.WriteEvent(Event{Type: evKey, Code: k, Value: value, Time: t})
}

func (s Sink) WriteRepeat(k keycode.Key, t evtime.Time) error {
	return s.Device.WriteEvent(Event{Type: evKey, Code: k, Value: ValueRepeat, Time: t})
}

func (s Sink) Sync() error { return s.Device.Sync() }

// OutputCapabilities computes the synthetic device's key capability set
// (spec §4.5): the union of every DualRole.Hold key, every DualRole.Tap
// key, every Remap.Outputs key, plus whatever the physical device
// already advertises (so unmapped keys keep passing through).
func OutputCapabilities(set *mapping.Set, physical []keycode.Key) []keycode.Key {
	seen := map[keycode.Key]struct{}{}
	var out []keycode.Key
	add := func(k keycode.Key) {
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}

	for _, r := range set.Rules() {
		switch r.Kind {
		case mapping.KindDualRole:
			for _, k := range r.DualRole.Hold {
				add(k)
			}
			for _, k := range r.DualRole.Tap {
				add(k)
			}
		case mapping.KindRemap:
			for _, k := range r.Remap.Outputs {
				add(k)
			}
		}
	}
	for _, k := range physical {
		add(k)
	}
	return out
}

// Acquire opens a device, retrying with the spec §7 backoff schedule
// (1s, doubling, capped at 10s) when wait is true and the first attempt
// fails. Acquisition errors are logged at debug level on every retry;
// the first error is returned verbatim when wait is false.
func Acquire(ctx context.Context, open func() (Device, error), wait bool, dbg *log.Logger) (Device, error) {
	if dbg == nil {
		dbg = log.New(discardWriter{}, "", 0)
	}

	dev, err := open()
	if err == nil {
		return dev, nil
	}
	if !wait {
		return nil, err
	}

	delay := time.Second
	const maxDelay = 10 * time.Second
	for {
		dbg.Printf("device not ready, retrying in %s: %v", delay, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-timeAfter(delay):
		}

		dev, err = open()
		if err == nil {
			return dev, nil
		}

		delay *= 2
		if delay > maxDelay {
			delay = maxDelay
		}
	}
}

// timeAfter exists so tests can substitute a fast-forwarding channel
// without sleeping through the real backoff schedule.
var timeAfter = time.After

const evKey = 1 // evdev.EV_KEY

// ErrNoKeyboard is returned when auto-detection finds no candidate device.
var ErrNoKeyboard = fmt.Errorf("no keyboard device found in /dev/input/event*")

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
