// Package emit implements the emission layer (spec §4.4, C5): ordering
// a batch of press/release events with modifier-aware sorting, and
// inserting sync markers so downstream consumers see a consistent
// modifier state at the instant any non-modifier event arrives.
package emit

import (
	"sort"

	"github.com/prime-run/evremap/internal/evtime"
	"github.com/prime-run/evremap/internal/keycode"
)

// Sink is the write side of the device adapter (C1) that the emission
// layer drives. It is the narrowest interface C5 needs; internal/device's
// Sink type adapts a full device.Device to it.
type Sink interface {
	// Write emits a single press (press=true) or release (press=false)
	// event for k at time t.
	Write(k keycode.Key, press bool, t evtime.Time) error
	// WriteRepeat emits a repeat event for k at time t.
	WriteRepeat(k keycode.Key, t evtime.Time) error
	// Sync emits a single EV_SYN/SYN_REPORT marker.
	Sync() error
}

// Set is the minimal read-only view over a held/emitted/desired key
// collection that Diff needs.
type Set map[keycode.Key]struct{}

// Diff emits the minimal batch of releases then presses that takes
// current to desired, modifier-aware ordered, and returns the new
// emitted set (which always equals desired on success). This is
// spec §4.4's apply(t):
//
//   - to_release = current \ desired, non-modifiers first, then modifiers.
//   - to_press   = desired \ current, modifiers first, then non-modifiers.
//   - one sync after the release batch, one sync after the press batch.
//
// Rationale (spec §4.4): downstream consumers read modifier bits at the
// instant a non-modifier event arrives, so modifiers must be pressed
// before, and released after, the non-modifier keys that depend on them.
func Diff(current, desired Set, sink Sink, t evtime.Time) (Set, error) {
	var toRelease, toPress []keycode.Key
	for k := range current {
		if _, ok := desired[k]; !ok {
			toRelease = append(toRelease, k)
		}
	}
	for k := range desired {
		if _, ok := current[k]; !ok {
			toPress = append(toPress, k)
		}
	}

	sortReleases(toRelease)
	sortPresses(toPress)

	for _, k := range toRelease {
		if err := sink.Write(k, false, t); err != nil {
			return nil, err
		}
	}
	if len(toRelease) > 0 {
		if err := sink.Sync(); err != nil {
			return nil, err
		}
	}

	for _, k := range toPress {
		if err := sink.Write(k, true, t); err != nil {
			return nil, err
		}
	}
	if len(toPress) > 0 {
		if err := sink.Sync(); err != nil {
			return nil, err
		}
	}

	next := make(Set, len(desired))
	for k := range desired {
		next[k] = struct{}{}
	}
	return next, nil
}

// sortReleases orders non-modifiers before modifiers; within a class,
// by key code, for determinism.
func sortReleases(keys []keycode.Key) {
	sort.Slice(keys, func(i, j int) bool {
		mi, mj := keys[i].IsModifier(), keys[j].IsModifier()
		if mi != mj {
			return !mi // non-modifier (false) sorts first
		}
		return keys[i] < keys[j]
	})
}

// sortPresses orders modifiers before non-modifiers; within a class, by
// key code, for determinism.
func sortPresses(keys []keycode.Key) {
	sort.Slice(keys, func(i, j int) bool {
		mi, mj := keys[i].IsModifier(), keys[j].IsModifier()
		if mi != mj {
			return mi // modifier (true) sorts first
		}
		return keys[i] < keys[j]
	})
}

// Tap emits a synthesized press+release pair for each key in sequence,
// syncing after every individual event (spec §4.3 step 5): "for each
// key x in tap: emit press(x) + sync + release(x) + sync, in order."
func Tap(keys []keycode.Key, sink Sink, t evtime.Time) error {
	for _, k := range keys {
		if err := sink.Write(k, true, t); err != nil {
			return err
		}
		if err := sink.Sync(); err != nil {
			return err
		}
		if err := sink.Write(k, false, t); err != nil {
			return err
		}
		if err := sink.Sync(); err != nil {
			return err
		}
	}
	return nil
}

// Repeat emits a repeat event for every key followed by a single
// trailing sync (spec §4.3 repeat path).
func Repeat(keys []keycode.Key, sink Sink, t evtime.Time) error {
	for _, k := range keys {
		if err := sink.WriteRepeat(k, t); err != nil {
			return err
		}
	}
	if len(keys) > 0 {
		if err := sink.Sync(); err != nil {
			return err
		}
	}
	return nil
}
