// Package engine implements the remap engine (spec §3, §4.3, C4): the
// single-threaded, event-driven state machine that is the heart of the
// system. It is a pure function of the event stream plus the runtime
// state it owns — no timers, no goroutines, no locks (spec §5, §9).
package engine

import (
	"log"

	"github.com/prime-run/evremap/internal/emit"
	"github.com/prime-run/evremap/internal/evtime"
	"github.com/prime-run/evremap/internal/keycode"
	"github.com/prime-run/evremap/internal/mapping"
)

// ActiveRule is a rule currently contributing to output, pending release
// of one of its inputs (spec §3, "engaged").
type ActiveRule struct {
	Kind    mapping.RuleKind
	Inputs  []keycode.Key
	Outputs []keycode.Key // Hold keys for DualRole, Outputs for Remap, empty for ModeSwitch.
	Mode    *mapping.Mode // the rule's Mode/Scope, nil meaning globally eligible.
}

func modeEligible(scope *mapping.Mode, mode mapping.Mode) bool {
	return scope == nil || *scope == mode
}

func containsKey(keys []keycode.Key, k keycode.Key) bool {
	for _, x := range keys {
		if x == k {
			return true
		}
	}
	return false
}

// Engine owns every runtime set spec §3 names and drives the three
// event operations plus the shared apply/compute-desired machinery of
// §4.3–§4.4. It is constructed once per device session; there is no
// global mutable state (spec §9).
type Engine struct {
	lookup *mapping.Lookup
	sink   emit.Sink
	dbg    *log.Logger

	held         map[keycode.Key]evtime.Time
	emitted      emit.Set
	suppressed   map[keycode.Key]struct{}
	engaged      []ActiveRule
	tapCandidate *keycode.Key
	mode         mapping.Mode
}

// New constructs an Engine over lookup (the validated mapping set),
// writing synthesized output to sink. dbg may be nil.
func New(lookup *mapping.Lookup, sink emit.Sink, dbg *log.Logger) *Engine {
	if dbg == nil {
		dbg = log.New(discardWriter{}, "", 0)
	}
	return &Engine{
		lookup:     lookup,
		sink:       sink,
		dbg:        dbg,
		held:       map[keycode.Key]evtime.Time{},
		emitted:    emit.Set{},
		suppressed: map[keycode.Key]struct{}{},
		mode:       mapping.DefaultMode,
	}
}

// Mode reports the currently active mode.
func (e *Engine) Mode() mapping.Mode { return e.mode }

// Held reports the physically-held key set, for diagnostics (internal/display).
func (e *Engine) Held() map[keycode.Key]evtime.Time {
	out := make(map[keycode.Key]evtime.Time, len(e.held))
	for k, t := range e.held {
		out[k] = t
	}
	return out
}

// Emitted reports the currently emitted key set, for diagnostics.
func (e *Engine) Emitted() emit.Set {
	out := make(emit.Set, len(e.emitted))
	for k := range e.emitted {
		out[k] = struct{}{}
	}
	return out
}

// Engaged reports the currently engaged rules, for diagnostics.
func (e *Engine) Engaged() []ActiveRule {
	out := make([]ActiveRule, len(e.engaged))
	copy(out, e.engaged)
	return out
}

// Suppressed reports the currently suppressed key set, for diagnostics.
func (e *Engine) Suppressed() map[keycode.Key]struct{} {
	out := make(map[keycode.Key]struct{}, len(e.suppressed))
	for k := range e.suppressed {
		out[k] = struct{}{}
	}
	return out
}

// TapCandidate reports the current tap candidate, if any, for diagnostics.
func (e *Engine) TapCandidate() (keycode.Key, bool) {
	if e.tapCandidate == nil {
		return 0, false
	}
	return *e.tapCandidate, true
}

func (e *Engine) heldKeys() map[keycode.Key]struct{} {
	s := make(map[keycode.Key]struct{}, len(e.held))
	for k := range e.held {
		s[k] = struct{}{}
	}
	return s
}

func (e *Engine) gcSuppressed() {
	for k := range e.suppressed {
		if _, ok := e.held[k]; !ok {
			delete(e.suppressed, k)
		}
	}
}

// OnPress handles a physical key-press event (spec §4.3 "Press path").
//
// A pending tap_candidate that is still the sole trigger of a deferred
// DualRole hold (see computeDesired) is resolved by any other key's
// press, per the "second press disqualifies the tap" rule (spec §4.3
// "Tap candidate invalidation"): the prior trigger is no longer eligible
// to become a tap, so it is settled as a hold before this key's own
// press is processed, each against its own apply(t) (spec §8 S1/S2).
func (e *Engine) OnPress(k keycode.Key, t evtime.Time) error {
	if e.tapCandidate != nil && *e.tapCandidate != k {
		e.tapCandidate = nil
		if err := e.Apply(t); err != nil {
			return err
		}
	}

	e.held[k] = t
	e.gcSuppressed()

	if _, ok := e.suppressed[k]; ok {
		if e.tapCandidate != nil && *e.tapCandidate == k {
			e.tapCandidate = nil
		}
		return e.Apply(t)
	}

	rule, ok := e.lookup.Match(k, e.heldKeys(), e.mode)
	if !ok {
		e.tapCandidate = nil
		return e.Apply(t)
	}

	switch rule.Kind {
	case mapping.KindDualRole:
		e.engaged = append(e.engaged, ActiveRule{
			Kind:    mapping.KindDualRole,
			Inputs:  []keycode.Key{k},
			Outputs: rule.DualRole.Hold,
			Mode:    rule.DualRole.Mode,
		})
		cand := k
		e.tapCandidate = &cand

	case mapping.KindRemap:
		e.engaged = append(e.engaged, ActiveRule{
			Kind:    mapping.KindRemap,
			Inputs:  rule.Remap.Inputs.Slice(),
			Outputs: rule.Remap.Outputs,
			Mode:    rule.Remap.Mode,
		})
		cand := k
		e.tapCandidate = &cand

	case mapping.KindModeSwitch:
		e.mode = rule.ModeSwitch.Target
		e.engaged = append(e.engaged, ActiveRule{
			Kind:   mapping.KindModeSwitch,
			Inputs: rule.ModeSwitch.Inputs.Slice(),
			Mode:   rule.ModeSwitch.Scope,
		})
		for in := range rule.ModeSwitch.Inputs {
			// Every switch input is suppressed through its physical
			// release, modifiers included: a mode switch that pivots on
			// a held modifier (e.g. Alt+N) must not leak a bare Alt
			// once the chord starts breaking apart (spec §4.3, S5).
			e.suppressed[in] = struct{}{}
		}
		e.tapCandidate = nil
	}

	return e.Apply(t)
}

// OnRelease handles a physical key-release event (spec §4.3 "Release path").
func (e *Engine) OnRelease(k keycode.Key, t evtime.Time) error {
	tp, hadPress := e.held[k]
	delete(e.held, k)
	e.gcSuppressed()

	remaining := e.engaged[:0:0]
	for _, ar := range e.engaged {
		if !containsKey(ar.Inputs, k) {
			remaining = append(remaining, ar)
			continue
		}
		for _, r := range ar.Inputs {
			if r == k || r.IsModifier() {
				continue
			}
			if _, stillHeld := e.held[r]; stillHeld {
				e.suppressed[r] = struct{}{}
			}
		}
	}
	e.engaged = remaining

	if err := e.Apply(t); err != nil {
		return err
	}

	if hadPress && e.tapCandidate != nil && *e.tapCandidate == k {
		if dr, ok := e.lookup.DualRoleFor(k, e.mode); ok && t.Sub(tp) <= evtime.TapWindow {
			if err := emit.Tap(dr.Tap, e.sink, t); err != nil {
				return err
			}
			e.tapCandidate = nil
		}
	}
	return nil
}

// OnRepeat handles a physical key-repeat event (spec §4.3 "Repeat path").
func (e *Engine) OnRepeat(k keycode.Key, t evtime.Time) error {
	if _, ok := e.suppressed[k]; ok {
		return nil
	}

	for i := len(e.engaged) - 1; i >= 0; i-- {
		ar := e.engaged[i]
		if !containsKey(ar.Inputs, k) || !modeEligible(ar.Mode, e.mode) {
			continue
		}
		switch ar.Kind {
		case mapping.KindDualRole, mapping.KindRemap:
			return emit.Repeat(ar.Outputs, e.sink, t)
		case mapping.KindModeSwitch:
			return nil
		}
	}

	if rule, ok := e.lookup.Match(k, e.heldKeys(), e.mode); ok {
		switch rule.Kind {
		case mapping.KindDualRole:
			return emit.Repeat(rule.DualRole.Hold, e.sink, t)
		case mapping.KindRemap:
			return emit.Repeat(rule.Remap.Outputs, e.sink, t)
		case mapping.KindModeSwitch:
			return nil
		}
	}

	// k belongs to some chord's Inputs in this mode but no rule matched
	// or engaged for it right now (e.g. a chord partner released, the
	// key itself never reaching the wire per computeDesired) — passing
	// its repeat through raw would put it on the wire despite its press
	// never having appeared there. Swallow it instead.
	if _, ok := e.lookup.ChordInputKeys(e.mode)[k]; ok {
		return nil
	}

	return emit.Repeat([]keycode.Key{k}, e.sink, t)
}

// computeDesired is the pure function of state described in spec §4.3:
// held minus suppressed, with dual-role trigger/hold substitution from
// the full rule list, then remap input/output substitution from engaged
// rules only (the asymmetry that makes chord-break deterministic).
//
// A key that is a chord input somewhere in the rule set (a Remap or
// ModeSwitch Inputs member) never passes through in raw form, complete
// chord or not: it only reaches the wire via an engaged rule's outputs.
// Without this, a modifier like LEFTALT would blip onto the wire the
// instant it's held, before the rest of its chord arrives, and again
// between chords once its partner key releases — both contradict the
// worked traces (S3, S6). A dual-role trigger that fires takes
// precedence over this, per the same key serving double duty (§9 open
// question 1).
func (e *Engine) computeDesired() emit.Set {
	working := make(map[keycode.Key]struct{}, len(e.held))
	for k := range e.held {
		working[k] = struct{}{}
	}
	for k := range e.suppressed {
		delete(working, k)
	}

	protected := map[keycode.Key]struct{}{}
	for _, dr := range e.lookup.DualRoles() {
		if !modeEligible(dr.Mode, e.mode) {
			continue
		}
		if _, ok := working[dr.Trigger]; !ok {
			continue
		}
		delete(working, dr.Trigger)
		// A trigger that is still the pending tap_candidate has not yet
		// been settled as a hold — its Hold contribution is deferred
		// until a second event resolves it (OnPress), so a lone quick
		// press+release never puts Hold on the wire before the tap
		// fires (spec §8 S1, testable property 4). The trigger itself
		// stays hidden either way; it never passes through raw.
		if e.tapCandidate != nil && *e.tapCandidate == dr.Trigger {
			continue
		}
		for _, h := range dr.Hold {
			working[h] = struct{}{}
			protected[h] = struct{}{}
		}
	}

	for k := range e.lookup.ChordInputKeys(e.mode) {
		if _, ok := protected[k]; ok {
			continue
		}
		delete(working, k)
	}

	for _, ar := range e.engaged {
		if ar.Kind != mapping.KindRemap || !modeEligible(ar.Mode, e.mode) {
			continue
		}
		for _, in := range ar.Inputs {
			delete(working, in)
		}
		for _, out := range ar.Outputs {
			working[out] = struct{}{}
		}
	}

	return emit.Set(working)
}

// Apply diffs the freshly computed desired set against the last emitted
// set and drives the emission layer (spec §4.3/§4.4 apply(t)).
func (e *Engine) Apply(t evtime.Time) error {
	desired := e.computeDesired()
	next, err := emit.Diff(e.emitted, desired, e.sink, t)
	if err != nil {
		return err
	}
	e.emitted = next
	return nil
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }
