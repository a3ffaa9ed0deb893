// Package mapping holds the immutable mapping model (spec §4.1, C2) and
// the pure press-time rule lookup (spec §4.2, C3). Construction is the
// only place key names are resolved and validated; everything
// downstream works in terms of keycode.Key.
package mapping

import (
	"fmt"
	"log"
	"sort"

	"github.com/prime-run/evremap/internal/keycode"
)

// SourceDualRole is the TOML shape of a [[dual_role]] entry (spec §6.1).
type SourceDualRole struct {
	Input string   `toml:"input"`
	Hold  []string `toml:"hold"`
	Tap   []string `toml:"tap"`
}

// SourceRemap is the TOML shape of a [[remap]] entry.
type SourceRemap struct {
	Input  []string `toml:"input"`
	Output []string `toml:"output"`
}

// SourceModeSwitch is the TOML shape of a [[mode_switch]] entry, or a
// [modes.<name>.switch] entry (the latter additionally scoped to <name>).
type SourceModeSwitch struct {
	Input []string `toml:"input"`
	Mode  string   `toml:"mode"`
}

// SourceModeBlock is the TOML shape of a [modes.<name>] table.
type SourceModeBlock struct {
	DualRole []SourceDualRole   `toml:"dual_role"`
	Remap    []SourceRemap      `toml:"remap"`
	Switch   []SourceModeSwitch `toml:"switch"`
}

// SourceConfig is the in-memory MappingConfig that an external config
// loader produces (spec §1, "Configuration file parsing... external
// loader produces an in-memory MappingConfig"); internal/config decodes
// TOML directly into this shape.
type SourceConfig struct {
	DeviceName string                     `toml:"device_name"`
	Phys       string                     `toml:"phys"`
	DualRole   []SourceDualRole           `toml:"dual_role"`
	Remap      []SourceRemap              `toml:"remap"`
	ModeSwitch []SourceModeSwitch         `toml:"mode_switch"`
	Modes      map[string]SourceModeBlock `toml:"modes"`
}

// Set is the immutable, ordered mapping set (spec §3, "Mapping set").
// Order is preserved from the source config and used only as a stable
// tiebreaker by the lookup index (C3); it is never mutated after Build.
type Set struct {
	rules []Rule
}

// Rules returns the ordered rule list.
func (s *Set) Rules() []Rule {
	return s.rules
}

func parseKey(name string) (keycode.Key, error) {
	return keycode.FromName(name)
}

func parseKeys(names []string) ([]keycode.Key, error) {
	out := make([]keycode.Key, 0, len(names))
	for _, n := range names {
		k, err := parseKey(n)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, nil
}

// Build validates src and constructs the immutable Set the engine runs
// against (spec §4.1). Every referenced key name must resolve to a known
// key code (a); dual-role triggers are always single keys by
// construction of SourceDualRole.Input (b); mode-switch targets must be
// non-empty (c). Duplicate triggers and overlapping chords are not
// errors — runtime precedence (C3) resolves them — but are logged as
// warnings, matching the teacher's "constructors may log warnings"
// latitude. dbg may be nil, in which case warnings are discarded.
func Build(src *SourceConfig, dbg *log.Logger) (*Set, error) {
	if dbg == nil {
		dbg = log.New(discard{}, "", 0)
	}

	var rules []Rule
	order := 0
	seenTriggers := map[Mode]map[keycode.Key]bool{}

	addDualRole := func(d SourceDualRole, mode *Mode) error {
		trigger, err := parseKey(d.Input)
		if err != nil {
			return fmt.Errorf("dual_role: %w", err)
		}
		hold, err := parseKeys(d.Hold)
		if err != nil {
			return fmt.Errorf("dual_role %s hold: %w", d.Input, err)
		}
		tap, err := parseKeys(d.Tap)
		if err != nil {
			return fmt.Errorf("dual_role %s tap: %w", d.Input, err)
		}

		scope := DefaultMode
		if mode != nil {
			scope = *mode
		}
		if seenTriggers[scope] == nil {
			seenTriggers[scope] = map[keycode.Key]bool{}
		}
		if seenTriggers[scope][trigger] {
			dbg.Printf("mapping: duplicate dual_role trigger %s in mode %q; first definition wins at lookup time", d.Input, scope)
		}
		seenTriggers[scope][trigger] = true

		rules = append(rules, Rule{
			Kind:  KindDualRole,
			Order: order,
			DualRole: DualRoleRule{
				Trigger: trigger,
				Hold:    hold,
				Tap:     tap,
				Mode:    mode,
			},
		})
		order++
		return nil
	}

	addRemap := func(r SourceRemap, mode *Mode) error {
		inputs, err := parseKeys(r.Input)
		if err != nil {
			return fmt.Errorf("remap: %w", err)
		}
		outputs, err := parseKeys(r.Output)
		if err != nil {
			return fmt.Errorf("remap %v: %w", r.Input, err)
		}
		rules = append(rules, Rule{
			Kind:  KindRemap,
			Order: order,
			Remap: RemapRule{
				Inputs:  NewKeySet(inputs),
				Outputs: outputs,
				Mode:    mode,
			},
		})
		order++
		return nil
	}

	addModeSwitch := func(m SourceModeSwitch, scope *Mode) error {
		if m.Mode == "" {
			return fmt.Errorf("mode_switch %v: target mode must be non-empty", m.Input)
		}
		inputs, err := parseKeys(m.Input)
		if err != nil {
			return fmt.Errorf("mode_switch: %w", err)
		}
		rules = append(rules, Rule{
			Kind:  KindModeSwitch,
			Order: order,
			ModeSwitch: ModeSwitchRule{
				Inputs: NewKeySet(inputs),
				Target: Mode(m.Mode),
				Scope:  scope,
			},
		})
		order++
		return nil
	}

	// Top-level: dual_role is globally applicable; remap belongs to
	// "default"; mode_switch is globally applicable (spec §6.1).
	for _, d := range src.DualRole {
		if err := addDualRole(d, nil); err != nil {
			return nil, err
		}
	}
	defaultMode := DefaultMode
	for _, r := range src.Remap {
		if err := addRemap(r, &defaultMode); err != nil {
			return nil, err
		}
	}
	for _, m := range src.ModeSwitch {
		if err := addModeSwitch(m, nil); err != nil {
			return nil, err
		}
	}

	for name, block := range src.Modes {
		mode := Mode(name)
		for _, d := range block.DualRole {
			if err := addDualRole(d, &mode); err != nil {
				return nil, err
			}
		}
		for _, r := range block.Remap {
			if err := addRemap(r, &mode); err != nil {
				return nil, err
			}
		}
		for _, m := range block.Switch {
			if err := addModeSwitch(m, &mode); err != nil {
				return nil, err
			}
		}
	}

	warnOverlap(rules, dbg)

	return &Set{rules: rules}, nil
}

// warnOverlap logs a warning for any two chord rules (Remap or
// ModeSwitch) in the same mode scope whose inputs are identical sets —
// a config that can never disambiguate between them at lookup time
// beyond rule order.
func warnOverlap(rules []Rule, dbg *log.Logger) {
	type key struct {
		mode Mode
		sig  string
	}
	seen := map[key]bool{}
	for _, r := range rules {
		var inputs KeySet
		var mode Mode
		switch r.Kind {
		case KindRemap:
			inputs = r.Remap.Inputs
			if r.Remap.Mode != nil {
				mode = *r.Remap.Mode
			}
		case KindModeSwitch:
			inputs = r.ModeSwitch.Inputs
			if r.ModeSwitch.Scope != nil {
				mode = *r.ModeSwitch.Scope
			}
		default:
			continue
		}
		sig := signature(inputs)
		k := key{mode: mode, sig: sig}
		if seen[k] {
			dbg.Printf("mapping: overlapping chord inputs %v in mode %q; largest-chord-then-order precedence applies at lookup time", inputs.Slice(), mode)
		}
		seen[k] = true
	}
}

func signature(s KeySet) string {
	keys := s.Slice()
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	var sig string
	for _, k := range keys {
		sig += fmt.Sprintf("%d,", k)
	}
	return sig
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
