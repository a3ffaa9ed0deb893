package mapping

import "github.com/prime-run/evremap/internal/keycode"

// Mode names the active modal layer (spec GLOSSARY: "Active mode").
// The zero value is never used directly; engines start in DefaultMode.
type Mode string

// DefaultMode is the mode every engine starts in, and the mode top-level
// [[remap]] entries are implicitly scoped to (spec §6.1).
const DefaultMode Mode = "default"

// RuleKind discriminates the closed sum of mapping rule variants
// (spec §3). No dynamic dispatch is needed — the three variants are
// fixed and every consumer switches on Kind.
type RuleKind int

const (
	KindDualRole RuleKind = iota
	KindRemap
	KindModeSwitch
)

func (k RuleKind) String() string {
	switch k {
	case KindDualRole:
		return "dual_role"
	case KindRemap:
		return "remap"
	case KindModeSwitch:
		return "mode_switch"
	default:
		return "unknown"
	}
}

// Rule is a tagged mapping rule: exactly one of DualRole, Remap, or
// ModeSwitch is populated, selected by Kind. Order is the rule's
// position in the source config, used as the final tiebreaker in C3
// lookup (spec §4.2).
type Rule struct {
	Kind       RuleKind
	Order      int
	DualRole   DualRoleRule
	Remap      RemapRule
	ModeSwitch ModeSwitchRule
}

// DualRoleRule: once another key is pressed while Trigger is held, Hold
// is emitted for as long as Trigger stays held; if Trigger is released
// within the tap window with no other key pressed in between, Tap is
// emitted instead. While Trigger is held on its own, Hold is not emitted,
// and a lone press released after the tap window emits nothing.
type DualRoleRule struct {
	Trigger keycode.Key
	Hold    []keycode.Key
	Tap     []keycode.Key
	Mode    *Mode // nil: globally applicable
}

// Eligible reports whether this rule applies under the given active mode.
func (r DualRoleRule) Eligible(mode Mode) bool {
	return r.Mode == nil || *r.Mode == mode
}

// RemapRule: when all Inputs are held, Inputs are suppressed and Outputs
// are added to the emitted set (spec §3).
type RemapRule struct {
	Inputs  KeySet
	Outputs []keycode.Key
	Mode    *Mode
}

// Eligible reports whether this rule applies under the given active mode.
func (r RemapRule) Eligible(mode Mode) bool {
	return r.Mode == nil || *r.Mode == mode
}

// ModeSwitchRule: when all Inputs are held and the rule is eligible
// under Scope, the active mode transitions to Target (spec §3).
type ModeSwitchRule struct {
	Inputs KeySet
	Target Mode
	Scope  *Mode // nil: may fire in any mode
}

// Eligible reports whether this rule applies under the given active mode.
func (r ModeSwitchRule) Eligible(mode Mode) bool {
	return r.Scope == nil || *r.Scope == mode
}
