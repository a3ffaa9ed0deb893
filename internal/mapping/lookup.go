package mapping

import "github.com/prime-run/evremap/internal/keycode"

// Lookup is the pure press-time rule resolver (spec §4.2, C3). It holds
// a reference to the immutable Set and never mutates engine state.
type Lookup struct {
	set *Set
}

// NewLookup builds a Lookup over set.
func NewLookup(set *Set) *Lookup {
	return &Lookup{set: set}
}

// Match returns the single best rule applicable to the just-pressed key
// k, given the current held set and active mode, or false if nothing
// applies (spec §4.2):
//
//  1. A DualRole rule with Trigger == k, eligible under mode, always wins.
//  2. Otherwise, among Remap/ModeSwitch rules whose Inputs contain k and
//     are a subset of held, eligible under mode: the largest |Inputs|
//     wins; ties prefer ModeSwitch over Remap; remaining ties use the
//     rule's original source-config order.
func (l *Lookup) Match(k keycode.Key, held map[keycode.Key]struct{}, mode Mode) (Rule, bool) {
	for _, r := range l.set.rules {
		if r.Kind == KindDualRole && r.DualRole.Trigger == k && r.DualRole.Eligible(mode) {
			return r, true
		}
	}

	var best Rule
	found := false
	for _, r := range l.set.rules {
		var inputs KeySet
		var eligible bool
		switch r.Kind {
		case KindRemap:
			inputs = r.Remap.Inputs
			eligible = r.Remap.Eligible(mode)
		case KindModeSwitch:
			inputs = r.ModeSwitch.Inputs
			eligible = r.ModeSwitch.Eligible(mode)
		default:
			continue
		}
		if !eligible || !inputs.Contains(k) || !inputs.SubsetOf(held) {
			continue
		}
		if !found || better(r, inputs.Len(), best, bestInputLen(best)) {
			best = r
			found = true
		}
	}
	return best, found
}

func bestInputLen(r Rule) int {
	switch r.Kind {
	case KindRemap:
		return r.Remap.Inputs.Len()
	case KindModeSwitch:
		return r.ModeSwitch.Inputs.Len()
	default:
		return 0
	}
}

// better reports whether candidate (with candLen inputs) should replace
// incumbent (with incLen inputs) as the current best chord match, per
// the precedence in Match's doc comment: larger chord wins; on a tie,
// ModeSwitch beats Remap; remaining ties keep the incumbent, since rules
// are visited in source order and the incumbent was seen first.
func better(candidate Rule, candLen int, incumbent Rule, incLen int) bool {
	if candLen != incLen {
		return candLen > incLen
	}
	if candidate.Kind == KindModeSwitch && incumbent.Kind != KindModeSwitch {
		return true
	}
	return false
}

// DualRoleFor reports the DualRole rule for trigger k eligible under
// mode, if any. Used by the engine's release path to decide tap
// eligibility and by the repeat path's fallback (spec §4.3).
func (l *Lookup) DualRoleFor(k keycode.Key, mode Mode) (DualRoleRule, bool) {
	for _, r := range l.set.rules {
		if r.Kind == KindDualRole && r.DualRole.Trigger == k && r.DualRole.Eligible(mode) {
			return r.DualRole, true
		}
	}
	return DualRoleRule{}, false
}

// DualRoles returns every DualRole rule in source order, regardless of
// eligibility. The engine's compute-desired pass (spec §4.3) filters by
// eligibility itself since it must run every press/release.
func (l *Lookup) DualRoles() []DualRoleRule {
	var out []DualRoleRule
	for _, r := range l.set.rules {
		if r.Kind == KindDualRole {
			out = append(out, r.DualRole)
		}
	}
	return out
}

// ChordInputKeys returns the union of every Remap and ModeSwitch rule's
// Inputs that is eligible under mode. A key in this set is "owned" by the
// chord mechanism: it never reaches the wire in raw form, only through
// whichever rule's outputs eventually claim it (spec §9 open question 1,
// worked examples S3/S6: LEFTALT held alone, with no chord yet complete,
// must not appear on the wire).
func (l *Lookup) ChordInputKeys(mode Mode) map[keycode.Key]struct{} {
	out := map[keycode.Key]struct{}{}
	for _, r := range l.set.rules {
		switch r.Kind {
		case KindRemap:
			if r.Remap.Eligible(mode) {
				for k := range r.Remap.Inputs {
					out[k] = struct{}{}
				}
			}
		case KindModeSwitch:
			if r.ModeSwitch.Eligible(mode) {
				for k := range r.ModeSwitch.Inputs {
					out[k] = struct{}{}
				}
			}
		}
	}
	return out
}
