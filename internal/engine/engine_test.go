package engine

import (
	"testing"

	"github.com/prime-run/evremap/internal/evtime"
	"github.com/prime-run/evremap/internal/keycode"
	"github.com/prime-run/evremap/internal/mapping"
)

type recordedCall struct {
	key    keycode.Key
	press  bool
	repeat bool
	sync   bool
}

type fakeSink struct {
	calls []recordedCall
}

func (f *fakeSink) Write(k keycode.Key, press bool, t evtime.Time) error {
	f.calls = append(f.calls, recordedCall{key: k, press: press})
	return nil
}

func (f *fakeSink) WriteRepeat(k keycode.Key, t evtime.Time) error {
	f.calls = append(f.calls, recordedCall{key: k, repeat: true})
	return nil
}

func (f *fakeSink) Sync() error {
	f.calls = append(f.calls, recordedCall{sync: true})
	return nil
}

func (f *fakeSink) pressedKeys() []keycode.Key {
	var out []keycode.Key
	for _, c := range f.calls {
		if !c.repeat && !c.sync && c.press {
			out = append(out, c.key)
		}
	}
	return out
}

func ms(n int64) evtime.Time { return evtime.Time(n * 1000) }

// S1 — dual-role tap.
func TestScenarioDualRoleTap(t *testing.T) {
	src := &mapping.SourceConfig{
		DualRole: []mapping.SourceDualRole{{Input: "KEY_CAPSLOCK", Hold: []string{"KEY_LEFTCTRL"}, Tap: []string{"KEY_ESC"}}},
	}
	set, err := mapping.Build(src, nil)
	if err != nil {
		t.Fatal(err)
	}
	sink := &fakeSink{}
	e := New(mapping.NewLookup(set), sink, nil)

	if err := e.OnPress(keycode.KeyCapsLock, ms(0)); err != nil {
		t.Fatal(err)
	}
	if err := e.OnRelease(keycode.KeyCapsLock, ms(150)); err != nil {
		t.Fatal(err)
	}

	want := []recordedCall{
		{key: keycode.KeyEsc, press: true},
		{sync: true},
		{key: keycode.KeyEsc, press: false},
		{sync: true},
	}
	if len(sink.calls) != len(want) {
		t.Fatalf("got %d calls %+v, want %d", len(sink.calls), sink.calls, len(want))
	}
	for i, c := range want {
		if sink.calls[i] != c {
			t.Errorf("call %d = %+v, want %+v", i, sink.calls[i], c)
		}
	}
	if _, ok := e.Emitted()[keycode.KeyLeftCtrl]; ok {
		t.Error("LEFTCTRL should never appear in emitted for a tap")
	}
}

// S2 — dual-role hold.
func TestScenarioDualRoleHold(t *testing.T) {
	src := &mapping.SourceConfig{
		DualRole: []mapping.SourceDualRole{{Input: "KEY_CAPSLOCK", Hold: []string{"KEY_LEFTCTRL"}, Tap: []string{"KEY_ESC"}}},
	}
	set, _ := mapping.Build(src, nil)
	sink := &fakeSink{}
	e := New(mapping.NewLookup(set), sink, nil)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(e.OnPress(keycode.KeyCapsLock, ms(0)))
	must(e.OnPress(keycode.KeyA, ms(300)))
	must(e.OnRelease(keycode.KeyA, ms(400)))
	must(e.OnRelease(keycode.KeyCapsLock, ms(500)))

	want := []recordedCall{
		{key: keycode.KeyLeftCtrl, press: true},
		{sync: true},
		{key: keycode.KeyA, press: true},
		{sync: true},
		{key: keycode.KeyA, press: false},
		{sync: true},
		{key: keycode.KeyLeftCtrl, press: false},
		{sync: true},
	}
	if len(sink.calls) != len(want) {
		t.Fatalf("got %d calls %+v, want %d", len(sink.calls), sink.calls, len(want))
	}
	for i, c := range want {
		if sink.calls[i] != c {
			t.Errorf("call %d = %+v, want %+v", i, sink.calls[i], c)
		}
	}
}

// S3 — chord with broken-chord suppression: no bare F ever leaks.
func TestScenarioChordBreakSuppression(t *testing.T) {
	src := &mapping.SourceConfig{
		Remap: []mapping.SourceRemap{{Input: []string{"KEY_LEFTALT", "KEY_F"}, Output: []string{"KEY_MINUS"}}},
	}
	set, _ := mapping.Build(src, nil)
	sink := &fakeSink{}
	e := New(mapping.NewLookup(set), sink, nil)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(e.OnPress(keycode.KeyLeftAlt, ms(0)))
	must(e.OnPress(keycode.KeyF, ms(10)))
	must(e.OnRelease(keycode.KeyLeftAlt, ms(20)))
	must(e.OnRelease(keycode.KeyF, ms(30)))

	for _, c := range sink.calls {
		if !c.sync && c.key == keycode.KeyF {
			t.Fatalf("bare F leaked onto the wire: %+v", sink.calls)
		}
	}
	if len(e.Emitted()) != 0 {
		t.Errorf("expected empty emitted set at end, got %v", e.Emitted())
	}
}

func TestSuppressedReflectsBrokenChordResidual(t *testing.T) {
	src := &mapping.SourceConfig{
		Remap: []mapping.SourceRemap{{Input: []string{"KEY_LEFTALT", "KEY_F"}, Output: []string{"KEY_MINUS"}}},
	}
	set, _ := mapping.Build(src, nil)
	e := New(mapping.NewLookup(set), &fakeSink{}, nil)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(e.OnPress(keycode.KeyLeftAlt, ms(0)))
	must(e.OnPress(keycode.KeyF, ms(10)))
	must(e.OnRelease(keycode.KeyLeftAlt, ms(20)))

	if _, ok := e.Suppressed()[keycode.KeyF]; !ok {
		t.Errorf("expected F to be suppressed after LEFTALT release, got %v", e.Suppressed())
	}

	must(e.OnRelease(keycode.KeyF, ms(30)))
	if _, ok := e.Suppressed()[keycode.KeyF]; ok {
		t.Errorf("expected F suppression cleared after its own release, got %v", e.Suppressed())
	}
}

func TestTapCandidateClearedAfterTap(t *testing.T) {
	src := &mapping.SourceConfig{
		DualRole: []mapping.SourceDualRole{{Input: "KEY_CAPSLOCK", Hold: []string{"KEY_LEFTCTRL"}, Tap: []string{"KEY_ESC"}}},
	}
	set, _ := mapping.Build(src, nil)
	e := New(mapping.NewLookup(set), &fakeSink{}, nil)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(e.OnPress(keycode.KeyCapsLock, ms(0)))
	if k, ok := e.TapCandidate(); !ok || k != keycode.KeyCapsLock {
		t.Fatalf("expected tap candidate CAPSLOCK, got %v ok=%v", k, ok)
	}

	must(e.OnRelease(keycode.KeyCapsLock, ms(150)))
	if _, ok := e.TapCandidate(); ok {
		t.Error("expected tap candidate cleared after tap emission")
	}
}

// S4 — largest chord wins.
func TestScenarioLargestChordWins(t *testing.T) {
	src := &mapping.SourceConfig{
		Remap: []mapping.SourceRemap{
			{Input: []string{"KEY_LEFTALT", "KEY_F"}, Output: []string{"KEY_MINUS"}},
			{Input: []string{"KEY_LEFTCTRL", "KEY_LEFTALT", "KEY_F"}, Output: []string{"KEY_EQUAL"}},
		},
	}
	set, _ := mapping.Build(src, nil)
	sink := &fakeSink{}
	e := New(mapping.NewLookup(set), sink, nil)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(e.OnPress(keycode.KeyLeftCtrl, ms(0)))
	must(e.OnPress(keycode.KeyLeftAlt, ms(10)))
	must(e.OnPress(keycode.KeyF, ms(20)))

	if _, ok := e.Emitted()[keycode.KeyEqual]; !ok {
		t.Errorf("expected EQUAL in emitted, got %v", e.Emitted())
	}
	if _, ok := e.Emitted()[keycode.KeyMinus]; ok {
		t.Errorf("expected MINUS absent, got %v", e.Emitted())
	}
}

// S5 — mode-switch precedence and scoping.
func TestScenarioModeSwitchPrecedenceAndScoping(t *testing.T) {
	src := &mapping.SourceConfig{
		Remap:      []mapping.SourceRemap{{Input: []string{"KEY_LEFTALT", "KEY_N"}, Output: []string{"KEY_0"}}},
		ModeSwitch: []mapping.SourceModeSwitch{{Input: []string{"KEY_LEFTALT", "KEY_N"}, Mode: "nav"}},
		Modes: map[string]mapping.SourceModeBlock{
			"nav": {Remap: []mapping.SourceRemap{{Input: []string{"KEY_H"}, Output: []string{"KEY_LEFT"}}}},
		},
	}
	set, _ := mapping.Build(src, nil)
	sink := &fakeSink{}
	e := New(mapping.NewLookup(set), sink, nil)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(e.OnPress(keycode.KeyLeftAlt, ms(0)))
	must(e.OnPress(keycode.KeyN, ms(10)))
	must(e.OnRelease(keycode.KeyLeftAlt, ms(20)))
	must(e.OnRelease(keycode.KeyN, ms(30)))
	must(e.OnPress(keycode.KeyH, ms(40)))
	must(e.OnRelease(keycode.KeyH, ms(50)))

	if e.Mode() != mapping.Mode("nav") {
		t.Fatalf("expected mode nav, got %v", e.Mode())
	}
	for _, c := range sink.calls {
		if !c.sync && (c.key == keycode.Key0 || c.key == keycode.KeyLeftAlt || c.key == keycode.KeyN) {
			t.Fatalf("unexpected key on wire: %+v in %+v", c, sink.calls)
		}
	}
	found := false
	for _, c := range sink.calls {
		if c.key == keycode.KeyLeft && c.press {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected LEFT press on the wire, got %+v", sink.calls)
	}
}

// S6 — swap chord under held modifier.
func TestScenarioSwapChordUnderHeldModifier(t *testing.T) {
	src := &mapping.SourceConfig{
		Remap: []mapping.SourceRemap{
			{Input: []string{"KEY_LEFTALT", "KEY_F"}, Output: []string{"KEY_MINUS"}},
			{Input: []string{"KEY_LEFTALT", "KEY_A"}, Output: []string{"KEY_EQUAL"}},
		},
	}
	set, _ := mapping.Build(src, nil)
	sink := &fakeSink{}
	e := New(mapping.NewLookup(set), sink, nil)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(e.OnPress(keycode.KeyLeftAlt, ms(0)))
	must(e.OnPress(keycode.KeyF, ms(10)))
	must(e.OnRelease(keycode.KeyF, ms(20)))
	must(e.OnPress(keycode.KeyA, ms(30)))
	must(e.OnRelease(keycode.KeyA, ms(40)))
	must(e.OnRelease(keycode.KeyLeftAlt, ms(50)))

	for _, c := range sink.calls {
		if !c.sync && c.key == keycode.KeyLeftAlt {
			t.Fatalf("LEFTALT should never appear on the wire: %+v", sink.calls)
		}
		if !c.sync && (c.key == keycode.KeyF || c.key == keycode.KeyA) {
			t.Fatalf("bare chord member leaked: %+v", sink.calls)
		}
	}
	pressed := sink.pressedKeys()
	if len(pressed) != 2 || pressed[0] != keycode.KeyMinus || pressed[1] != keycode.KeyEqual {
		t.Fatalf("expected MINUS then EQUAL presses, got %v", pressed)
	}
}

func TestTapInvalidatedByInterveningPress(t *testing.T) {
	src := &mapping.SourceConfig{
		DualRole: []mapping.SourceDualRole{{Input: "KEY_CAPSLOCK", Hold: []string{"KEY_LEFTCTRL"}, Tap: []string{"KEY_ESC"}}},
	}
	set, _ := mapping.Build(src, nil)
	sink := &fakeSink{}
	e := New(mapping.NewLookup(set), sink, nil)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(e.OnPress(keycode.KeyCapsLock, ms(0)))
	must(e.OnPress(keycode.KeyA, ms(5)))
	must(e.OnRelease(keycode.KeyA, ms(10)))
	must(e.OnRelease(keycode.KeyCapsLock, ms(15)))

	for _, c := range sink.calls {
		if c.key == keycode.KeyEsc {
			t.Fatalf("tap should be invalidated by an intervening press: %+v", sink.calls)
		}
	}
}

func TestRepeatPassesThroughUnmappedKey(t *testing.T) {
	set, _ := mapping.Build(&mapping.SourceConfig{}, nil)
	sink := &fakeSink{}
	e := New(mapping.NewLookup(set), sink, nil)

	if err := e.OnPress(keycode.KeyA, ms(0)); err != nil {
		t.Fatal(err)
	}
	sink.calls = nil
	if err := e.OnRepeat(keycode.KeyA, ms(50)); err != nil {
		t.Fatal(err)
	}
	want := []recordedCall{{key: keycode.KeyA, repeat: true}, {sync: true}}
	if len(sink.calls) != len(want) {
		t.Fatalf("got %+v, want %+v", sink.calls, want)
	}
}

func TestRepeatOnRemapRepeatsOutputs(t *testing.T) {
	src := &mapping.SourceConfig{
		Remap: []mapping.SourceRemap{{Input: []string{"KEY_LEFTALT", "KEY_F"}, Output: []string{"KEY_MINUS"}}},
	}
	set, _ := mapping.Build(src, nil)
	sink := &fakeSink{}
	e := New(mapping.NewLookup(set), sink, nil)

	if err := e.OnPress(keycode.KeyLeftAlt, ms(0)); err != nil {
		t.Fatal(err)
	}
	if err := e.OnPress(keycode.KeyF, ms(10)); err != nil {
		t.Fatal(err)
	}
	sink.calls = nil
	if err := e.OnRepeat(keycode.KeyF, ms(20)); err != nil {
		t.Fatal(err)
	}
	want := []recordedCall{{key: keycode.KeyMinus, repeat: true}, {sync: true}}
	if len(sink.calls) != len(want) {
		t.Fatalf("got %+v, want %+v", sink.calls, want)
	}
}

func TestSuppressedKeyRepeatIsSwallowed(t *testing.T) {
	src := &mapping.SourceConfig{
		Remap: []mapping.SourceRemap{{Input: []string{"KEY_LEFTALT", "KEY_F"}, Output: []string{"KEY_MINUS"}}},
	}
	set, _ := mapping.Build(src, nil)
	sink := &fakeSink{}
	e := New(mapping.NewLookup(set), sink, nil)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(e.OnPress(keycode.KeyLeftAlt, ms(0)))
	must(e.OnPress(keycode.KeyF, ms(10)))
	must(e.OnRelease(keycode.KeyLeftAlt, ms(20)))
	sink.calls = nil
	if err := e.OnRepeat(keycode.KeyF, ms(25)); err != nil {
		t.Fatal(err)
	}
	if len(sink.calls) != 0 {
		t.Fatalf("expected repeat of suppressed key to be swallowed, got %+v", sink.calls)
	}
}

func TestLogicalNoOpsAreTolerated(t *testing.T) {
	set, _ := mapping.Build(&mapping.SourceConfig{}, nil)
	e := New(mapping.NewLookup(set), &fakeSink{}, nil)

	if err := e.OnRelease(keycode.KeyA, ms(0)); err != nil {
		t.Fatalf("release of never-pressed key should be tolerated, got %v", err)
	}
	if err := e.OnPress(keycode.KeyA, ms(0)); err != nil {
		t.Fatal(err)
	}
	if err := e.OnPress(keycode.KeyA, ms(10)); err != nil {
		t.Fatalf("re-press of already-held key should be tolerated, got %v", err)
	}
}

func TestEmittedMirrorsState(t *testing.T) {
	set, _ := mapping.Build(&mapping.SourceConfig{}, nil)
	e := New(mapping.NewLookup(set), &fakeSink{}, nil)

	if err := e.OnPress(keycode.KeyA, ms(0)); err != nil {
		t.Fatal(err)
	}
	if got := e.Emitted(); len(got) != 1 {
		t.Fatalf("expected 1 emitted key, got %v", got)
	}
	if err := e.OnRelease(keycode.KeyA, ms(10)); err != nil {
		t.Fatal(err)
	}
	if got := e.Emitted(); len(got) != 0 {
		t.Fatalf("expected empty emitted set, got %v", got)
	}
}
