// Package keycode defines the opaque key-code token the remap engine
// operates on and the evdev KEY_* name table used to parse configuration
// and render CLI output.
package keycode

import (
	"fmt"
	"strings"
)

// Key is the opaque, comparable, hashable token the engine keys all of
// its sets by (spec §3). It is numerically the Linux evdev key code
// (linux/input-event-codes.h), but callers should treat it as opaque.
type Key uint16

// Modifier family membership (spec §3): Fn, Alt, Meta/Super, Ctrl, Shift,
// left and right variants.
var modifiers = map[Key]bool{
	KeyLeftShift:  true,
	KeyRightShift: true,
	KeyLeftCtrl:   true,
	KeyRightCtrl:  true,
	KeyLeftAlt:    true,
	KeyRightAlt:   true,
	KeyLeftMeta:   true,
	KeyRightMeta:  true,
	KeyFn:         true,
}

// IsModifier reports whether k belongs to the modifier family.
func (k Key) IsModifier() bool {
	return modifiers[k]
}

// String renders k using its canonical KEY_* name, or a numeric
// placeholder if the code is not in the known table.
func (k Key) String() string {
	if name, ok := codeToName[k]; ok {
		return name
	}
	return fmt.Sprintf("KEY_0x%04x", uint16(k))
}

// Evdev KEY_* constants, from linux/input-event-codes.h. Only the subset
// plausible on a keyboard is listed; mouse buttons and absolute axes are
// out of scope (spec §1 non-goals).
const (
	KeyEsc          Key = 1
	Key1            Key = 2
	Key2            Key = 3
	Key3            Key = 4
	Key4            Key = 5
	Key5            Key = 6
	Key6            Key = 7
	Key7            Key = 8
	Key8            Key = 9
	Key9            Key = 10
	Key0            Key = 11
	KeyMinus        Key = 12
	KeyEqual        Key = 13
	KeyBackspace    Key = 14
	KeyTab          Key = 15
	KeyQ            Key = 16
	KeyW            Key = 17
	KeyE            Key = 18
	KeyR            Key = 19
	KeyT            Key = 20
	KeyY            Key = 21
	KeyU            Key = 22
	KeyI            Key = 23
	KeyO            Key = 24
	KeyP            Key = 25
	KeyLeftBrace    Key = 26
	KeyRightBrace   Key = 27
	KeyEnter        Key = 28
	KeyLeftCtrl     Key = 29
	KeyA            Key = 30
	KeyS            Key = 31
	KeyD            Key = 32
	KeyF            Key = 33
	KeyG            Key = 34
	KeyH            Key = 35
	KeyJ            Key = 36
	KeyK            Key = 37
	KeyL            Key = 38
	KeySemicolon    Key = 39
	KeyApostrophe   Key = 40
	KeyGrave        Key = 41
	KeyLeftShift    Key = 42
	KeyBackslash    Key = 43
	KeyZ            Key = 44
	KeyX            Key = 45
	KeyC            Key = 46
	KeyV            Key = 47
	KeyB            Key = 48
	KeyN            Key = 49
	KeyM            Key = 50
	KeyComma        Key = 51
	KeyDot          Key = 52
	KeySlash        Key = 53
	KeyRightShift   Key = 54
	KeyKPAsterisk   Key = 55
	KeyLeftAlt      Key = 56
	KeySpace        Key = 57
	KeyCapsLock     Key = 58
	KeyF1           Key = 59
	KeyF2           Key = 60
	KeyF3           Key = 61
	KeyF4           Key = 62
	KeyF5           Key = 63
	KeyF6           Key = 64
	KeyF7           Key = 65
	KeyF8           Key = 66
	KeyF9           Key = 67
	KeyF10          Key = 68
	KeyNumLock      Key = 69
	KeyScrollLock   Key = 70
	KeyKP7          Key = 71
	KeyKP8          Key = 72
	KeyKP9          Key = 73
	KeyKPMinus      Key = 74
	KeyKP4          Key = 75
	KeyKP5          Key = 76
	KeyKP6          Key = 77
	KeyKPPlus       Key = 78
	KeyKP1          Key = 79
	KeyKP2          Key = 80
	KeyKP3          Key = 81
	KeyKP0          Key = 82
	KeyKPDot        Key = 83
	KeyZenkakuHan   Key = 85
	Key102nd        Key = 86
	KeyF11          Key = 87
	KeyF12          Key = 88
	KeyKPEnter      Key = 96
	KeyRightCtrl    Key = 97
	KeyKPSlash      Key = 98
	KeySysRq        Key = 99
	KeyRightAlt     Key = 100
	KeyLineFeed     Key = 101
	KeyHome         Key = 102
	KeyUp           Key = 103
	KeyPageUp       Key = 104
	KeyLeft         Key = 105
	KeyRight        Key = 106
	KeyEnd          Key = 107
	KeyDown         Key = 108
	KeyPageDown     Key = 109
	KeyInsert       Key = 110
	KeyDelete       Key = 111
	KeyKPEqual      Key = 117
	KeyKPPlusMinus  Key = 118
	KeyPause        Key = 119
	KeyKPComma      Key = 121
	KeyLeftMeta     Key = 125
	KeyRightMeta    Key = 126
	KeyCompose      Key = 127
	KeyMute         Key = 113
	KeyVolumeDown   Key = 114
	KeyVolumeUp     Key = 115
	KeyPower        Key = 116
	KeyStop         Key = 128
	KeyAgain        Key = 129
	KeyProps        Key = 130
	KeyUndo         Key = 131
	KeyFront        Key = 132
	KeyCopy         Key = 133
	KeyOpen         Key = 134
	KeyPaste        Key = 135
	KeyFind         Key = 136
	KeyCut          Key = 137
	KeyHelp         Key = 138
	KeyMenu         Key = 139
	KeyCalc         Key = 140
	KeySleep        Key = 142
	KeyWWW          Key = 150
	KeyMail         Key = 155
	KeyBack         Key = 158
	KeyForward      Key = 159
	KeyEjectCD      Key = 161
	KeyNextSong     Key = 163
	KeyPlayPause    Key = 164
	KeyPreviousSong Key = 165
	KeyStopCD       Key = 166
	KeyRefresh      Key = 173
	KeyF13          Key = 183
	KeyF14          Key = 184
	KeyF15          Key = 185
	KeyF16          Key = 186
	KeyF17          Key = 187
	KeyF18          Key = 188
	KeyF19          Key = 189
	KeyF20          Key = 190
	KeyF21          Key = 191
	KeyF22          Key = 192
	KeyF23          Key = 193
	KeyF24          Key = 194
	KeyPrint        Key = 210
	KeySearch       Key = 217
	KeyBrightnessDown Key = 224
	KeyBrightnessUp   Key = 225
	KeyFn             Key = 464
)

var codeToName = func() map[Key]string {
	m := make(map[Key]string, len(nameToCode))
	for name, code := range nameToCode {
		m[code] = name
	}
	return m
}()

var nameToCode = map[string]Key{
	"KEY_ESC":             KeyEsc,
	"KEY_1":                Key1,
	"KEY_2":                Key2,
	"KEY_3":                Key3,
	"KEY_4":                Key4,
	"KEY_5":                Key5,
	"KEY_6":                Key6,
	"KEY_7":                Key7,
	"KEY_8":                Key8,
	"KEY_9":                Key9,
	"KEY_0":                Key0,
	"KEY_MINUS":            KeyMinus,
	"KEY_EQUAL":            KeyEqual,
	"KEY_BACKSPACE":        KeyBackspace,
	"KEY_TAB":              KeyTab,
	"KEY_Q":                KeyQ,
	"KEY_W":                KeyW,
	"KEY_E":                KeyE,
	"KEY_R":                KeyR,
	"KEY_T":                KeyT,
	"KEY_Y":                KeyY,
	"KEY_U":                KeyU,
	"KEY_I":                KeyI,
	"KEY_O":                KeyO,
	"KEY_P":                KeyP,
	"KEY_LEFTBRACE":        KeyLeftBrace,
	"KEY_RIGHTBRACE":       KeyRightBrace,
	"KEY_ENTER":            KeyEnter,
	"KEY_LEFTCTRL":         KeyLeftCtrl,
	"KEY_A":                KeyA,
	"KEY_S":                KeyS,
	"KEY_D":                KeyD,
	"KEY_F":                KeyF,
	"KEY_G":                KeyG,
	"KEY_H":                KeyH,
	"KEY_J":                KeyJ,
	"KEY_K":                KeyK,
	"KEY_L":                KeyL,
	"KEY_SEMICOLON":        KeySemicolon,
	"KEY_APOSTROPHE":       KeyApostrophe,
	"KEY_GRAVE":            KeyGrave,
	"KEY_LEFTSHIFT":        KeyLeftShift,
	"KEY_BACKSLASH":        KeyBackslash,
	"KEY_Z":                KeyZ,
	"KEY_X":                KeyX,
	"KEY_C":                KeyC,
	"KEY_V":                KeyV,
	"KEY_B":                KeyB,
	"KEY_N":                KeyN,
	"KEY_M":                KeyM,
	"KEY_COMMA":            KeyComma,
	"KEY_DOT":              KeyDot,
	"KEY_SLASH":            KeySlash,
	"KEY_RIGHTSHIFT":       KeyRightShift,
	"KEY_KPASTERISK":       KeyKPAsterisk,
	"KEY_LEFTALT":          KeyLeftAlt,
	"KEY_SPACE":            KeySpace,
	"KEY_CAPSLOCK":         KeyCapsLock,
	"KEY_F1":               KeyF1,
	"KEY_F2":               KeyF2,
	"KEY_F3":               KeyF3,
	"KEY_F4":               KeyF4,
	"KEY_F5":               KeyF5,
	"KEY_F6":               KeyF6,
	"KEY_F7":               KeyF7,
	"KEY_F8":               KeyF8,
	"KEY_F9":               KeyF9,
	"KEY_F10":              KeyF10,
	"KEY_NUMLOCK":          KeyNumLock,
	"KEY_SCROLLLOCK":       KeyScrollLock,
	"KEY_KP7":              KeyKP7,
	"KEY_KP8":              KeyKP8,
	"KEY_KP9":              KeyKP9,
	"KEY_KPMINUS":          KeyKPMinus,
	"KEY_KP4":              KeyKP4,
	"KEY_KP5":              KeyKP5,
	"KEY_KP6":              KeyKP6,
	"KEY_KPPLUS":           KeyKPPlus,
	"KEY_KP1":              KeyKP1,
	"KEY_KP2":              KeyKP2,
	"KEY_KP3":              KeyKP3,
	"KEY_KP0":              KeyKP0,
	"KEY_KPDOT":            KeyKPDot,
	"KEY_ZENKAKUHANKAKU":   KeyZenkakuHan,
	"KEY_102ND":            Key102nd,
	"KEY_F11":              KeyF11,
	"KEY_F12":              KeyF12,
	"KEY_KPENTER":          KeyKPEnter,
	"KEY_RIGHTCTRL":        KeyRightCtrl,
	"KEY_KPSLASH":          KeyKPSlash,
	"KEY_SYSRQ":            KeySysRq,
	"KEY_RIGHTALT":         KeyRightAlt,
	"KEY_LINEFEED":         KeyLineFeed,
	"KEY_HOME":             KeyHome,
	"KEY_UP":               KeyUp,
	"KEY_PAGEUP":           KeyPageUp,
	"KEY_LEFT":             KeyLeft,
	"KEY_RIGHT":            KeyRight,
	"KEY_END":              KeyEnd,
	"KEY_DOWN":             KeyDown,
	"KEY_PAGEDOWN":         KeyPageDown,
	"KEY_INSERT":           KeyInsert,
	"KEY_DELETE":           KeyDelete,
	"KEY_KPEQUAL":          KeyKPEqual,
	"KEY_KPPLUSMINUS":      KeyKPPlusMinus,
	"KEY_PAUSE":            KeyPause,
	"KEY_KPCOMMA":          KeyKPComma,
	"KEY_LEFTMETA":         KeyLeftMeta,
	"KEY_RIGHTMETA":        KeyRightMeta,
	"KEY_COMPOSE":          KeyCompose,
	"KEY_MUTE":             KeyMute,
	"KEY_VOLUMEDOWN":       KeyVolumeDown,
	"KEY_VOLUMEUP":         KeyVolumeUp,
	"KEY_POWER":            KeyPower,
	"KEY_STOP":             KeyStop,
	"KEY_AGAIN":            KeyAgain,
	"KEY_PROPS":            KeyProps,
	"KEY_UNDO":             KeyUndo,
	"KEY_FRONT":            KeyFront,
	"KEY_COPY":             KeyCopy,
	"KEY_OPEN":             KeyOpen,
	"KEY_PASTE":            KeyPaste,
	"KEY_FIND":             KeyFind,
	"KEY_CUT":              KeyCut,
	"KEY_HELP":             KeyHelp,
	"KEY_MENU":             KeyMenu,
	"KEY_CALC":             KeyCalc,
	"KEY_SLEEP":            KeySleep,
	"KEY_WWW":              KeyWWW,
	"KEY_MAIL":             KeyMail,
	"KEY_BACK":             KeyBack,
	"KEY_FORWARD":          KeyForward,
	"KEY_EJECTCD":          KeyEjectCD,
	"KEY_NEXTSONG":         KeyNextSong,
	"KEY_PLAYPAUSE":        KeyPlayPause,
	"KEY_PREVIOUSSONG":     KeyPreviousSong,
	"KEY_STOPCD":           KeyStopCD,
	"KEY_REFRESH":          KeyRefresh,
	"KEY_F13":              KeyF13,
	"KEY_F14":              KeyF14,
	"KEY_F15":              KeyF15,
	"KEY_F16":              KeyF16,
	"KEY_F17":              KeyF17,
	"KEY_F18":              KeyF18,
	"KEY_F19":              KeyF19,
	"KEY_F20":              KeyF20,
	"KEY_F21":              KeyF21,
	"KEY_F22":              KeyF22,
	"KEY_F23":              KeyF23,
	"KEY_F24":              KeyF24,
	"KEY_PRINT":            KeyPrint,
	"KEY_SEARCH":           KeySearch,
	"KEY_BRIGHTNESSDOWN":   KeyBrightnessDown,
	"KEY_BRIGHTNESSUP":     KeyBrightnessUp,
	"KEY_FN":               KeyFn,
}

// FromName maps an evdev KEY_* name string to its key code. Matching is
// case-insensitive and tolerant of surrounding whitespace, following the
// teacher's KeyCodeFromName convention.
func FromName(name string) (Key, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	code, ok := nameToCode[upper]
	if !ok {
		return 0, fmt.Errorf("unknown key name %q (run 'evremap list-keys' for the full set)", name)
	}
	return code, nil
}

// Names returns every known KEY_* name, unsorted.
func Names() []string {
	names := make([]string, 0, len(nameToCode))
	for name := range nameToCode {
		names = append(names, name)
	}
	return names
}
