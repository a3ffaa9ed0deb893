//go:build linux

package device

import (
	evdev "github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"
)

// eviocgrab is EVIOCGRAB's ioctl request code: _IOW('E', 0x90, int), per
// the kernel's input.h. A non-zero argument locks event delivery to the
// calling file descriptor; zero releases it.
const eviocgrab = 0x40044590

// grab takes exclusive control of dev so no other consumer on the system
// sees its raw events (spec §4.5 "shared resources").
func grab(dev *evdev.InputDevice) error {
	return unix.IoctlSetInt(int(dev.File().Fd()), eviocgrab, 1)
}

// ungrab releases a prior grab on teardown.
func ungrab(dev *evdev.InputDevice) error {
	return unix.IoctlSetInt(int(dev.File().Fd()), eviocgrab, 0)
}
