package input

import (
	"fmt"

	"github.com/go-vgo/robotgo"
)

// RobotSink injects input through robotgo. robotgo panics on some
// platform failures, so every call runs behind a recovery wrapper that
// turns a panic into ErrCapabilityDenied.
type RobotSink struct{}

// NewRobotSink returns the robotgo-backed sink.
func NewRobotSink() *RobotSink { return &RobotSink{} }

func (*RobotSink) MoveTo(x, y int) (err error) {
	defer recoverDenied(&err)
	robotgo.Move(x, y)
	return nil
}

func (*RobotSink) Click(button string, x, y int) (err error) {
	defer recoverDenied(&err)
	if button == "" {
		button = "left"
	}
	if !validButton(button) {
		return fmt.Errorf("%w: button %q", ErrInvalidTarget, button)
	}
	robotgo.Move(x, y)
	robotgo.Click(button, false)
	return nil
}

func (*RobotSink) KeyDown(key string) (err error) {
	defer recoverDenied(&err)
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidTarget)
	}
	if e := robotgo.KeyToggle(key, "down"); e != nil {
		return fmt.Errorf("%w: %v", ErrCapabilityDenied, e)
	}
	return nil
}

func (*RobotSink) KeyUp(key string) (err error) {
	defer recoverDenied(&err)
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidTarget)
	}
	if e := robotgo.KeyToggle(key, "up"); e != nil {
		return fmt.Errorf("%w: %v", ErrCapabilityDenied, e)
	}
	return nil
}

func (*RobotSink) Scroll(dx, dy int) (err error) {
	defer recoverDenied(&err)
	robotgo.Scroll(dx, dy)
	return nil
}

func (*RobotSink) Location() (int, int) {
	return robotgo.Location()
}

func validButton(b string) bool {
	switch b {
	case "left", "right", "center":
		return true
	}
	return false
}

func recoverDenied(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrCapabilityDenied, r)
	}
}
