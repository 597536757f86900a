// Package buttons turns the four front-panel push buttons into mode flags.
package buttons

import (
	"fmt"
	"strings"

	"stopwatch/hal"
)

// Button identifies a front-panel switch.
type Button uint8

const (
	SW0 Button = iota // start
	SW1               // lap
	SW2               // stop
	SW3               // reset
)

func (b Button) String() string {
	switch b {
	case SW0:
		return "SW0"
	case SW1:
		return "SW1"
	case SW2:
		return "SW2"
	case SW3:
		return "SW3"
	default:
		return fmt.Sprintf("SW%d?", uint8(b))
	}
}

// Flags are the mode flags written by button presses.
//
// They are not mutually exclusive: simultaneous presses can produce
// combinations such as Running and Reset together.
type Flags struct {
	Running    bool
	LapLatched bool
	Stopped    bool
	Reset      bool

	// LapUpdate is a one-shot edge signal cleared at the end of every loop
	// iteration.
	LapUpdate bool
}

// PowerOn is the flag state at boot: the reset screen.
var PowerOn = Flags{Reset: true}

func (f Flags) String() string {
	var b strings.Builder
	put := func(on bool, c byte) {
		if on {
			b.WriteByte(c)
		} else {
			b.WriteByte('-')
		}
	}
	put(f.Running, 'R')
	put(f.LapLatched, 'L')
	put(f.Stopped, 'S')
	put(f.Reset, 'X')
	put(f.LapUpdate, 'U')
	return b.String()
}

// Mode is the single operating mode implied by a flag combination.
type Mode uint8

const (
	ModeNone Mode = iota
	ModeIdle
	ModeRunning
	ModeLapped
	ModeStopped
)

func (m Mode) String() string {
	switch m {
	case ModeNone:
		return "none"
	case ModeIdle:
		return "idle"
	case ModeRunning:
		return "running"
	case ModeLapped:
		return "lapped"
	case ModeStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Mode picks the branch that ends up on the display when every true branch
// is rendered in order reset, run, lap, stop: the last one wins.
func (f Flags) Mode() Mode {
	switch {
	case f.Running && f.Stopped:
		return ModeStopped
	case f.Running && f.LapLatched:
		return ModeLapped
	case f.Running:
		return ModeRunning
	case f.Reset:
		return ModeIdle
	default:
		return ModeNone
	}
}

// Apply runs the per-button assignments in order SW0..SW3. Every pressed
// button applies its own assignment; later buttons overwrite earlier ones
// field by field. With nothing pressed the flags are returned unchanged.
func Apply(f Flags, pressed [hal.ButtonCount]bool) Flags {
	if pressed[SW0] {
		f.Running = true
		f.LapLatched = false
		f.Stopped = false
		f.Reset = false
	}
	if pressed[SW1] {
		f.Running = true
		f.LapLatched = true
		f.Stopped = false
		f.Reset = false
		f.LapUpdate = true
	}
	if pressed[SW2] {
		f.Running = true
		f.LapLatched = false
		f.Stopped = true
		f.Reset = false
	}
	if pressed[SW3] {
		f.Running = false
		f.LapLatched = false
		f.Stopped = false
		f.Reset = true
	}
	return f
}

// Machine samples the buttons and owns the current flags.
type Machine struct {
	in    hal.Input
	pins  [hal.ButtonCount]hal.GPIOPin
	flags Flags
	err   error
}

// New returns a machine in the power-on state.
func New(in hal.Input) *Machine {
	m := &Machine{in: in, flags: PowerOn}
	if in != nil {
		m.pins = in.Buttons()
	}
	return m
}

// Configure sets every button pin to input with pull-up.
func (m *Machine) Configure() error {
	for i, pin := range m.pins {
		if pin == nil {
			return fmt.Errorf("buttons: %s: no pin", Button(i))
		}
		if err := pin.Configure(hal.GPIOModeInput, hal.GPIOPullUp); err != nil {
			return fmt.Errorf("buttons: %s: %w", Button(i), err)
		}
	}
	return nil
}

// Sample reads the four buttons once and applies them. A pin that fails to
// read counts as released; the error is kept for Err.
func (m *Machine) Sample() Flags {
	if m.in != nil {
		m.in.Poll()
	}
	m.err = nil

	var pressed [hal.ButtonCount]bool
	for i, pin := range m.pins {
		if pin == nil {
			continue
		}
		level, err := pin.Read()
		if err != nil {
			if m.err == nil {
				m.err = fmt.Errorf("buttons: %s: %w", Button(i), err)
			}
			continue
		}
		pressed[i] = !level
	}

	m.flags = Apply(m.flags, pressed)
	return m.flags
}

// Flags returns the current flags.
func (m *Machine) Flags() Flags { return m.flags }

// ClearLapUpdate drops the one-shot lap update signal.
func (m *Machine) ClearLapUpdate() { m.flags.LapUpdate = false }

// Err reports the first read failure of the last Sample.
func (m *Machine) Err() error { return m.err }
