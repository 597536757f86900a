package hal

import "errors"

// Logger writes newline-delimited log lines.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

var ErrNotImplemented = errors.New("not implemented")

// Display is a character LCD controller.
//
// Calls are fire-and-forget; a module that cannot be reached drops them.
type Display interface {
	Clear()
	GotoLineTwo()
	WriteString(s string)
}

// ButtonCount is the number of push buttons on the front panel.
const ButtonCount = 4

// Input provides the push buttons.
//
// Pins are active-low: a pressed button reads false.
type Input interface {
	// Poll latches the input port so that the following pin reads observe
	// one consistent sample.
	Poll()
	Buttons() [ButtonCount]GPIOPin
}

// Port is an output word driving the indicator LEDs.
//
// Write replaces the previous word; bits are not OR'd.
type Port interface {
	Write(word uint8)
	Read() uint8
}

// TickRate is the tick source frequency in Hz.
const TickRate = 100

// TickSource delivers a periodic callback at TickRate while armed.
//
// The callback runs on its own goroutine and must call Ack before returning;
// a tick that fires while the previous one is unacknowledged counts as an
// overrun.
type TickSource interface {
	Handle(fn func())
	Arm()
	Disarm()
	Armed() bool
	Ack()
	Overruns() uint64
}

// HAL provides the only contact point between the firmware and the outside world.
type HAL interface {
	Logger() Logger
	Display() Display
	Input() Input
	Indicators() Port
	Ticker() TickSource
}
