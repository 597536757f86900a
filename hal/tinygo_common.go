//go:build tinygo && baremetal

package hal

import (
	"fmt"
	"machine"
	"sync"

	"tinygo.org/x/drivers/hd44780i2c"
)

type uartLogger struct {
	uart *machine.UART
}

func (l *uartLogger) WriteLineString(s string) {
	for i := 0; i < len(s); i++ {
		l.uart.WriteByte(s[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

func (l *uartLogger) WriteLineBytes(b []byte) {
	for i := 0; i < len(b); i++ {
		l.uart.WriteByte(b[i])
	}
	l.uart.WriteByte('\r')
	l.uart.WriteByte('\n')
}

type pinLED struct {
	pin machine.Pin
}

func (l *pinLED) High() { l.pin.High() }
func (l *pinLED) Low()  { l.pin.Low() }

// machinePin is a GPIOPin backed by an MCU pin.
type machinePin struct {
	pin  machine.Pin
	name string
	mode GPIOMode
}

func newMachinePin(name string, pin machine.Pin) *machinePin {
	return &machinePin{pin: pin, name: name}
}

func (p *machinePin) Name() string { return p.name }
func (p *machinePin) Caps() GPIOCaps {
	return GPIOCapInput | GPIOCapOutput | GPIOCapPullUp | GPIOCapPullDown
}

func (p *machinePin) Configure(mode GPIOMode, pull GPIOPull) error {
	var m machine.PinMode
	switch {
	case mode == GPIOModeOutput && pull == GPIOPullNone:
		m = machine.PinOutput
	case mode == GPIOModeInput && pull == GPIOPullNone:
		m = machine.PinInput
	case mode == GPIOModeInput && pull == GPIOPullUp:
		m = machine.PinInputPullup
	case mode == GPIOModeInput && pull == GPIOPullDown:
		m = machine.PinInputPulldown
	default:
		return fmt.Errorf("gpio: pin %s: unsupported configuration", p.name)
	}
	p.pin.Configure(machine.PinConfig{Mode: m})
	p.mode = mode
	return nil
}

func (p *machinePin) Read() (bool, error) { return p.pin.Get(), nil }

func (p *machinePin) Write(level bool) error {
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.pin.Set(level)
	return nil
}

// latchedInput samples all button pins at once on Poll, like reading the
// whole input data register, and serves reads from that sample.
type latchedInput struct {
	mu      sync.Mutex
	pins    [ButtonCount]*machinePin
	latched [ButtonCount]*latchedPin
}

func newLatchedInput(pins [ButtonCount]*machinePin) *latchedInput {
	in := &latchedInput{pins: pins}
	for i, p := range pins {
		in.latched[i] = &latchedPin{src: p, in: in}
	}
	return in
}

func (in *latchedInput) Poll() {
	in.mu.Lock()
	defer in.mu.Unlock()
	for _, lp := range in.latched {
		lp.level = lp.src.pin.Get()
		lp.valid = true
	}
}

func (in *latchedInput) Buttons() [ButtonCount]GPIOPin {
	var out [ButtonCount]GPIOPin
	for i, lp := range in.latched {
		out[i] = lp
	}
	return out
}

type latchedPin struct {
	src   *machinePin
	in    *latchedInput
	level bool
	valid bool
}

func (p *latchedPin) Name() string   { return p.src.Name() }
func (p *latchedPin) Caps() GPIOCaps { return GPIOCapInput | GPIOCapPullUp }

func (p *latchedPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeInput {
		return fmt.Errorf("gpio: pin %s: only input supported", p.Name())
	}
	return p.src.Configure(mode, pull)
}

func (p *latchedPin) Read() (bool, error) {
	p.in.mu.Lock()
	defer p.in.mu.Unlock()
	if !p.valid {
		return p.src.Read()
	}
	return p.level, nil
}

func (p *latchedPin) Write(bool) error {
	return fmt.Errorf("gpio: pin %s: not in output mode", p.Name())
}

// i2cLCD drives a 16x2 HD44780 behind a PCF8574 I2C backpack.
type i2cLCD struct {
	dev hd44780i2c.Device
	ok  bool
}

func newI2CLCD(bus *machine.I2C, addr uint8) (*i2cLCD, error) {
	l := &i2cLCD{dev: hd44780i2c.New(bus, addr)}
	if err := l.dev.Configure(hd44780i2c.Config{Width: lcdVisibleCols, Height: lcdRows}); err != nil {
		return l, fmt.Errorf("lcd: %w", err)
	}
	l.dev.BacklightOn(true)
	l.ok = true
	return l, nil
}

func (l *i2cLCD) Clear() {
	if l.ok {
		l.dev.ClearDisplay()
	}
}

func (l *i2cLCD) GotoLineTwo() {
	if l.ok {
		l.dev.SetCursor(0, 1)
	}
}

func (l *i2cLCD) WriteString(s string) {
	if l.ok {
		l.dev.Print([]byte(s))
	}
}
