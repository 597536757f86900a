package hal

import (
	"fmt"
	"strings"
	"sync"
)

// Pin names of the front panel, bit 0 first.
var (
	buttonNames    = [ButtonCount]string{"SW0", "SW1", "SW2", "SW3"}
	indicatorNames = [4]string{"LED0", "LED1", "LED2", "LED3"}
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIOPull selects the pull resistor configuration.
type GPIOPull uint8

const (
	GPIOPullNone GPIOPull = iota
	GPIOPullUp
	GPIOPullDown
)

// GPIOCaps declares what operations a pin supports.
type GPIOCaps uint8

const (
	GPIOCapInput GPIOCaps = 1 << iota
	GPIOCapOutput
	GPIOCapPullUp
	GPIOCapPullDown
)

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Caps() GPIOCaps
	Configure(mode GPIOMode, pull GPIOPull) error
	Read() (level bool, err error)
	Write(level bool) error
}

// virtualPin is a simulated pin. Inputs read the externally driven level when
// something drives them and fall back to the pull resistor otherwise.
type virtualPin struct {
	mu   sync.Mutex
	name string
	caps GPIOCaps
	mode GPIOMode
	pull GPIOPull

	configured bool
	level      bool

	driven   bool
	external bool
}

func newVirtualPin(name string, caps GPIOCaps) *virtualPin {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	return &virtualPin{
		name: name,
		caps: caps,
		mode: GPIOModeInput,
		pull: GPIOPullNone,
	}
}

func (p *virtualPin) Name() string   { return p.name }
func (p *virtualPin) Caps() GPIOCaps { return p.caps }

func (p *virtualPin) Configure(mode GPIOMode, pull GPIOPull) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch mode {
	case GPIOModeInput:
		if p.caps&GPIOCapInput == 0 {
			return fmt.Errorf("gpio: pin %s: input unsupported", p.name)
		}
	case GPIOModeOutput:
		if p.caps&GPIOCapOutput == 0 {
			return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid mode", p.name)
	}

	switch pull {
	case GPIOPullNone:
	case GPIOPullUp:
		if p.caps&GPIOCapPullUp == 0 {
			return fmt.Errorf("gpio: pin %s: pull-up unsupported", p.name)
		}
	case GPIOPullDown:
		if p.caps&GPIOCapPullDown == 0 {
			return fmt.Errorf("gpio: pin %s: pull-down unsupported", p.name)
		}
	default:
		return fmt.Errorf("gpio: pin %s: invalid pull", p.name)
	}

	p.mode = mode
	p.pull = pull
	p.configured = true
	return nil
}

func (p *virtualPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.configured {
		return false, fmt.Errorf("gpio: pin %s: not configured", p.name)
	}
	if p.mode == GPIOModeOutput {
		return p.level, nil
	}
	if p.driven {
		return p.external, nil
	}
	return p.pull == GPIOPullUp, nil
}

func (p *virtualPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode != GPIOModeOutput || !p.configured {
		return fmt.Errorf("gpio: pin %s: not in output mode", p.name)
	}
	p.level = level
	return nil
}

// drive forces the input level from outside, like a closed switch to ground.
func (p *virtualPin) drive(level bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.driven = true
	p.external = level
}

// release lets the pull resistor define the level again.
func (p *virtualPin) release() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.driven = false
}

type ledPin struct {
	mu    sync.Mutex
	led   LED
	name  string
	level bool
}

func newLEDPin(name string, led LED) GPIOPin {
	if led == nil {
		return nil
	}
	return &ledPin{led: led, name: name}
}

func (p *ledPin) Name() string   { return p.name }
func (p *ledPin) Caps() GPIOCaps { return GPIOCapOutput }

func (p *ledPin) Configure(mode GPIOMode, pull GPIOPull) error {
	if mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: only output supported", p.name)
	}
	if pull != GPIOPullNone {
		return fmt.Errorf("gpio: pin %s: pull unsupported", p.name)
	}
	return nil
}

func (p *ledPin) Read() (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.level, nil
}

func (p *ledPin) Write(level bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.level == level {
		return nil
	}
	p.level = level
	if level {
		p.led.High()
	} else {
		p.led.Low()
	}
	return nil
}

// pinPort drives an output word onto a set of pins, bit i to pins[i].
type pinPort struct {
	mu   sync.Mutex
	pins []GPIOPin
	word uint8
}

func newPinPort(pins ...GPIOPin) *pinPort {
	return &pinPort{pins: pins}
}

// configure puts every pin of the port into output mode.
func (p *pinPort) configure() error {
	for _, pin := range p.pins {
		if pin == nil {
			continue
		}
		if err := pin.Configure(GPIOModeOutput, GPIOPullNone); err != nil {
			return err
		}
	}
	return nil
}

func (p *pinPort) Write(word uint8) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.word = word
	for i, pin := range p.pins {
		if pin == nil || i >= 8 {
			continue
		}
		_ = pin.Write(word&(1<<i) != 0)
	}
}

func (p *pinPort) Read() uint8 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.word
}
