//go:build tinygo && !baremetal

package hal

import (
	"fmt"
	"runtime"
	"time"
)

type tinyGoHostHAL struct {
	logger  *tinyGoHostLogger
	lcd     *charLCD
	buttons *tinyGoHostInput
	ind     *pinPort
	ticker  *tickSource
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no MCU
// pin mapping. The buttons stay released; LCD changes are printed.
func New() HAL {
	l := &tinyGoHostLogger{}
	h := &tinyGoHostHAL{
		logger:  l,
		lcd:     newCharLCD(),
		buttons: newTinyGoHostInput(),
		ticker:  newTickSource(time.Second/TickRate, time.Now),
	}

	pins := make([]GPIOPin, len(indicatorNames))
	for i, name := range indicatorNames {
		pins[i] = newLEDPin(name, &tinyGoHostLED{logger: l, name: name})
	}
	h.ind = newPinPort(pins...)
	_ = h.ind.configure()

	go h.echoLCD()
	return h
}

func (h *tinyGoHostHAL) Logger() Logger     { return h.logger }
func (h *tinyGoHostHAL) Display() Display   { return h.lcd }
func (h *tinyGoHostHAL) Input() Input       { return h.buttons }
func (h *tinyGoHostHAL) Indicators() Port   { return h.ind }
func (h *tinyGoHostHAL) Ticker() TickSource { return h.ticker }

func (h *tinyGoHostHAL) echoLCD() {
	var shown [lcdRows]string
	for range time.Tick(100 * time.Millisecond) {
		lines := h.lcd.Lines()
		if lines == shown {
			continue
		}
		shown = lines
		h.logger.WriteLineString(fmt.Sprintf("lcd: [%s] [%s]", lines[0], lines[1]))
	}
}

type tinyGoHostInput struct {
	pins [ButtonCount]GPIOPin
}

func newTinyGoHostInput() *tinyGoHostInput {
	in := &tinyGoHostInput{}
	for i, name := range buttonNames {
		in.pins[i] = newVirtualPin(name, GPIOCapInput|GPIOCapPullUp)
	}
	return in
}

func (in *tinyGoHostInput) Poll()                         {}
func (in *tinyGoHostInput) Buttons() [ButtonCount]GPIOPin { return in.pins }

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

type tinyGoHostLED struct {
	name   string
	logger *tinyGoHostLogger
}

func (l *tinyGoHostLED) High() {
	l.logger.WriteLineString(fmt.Sprintf("led: %s HIGH (tinygo/%s)", l.name, runtime.GOOS))
}

func (l *tinyGoHostLED) Low() {
	l.logger.WriteLineString(fmt.Sprintf("led: %s LOW (tinygo/%s)", l.name, runtime.GOOS))
}
