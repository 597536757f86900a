//go:build !tinygo

package hal

import (
	"fmt"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

type hostHAL struct {
	logger  *hostLogger
	lcd     *charLCD
	buttons *buttonPanel
	leds    [4]*hostLED
	ind     *pinPort
	ticker  *tickSource
}

// New returns a host HAL implementation.
func New() HAL {
	return newHostHAL(os.Stdout)
}

func newHostHAL(w io.Writer) *hostHAL {
	logger := newHostLogger(w)

	h := &hostHAL{
		logger:  logger,
		lcd:     newCharLCD(),
		buttons: newButtonPanel(),
		ticker:  newTickSource(time.Second/TickRate, time.Now),
	}

	pins := make([]GPIOPin, len(h.leds))
	for i := range h.leds {
		h.leds[i] = &hostLED{}
		pins[i] = newLEDPin(indicatorNames[i], h.leds[i])
	}
	h.ind = newPinPort(pins...)
	if err := h.ind.configure(); err != nil {
		logger.WriteLineString(fmt.Sprintf("hal: indicators: %v", err))
	}
	return h
}

func (h *hostHAL) Logger() Logger     { return h.logger }
func (h *hostHAL) Display() Display   { return h.lcd }
func (h *hostHAL) Input() Input       { return h.buttons }
func (h *hostHAL) Indicators() Port   { return h.ind }
func (h *hostHAL) Ticker() TickSource { return h.ticker }

// ledStates returns the indicator levels, bit 0 first.
func (h *hostHAL) ledStates() [4]bool {
	var out [4]bool
	for i, l := range h.leds {
		out[i] = l.on.Load()
	}
	return out
}

// hostLogger writes lines to w and keeps the most recent ones for the
// terminal and window consoles.
type hostLogger struct {
	mu     sync.Mutex
	w      io.Writer
	echo   bool
	recent []string
	seq    uint64
}

const hostLoggerRecent = 32

func newHostLogger(w io.Writer) *hostLogger {
	return &hostLogger{w: w, echo: w != nil}
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.recent = append(l.recent, s)
	if len(l.recent) > hostLoggerRecent {
		l.recent = l.recent[len(l.recent)-hostLoggerRecent:]
	}
	l.seq++
	if l.echo && l.w != nil {
		fmt.Fprintln(l.w, s)
	}
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.WriteLineString(string(b))
}

// setEcho turns writing to the underlying writer on or off. Lines are kept
// in the recent buffer either way.
func (l *hostLogger) setEcho(on bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.echo = on && l.w != nil
}

// tail returns up to n recent lines, oldest first, and the sequence number
// of the newest line.
func (l *hostLogger) tail(n int) ([]string, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n <= 0 || n > len(l.recent) {
		n = len(l.recent)
	}
	out := make([]string, n)
	copy(out, l.recent[len(l.recent)-n:])
	return out, l.seq
}

type hostLED struct {
	on atomic.Bool
}

func (l *hostLED) High() { l.on.Store(true) }
func (l *hostLED) Low()  { l.on.Store(false) }
