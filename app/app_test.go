package app

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"stopwatch/hal"
	"stopwatch/watch/display"
)

type fakeLCD struct {
	lines [2]strings.Builder
	row   int
}

func (d *fakeLCD) Clear() {
	d.lines[0].Reset()
	d.lines[1].Reset()
	d.row = 0
}
func (d *fakeLCD) GotoLineTwo()         { d.row = 1 }
func (d *fakeLCD) WriteString(s string) { d.lines[d.row].WriteString(s) }
func (d *fakeLCD) text() [2]string      { return [2]string{d.lines[0].String(), d.lines[1].String()} }

type fakePin struct {
	name     string
	level    bool
	mode     hal.GPIOMode
	pull     hal.GPIOPull
	failConf bool
}

func (p *fakePin) Name() string        { return p.name }
func (p *fakePin) Caps() hal.GPIOCaps  { return hal.GPIOCapInput | hal.GPIOCapPullUp }
func (p *fakePin) Read() (bool, error) { return p.level, nil }
func (p *fakePin) Write(bool) error    { return hal.ErrNotImplemented }
func (p *fakePin) Configure(mode hal.GPIOMode, pull hal.GPIOPull) error {
	if p.failConf {
		return errors.New("broken")
	}
	p.mode, p.pull = mode, pull
	return nil
}

type fakeInput struct {
	pins [hal.ButtonCount]*fakePin
	boom bool
}

func (in *fakeInput) Poll() {
	if in.boom {
		panic("input port stuck")
	}
}

func (in *fakeInput) Buttons() [hal.ButtonCount]hal.GPIOPin {
	var out [hal.ButtonCount]hal.GPIOPin
	for i, p := range in.pins {
		out[i] = p
	}
	return out
}

// press holds button b down for the next sample only.
func (in *fakeInput) press(b int) {
	in.pins[b].level = false
}

func (in *fakeInput) releaseAll() {
	for _, p := range in.pins {
		p.level = true
	}
}

type manualTicker struct {
	fn       func()
	armed    bool
	acks     int
	overruns uint64
}

func (t *manualTicker) Handle(fn func()) { t.fn = fn }
func (t *manualTicker) Arm()             { t.armed = true }
func (t *manualTicker) Disarm()          { t.armed = false }
func (t *manualTicker) Armed() bool      { return t.armed }
func (t *manualTicker) Ack()             { t.acks++ }
func (t *manualTicker) Overruns() uint64 { return t.overruns }

// tick delivers n ticks if armed.
func (t *manualTicker) tick(n int) {
	for i := 0; i < n && t.armed; i++ {
		t.fn()
	}
}

type fakePort struct{ word uint8 }

func (p *fakePort) Write(word uint8) { p.word = word }
func (p *fakePort) Read() uint8      { return p.word }

type lineLog struct{ lines []string }

func (l *lineLog) WriteLineString(s string) { l.lines = append(l.lines, s) }
func (l *lineLog) WriteLineBytes(b []byte)  { l.lines = append(l.lines, string(b)) }

type fakeHAL struct {
	log    *lineLog
	lcd    *fakeLCD
	in     *fakeInput
	port   *fakePort
	ticker *manualTicker
}

func newFakeHAL() *fakeHAL {
	h := &fakeHAL{
		log:    &lineLog{},
		lcd:    &fakeLCD{},
		in:     &fakeInput{},
		port:   &fakePort{},
		ticker: &manualTicker{},
	}
	for i := range h.in.pins {
		h.in.pins[i] = &fakePin{name: "SW", level: true}
	}
	return h
}

func (h *fakeHAL) Logger() hal.Logger     { return h.log }
func (h *fakeHAL) Display() hal.Display   { return h.lcd }
func (h *fakeHAL) Input() hal.Input       { return h.in }
func (h *fakeHAL) Indicators() hal.Port   { return h.port }
func (h *fakeHAL) Ticker() hal.TickSource { return h.ticker }

func mustStep(t *testing.T, s *System) {
	t.Helper()
	if err := s.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}
}

func TestBootShowsResetScreen(t *testing.T) {
	h := newFakeHAL()
	s, err := New(h, Config{})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range h.in.pins {
		if p.mode != hal.GPIOModeInput || p.pull != hal.GPIOPullUp {
			t.Fatalf("pin not configured as pulled-up input: %+v", p)
		}
	}

	mustStep(t, s)
	if got := h.lcd.text(); got != [2]string{display.TitleText, display.PromptText} {
		t.Fatalf("LCD = %q", got)
	}
	if h.port.word != display.IndicatorReset {
		t.Fatalf("indicators = %04b", h.port.word)
	}
	if h.ticker.armed {
		t.Fatal("ticker armed at boot")
	}
	if len(h.log.lines) == 0 || !strings.HasPrefix(h.log.lines[0], "boot: stopwatch") {
		t.Fatalf("boot log = %q", h.log.lines)
	}
}

func TestStopwatchSession(t *testing.T) {
	h := newFakeHAL()
	s, err := New(h, Config{})
	if err != nil {
		t.Fatal(err)
	}
	mustStep(t, s)

	step := func(button int) {
		t.Helper()
		if button >= 0 {
			h.in.press(button)
		}
		mustStep(t, s)
		h.in.releaseAll()
	}

	step(0)
	if !h.ticker.armed || h.port.word != display.IndicatorRun {
		t.Fatalf("start: armed=%v indicators=%04b", h.ticker.armed, h.port.word)
	}

	h.ticker.tick(1234)
	step(-1)
	if got := h.lcd.text(); got != [2]string{display.TimeText, "00:12.34"} {
		t.Fatalf("running LCD = %q", got)
	}
	if h.ticker.acks != 1234 {
		t.Fatalf("acks = %d, want 1234", h.ticker.acks)
	}

	step(1)
	h.ticker.tick(500)
	step(-1)
	if got := h.lcd.text()[1]; got != "00:12.34" {
		t.Fatalf("lap LCD = %q, want frozen 00:12.34", got)
	}
	if h.port.word != display.IndicatorLap {
		t.Fatalf("lap indicators = %04b", h.port.word)
	}

	step(2)
	if h.ticker.armed || h.port.word != display.IndicatorStop {
		t.Fatalf("stop: armed=%v indicators=%04b", h.ticker.armed, h.port.word)
	}
	if got := h.lcd.text()[1]; got != "00:12.34" {
		t.Fatalf("stop LCD = %q", got)
	}

	step(0)
	h.ticker.tick(100)
	step(-1)
	if got := h.lcd.text()[1]; got != "00:18.34" {
		t.Fatalf("resumed LCD = %q, want 00:18.34", got)
	}

	step(3)
	if got := h.lcd.text(); got != [2]string{display.TitleText, display.PromptText} {
		t.Fatalf("reset LCD = %q", got)
	}
	if e := s.Clock().Snapshot().Elapsed; e.Minutes != 0 || e.Seconds != 0 || e.Hundredths != 0 {
		t.Fatalf("reset left %+v", e)
	}
	if s.Steps() != 9 {
		t.Fatalf("Steps() = %d, want 9", s.Steps())
	}
}

func TestStepFaultScreen(t *testing.T) {
	h := newFakeHAL()
	s, err := New(h, Config{})
	if err != nil {
		t.Fatal(err)
	}
	h.ticker.Arm()
	h.in.boom = true

	err = s.Step()
	if !errors.Is(err, ErrFault) {
		t.Fatalf("Step = %v, want ErrFault", err)
	}
	if got := h.lcd.text(); got[0] != FaultText || got[1] != "input port stuck" {
		t.Fatalf("fault LCD = %q", got)
	}
	if h.port.word != faultIndicators {
		t.Fatalf("fault indicators = %04b", h.port.word)
	}
	if h.ticker.armed {
		t.Fatal("fault left the ticker armed")
	}

	h.in.boom = false
	if err2 := s.Step(); err2 != err {
		t.Fatalf("second Step = %v, want the same fault", err2)
	}
}

func TestNewRejectsBrokenButtons(t *testing.T) {
	h := newFakeHAL()
	h.in.pins[2].failConf = true
	if _, err := New(h, Config{}); err == nil || !strings.Contains(err.Error(), "SW2") {
		t.Fatalf("New = %v, want SW2 configuration error", err)
	}

	step := NewWithConfig(h, Config{})
	if err := step(); err == nil {
		t.Fatal("step of a failed boot returned nil")
	}
}

func TestTraceLogsChangesOnly(t *testing.T) {
	h := newFakeHAL()
	s, err := New(h, Config{Trace: true, Policy: display.PolicyExclusive})
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		mustStep(t, s)
	}

	var traces int
	for _, l := range h.log.lines {
		if strings.HasPrefix(l, "trace:") {
			traces++
		}
	}
	if traces != 1 {
		t.Fatalf("trace lines = %d, want 1: %q", traces, h.log.lines)
	}
}

func TestOverrunsAreLogged(t *testing.T) {
	h := newFakeHAL()
	s, err := New(h, Config{})
	if err != nil {
		t.Fatal(err)
	}
	mustStep(t, s)
	h.ticker.overruns = 3
	mustStep(t, s)

	last := h.log.lines[len(h.log.lines)-1]
	if last != "tick: overruns=3" {
		t.Fatalf("last log = %q", last)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newFakeHAL()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	err := Run(ctx, h, Config{LoopDelay: time.Millisecond})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Run = %v, want deadline exceeded", err)
	}
}
