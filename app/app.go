package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"stopwatch/hal"
	"stopwatch/internal/buildinfo"
	"stopwatch/watch/buttons"
	"stopwatch/watch/display"
	"stopwatch/watch/logger"
	"stopwatch/watch/ticks"
)

// DefaultLoopDelay is the pause between two main loop iterations.
const DefaultLoopDelay = 5 * time.Millisecond

// ErrFault is returned by Step after a fault stopped the firmware.
var ErrFault = errors.New("stopwatch: fault")

type Config struct {
	LoopDelay time.Duration
	Policy    display.Policy
	// Trace logs the flags and fired branches whenever they change.
	Trace bool
}

func (c Config) withDefaults() Config {
	if c.LoopDelay <= 0 {
		c.LoopDelay = DefaultLoopDelay
	}
	return c
}

// System is the wired stopwatch firmware.
type System struct {
	h      hal.HAL
	cfg    Config
	log    *logger.Logger
	clock  *ticks.Accumulator
	panel  *buttons.Machine
	ctrl   *display.Controller
	ticker hal.TickSource

	steps    uint64
	overruns uint64
	trace    string
	fault    error
}

// New configures the panel and registers the tick handler.
func New(h hal.HAL, cfg Config) (*System, error) {
	if h == nil {
		return nil, errors.New("stopwatch: nil HAL")
	}
	cfg = cfg.withDefaults()
	bootStep(h, "logger")

	s := &System{
		h:      h,
		cfg:    cfg,
		log:    logger.New(h.Logger(), logger.DefaultEntries),
		clock:  &ticks.Accumulator{},
		ticker: h.Ticker(),
	}

	bootStep(h, "buttons")
	s.panel = buttons.New(h.Input())
	if err := s.panel.Configure(); err != nil {
		return nil, fmt.Errorf("stopwatch: configure buttons: %w", err)
	}

	bootStep(h, "indicators")
	ind := h.Indicators()
	if ind != nil {
		ind.Write(0)
	}

	bootStep(h, "display")
	s.ctrl = display.New(display.Config{
		Display:    h.Display(),
		Ticker:     s.ticker,
		Indicators: ind,
		Clock:      s.clock,
		Log:        s.log,
		Policy:     cfg.Policy,
	})

	bootStep(h, "ticker")
	if s.ticker != nil {
		s.ticker.Handle(s.clock.Handler(s.ticker))
	}

	s.log.Logf("boot", "stopwatch %s rate=%dHz loop=%s policy=%s",
		buildinfo.String(), ticks.Rate, cfg.LoopDelay, cfg.Policy)
	return s, nil
}

// Step runs one main loop iteration: sample the buttons, refresh the
// display and drop the lap update request. A panic is turned into the fault
// screen and ErrFault.
func (s *System) Step() (err error) {
	if s.fault != nil {
		return s.fault
	}
	defer func() {
		if r := recover(); r != nil {
			s.fault = s.handleFault(r)
			err = s.fault
		}
	}()

	f := s.panel.Sample()
	if err := s.panel.Err(); err != nil {
		s.log.Log("input", err.Error())
	}
	branches := s.ctrl.Refresh(f)
	s.panel.ClearLapUpdate()
	s.steps++

	if s.cfg.Trace {
		s.traceStep(f, branches)
	}
	if s.ticker != nil {
		if n := s.ticker.Overruns(); n != s.overruns {
			s.log.Logf("tick", "overruns=%d", n)
			s.overruns = n
		}
	}
	return nil
}

// Log returns the firmware log.
func (s *System) Log() *logger.Logger { return s.log }

// Clock returns the elapsed time accumulator.
func (s *System) Clock() *ticks.Accumulator { return s.clock }

// Controller returns the display controller.
func (s *System) Controller() *display.Controller { return s.ctrl }

// Steps reports how many iterations completed.
func (s *System) Steps() uint64 { return s.steps }

func (s *System) traceStep(f buttons.Flags, branches []display.Branch) {
	names := make([]string, len(branches))
	for i, b := range branches {
		names[i] = b.String()
	}
	line := fmt.Sprintf("flags=%s branches=[%s] time=%s", f, strings.Join(names, " "), s.ctrl.Buffer())
	if line == s.trace {
		return
	}
	s.trace = line
	s.log.Log("trace", line)
}

// Run steps the firmware until ctx is done or a fault occurs.
func Run(ctx context.Context, h hal.HAL, cfg Config) error {
	cfg = cfg.withDefaults()
	s, err := New(h, cfg)
	if err != nil {
		if h != nil && h.Logger() != nil {
			h.Logger().WriteLineString(err.Error())
		}
		return err
	}

	t := time.NewTicker(cfg.LoopDelay)
	defer t.Stop()
	for {
		if err := s.Step(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
}

// NewWithConfig builds the firmware and returns its loop step, for the host
// runners that own the loop.
func NewWithConfig(h hal.HAL, cfg Config) func() error {
	s, err := New(h, cfg)
	if err != nil {
		if h != nil && h.Logger() != nil {
			h.Logger().WriteLineString(err.Error())
		}
		return func() error { return err }
	}
	return s.Step
}
