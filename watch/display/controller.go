// Package display drives the LCD, the tick source and the indicator LEDs from
// the current mode flags, once per loop iteration.
package display

import (
	"stopwatch/hal"
	"stopwatch/watch/buttons"
	"stopwatch/watch/logger"
	"stopwatch/watch/ticks"
	"stopwatch/watch/timefmt"
)

// Screen text.
const (
	TitleText  = "Stopwatch"
	PromptText = "Press SW0..."
	TimeText   = "Time"
)

// Indicator words, one bit per branch.
const (
	IndicatorRun   uint8 = 1 << 0
	IndicatorLap   uint8 = 1 << 1
	IndicatorStop  uint8 = 1 << 2
	IndicatorReset uint8 = 1 << 3
)

// Branch is one of the four refresh branches.
type Branch uint8

const (
	BranchReset Branch = iota
	BranchRun
	BranchLap
	BranchStop
)

func (b Branch) String() string {
	switch b {
	case BranchReset:
		return "reset"
	case BranchRun:
		return "run"
	case BranchLap:
		return "lap"
	case BranchStop:
		return "stop"
	default:
		return "unknown"
	}
}

// Policy selects how contradictory flag combinations are rendered.
type Policy uint8

const (
	// PolicyCascade evaluates all four branches in order; every true branch
	// writes to the display and the last one stays visible.
	PolicyCascade Policy = iota
	// PolicyExclusive runs only the branch selected by Flags.Mode.
	PolicyExclusive
)

func (p Policy) String() string {
	if p == PolicyExclusive {
		return "exclusive"
	}
	return "cascade"
}

// Config wires a Controller to its collaborators.
type Config struct {
	Display    hal.Display
	Ticker     hal.TickSource
	Indicators hal.Port
	Clock      *ticks.Accumulator
	Log        *logger.Logger
	Policy     Policy
}

// Controller renders the stopwatch state.
type Controller struct {
	disp   hal.Display
	ticker hal.TickSource
	ind    hal.Port
	clock  *ticks.Accumulator
	log    *logger.Logger
	policy Policy

	buf      timefmt.Buffer
	mode     buttons.Mode
	formats  uint64
	branches []Branch
}

// New returns a controller. Clock must not be nil.
func New(cfg Config) *Controller {
	return &Controller{
		disp:     cfg.Display,
		ticker:   cfg.Ticker,
		ind:      cfg.Indicators,
		clock:    cfg.Clock,
		log:      cfg.Log,
		policy:   cfg.Policy,
		buf:      timefmt.Blank(),
		mode:     buttons.ModeNone,
		branches: make([]Branch, 0, 4),
	}
}

// Refresh runs one display iteration for f and returns the branches that
// fired, in order. The returned slice is reused by the next call.
func (c *Controller) Refresh(f buttons.Flags) []Branch {
	c.branches = c.branches[:0]
	c.noteMode(f)

	c.clear()

	reset := f.Reset
	run := f.Running && !(f.LapLatched || f.Stopped)
	lap := f.Running && f.LapLatched
	stop := f.Running && f.Stopped

	if c.policy == PolicyExclusive {
		m := f.Mode()
		reset = m == buttons.ModeIdle
		run = m == buttons.ModeRunning
		lap = m == buttons.ModeLapped
		stop = m == buttons.ModeStopped
	}

	if reset {
		c.clear()
		c.write(TitleText)
		c.lineTwo()
		c.write(PromptText)
		c.disarm()
		c.clock.Reset()
		c.indicate(IndicatorReset)
		c.branches = append(c.branches, BranchReset)
	}
	if run {
		c.arm()
		c.reformat()
		c.showTime()
		c.indicate(IndicatorRun)
		c.branches = append(c.branches, BranchRun)
	}
	if lap {
		if f.LapUpdate {
			c.reformat()
		}
		c.showTime()
		c.indicate(IndicatorLap)
		c.branches = append(c.branches, BranchLap)
	}
	if stop {
		c.disarm()
		c.showTime()
		c.indicate(IndicatorStop)
		c.branches = append(c.branches, BranchStop)
	}
	return c.branches
}

// Buffer returns the latched time text.
func (c *Controller) Buffer() timefmt.Buffer { return c.buf }

// Formats reports how many times the buffer was regenerated.
func (c *Controller) Formats() uint64 { return c.formats }

// Mode returns the mode of the last refresh.
func (c *Controller) Mode() buttons.Mode { return c.mode }

func (c *Controller) noteMode(f buttons.Flags) {
	m := f.Mode()
	if m == c.mode {
		return
	}
	c.log.Logf("watch", "mode %s -> %s flags=%s time=%s", c.mode, m, f, c.buf)
	c.mode = m
}

func (c *Controller) reformat() {
	c.buf = timefmt.FormatSnapshot(c.clock.Snapshot())
	c.formats++
}

func (c *Controller) showTime() {
	c.write(TimeText)
	c.lineTwo()
	c.write(c.buf.String())
}

func (c *Controller) clear() {
	if c.disp != nil {
		c.disp.Clear()
	}
}

func (c *Controller) lineTwo() {
	if c.disp != nil {
		c.disp.GotoLineTwo()
	}
}

func (c *Controller) write(s string) {
	if c.disp != nil {
		c.disp.WriteString(s)
	}
}

func (c *Controller) arm() {
	if c.ticker != nil {
		c.ticker.Arm()
	}
}

func (c *Controller) disarm() {
	if c.ticker != nil {
		c.ticker.Disarm()
	}
}

func (c *Controller) indicate(word uint8) {
	if c.ind != nil {
		c.ind.Write(word)
	}
}
