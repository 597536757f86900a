package buttons

import (
	"errors"
	"testing"

	"stopwatch/hal"
)

func TestApplySingleButtons(t *testing.T) {
	tests := []struct {
		name    string
		pressed Button
		want    Flags
	}{
		{"start", SW0, Flags{Running: true}},
		{"lap", SW1, Flags{Running: true, LapLatched: true, LapUpdate: true}},
		{"stop", SW2, Flags{Running: true, Stopped: true}},
		{"reset", SW3, Flags{Reset: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var pressed [hal.ButtonCount]bool
			pressed[tt.pressed] = true
			got := Apply(PowerOn, pressed)
			if got != tt.want {
				t.Fatalf("Apply(%s) = %s, want %s", tt.pressed, got, tt.want)
			}
		})
	}
}

func TestApplyNothingPressedKeepsFlags(t *testing.T) {
	start := Flags{Running: true, LapLatched: true, LapUpdate: true}
	if got := Apply(start, [hal.ButtonCount]bool{}); got != start {
		t.Fatalf("Apply(none) = %s, want %s", got, start)
	}
}

func TestApplyHeldButtonIsIdempotent(t *testing.T) {
	pressed := [hal.ButtonCount]bool{SW2: true}
	once := Apply(PowerOn, pressed)
	twice := Apply(once, pressed)
	if once != twice {
		t.Fatalf("held SW2: %s then %s", once, twice)
	}
}

func TestApplySimultaneousPresses(t *testing.T) {
	tests := []struct {
		name    string
		pressed [hal.ButtonCount]bool
		want    Flags
	}{
		{"start+lap", [4]bool{true, true, false, false}, Flags{Running: true, LapLatched: true, LapUpdate: true}},
		{"lap+stop", [4]bool{false, true, true, false}, Flags{Running: true, Stopped: true, LapUpdate: true}},
		{"stop+reset", [4]bool{false, false, true, true}, Flags{Reset: true}},
		{"all", [4]bool{true, true, true, true}, Flags{Reset: true, LapUpdate: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Apply(Flags{}, tt.pressed); got != tt.want {
				t.Fatalf("Apply = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestModePrecedence(t *testing.T) {
	tests := []struct {
		flags Flags
		want  Mode
	}{
		{Flags{}, ModeNone},
		{Flags{Reset: true}, ModeIdle},
		{Flags{Running: true}, ModeRunning},
		{Flags{Running: true, LapLatched: true}, ModeLapped},
		{Flags{Running: true, Stopped: true}, ModeStopped},
		{Flags{Running: true, LapLatched: true, Stopped: true}, ModeStopped},
		{Flags{Running: true, Reset: true}, ModeRunning},
		{Flags{LapLatched: true, Stopped: true}, ModeNone},
		{Flags{Stopped: true, Reset: true}, ModeIdle},
	}

	for _, tt := range tests {
		if got := tt.flags.Mode(); got != tt.want {
			t.Errorf("%s.Mode() = %s, want %s", tt.flags, got, tt.want)
		}
	}
}

type fakePin struct {
	level bool
	err   error
	mode  hal.GPIOMode
	pull  hal.GPIOPull
}

func (p *fakePin) Name() string        { return "fake" }
func (p *fakePin) Caps() hal.GPIOCaps  { return hal.GPIOCapInput | hal.GPIOCapPullUp }
func (p *fakePin) Write(bool) error    { return hal.ErrNotImplemented }
func (p *fakePin) Read() (bool, error) { return p.level, p.err }
func (p *fakePin) Configure(mode hal.GPIOMode, pull hal.GPIOPull) error {
	p.mode, p.pull = mode, pull
	return nil
}

type fakeInput struct {
	pins  [hal.ButtonCount]*fakePin
	polls int
}

func newFakeInput() *fakeInput {
	in := &fakeInput{}
	for i := range in.pins {
		in.pins[i] = &fakePin{level: true}
	}
	return in
}

func (in *fakeInput) Poll() { in.polls++ }

func (in *fakeInput) Buttons() [hal.ButtonCount]hal.GPIOPin {
	var out [hal.ButtonCount]hal.GPIOPin
	for i, p := range in.pins {
		out[i] = p
	}
	return out
}

func TestMachineSampleActiveLow(t *testing.T) {
	in := newFakeInput()
	m := New(in)
	if err := m.Configure(); err != nil {
		t.Fatalf("Configure: %v", err)
	}
	for i, p := range in.pins {
		if p.mode != hal.GPIOModeInput || p.pull != hal.GPIOPullUp {
			t.Fatalf("pin %d configured %v/%v, want input/pull-up", i, p.mode, p.pull)
		}
	}

	if got := m.Flags(); got != PowerOn {
		t.Fatalf("power-on flags = %s, want %s", got, PowerOn)
	}

	if got := m.Sample(); got != PowerOn {
		t.Fatalf("Sample with nothing pressed = %s, want %s", got, PowerOn)
	}

	in.pins[SW1].level = false
	got := m.Sample()
	want := Flags{Running: true, LapLatched: true, LapUpdate: true}
	if got != want {
		t.Fatalf("Sample with SW1 low = %s, want %s", got, want)
	}

	in.pins[SW1].level = true
	m.ClearLapUpdate()
	if got := m.Sample(); got.LapUpdate || !got.LapLatched {
		t.Fatalf("after release = %s, want latched lap without update", got)
	}
	if in.polls != 3 {
		t.Fatalf("polls = %d, want 3", in.polls)
	}
}

func TestMachineReadErrorCountsAsReleased(t *testing.T) {
	in := newFakeInput()
	m := New(in)

	in.pins[SW0].level = false
	in.pins[SW0].err = errors.New("bus fault")

	if got := m.Sample(); got != PowerOn {
		t.Fatalf("Sample = %s, want %s", got, PowerOn)
	}
	if m.Err() == nil {
		t.Fatal("Err() = nil after a failed read")
	}

	in.pins[SW0].err = nil
	m.Sample()
	if m.Err() != nil {
		t.Fatalf("Err() = %v after a clean sample", m.Err())
	}
}

func TestFlagsString(t *testing.T) {
	if got := (Flags{Running: true, Stopped: true}).String(); got != "R-S--" {
		t.Fatalf("String() = %q", got)
	}
}
