//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// DefaultLoopHz is the main loop rate of the host runners when none is set.
const DefaultLoopHz = 200

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	// Hz is the main loop rate.
	Hz int
	// Ticks stops the runner after that many loop iterations (0 = run forever).
	Ticks uint64
	// Script lists button events by loop iteration, see ParseScript.
	Script string
}

// RunHeadless runs the firmware without opening a window. The LCD and the
// indicators are logged whenever they change.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	script, err := ParseScript(cfg.Script)
	if err != nil {
		return err
	}

	h := New().(*hostHAL)
	step := newApp(h)
	return runHeadless(ctx, h, step, cfg.Hz, cfg.Ticks, script)
}

func runHeadless(ctx context.Context, h *hostHAL, step func() error, hz int, limit uint64, script []ScriptEvent) error {
	var (
		shown [lcdRows]string
		word  uint8
	)
	report := func() {
		lines := h.lcd.Lines()
		w := h.ind.Read()
		if lines == shown && w == word {
			return
		}
		shown, word = lines, w
		h.logger.WriteLineString(fmt.Sprintf("lcd: [%s] [%s] leds=%04b", lines[0], lines[1], w))
	}

	err := runLoop(ctx, hz, limit, func(i uint64) error {
		for _, ev := range script {
			if ev.At == i {
				if ev.Until > ev.At {
					h.buttons.press(producerScript, ev.Button)
				} else {
					h.buttons.tap(producerScript, ev.Button)
				}
			}
			if ev.Until > ev.At && ev.Until == i {
				h.buttons.release(producerScript, ev.Button)
			}
		}
		if step != nil {
			if err := step(); err != nil {
				return err
			}
		}
		report()
		return nil
	})

	h.logger.WriteLineString(fmt.Sprintf("headless: ticks=%d overruns=%d dropped=%d",
		h.ticker.fires(), h.ticker.Overruns(), h.buttons.dropped.Load()))
	return err
}

// runLoop calls fn with the iteration number hz times per second until ctx
// is done, fn fails or limit iterations have run.
func runLoop(ctx context.Context, hz int, limit uint64, fn func(i uint64) error) error {
	if hz <= 0 {
		hz = DefaultLoopHz
	}
	d := time.Second / time.Duration(hz)
	if d <= 0 {
		return fmt.Errorf("hal: invalid loop rate: %d Hz", hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	for i := uint64(0); limit == 0 || i < limit; i++ {
		if err := fn(i); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
		}
	}
	return nil
}

// ScriptEvent is one scripted button action. A tap has Until == At; a hold
// presses the button at At and releases it at Until.
type ScriptEvent struct {
	Button int
	At     uint64
	Until  uint64
}

// ParseScript parses a comma separated list of "SWn@i" taps and "SWn@i-j"
// holds, where i and j are loop iterations.
func ParseScript(s string) ([]ScriptEvent, error) {
	var out []ScriptEvent
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		name, when, ok := strings.Cut(field, "@")
		if !ok {
			return nil, fmt.Errorf("hal: script %q: missing @", field)
		}
		button := -1
		for i, n := range buttonNames {
			if strings.EqualFold(strings.TrimSpace(name), n) {
				button = i
			}
		}
		if button < 0 {
			return nil, fmt.Errorf("hal: script %q: unknown button %q", field, name)
		}

		from, to, hold := strings.Cut(when, "-")
		at, err := strconv.ParseUint(strings.TrimSpace(from), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("hal: script %q: %w", field, err)
		}
		ev := ScriptEvent{Button: button, At: at, Until: at}
		if hold {
			until, err := strconv.ParseUint(strings.TrimSpace(to), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("hal: script %q: %w", field, err)
			}
			if until <= at {
				return nil, fmt.Errorf("hal: script %q: release before press", field)
			}
			ev.Until = until
		}
		out = append(out, ev)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].At < out[j].At })
	return out, nil
}
