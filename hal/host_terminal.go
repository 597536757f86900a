//go:build !tinygo && !windows

package hal

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/term"
)

// TerminalConfig controls the text terminal runner.
type TerminalConfig struct {
	// Device is the controlling terminal to read keys from.
	Device string
	// Hz is the main loop rate.
	Hz int
	// LogLines is the number of log lines shown under the panel.
	LogLines int
}

const terminalRedraw = 50 * time.Millisecond

// RunTerminal runs the firmware in the current terminal. Keys 0-3 (or s, l,
// t, r) tap the buttons, q quits.
func RunTerminal(ctx context.Context, newApp func(HAL) func() error, cfg TerminalConfig) error {
	if cfg.Device == "" {
		cfg.Device = "/dev/tty"
	}
	if cfg.LogLines <= 0 {
		cfg.LogLines = 6
	}

	tty, err := term.Open(cfg.Device, term.CBreakMode, term.ReadTimeout(100*time.Millisecond))
	if err != nil {
		return fmt.Errorf("hal: terminal %s: %w", cfg.Device, err)
	}
	defer tty.Close()
	defer tty.Restore()

	h := New().(*hostHAL)
	h.logger.setEcho(false)
	defer h.logger.setEcho(true)

	step := newApp(h)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go readTerminalKeys(ctx, tty, h.buttons, cancel)

	fmt.Fprint(os.Stdout, "\x1b[?25l")
	defer fmt.Fprint(os.Stdout, "\x1b[?25h\n")

	var last time.Time
	return runLoop(ctx, cfg.Hz, 0, func(uint64) error {
		if step != nil {
			if err := step(); err != nil {
				return err
			}
		}
		if now := time.Now(); now.Sub(last) >= terminalRedraw {
			last = now
			drawTerminal(os.Stdout, h, cfg.LogLines)
		}
		return nil
	})
}

func readTerminalKeys(ctx context.Context, r io.Reader, p *buttonPanel, quit func()) {
	buf := make([]byte, 16)
	for ctx.Err() == nil {
		n, err := r.Read(buf)
		if err != nil && err != io.EOF {
			quit()
			return
		}
		for _, c := range buf[:n] {
			if c == 'q' || c == 'Q' || c == 0x03 {
				quit()
				return
			}
			if b, ok := terminalKeyButton(c); ok {
				p.tap(producerTerminal, b)
			}
		}
	}
}

func terminalKeyButton(c byte) (int, bool) {
	switch c {
	case '0', 's', 'S':
		return 0, true
	case '1', 'l', 'L':
		return 1, true
	case '2', 't', 'T':
		return 2, true
	case '3', 'r', 'R':
		return 3, true
	}
	return 0, false
}

// drawTerminal repaints the panel from the top left corner.
func drawTerminal(w io.Writer, h *hostHAL, logLines int) {
	var b strings.Builder
	b.WriteString("\x1b[H\x1b[2J")

	border := "+" + strings.Repeat("-", lcdVisibleCols+2) + "+\r\n"
	b.WriteString(border)
	for _, line := range h.lcd.Lines() {
		b.WriteString("| \x1b[7m")
		b.WriteString(line)
		b.WriteString("\x1b[0m |\r\n")
	}
	b.WriteString(border)

	for i, on := range h.ledStates() {
		mark := " "
		if on {
			mark = "\x1b[1;31m*\x1b[0m"
		}
		fmt.Fprintf(&b, "[%s] %-6s", mark, indicatorText[i])
	}
	b.WriteString("\r\n\r\n")

	lines, _ := h.logger.tail(logLines)
	for _, line := range lines {
		b.WriteString(line)
		b.WriteString("\r\n")
	}
	b.WriteString("\r\n0/s start  1/l lap  2/t stop  3/r reset  q quit\r\n")

	io.WriteString(w, b.String())
}
