//go:build !tinygo && !windows

package hal

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestTerminalKeyButton(t *testing.T) {
	for c, want := range map[byte]int{'0': 0, 's': 0, 'L': 1, '2': 2, 't': 2, '3': 3, 'R': 3} {
		got, ok := terminalKeyButton(c)
		if !ok || got != want {
			t.Errorf("terminalKeyButton(%q) = %d, %v; want %d", c, got, ok, want)
		}
	}
	if _, ok := terminalKeyButton('x'); ok {
		t.Error("x mapped to a button")
	}
}

func TestReadTerminalKeysTapsAndQuits(t *testing.T) {
	p := configuredPanel(t)
	quit := make(chan struct{})

	done := make(chan struct{})
	go func() {
		defer close(done)
		readTerminalKeys(context.Background(), strings.NewReader("1xq2"), p, func() { close(quit) })
	}()

	select {
	case <-quit:
	case <-time.After(2 * time.Second):
		t.Fatal("q did not quit")
	}
	<-done

	p.Poll()
	if got := p.pressed(); got != [ButtonCount]bool{false, true, false, false} {
		t.Fatalf("pressed = %v", got)
	}
}

func TestDrawTerminal(t *testing.T) {
	h := newHostHAL(nil)
	h.lcd.WriteString("Time")
	h.lcd.GotoLineTwo()
	h.lcd.WriteString("00:12.34")
	h.ind.Write(0b0001)
	h.logger.WriteLineString("watch: mode idle -> running")

	var buf bytes.Buffer
	drawTerminal(&buf, h, 4)
	out := buf.String()

	for _, want := range []string{"Time            ", "00:12.34        ", "watch: mode idle -> running", "RUN"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
