package app

import (
	"fmt"
	"runtime/debug"
	"strings"

	"stopwatch/hal"
)

// FaultText is the first LCD line of the fault screen.
const FaultText = "FAULT"

// faultIndicators lights every indicator.
const faultIndicators = 0x0F

// handleFault stops the tick source and shows the fault screen. The returned
// error wraps ErrFault.
func (s *System) handleFault(value any) error {
	showFault(s.h, value, debug.Stack())
	s.log.Logf("fault", "%v", value)
	return fmt.Errorf("%w: %v", ErrFault, value)
}

func showFault(h hal.HAL, value any, stack []byte) {
	if l := h.Logger(); l != nil {
		l.WriteLineString(fmt.Sprintf("Stopwatch fault: %v", value))
		for _, line := range strings.Split(string(stack), "\n") {
			if line == "" {
				continue
			}
			l.WriteLineString(line)
		}
	}

	if t := h.Ticker(); t != nil {
		t.Disarm()
	}
	if ind := h.Indicators(); ind != nil {
		ind.Write(faultIndicators)
	}

	disp := h.Display()
	if disp == nil {
		return
	}
	disp.Clear()
	disp.WriteString(FaultText)
	disp.GotoLineTwo()
	disp.WriteString(faultReason(value, 16))
}

// faultReason renders value on at most n printable ASCII bytes.
func faultReason(value any, n int) string {
	s := fmt.Sprint(value)
	var b strings.Builder
	for i := 0; i < len(s) && b.Len() < n; i++ {
		c := s[i]
		if c < 0x20 || c > 0x7E {
			c = ' '
		}
		b.WriteByte(c)
	}
	return b.String()
}
