//go:build tinygo && bootdebug

package app

import (
	"machine"
	"sync"
	"time"

	"stopwatch/hal"
)

var (
	bootDiagMu   sync.Mutex
	bootDiagStep string
	bootDiagOnce sync.Once
)

func bootDiagSetStep(msg string) {
	bootDiagMu.Lock()
	bootDiagStep = msg
	bootDiagMu.Unlock()
}

// bootStep records the current boot step, shows it on the LCD and starts
// the diagnostics stream on first use.
func bootStep(h hal.HAL, msg string) {
	bootDiagOnce.Do(func() { bootDiagStart(h) })
	bootScreen(h, msg)
}

func bootDiagStart(h hal.HAL) {
	if h == nil {
		return
	}
	l := h.Logger()
	t := h.Ticker()

	go func() {
		for {
			bootDiagMu.Lock()
			step := bootDiagStep
			bootDiagMu.Unlock()

			if step == "" {
				step = "<empty>"
			}
			line := "bootdiag: " + step
			if t != nil {
				line += " armed=" + boolString(t.Armed())
			}
			if l != nil {
				l.WriteLineString(line)
			}

			// Also stream to USB CDC when it becomes available.
			if usb := machine.USBCDC; usb != nil {
				_, _ = usb.Write([]byte(line + "\r\n"))
			}

			time.Sleep(250 * time.Millisecond)
		}
	}()
}

func boolString(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
