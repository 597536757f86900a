//go:build tinygo && bootdebug

package app

import "stopwatch/hal"

func bootScreen(h hal.HAL, msg string) {
	bootDiagSetStep(msg)
	if h == nil {
		return
	}
	disp := h.Display()
	if disp == nil {
		return
	}
	disp.Clear()
	disp.WriteString("Stopwatch boot")
	disp.GotoLineTwo()
	disp.WriteString(msg)
}
