//go:build !tinygo

package hal

import (
	"image/color"
	"strings"

	"stopwatch/internal/lcdfont"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"
)

// Panel geometry in framebuffer pixels.
const (
	panelWidth  = 240
	panelHeight = 168

	lcdScale   = 2
	lcdBezelX  = 12
	lcdBezelY  = 8
	lcdMargin  = 12
	lcdRowGap  = 2
	ledSize    = 12
	ledY       = 76
	ledPitch   = 54
	ledX       = 24
	consoleY   = 108
	consoleFH  = 10
	consoleOff = 6
)

var (
	colorBezel    = color.RGBA{0x20, 0x20, 0x24, 0xFF}
	colorLCD      = color.RGBA{0x9C, 0xC2, 0x3C, 0xFF}
	colorLCDCell  = color.RGBA{0x8C, 0xB0, 0x34, 0xFF}
	colorLCDInk   = color.RGBA{0x1E, 0x2A, 0x10, 0xFF}
	colorLEDOff   = color.RGBA{0x40, 0x18, 0x18, 0xFF}
	colorLEDOn    = color.RGBA{0xFF, 0x30, 0x30, 0xFF}
	colorLabel    = color.RGBA{0xC0, 0xC0, 0xC0, 0xFF}
	colorConsole  = color.RGBA{0x00, 0x00, 0x00, 0xFF}
	indicatorText = [4]string{"RUN", "LAP", "STOP", "RESET"}
)

// panel renders the stopwatch front panel: the character LCD, the indicator
// LEDs and a console with recent log lines.
type panel struct {
	h  *hostHAL
	fb *hostFramebuffer

	lcdView   *fbDisplay
	labelView *fbDisplay
	console   *fbDisplay

	term     *tinyterm.Terminal
	termRows int
	termCols int
	used     int

	drawn   bool
	lastGen uint64
	lastLED [4]bool
	lastSeq uint64
}

func newPanel(h *hostHAL) *panel {
	fb := newHostFramebuffer(panelWidth, panelHeight)
	lcdW := lcdVisibleCols*lcdfont.CellWidth + 2*lcdMargin/lcdScale
	lcdH := lcdRows*(lcdfont.GlyphHeight+lcdRowGap) + 2*lcdMargin/lcdScale
	p := &panel{
		h:         h,
		fb:        fb,
		lcdView:   newFBDisplay(fb, lcdBezelX, lcdBezelY, lcdW, lcdH, lcdScale),
		labelView: newFBDisplay(fb, 0, 0, panelWidth, consoleY, 1),
		console:   newFBDisplay(fb, 0, consoleY, panelWidth, panelHeight-consoleY, 1),
	}
	p.termRows = (panelHeight - consoleY) / consoleFH
	_, adv := tinyfont.LineWidth(&proggy.TinySZ8pt7b, "M")
	if adv == 0 {
		adv = 6
	}
	p.termCols = panelWidth / int(adv)
	return p
}

// render redraws whatever changed since the previous call and reports
// whether the framebuffer was touched.
func (p *panel) render() bool {
	gen := p.h.lcd.generation()
	leds := p.h.ledStates()
	lines, seq := p.h.logger.tail(p.termRows)

	if p.drawn && gen == p.lastGen && leds == p.lastLED && seq == p.lastSeq {
		return false
	}

	p.fb.draw(func() {
		if !p.drawn {
			p.fb.fillRGB(colorBezel.R, colorBezel.G, colorBezel.B)
			p.drawLabels()
			p.resetConsole()
		}
		if !p.drawn || gen != p.lastGen {
			p.drawLCD()
		}
		if !p.drawn || leds != p.lastLED {
			p.drawLEDs(leds)
		}
		if !p.drawn || seq != p.lastSeq {
			fresh := int(seq - p.lastSeq)
			if fresh > len(lines) {
				fresh = len(lines)
			}
			p.writeConsole(lines, fresh)
		}
	})

	p.drawn = true
	p.lastGen = gen
	p.lastLED = leds
	p.lastSeq = seq
	return true
}

func (p *panel) drawLCD() {
	w, h := p.lcdView.Size()
	_ = p.lcdView.FillRectangle(0, 0, w, h, colorLCD)

	x0 := int16(lcdMargin / lcdScale)
	y0 := int16(lcdMargin / lcdScale)
	for row, text := range p.h.lcd.Lines() {
		y := y0 + int16(row*(lcdfont.GlyphHeight+lcdRowGap))
		for col := 0; col < lcdVisibleCols; col++ {
			x := x0 + int16(col*lcdfont.CellWidth)
			_ = p.lcdView.FillRectangle(x, y, lcdfont.GlyphWidth, lcdfont.GlyphHeight, colorLCDCell)
		}
		tinyfont.WriteLine(p.lcdView, lcdfont.Font, x0, y+lcdfont.GlyphHeight-1, text, colorLCDInk)
	}
}

func (p *panel) drawLabels() {
	for i, name := range indicatorText {
		x := int16(ledX + i*ledPitch)
		tinyfont.WriteLine(p.labelView, lcdfont.Font, x, ledY+ledSize+lcdfont.GlyphHeight+2, name, colorLabel)
	}
}

func (p *panel) drawLEDs(leds [4]bool) {
	for i, on := range leds {
		c := colorLEDOff
		if on {
			c = colorLEDOn
		}
		_ = p.labelView.FillRectangle(int16(ledX+i*ledPitch), ledY, ledSize, ledSize, c)
	}
}

// resetConsole starts the console over with an empty screen.
func (p *panel) resetConsole() {
	w, h := p.console.Size()
	_ = p.console.FillRectangle(0, 0, w, h, colorConsole)
	p.term = tinyterm.NewTerminal(p.console)
	p.term.Configure(&tinyterm.Config{
		Font:       &proggy.TinySZ8pt7b,
		FontHeight: consoleFH,
		FontOffset: consoleOff,
	})
	p.used = 0
}

// writeConsole appends the last fresh entries of lines. When they do not fit,
// the console is cleared and refilled with the most recent lines instead of
// scrolling.
func (p *panel) writeConsole(lines []string, fresh int) {
	if fresh <= 0 {
		return
	}
	if p.used+fresh > p.termRows {
		p.resetConsole()
		fresh = len(lines)
		if fresh > p.termRows {
			fresh = p.termRows
		}
	}
	for _, line := range lines[len(lines)-fresh:] {
		line = strings.TrimRight(line, "\r\n")
		if len(line) >= p.termCols {
			line = line[:p.termCols-1]
		}
		if p.used > 0 {
			_, _ = p.term.Write([]byte("\r\n"))
		}
		_, _ = p.term.Write([]byte(line))
		p.used++
	}
	_ = p.console.Display()
}

// consoleLines reports how many console rows are in use.
func (p *panel) consoleLines() int { return p.used }
