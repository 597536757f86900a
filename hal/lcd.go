package hal

import "sync"

// HD44780 geometry for a 16x2 module: two 40-byte DDRAM lines, of which the
// first 16 columns are visible.
const (
	lcdRows        = 2
	lcdDDRAMWidth  = 40
	lcdVisibleCols = 16
)

// charLCD models the DDRAM of a two-line character LCD.
type charLCD struct {
	mu   sync.Mutex
	ddr  [lcdRows][lcdDDRAMWidth]byte
	row  int
	col  int
	gen  uint64
	cmds uint64
}

func newCharLCD() *charLCD {
	l := &charLCD{}
	l.blank()
	return l
}

func (l *charLCD) blank() {
	for r := range l.ddr {
		for c := range l.ddr[r] {
			l.ddr[r][c] = ' '
		}
	}
	l.row, l.col = 0, 0
}

func (l *charLCD) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.blank()
	l.cmds++
	l.gen++
}

func (l *charLCD) GotoLineTwo() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.row, l.col = 1, 0
	l.cmds++
}

// WriteString stores s at the cursor. Bytes outside the printable ASCII
// range are shown as the controller's blank block. The address counter wraps
// from the end of one DDRAM line to the start of the other.
func (l *charLCD) WriteString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := 0; i < len(s); i++ {
		b := s[i]
		if b < 0x20 || b > 0x7E {
			b = ' '
		}
		l.ddr[l.row][l.col] = b
		l.col++
		if l.col == lcdDDRAMWidth {
			l.col = 0
			l.row = (l.row + 1) % lcdRows
		}
	}
	l.cmds++
	l.gen++
}

// Lines returns the visible part of both lines.
func (l *charLCD) Lines() [lcdRows]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out [lcdRows]string
	for r := range l.ddr {
		out[r] = string(l.ddr[r][:lcdVisibleCols])
	}
	return out
}

// generation changes whenever the DDRAM contents may have changed.
func (l *charLCD) generation() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.gen
}

// commands reports how many controller calls were made.
func (l *charLCD) commands() uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.cmds
}
