//go:build !tinygo

package hal

import (
	"image/color"

	"tinygo.org/x/drivers"
)

// fbDisplay exposes a rectangle of the framebuffer as a drivers.Displayer.
// Each logical pixel covers scale x scale framebuffer pixels. Callers hold
// the framebuffer lock while drawing.
type fbDisplay struct {
	fb     *hostFramebuffer
	x0, y0 int
	w, h   int
	scale  int
}

func newFBDisplay(fb *hostFramebuffer, x0, y0, w, h, scale int) *fbDisplay {
	if scale < 1 {
		scale = 1
	}
	return &fbDisplay{fb: fb, x0: x0, y0: y0, w: w, h: h, scale: scale}
}

func (d *fbDisplay) Size() (x, y int16) {
	return int16(d.w), int16(d.h)
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	ix, iy := int(x), int(y)
	if ix < 0 || ix >= d.w || iy < 0 || iy >= d.h {
		return
	}
	d.fill(ix*d.scale, iy*d.scale, d.scale, d.scale, rgb565(c.R, c.G, c.B))
}

func (d *fbDisplay) Display() error { return nil }

func (d *fbDisplay) FillRectangle(x, y, width, height int16, c color.RGBA) error {
	x0 := clampInt(int(x), 0, d.w)
	y0 := clampInt(int(y), 0, d.h)
	x1 := clampInt(int(x)+int(width), 0, d.w)
	y1 := clampInt(int(y)+int(height), 0, d.h)
	if x0 >= x1 || y0 >= y1 {
		return nil
	}
	d.fill(x0*d.scale, y0*d.scale, (x1-x0)*d.scale, (y1-y0)*d.scale, rgb565(c.R, c.G, c.B))
	return nil
}

func (d *fbDisplay) SetScroll(line int16) {
	_ = line
}

func (d *fbDisplay) SetRotation(rotation drivers.Rotation) error {
	_ = rotation
	return nil
}

// fill paints a rectangle given in framebuffer pixels relative to the origin.
func (d *fbDisplay) fill(x, y, w, h int, pixel uint16) {
	f := d.fb
	lo := byte(pixel)
	hi := byte(pixel >> 8)

	x0 := clampInt(d.x0+x, 0, f.width)
	y0 := clampInt(d.y0+y, 0, f.height)
	x1 := clampInt(d.x0+x+w, 0, f.width)
	y1 := clampInt(d.y0+y+h, 0, f.height)
	for py := y0; py < y1; py++ {
		row := py * f.stride
		for px := x0; px < x1; px++ {
			f.buf[row+px*2] = lo
			f.buf[row+px*2+1] = hi
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
