//go:build !tinygo

package hal

import "sync"

// hostFramebuffer is an RGB565 little-endian pixel buffer shared between the
// panel renderer and the window.
type hostFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte
}

func newHostFramebuffer(width, height int) *hostFramebuffer {
	stride := width * 2
	return &hostFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

// draw runs fn with the buffer locked.
func (f *hostFramebuffer) draw(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn()
}

// fillRGB paints the whole buffer. The caller holds the lock.
func (f *hostFramebuffer) fillRGB(r, g, b uint8) {
	pixel := rgb565(r, g, b)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for i := 0; i < len(f.buf); i += 2 {
		f.buf[i] = lo
		f.buf[i+1] = hi
	}
}

func (f *hostFramebuffer) pixel(x, y int) uint16 {
	f.mu.Lock()
	defer f.mu.Unlock()
	off := y*f.stride + x*2
	if x < 0 || x >= f.width || y < 0 || y >= f.height {
		return 0
	}
	return uint16(f.buf[off]) | uint16(f.buf[off+1])<<8
}

func (f *hostFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
}
