//go:build !tinygo && cgo

package hal

import (
	"image"

	"stopwatch/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WindowConfig controls the desktop window runner.
type WindowConfig struct {
	// Hz is the main loop rate; the window runs one loop iteration per update.
	Hz int
}

// RunWindow starts a desktop window that shows the front panel and maps
// keys to the push buttons. It blocks until the window closes.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	if cfg.Hz <= 0 {
		cfg.Hz = DefaultLoopHz
	}
	h := New().(*hostHAL)
	step := newApp(h)

	g := &hostGame{h: h, panel: newPanel(h), step: step}
	ebiten.SetWindowTitle("Stopwatch (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(panelWidth*3, panelHeight*3)
	ebiten.SetTPS(cfg.Hz)
	return ebiten.RunGame(g)
}

// windowKeys maps keys to buttons. Keys are level inputs: the button is
// held for as long as the key is down.
var windowKeys = [...]struct {
	key    ebiten.Key
	button int
}{
	{ebiten.KeyDigit0, 0}, {ebiten.KeyS, 0},
	{ebiten.KeyDigit1, 1}, {ebiten.KeyL, 1},
	{ebiten.KeyDigit2, 2}, {ebiten.KeyT, 2},
	{ebiten.KeyDigit3, 3}, {ebiten.KeyR, 3},
}

type hostGame struct {
	h       *hostHAL
	panel   *panel
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
}

func (g *hostGame) Update() error {
	for _, k := range windowKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			g.h.buttons.press(producerKeyboard, k.button)
		}
		if inpututil.IsKeyJustReleased(k.key) {
			g.h.buttons.release(producerKeyboard, k.button)
		}
	}
	if g.step != nil {
		if err := g.step(); err != nil {
			return err
		}
	}
	g.panel.render()
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.panel.fb
	if g.img == nil {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb888From565(uint16(src[i]) | uint16(src[i+1])<<8)
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return panelWidth, panelHeight
}
