//go:build !tinygo && (cgo || js)

package hal

import (
	"errors"
	"image"

	"retrocalc/internal/buildinfo"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// WindowConfig controls the desktop window (or browser canvas under js/wasm).
type WindowConfig struct {
	Width  int
	Height int
	Scale  int
	TPS    int
}

// RunWindow starts a window that displays the framebuffer and forwards pointer
// and keyboard input. It blocks until the window closes or the step returns
// ErrStop.
func RunWindow(newApp func(HAL) func() error, cfg WindowConfig) error {
	if cfg.Scale <= 0 {
		cfg.Scale = 2
	}
	if cfg.TPS <= 0 {
		cfg.TPS = 60
	}
	h := newHost(HostConfig{Width: cfg.Width, Height: cfg.Height})
	step := newApp(h)

	g := &hostGame{h: h, step: step}
	ebiten.SetWindowTitle("retrocalc (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(h.fb.width*cfg.Scale, h.fb.height*cfg.Scale)
	ebiten.SetTPS(cfg.TPS)
	return ebiten.RunGame(g)
}

type hostGame struct {
	h       *hostHAL
	img     *image.RGBA
	fbImg   *ebiten.Image
	scratch []byte
	step    func() error
	touches []ebiten.TouchID
}

func (g *hostGame) Update() error {
	g.h.kbd.poll()
	g.pollPointer()
	g.h.t.step(1)
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrStop) {
				return ebiten.Termination
			}
			return err
		}
	}
	return nil
}

func (g *hostGame) pollPointer() {
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.h.ptr.emit(PointerEvent{X: x, Y: y, Press: true})
	}
	if inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft) {
		x, y := ebiten.CursorPosition()
		g.h.ptr.emit(PointerEvent{X: x, Y: y, Press: false})
	}

	g.touches = inpututil.AppendJustPressedTouchIDs(g.touches[:0])
	for _, id := range g.touches {
		x, y := ebiten.TouchPosition(id)
		g.h.ptr.emit(PointerEvent{X: x, Y: y, Press: true})
	}
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.h.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGBA(g.scratch, g.img.Pix)
	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.h.fb.width, g.h.fb.height
}
