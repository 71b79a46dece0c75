//go:build !tinygo && (cgo || js)

package hal

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

type hostKeyboard struct {
	ch chan KeyEvent
}

func newHostKeyboard() *hostKeyboard {
	return &hostKeyboard{ch: make(chan KeyEvent, 64)}
}

func (k *hostKeyboard) Events() <-chan KeyEvent { return k.ch }

// poll forwards only Escape; calculator input comes from the pointer.
func (k *hostKeyboard) poll() {
	emit := func(code KeyCode, press bool) {
		select {
		case k.ch <- KeyEvent{Code: code, Press: press}:
		default:
		}
	}

	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		emit(KeyEscape, true)
	}
	if inpututil.IsKeyJustReleased(ebiten.KeyEscape) {
		emit(KeyEscape, false)
	}
}
