//go:build !tinygo && !cgo && !js

package hal

import "errors"

// WindowConfig controls the desktop window.
type WindowConfig struct {
	Width  int
	Height int
	Scale  int
	TPS    int
}

func RunWindow(_ func(h HAL) func() error, _ WindowConfig) error {
	return errors.New("window mode requires cgo (build/run with CGO_ENABLED=1)")
}
