package task

import (
	"image"
	"image/color"
	"strings"

	"retrocalc/hal"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
)

var _ drivers.Displayer = (*fbDisplay)(nil)

// fbDisplay lets tinyfont draw into an RGB565 framebuffer.
type fbDisplay struct {
	fb hal.Framebuffer
}

func (d *fbDisplay) Size() (x, y int16) {
	if d.fb == nil {
		return 0, 0
	}
	return int16(d.fb.Width()), int16(d.fb.Height())
}

func (d *fbDisplay) SetPixel(x, y int16, c color.RGBA) {
	if d.fb == nil || d.fb.Format() != hal.PixelFormatRGB565 {
		return
	}
	buf := d.fb.Buffer()
	if buf == nil {
		return
	}
	ix := int(x)
	iy := int(y)
	if ix < 0 || ix >= d.fb.Width() || iy < 0 || iy >= d.fb.Height() {
		return
	}
	pixel := hal.RGB565FromColor(c)
	off := iy*d.fb.StrideBytes() + ix*2
	if off < 0 || off+1 >= len(buf) {
		return
	}
	buf[off] = byte(pixel)
	buf[off+1] = byte(pixel >> 8)
}

func (d *fbDisplay) Display() error {
	if d.fb == nil {
		return nil
	}
	return d.fb.Present()
}

func fillRect(fb hal.Framebuffer, r image.Rectangle, c color.RGBA) {
	buf := fb.Buffer()
	stride := fb.StrideBytes()
	r = r.Intersect(image.Rect(0, 0, fb.Width(), fb.Height()))
	if r.Empty() || buf == nil {
		return
	}
	pixel := hal.RGB565FromColor(c)
	lo := byte(pixel)
	hi := byte(pixel >> 8)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y*stride + r.Min.X*2
		for x := 0; x < r.Dx(); x++ {
			off := row + x*2
			if off+1 >= len(buf) {
				break
			}
			buf[off] = lo
			buf[off+1] = hi
		}
	}
}

func drawRectOutline(fb hal.Framebuffer, r image.Rectangle, c color.RGBA) {
	if r.Empty() {
		return
	}
	fillRect(fb, image.Rect(r.Min.X, r.Min.Y, r.Max.X, r.Min.Y+1), c)
	fillRect(fb, image.Rect(r.Min.X, r.Max.Y-1, r.Max.X, r.Max.Y), c)
	fillRect(fb, image.Rect(r.Min.X, r.Min.Y, r.Min.X+1, r.Max.Y), c)
	fillRect(fb, image.Rect(r.Max.X-1, r.Min.Y, r.Max.X, r.Max.Y), c)
}

// foldGlyphs maps symbols missing from the 7-bit fonts to ASCII stand-ins.
var foldGlyphs = strings.NewReplacer(
	"−", "-",
	"×", "x",
	"÷", "/",
	"²", "^2",
)

func textWidth(f tinyfont.Fonter, s string) int {
	_, w := tinyfont.LineWidth(f, s)
	return int(w)
}

// fitLeft drops leading runes until s fits in maxW, marking the cut with '<'.
func fitLeft(f tinyfont.Fonter, s string, maxW int) string {
	if textWidth(f, s) <= maxW {
		return s
	}
	r := []rune(s)
	for len(r) > 0 {
		r = r[1:]
		cut := "<" + string(r)
		if textWidth(f, cut) <= maxW {
			return cut
		}
	}
	return ""
}
