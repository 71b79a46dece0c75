// Package task runs the calculator on a framebuffer: it owns the engine,
// turns pointer presses into engine actions and paints the LCD and keypad.
package task

import (
	"image"
	"image/color"
	"time"

	"retrocalc/calc/engine"
	"retrocalc/calc/keypad"
	"retrocalc/calc/notice"
	"retrocalc/calc/sched"
	"retrocalc/hal"

	"github.com/go-logr/logr"
	"golang.org/x/text/language"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/proggy"
)

// DefaultPressDuration is how long a pressed button stays highlighted.
const DefaultPressDuration = 100 * time.Millisecond

var (
	colorBody      = color.RGBA{R: 0x2A, G: 0x2D, B: 0x33, A: 0xFF}
	colorBezel     = color.RGBA{R: 0x14, G: 0x16, B: 0x1A, A: 0xFF}
	colorLCD       = color.RGBA{R: 0x9E, G: 0xB3, B: 0x8A, A: 0xFF}
	colorLCDInk    = color.RGBA{R: 0x1C, G: 0x24, B: 0x18, A: 0xFF}
	colorLCDDim    = color.RGBA{R: 0x4A, G: 0x5A, B: 0x40, A: 0xFF}
	colorKeyBorder = color.RGBA{R: 0x0C, G: 0x0C, B: 0x0E, A: 0xFF}
	colorKeyText   = color.RGBA{R: 0xF2, G: 0xF2, B: 0xF2, A: 0xFF}
	colorPressed   = color.RGBA{R: 0xFF, G: 0xD1, B: 0x4A, A: 0xFF}
)

var keyFill = map[keypad.Style]color.RGBA{
	keypad.StyleDigit:    {R: 0x4B, G: 0x50, B: 0x5A, A: 0xFF},
	keypad.StyleOperator: {R: 0x3A, G: 0x5F, B: 0x8F, A: 0xFF},
	keypad.StyleFunction: {R: 0x35, G: 0x38, B: 0x3F, A: 0xFF},
	keypad.StyleControl:  {R: 0xB0, G: 0x4A, B: 0x3A, A: 0xFF},
}

// Largest first; the primary line uses the first font it fits in.
var primaryFonts = []tinyfont.Fonter{
	&freemono.Bold18pt7b,
	&freemono.Bold12pt7b,
	&freemono.Bold9pt7b,
}

var labelFont tinyfont.Fonter = &proggy.TinySZ8pt7b

const (
	margin    = 8
	lcdHeight = 84
	lcdPad    = 6
	keyGap    = 4
	labelCap  = 8
)

// Config controls a Task.
type Config struct {
	Locale              language.Tag
	NoticeDuration      time.Duration
	CancelNoticeOnInput bool
	PressDuration       time.Duration
}

// Task is the calculator application bound to one framebuffer.
type Task struct {
	fb  hal.Framebuffer
	d   *fbDisplay
	log logr.Logger
	cfg Config

	eng   *engine.Engine
	pad   *keypad.Keypad
	s     *sched.Scheduler
	board *notice.Board

	lcd image.Rectangle

	pressed     int
	pressHandle sched.Handle

	dirty bool
}

// New lays out the calculator for fb and returns it in its initial state.
func New(fb hal.Framebuffer, cfg Config, log logr.Logger) *Task {
	if cfg.PressDuration <= 0 {
		cfg.PressDuration = DefaultPressDuration
	}
	if cfg.Locale == language.Und {
		cfg.Locale = language.English
	}

	t := &Task{
		fb:      fb,
		d:       &fbDisplay{fb: fb},
		log:     log,
		cfg:     cfg,
		eng:     engine.New(engine.WithLocale(cfg.Locale)),
		s:       sched.New(0),
		pressed: -1,
		dirty:   true,
	}
	t.board = notice.New(t.s, notice.Config{
		Duration:      cfg.NoticeDuration,
		CancelOnInput: cfg.CancelNoticeOnInput,
	})
	t.board.OnChange = func() { t.dirty = true }

	w, h := fb.Width(), fb.Height()
	t.lcd = image.Rect(margin, margin, w-margin, margin+lcdHeight)
	t.pad = keypad.Layout(keypad.DefaultKeys, image.Rect(margin-keyGap, t.lcd.Max.Y+margin, w-margin+keyGap, h-margin+keyGap), keyGap)
	return t
}

// State returns the engine state.
func (t *Task) State() engine.State { return t.eng.State() }

// Keypad returns the laid-out buttons.
func (t *Task) Keypad() *keypad.Keypad { return t.pad }

// Pressed returns the index of the highlighted button, or -1.
func (t *Task) Pressed() int { return t.pressed }

// Dirty reports whether the screen needs a redraw.
func (t *Task) Dirty() bool { return t.dirty }

// Busy reports whether timed work (reverts, highlights) is still scheduled.
func (t *Task) Busy() bool { return t.s.Pending() > 0 }

// Screen returns the two lines as they are currently shown.
func (t *Task) Screen() engine.Display {
	d := t.eng.Render()
	if text, ok := t.board.Text(); ok {
		d.Primary = text
	}
	return d
}

// Tick advances timed work to the given millisecond tick.
func (t *Task) Tick(now uint64) {
	t.s.Advance(now)
}

// Pointer handles a mouse or touch event in framebuffer coordinates.
func (t *Task) Pointer(ev hal.PointerEvent) {
	if !ev.Press {
		return
	}
	idx, ok := t.pad.HitTest(image.Pt(ev.X, ev.Y))
	if !ok {
		return
	}
	if err := t.press(idx, t.pad.Buttons[idx].Action); err != nil {
		t.log.V(1).Info("pointer press rejected", "button", t.pad.Buttons[idx].Value, "err", err.Error())
	}
}

// Press applies a as if its button were clicked. Errors are also shown as a
// transient message.
func (t *Task) Press(a engine.Action) error {
	idx := -1
	for i, b := range t.pad.Buttons {
		if b.Action.Kind == a.Kind && b.Action.Token == a.Token {
			idx = i
			break
		}
	}
	return t.press(idx, a)
}

// PressValue handles a button value or action name as if it were clicked.
func (t *Task) PressValue(value string) error {
	idx, _ := t.pad.Find(value)
	return t.press(idx, engine.ParseAction(value))
}

func (t *Task) press(idx int, a engine.Action) error {
	t.board.Interrupt()
	restore := t.Screen().Primary

	err := t.eng.Dispatch(a)
	if err != nil {
		msg := engine.NoticeText(err)
		t.board.Show(msg, restore)
		t.log.Info("notice", "text", msg, "reason", err.Error())
	}
	if idx >= 0 {
		t.highlight(idx)
	}
	t.dirty = true

	st := t.eng.State()
	t.log.V(1).Info("press", "action", a.String(), "current", st.Current, "previous", st.Previous, "op", st.Op.String(), "phase", st.Phase().String())
	return err
}

func (t *Task) highlight(idx int) {
	if t.pressHandle != 0 {
		t.s.Cancel(t.pressHandle)
	}
	t.pressed = idx
	t.pressHandle = t.s.After(t.cfg.PressDuration, func() {
		t.pressed = -1
		t.pressHandle = 0
		t.dirty = true
	})
}

// Render repaints the whole screen and presents it.
func (t *Task) Render() error {
	t.dirty = false
	if t.fb == nil || t.fb.Format() != hal.PixelFormatRGB565 || t.fb.Buffer() == nil {
		return hal.ErrNotImplemented
	}

	fillRect(t.fb, image.Rect(0, 0, t.fb.Width(), t.fb.Height()), colorBody)
	t.renderLCD()
	t.renderKeypad()
	return t.fb.Present()
}

func (t *Task) renderLCD() {
	fillRect(t.fb, t.lcd.Inset(-2), colorBezel)
	fillRect(t.fb, t.lcd, colorLCD)

	scr := t.Screen()
	inner := t.lcd.Inset(lcdPad)
	maxW := inner.Dx()

	if sec := foldGlyphs.Replace(scr.Secondary); sec != "" {
		sec = fitLeft(labelFont, sec, maxW)
		x := inner.Max.X - textWidth(labelFont, sec)
		tinyfont.WriteLine(t.d, labelFont, int16(x), int16(inner.Min.Y+labelCap), sec, colorLCDDim)
	}

	primary := foldGlyphs.Replace(scr.Primary)
	f := primaryFonts[len(primaryFonts)-1]
	for _, cand := range primaryFonts {
		if textWidth(cand, primary) <= maxW {
			f = cand
			break
		}
	}
	primary = fitLeft(f, primary, maxW)
	x := inner.Max.X - textWidth(f, primary)
	tinyfont.WriteLine(t.d, f, int16(x), int16(inner.Max.Y-2), primary, colorLCDInk)
}

func (t *Task) renderKeypad() {
	for i, b := range t.pad.Buttons {
		fill := keyFill[b.Style]
		if i == t.pressed {
			fill = colorPressed
		}
		fillRect(t.fb, b.Rect, fill)
		drawRectOutline(t.fb, b.Rect, colorKeyBorder)

		label := foldGlyphs.Replace(b.Label)
		w := textWidth(labelFont, label)
		x := b.Rect.Min.X + (b.Rect.Dx()-w)/2
		y := b.Rect.Min.Y + (b.Rect.Dy()+labelCap)/2
		ink := colorKeyText
		if i == t.pressed {
			ink = colorBezel
		}
		tinyfont.WriteLine(t.d, labelFont, int16(x), int16(y), label, ink)
	}
}
