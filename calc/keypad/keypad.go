// Package keypad describes the calculator's buttons and where they sit.
package keypad

import (
	"image"

	"retrocalc/calc/engine"
)

// Style groups buttons that share colors.
type Style uint8

const (
	StyleDigit Style = iota
	StyleOperator
	StyleFunction
	StyleControl
)

// Key is a button definition before layout.
type Key struct {
	Label string
	Value string
	Style Style
}

// Button is a Key placed on screen.
type Button struct {
	Key
	Action engine.Action
	Rect   image.Rectangle
}

const (
	Columns = 5
	Rows    = 6
)

// DefaultKeys is the Casio-style face, row by row. Values are the action
// names accepted by engine.ParseAction; shift, alpha, mode, ans, exp and
// divide have no engine action.
var DefaultKeys = [Rows][Columns]Key{
	{{"SHIFT", "shift", StyleControl}, {"ALPHA", "alpha", StyleControl}, {"MODE", "mode", StyleControl}, {"x²", "power", StyleFunction}, {"ON", "on", StyleControl}},
	{{"log", "log", StyleFunction}, {"ln", "ln", StyleFunction}, {"sin", "sin", StyleFunction}, {"cos", "cos", StyleFunction}, {"tan", "tan", StyleFunction}},
	{{"(−)", "negative", StyleFunction}, {"7", "7", StyleDigit}, {"8", "8", StyleDigit}, {"9", "9", StyleDigit}, {"DEL", "delete", StyleControl}},
	{{"ANS", "ans", StyleFunction}, {"4", "4", StyleDigit}, {"5", "5", StyleDigit}, {"6", "6", StyleDigit}, {"×", "multiply", StyleOperator}},
	{{"EXP", "exp", StyleFunction}, {"1", "1", StyleDigit}, {"2", "2", StyleDigit}, {"3", "3", StyleDigit}, {"−", "subtract", StyleOperator}},
	{{"÷", "divide", StyleOperator}, {"0", "0", StyleDigit}, {".", ".", StyleDigit}, {"=", "equals", StyleOperator}, {"+", "add", StyleOperator}},
}

// Keypad is a laid-out grid of buttons.
type Keypad struct {
	Bounds  image.Rectangle
	Buttons []Button
}

// Layout places keys inside bounds with gap pixels between cells.
func Layout(keys [Rows][Columns]Key, bounds image.Rectangle, gap int) *Keypad {
	kp := &Keypad{Bounds: bounds, Buttons: make([]Button, 0, Rows*Columns)}

	cellW := (bounds.Dx() - gap*(Columns+1)) / Columns
	cellH := (bounds.Dy() - gap*(Rows+1)) / Rows
	if cellW < 1 {
		cellW = 1
	}
	if cellH < 1 {
		cellH = 1
	}

	for row := 0; row < Rows; row++ {
		for col := 0; col < Columns; col++ {
			k := keys[row][col]
			x0 := bounds.Min.X + gap + col*(cellW+gap)
			y0 := bounds.Min.Y + gap + row*(cellH+gap)
			kp.Buttons = append(kp.Buttons, Button{
				Key:    k,
				Action: engine.ParseAction(k.Value),
				Rect:   image.Rect(x0, y0, x0+cellW, y0+cellH),
			})
		}
	}
	return kp
}

// HitTest returns the index of the button under p.
func (kp *Keypad) HitTest(p image.Point) (int, bool) {
	if !p.In(kp.Bounds) {
		return -1, false
	}
	for i := range kp.Buttons {
		if p.In(kp.Buttons[i].Rect) {
			return i, true
		}
	}
	return -1, false
}

// Find returns the index of the first button with the given value.
func (kp *Keypad) Find(value string) (int, bool) {
	for i := range kp.Buttons {
		if kp.Buttons[i].Value == value {
			return i, true
		}
	}
	return -1, false
}
