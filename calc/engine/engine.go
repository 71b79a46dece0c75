// Package engine implements the calculator's input state machine.
//
// The engine is a plain value owned by its caller. It performs no I/O and
// never fails hard: invalid input is either ignored or reported as an error
// that the caller turns into a transient message.
package engine

import (
	"errors"
	"math"
	"strings"

	"retrocalc/calc/numfmt"

	"golang.org/x/text/language"
)

var (
	// ErrInvalidInput reports a domain violation such as log of a non-positive value.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupported reports an action the engine does not implement.
	ErrUnsupported = errors.New("unsupported action")
)

// Operator is a binary operation waiting for its second operand.
type Operator uint8

const (
	OpNone Operator = iota
	OpAdd
	OpSubtract
	OpMultiply
)

func (o Operator) String() string {
	switch o {
	case OpNone:
		return "none"
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	default:
		return "unknown"
	}
}

// Glyph is the symbol shown after the previous operand.
func (o Operator) Glyph() string {
	switch o {
	case OpAdd:
		return "+"
	case OpSubtract:
		return "−"
	case OpMultiply:
		return "×"
	default:
		return ""
	}
}

func (o Operator) apply(a, b float64) (float64, bool) {
	switch o {
	case OpAdd:
		return a + b, true
	case OpSubtract:
		return a - b, true
	case OpMultiply:
		return a * b, true
	default:
		return 0, false
	}
}

// Phase is the coarse machine state.
type Phase uint8

const (
	PhaseIdle Phase = iota
	PhaseOperatorPending
)

func (p Phase) String() string {
	if p == PhaseOperatorPending {
		return "operator-pending"
	}
	return "idle"
}

// State is the complete engine state.
type State struct {
	Current  string
	Previous string
	Op       Operator

	// Overwrite makes the next digit replace Current instead of extending it.
	Overwrite bool
}

// InitialState is the state after construction and after Clear.
func InitialState() State {
	return State{Current: "0"}
}

// Phase derives the machine phase from the pending operator.
func (s State) Phase() Phase {
	if s.Op == OpNone {
		return PhaseIdle
	}
	return PhaseOperatorPending
}

// Display is the pair of strings shown on the LCD.
type Display struct {
	Primary   string
	Secondary string
}

// Engine owns a State and applies input events to it.
type Engine struct {
	st State
	g  *numfmt.Grouper
}

// Option configures an Engine.
type Option func(*Engine)

// WithLocale selects the digit grouping used by Render.
func WithLocale(tag language.Tag) Option {
	return func(e *Engine) { e.g = numfmt.NewGrouper(tag) }
}

// New returns an engine in its initial state. Grouping defaults to English.
func New(opts ...Option) *Engine {
	e := &Engine{st: InitialState()}
	for _, opt := range opts {
		opt(e)
	}
	if e.g == nil {
		e.g = numfmt.NewGrouper(language.English)
	}
	return e
}

// State returns a copy of the current state.
func (e *Engine) State() State { return e.st }

// EnterDigit appends a digit or decimal point to the current operand.
func (e *Engine) EnterDigit(token byte) {
	if e.st.Overwrite {
		e.st.Current = ""
		e.st.Overwrite = false
	}
	if token == '.' && strings.Contains(e.st.Current, ".") {
		return
	}
	if e.st.Current == "0" && token != '.' {
		e.st.Current = string(token)
		return
	}
	e.st.Current += string(token)
}

// ChooseOperator arms op. A pending operation is collapsed first, which is
// how chains like 2 + 3 + 4 accumulate without an expression tree.
func (e *Engine) ChooseOperator(op Operator) {
	if e.st.Current == "" {
		return
	}
	if e.st.Previous != "" {
		e.Compute()
	}
	e.st.Op = op
	e.st.Previous = e.st.Current
	e.st.Overwrite = true
}

// Compute applies the pending operator to Previous and Current.
func (e *Engine) Compute() {
	prev, ok := numfmt.Parse(e.st.Previous)
	if !ok {
		return
	}
	cur, ok := numfmt.Parse(e.st.Current)
	if !ok {
		return
	}
	res, ok := e.st.Op.apply(prev, cur)
	if !ok || !finite(res) {
		return
	}
	e.st.Current = numfmt.Format(res)
	e.st.Op = OpNone
	e.st.Previous = ""
}

// DeleteLast removes the last character of the current operand.
func (e *Engine) DeleteLast() {
	if n := len(e.st.Current); n > 0 {
		e.st.Current = e.st.Current[:n-1]
	}
	if e.st.Current == "" {
		e.st.Current = "0"
	}
}

// Clear resets every field to its initial value.
func (e *Engine) Clear() {
	e.st = InitialState()
}

// Square replaces the current operand with its square.
func (e *Engine) Square() { e.unary(func(x float64) float64 { return x * x }) }

// Sine treats the current operand as degrees.
func (e *Engine) Sine() { e.unary(func(x float64) float64 { return math.Sin(radians(x)) }) }

// Cosine treats the current operand as degrees.
func (e *Engine) Cosine() { e.unary(func(x float64) float64 { return math.Cos(radians(x)) }) }

// Tangent treats the current operand as degrees.
func (e *Engine) Tangent() { e.unary(func(x float64) float64 { return math.Tan(radians(x)) }) }

// Negate flips the sign of the current operand.
func (e *Engine) Negate() { e.unary(func(x float64) float64 { return -x }) }

// Log10 replaces the current operand with its base-10 logarithm.
func (e *Engine) Log10() error { return e.logarithm(log10) }

// Ln replaces the current operand with its natural logarithm.
func (e *Engine) Ln() error { return e.logarithm(math.Log) }

func (e *Engine) logarithm(fn func(float64) float64) error {
	x, ok := numfmt.Parse(e.st.Current)
	if !ok || x <= 0 {
		return ErrInvalidInput
	}
	if res := fn(x); finite(res) {
		e.st.Current = numfmt.Format(res)
	}
	return nil
}

func (e *Engine) unary(fn func(float64) float64) {
	x, ok := numfmt.Parse(e.st.Current)
	if !ok {
		return
	}
	if res := fn(x); finite(res) {
		e.st.Current = numfmt.Format(res)
	}
}

// Render projects the state onto the two display lines.
func (e *Engine) Render() Display {
	d := Display{Primary: e.g.Group(e.st.Current)}
	if e.st.Op != OpNone {
		d.Secondary = e.g.Group(e.st.Previous) + " " + e.st.Op.Glyph()
	}
	return d
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

// log10 returns exact results for exact powers of ten.
func log10(x float64) float64 {
	r := math.Log10(x)
	if n := math.Round(r); math.Pow(10, n) == x {
		return n
	}
	return r
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
