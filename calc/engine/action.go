package engine

import (
	"errors"
	"fmt"
)

// ActionKind enumerates the input events the engine understands.
type ActionKind uint8

const (
	ActionUnknown ActionKind = iota
	ActionDigit
	ActionDelete
	ActionEquals
	ActionAdd
	ActionSubtract
	ActionMultiply
	ActionSquare
	ActionLog
	ActionLn
	ActionSine
	ActionCosine
	ActionTangent
	ActionNegate
	ActionClear
)

var actionNames = map[string]ActionKind{
	"delete":   ActionDelete,
	"equals":   ActionEquals,
	"add":      ActionAdd,
	"subtract": ActionSubtract,
	"multiply": ActionMultiply,
	"square":   ActionSquare,
	"log":      ActionLog,
	"ln":       ActionLn,
	"sine":     ActionSine,
	"cosine":   ActionCosine,
	"tangent":  ActionTangent,
	"negate":   ActionNegate,
	"clear":    ActionClear,

	// Names used by the keypad markup of the retro widget.
	"power":    ActionSquare,
	"sin":      ActionSine,
	"cos":      ActionCosine,
	"tan":      ActionTangent,
	"negative": ActionNegate,
	"on":       ActionClear,
}

// Action is one input event.
type Action struct {
	Kind ActionKind

	// Token is set for ActionDigit: '0'..'9' or '.'.
	Token byte

	// Name is the name the action was parsed from.
	Name string
}

func (a Action) String() string {
	if a.Kind == ActionDigit {
		return string(a.Token)
	}
	return a.Name
}

// Digit returns a digit-entry action.
func Digit(token byte) Action {
	return Action{Kind: ActionDigit, Token: token, Name: string(token)}
}

// ParseAction maps a button value or action name to an Action.
// Names that are not recognised yield ActionUnknown.
func ParseAction(name string) Action {
	if len(name) == 1 && (name[0] == '.' || (name[0] >= '0' && name[0] <= '9')) {
		return Digit(name[0])
	}
	return Action{Kind: actionNames[name], Name: name}
}

// Dispatch applies a to the engine.
//
// The returned error is nil, or wraps ErrInvalidInput or ErrUnsupported.
// In every error case the state is left unchanged.
func (e *Engine) Dispatch(a Action) error {
	switch a.Kind {
	case ActionDigit:
		e.EnterDigit(a.Token)
	case ActionDelete:
		e.DeleteLast()
	case ActionEquals:
		e.Compute()
	case ActionAdd:
		e.ChooseOperator(OpAdd)
	case ActionSubtract:
		e.ChooseOperator(OpSubtract)
	case ActionMultiply:
		e.ChooseOperator(OpMultiply)
	case ActionSquare:
		e.Square()
	case ActionLog:
		if err := e.Log10(); err != nil {
			return fmt.Errorf("log %q: %w", e.st.Current, err)
		}
	case ActionLn:
		if err := e.Ln(); err != nil {
			return fmt.Errorf("ln %q: %w", e.st.Current, err)
		}
	case ActionSine:
		e.Sine()
	case ActionCosine:
		e.Cosine()
	case ActionTangent:
		e.Tangent()
	case ActionNegate:
		e.Negate()
	case ActionClear:
		e.Clear()
	default:
		return fmt.Errorf("%w: %q", ErrUnsupported, a.Name)
	}
	return nil
}

// NoticeText returns the transient message for an error from Dispatch.
func NoticeText(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrInvalidInput):
		return "Invalid input"
	default:
		return "Feature under development"
	}
}
