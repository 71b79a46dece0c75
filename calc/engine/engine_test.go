package engine

import (
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func press(t *testing.T, e *Engine, names ...string) {
	t.Helper()
	for _, name := range names {
		if err := e.Dispatch(ParseAction(name)); err != nil {
			t.Fatalf("Dispatch(%q) = %v", name, err)
		}
	}
}

func TestInitialState(t *testing.T) {
	e := New()
	st := e.State()
	if st != InitialState() {
		t.Fatalf("State() = %+v, want %+v", st, InitialState())
	}
	if st.Phase() != PhaseIdle {
		t.Fatalf("Phase() = %v, want %v", st.Phase(), PhaseIdle)
	}
	if d := e.Render(); d.Primary != "0" || d.Secondary != "" {
		t.Fatalf("Render() = %+v, want {0 }", d)
	}
}

func TestLeadingZeroReplaced(t *testing.T) {
	e := New()
	press(t, e, "0", "5")
	if got := e.State().Current; got != "5" {
		t.Fatalf("Current = %q, want %q", got, "5")
	}
}

func TestZeroThenPointKeepsZero(t *testing.T) {
	e := New()
	press(t, e, ".", "5")
	if got := e.State().Current; got != "0.5" {
		t.Fatalf("Current = %q, want %q", got, "0.5")
	}
}

func TestSingleDecimalPoint(t *testing.T) {
	e := New()
	press(t, e, "1", ".", ".", "2", ".")
	if got := e.State().Current; got != "1.2" {
		t.Fatalf("Current = %q, want %q", got, "1.2")
	}
}

func TestChainedAddition(t *testing.T) {
	e := New()
	press(t, e, "2", "add", "3", "add")

	st := e.State()
	require.Equal(t, "5", st.Previous)
	require.Equal(t, OpAdd, st.Op)
	require.True(t, st.Overwrite)
	require.Equal(t, PhaseOperatorPending, st.Phase())

	press(t, e, "4", "equals")
	st = e.State()
	assert.Equal(t, "9", st.Current)
	assert.Equal(t, "", st.Previous)
	assert.Equal(t, OpNone, st.Op)
	assert.Equal(t, PhaseIdle, st.Phase())
}

func TestSubtractOrdering(t *testing.T) {
	e := New()
	press(t, e, "1", "0", "subtract", "3", "equals")
	if got := e.State().Current; got != "7" {
		t.Fatalf("Current = %q, want %q", got, "7")
	}
}

func TestMultiply(t *testing.T) {
	e := New()
	press(t, e, "1", "2", "multiply", "1", "2", "equals")
	if got := e.State().Current; got != "144" {
		t.Fatalf("Current = %q, want %q", got, "144")
	}
}

func TestFloatArtifactKept(t *testing.T) {
	e := New()
	press(t, e, ".", "1", "add", ".", "2", "equals")
	if got := e.State().Current; got != "0.30000000000000004" {
		t.Fatalf("Current = %q, want %q", got, "0.30000000000000004")
	}
}

func TestOperatorAfterOperatorUsesSameOperand(t *testing.T) {
	e := New()
	press(t, e, "2", "add", "add")
	st := e.State()
	if st.Previous != "4" || st.Op != OpAdd {
		t.Fatalf("State() = %+v, want Previous=4 Op=add", st)
	}
}

func TestOverwriteAfterOperator(t *testing.T) {
	e := New()
	press(t, e, "7", "multiply", ".")
	if got := e.State().Current; got != "." {
		t.Fatalf("Current = %q, want %q", got, ".")
	}
	// "." does not parse, so equals is a no-op.
	press(t, e, "equals")
	st := e.State()
	if st.Current != "." || st.Previous != "7" || st.Op != OpMultiply {
		t.Fatalf("State() = %+v, want unchanged", st)
	}
}

func TestEqualsWithoutOperator(t *testing.T) {
	e := New()
	press(t, e, "4", "2", "equals")
	if st := e.State(); st.Current != "42" || st.Op != OpNone {
		t.Fatalf("State() = %+v", st)
	}
}

func TestNonFiniteResultDiscarded(t *testing.T) {
	e := New()
	e.st = State{Current: "1e300", Previous: "1e300", Op: OpMultiply}
	e.Compute()
	if st := e.State(); st.Current != "1e300" || st.Op != OpMultiply {
		t.Fatalf("State() = %+v, want unchanged", st)
	}

	e.st = State{Current: "1e200"}
	e.Square()
	if got := e.State().Current; got != "1e200" {
		t.Fatalf("Current = %q, want unchanged", got)
	}
}

func TestDeleteFloor(t *testing.T) {
	e := New()
	press(t, e, "5", "delete")
	if got := e.State().Current; got != "0" {
		t.Fatalf("Current = %q, want %q", got, "0")
	}
	press(t, e, "delete")
	if got := e.State().Current; got != "0" {
		t.Fatalf("Current = %q, want %q", got, "0")
	}

	press(t, e, "1", "2", "3", "delete")
	if got := e.State().Current; got != "12" {
		t.Fatalf("Current = %q, want %q", got, "12")
	}
}

func TestClearResetsEverything(t *testing.T) {
	for _, seq := range [][]string{
		{},
		{"9", "9"},
		{"2", "add"},
		{"2", "add", "3"},
		{"1", ".", "5", "multiply", "4", "equals", "negate"},
	} {
		e := New()
		press(t, e, seq...)
		press(t, e, "clear")
		if got := e.State(); got != InitialState() {
			t.Fatalf("after %v + clear: State() = %+v, want %+v", seq, got, InitialState())
		}
	}
}

func TestUnaryOperations(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want float64
	}{
		{"square", "12", 144},
		{"square", "-3", 9},
		{"negate", "5", -5},
		{"negate", "-2.5", 2.5},
		{"sine", "30", 0.5},
		{"sine", "90", 1},
		{"cosine", "60", 0.5},
		{"cosine", "0", 1},
		{"tangent", "45", 1},
		{"log", "100", 2},
		{"log", "0.01", -2},
		{"ln", "1", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name+"_"+tt.in, func(t *testing.T) {
			e := New()
			e.st.Current = tt.in
			press(t, e, tt.name)
			got, err := strconv.ParseFloat(e.State().Current, 64)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestLog10ExactPowers(t *testing.T) {
	for _, in := range []string{"1", "10", "1000", "1000000"} {
		e := New()
		e.st.Current = in
		require.NoError(t, e.Log10())
		want := strconv.Itoa(len(in) - 1)
		if got := e.State().Current; got != want {
			t.Fatalf("Log10(%s) = %q, want %q", in, got, want)
		}
	}
}

func TestLnOfE(t *testing.T) {
	e := New()
	e.st.Current = strconv.FormatFloat(math.E, 'f', -1, 64)
	require.NoError(t, e.Ln())
	got, err := strconv.ParseFloat(e.State().Current, 64)
	require.NoError(t, err)
	assert.InDelta(t, 1, got, 1e-15)
}

func TestNegateZero(t *testing.T) {
	e := New()
	press(t, e, "negate")
	if got := e.State().Current; got != "0" {
		t.Fatalf("Current = %q, want %q", got, "0")
	}
}

func TestLogDomainGuard(t *testing.T) {
	for _, name := range []string{"log", "ln"} {
		for _, in := range []string{"-5", "0", "."} {
			e := New()
			e.st.Current = in
			before := e.State()

			err := e.Dispatch(ParseAction(name))
			require.ErrorIs(t, err, ErrInvalidInput)
			assert.Equal(t, "Invalid input", NoticeText(err))
			assert.Equal(t, before, e.State())
		}
	}
}

func TestUnaryOnUnparseableIsSilent(t *testing.T) {
	for _, name := range []string{"square", "sine", "cosine", "tangent", "negate"} {
		e := New()
		e.st.Current = "."
		require.NoError(t, e.Dispatch(ParseAction(name)))
		if got := e.State().Current; got != "." {
			t.Fatalf("%s: Current = %q, want unchanged", name, got)
		}
	}
}

func TestUnknownAction(t *testing.T) {
	e := New()
	press(t, e, "4")
	before := e.State()

	err := e.Dispatch(ParseAction("shift"))
	require.ErrorIs(t, err, ErrUnsupported)
	assert.Contains(t, err.Error(), "shift")
	assert.Equal(t, "Feature under development", NoticeText(err))
	assert.Equal(t, before, e.State())
}

func TestParseActionAliases(t *testing.T) {
	tests := map[string]ActionKind{
		"power":    ActionSquare,
		"sin":      ActionSine,
		"cos":      ActionCosine,
		"tan":      ActionTangent,
		"negative": ActionNegate,
		"on":       ActionClear,
		"equals":   ActionEquals,
		"7":        ActionDigit,
		".":        ActionDigit,
		"divide":   ActionUnknown,
		"":         ActionUnknown,
	}
	for name, want := range tests {
		if got := ParseAction(name).Kind; got != want {
			t.Fatalf("ParseAction(%q).Kind = %v, want %v", name, got, want)
		}
	}
	if got := ParseAction("7").Token; got != '7' {
		t.Fatalf("ParseAction(\"7\").Token = %q, want '7'", got)
	}
}

func TestRenderSecondary(t *testing.T) {
	tests := []struct {
		seq  []string
		want string
	}{
		{[]string{"1", "2", "3", "4", "add"}, "1,234 +"},
		{[]string{"9", "subtract"}, "9 −"},
		{[]string{"2", "multiply", "5"}, "2 ×"},
		{[]string{"2", "multiply", "5", "equals"}, ""},
	}
	for _, tt := range tests {
		e := New()
		press(t, e, tt.seq...)
		if got := e.Render().Secondary; got != tt.want {
			t.Fatalf("%v: Secondary = %q, want %q", tt.seq, got, tt.want)
		}
	}
}

func TestRenderPrimaryGrouping(t *testing.T) {
	e := New()
	press(t, e, "1", "2", "3", "4", "5", "6", "7", ".", "8", "9", "0")
	if got := e.Render().Primary; got != "1,234,567.890" {
		t.Fatalf("Primary = %q, want %q", got, "1,234,567.890")
	}

	// Render is a projection and must not touch state.
	before := e.State()
	_ = e.Render()
	if e.State() != before {
		t.Fatalf("Render() mutated state")
	}
}

func TestRenderLocale(t *testing.T) {
	e := New(WithLocale(language.German))
	press(t, e, "1", "2", "3", "4")
	if got := e.Render().Primary; got != "1.234" {
		t.Fatalf("Primary = %q, want %q", got, "1.234")
	}
}

func TestComputeRenderRoundTrip(t *testing.T) {
	for _, tt := range []struct {
		prev, cur string
		op        Operator
	}{
		{"1000", "234", OpAdd},
		{"999999", "1", OpAdd},
		{"12.5", "0.25", OpAdd},
		{"-4000", "1.5", OpAdd},
		{"12345678901", "10000000000", OpMultiply},
		{"1524155677489", "1234567", OpMultiply},
		{"9007199254740992", "3", OpAdd},
		{"-400000000000000000000", "2", OpMultiply},
	} {
		e := New()
		e.st = State{Previous: tt.prev, Current: tt.cur, Op: tt.op}
		e.Compute()
		raw := e.State().Current
		shown := e.Render().Primary
		if strings.ReplaceAll(shown, ",", "") != raw {
			t.Fatalf("%s %s %s: Render() = %q, raw = %q", tt.prev, tt.op, tt.cur, shown, raw)
		}
	}
}

func TestRenderLargeResultKeepsDigits(t *testing.T) {
	e := New()
	press(t, e, "1", "2", "3", "4", "5", "6", "7", "8", "9", "0", "1", "multiply")
	press(t, e, "1", "0", "0", "0", "0", "0", "0", "0", "0", "0", "0", "equals")
	if got, want := e.State().Current, "123456789010000000000"; got != want {
		t.Fatalf("Current = %q, want %q", got, want)
	}
	if got, want := e.Render().Primary, "123,456,789,010,000,000,000"; got != want {
		t.Fatalf("Primary = %q, want %q", got, want)
	}
}

