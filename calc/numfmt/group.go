package numfmt

import (
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Grouper inserts locale thousands separators into the integer part of an
// operand. The fractional part is never reformatted.
type Grouper struct {
	tag language.Tag
	p   *message.Printer

	sep      string
	minGroup int
}

// NewGrouper returns a grouper for the given locale.
func NewGrouper(tag language.Tag) *Grouper {
	g := &Grouper{tag: tag, p: message.NewPrinter(tag)}
	g.sep = groupSeparator(g.p.Sprintf("%d", 1000000))
	g.minGroup = 4
	if !strings.Contains(g.p.Sprintf("%d", 1000), g.sep) {
		g.minGroup = 5
	}
	return g
}

// groupSeparator returns the first run of non-digits in a formatted number.
func groupSeparator(s string) string {
	start := strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' })
	if start < 0 {
		return ""
	}
	end := strings.IndexFunc(s[start:], func(r rune) bool { return r >= '0' && r <= '9' })
	if end < 0 {
		return s[start:]
	}
	return s[start : start+end]
}

// Tag returns the grouper's locale.
func (g *Grouper) Tag() language.Tag { return g.tag }

// Group renders operand for display.
//
// A plain integer part keeps its digits and only gains separators. Other
// integer parts (exponent forms) are parsed and printed with grouping; one
// that does not parse renders as "". The text after the first '.' is appended
// verbatim.
func (g *Grouper) Group(operand string) string {
	intPart, frac, hasFrac := strings.Cut(operand, ".")
	out := g.integer(intPart)
	if hasFrac {
		return out + "." + frac
	}
	return out
}

func (g *Grouper) integer(s string) string {
	if sign, digits, ok := plainInteger(s); ok {
		return sign + g.insertSeparators(digits)
	}

	f, ok := Parse(s)
	if !ok {
		return ""
	}
	f = math.Round(f)
	if f == 0 {
		if math.Signbit(f) {
			return "-0"
		}
		return "0"
	}
	return g.p.Sprint(number.Decimal(f, number.MaxFractionDigits(0)))
}

// plainInteger splits s matching [-+]?[0-9]+ into its display sign and its
// digits without leading zeros.
func plainInteger(s string) (sign, digits string, ok bool) {
	switch {
	case strings.HasPrefix(s, "-"):
		sign, s = "-", s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}
	if s == "" {
		return "", "", false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return "", "", false
		}
	}
	s = strings.TrimLeft(s, "0")
	if s == "" {
		s = "0"
	}
	return sign, s, true
}

func (g *Grouper) insertSeparators(digits string) string {
	n := len(digits)
	if g.sep == "" || n < g.minGroup {
		return digits
	}
	var b strings.Builder
	b.Grow(n + (n/3)*len(g.sep))
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteString(g.sep)
		}
		b.WriteByte(digits[i])
	}
	return b.String()
}
