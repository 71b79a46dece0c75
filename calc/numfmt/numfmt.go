// Package numfmt converts between operand strings and float64 values.
//
// Operands are kept as text by the engine; this package is the single place
// that decides how text becomes a number and how a number becomes text.
package numfmt

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

// Parse reads the longest decimal numeral at the start of s.
//
// The accepted prefix is: optional sign, digits with an optional fraction
// (at least one digit overall) and an optional exponent. Trailing garbage is
// ignored, so "12abc" is 12 and "5." is 5. Non-finite values are rejected.
func Parse(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t\r\n")
	n := numeralPrefix(s)
	if n == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(s[:n], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

func numeralPrefix(s string) int {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		j := i + 1
		frac := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			frac++
		}
		if digits+frac > 0 {
			i = j
			digits += frac
		}
	}
	if digits == 0 {
		return 0
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		k := j
		for k < len(s) && isDigit(s[k]) {
			k++
		}
		if k > j {
			i = k
		}
	}
	return i
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Format renders f with the fewest digits that read back to the same value.
//
// Plain notation is used for 1e-6 <= |f| < 1e21, exponent notation otherwise
// ("1e+21", "1.5e-7"). Zero of either sign is "0".
func Format(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case f == 0:
		return "0"
	}

	a := math.Abs(f)
	if a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}

	s := strconv.FormatFloat(f, 'e', -1, 64)
	mant, exp, ok := strings.Cut(s, "e")
	if !ok || len(exp) < 2 {
		return s
	}
	digits := strings.TrimLeft(exp[1:], "0")
	if digits == "" {
		digits = "0"
	}
	return mant + "e" + exp[:1] + digits
}
