package form

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/expr-lang/expr"
)

var ErrNotNumber = errors.New("form: not a number")

// Range is an inclusive numeric interval.
type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

// Clamp returns v limited to r. NaN maps to Min.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Min
	}
	if v < r.Min {
		return r.Min
	}
	if v > r.Max {
		return r.Max
	}
	return v
}

// Contains reports whether v lies in r.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// BindRange binds a numeric field whose edits are clamped to r.
func BindRange(f *Form, r Range, get func() (float64, bool), set func(float64) error) *Field[float64] {
	return Bind(f, get, set).Normalize(r.Clamp)
}

var numberEnv = map[string]any{
	"pi":  math.Pi,
	"tau": 2 * math.Pi,
	"e":   math.E,
}

// ParseNumber evaluates a spinner's text. Plain numbers and arithmetic such as
// "90/4" or "2*pi" are accepted.
func ParseNumber(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, fmt.Errorf("%w: empty", ErrNotNumber)
	}
	program, err := expr.Compile(text, expr.Env(numberEnv), expr.AsFloat64())
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrNotNumber, text, err)
	}
	out, err := expr.Run(program, numberEnv)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrNotNumber, text, err)
	}
	v, ok := out.(float64)
	if !ok || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q", ErrNotNumber, text)
	}
	return v, nil
}

// FormatNumber renders v for a spinner without trailing zeros.
func FormatNumber(v float64) string {
	s := fmt.Sprintf("%.3f", v)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" {
		return "0"
	}
	return s
}
