package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseValue turns a raw CSV cell into an int, a float64 or a trimmed string.
func ParseValue(s string) interface{} {
	// Trim whitespace first
	s = strings.TrimSpace(s)

	if !plainDecimal(s) {
		return s
	}
	// try int
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	// try float, but keep NaN/Inf spellings as text
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	return s
}

// plainDecimal rejects the Go literal forms strconv also accepts: digit
// separators ("1_000") and hexadecimal floats ("0x1p4").
func plainDecimal(s string) bool {
	return !strings.ContainsAny(s, "_xX")
}

// Numeric converts v to a float64 the lenient way: anything that is not a
// finite number contributes 0.
func Numeric(v interface{}) float64 {
	f, ok := ToFloat(v)
	if !ok {
		return 0
	}
	return f
}

// ToFloat converts v to a finite float64 and reports whether that worked.
func ToFloat(v interface{}) (float64, bool) {
	var f float64
	switch val := v.(type) {
	case nil:
		return 0, false
	case int:
		f = float64(val)
	case int64:
		f = float64(val)
	case float64:
		f = val
	case float32:
		f = float64(val)
	case string:
		val = strings.TrimSpace(val)
		if !plainDecimal(val) {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// ToInt converts v to an int; floats must be whole numbers.
func ToInt(v interface{}) (int, error) {
	switch val := v.(type) {
	case int:
		return val, nil
	case int64:
		return int(val), nil
	case float64:
		if val != math.Trunc(val) {
			return 0, fmt.Errorf("%v is not a whole number", val)
		}
		if val < math.MinInt || val >= math.MaxInt {
			return 0, fmt.Errorf("%v is out of range", val)
		}
		return int(val), nil
	case string:
		return strconv.Atoi(strings.TrimSpace(val))
	default:
		return 0, fmt.Errorf("unsupported value %v (%T)", v, v)
	}
}

// RoundHalfUp rounds like JavaScript's Math.round: halves go towards +Inf.
func RoundHalfUp(f float64) float64 {
	return math.Floor(f + 0.5)
}
