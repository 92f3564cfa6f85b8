package domain

import (
	"math"
	"strconv"
	"strings"
)

// MissingYearText is how an invalid year is rendered in filenames and output.
const MissingYearText = "NA"

// Year is a calendar year that may have failed coercion.
// The zero value is an invalid year.
type Year struct {
	Value int  `json:"value"`
	Valid bool `json:"valid"`
}

// NewYear returns a valid Year.
func NewYear(v int) Year {
	return Year{Value: v, Valid: true}
}

// String renders the year, or "NA" when the year is invalid.
func (y Year) String() string {
	if !y.Valid {
		return MissingYearText
	}
	return strconv.Itoa(y.Value)
}

// CoerceYear converts an integer-like value into a Year.
//
// Integer kinds are taken as is. Floats and decimal strings are truncated
// toward zero. Anything else (nil, bool, non-numeric text, NaN, ±Inf)
// yields an invalid Year and ok=false; the caller decides whether to warn.
func CoerceYear(v any) (year Year, ok bool) {
	switch x := v.(type) {
	case Year:
		return x, x.Valid
	case *Year:
		if x == nil {
			return Year{}, false
		}
		return *x, x.Valid
	case int:
		return NewYear(x), true
	case int8:
		return NewYear(int(x)), true
	case int16:
		return NewYear(int(x)), true
	case int32:
		return NewYear(int(x)), true
	case int64:
		return fromInt64(x)
	case uint:
		return fromUint64(uint64(x))
	case uint8:
		return NewYear(int(x)), true
	case uint16:
		return NewYear(int(x)), true
	case uint32:
		return fromUint64(uint64(x))
	case uint64:
		return fromUint64(x)
	case float32:
		return fromFloat(float64(x))
	case float64:
		return fromFloat(x)
	case string:
		return fromString(x)
	case []byte:
		return fromString(string(x))
	default:
		return Year{}, false
	}
}

func fromInt64(v int64) (Year, bool) {
	if v > math.MaxInt32 || v < math.MinInt32 {
		return Year{}, false
	}
	return NewYear(int(v)), true
}

func fromUint64(v uint64) (Year, bool) {
	if v > math.MaxInt32 {
		return Year{}, false
	}
	return NewYear(int(v)), true
}

func fromFloat(v float64) (Year, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Year{}, false
	}
	return fromInt64(int64(math.Trunc(math.Max(math.Min(v, math.MaxInt64/2), math.MinInt64/2))))
}

func fromString(s string) (Year, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Year{}, false
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return fromInt64(n)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Year{}, false
	}
	return fromFloat(f)
}
