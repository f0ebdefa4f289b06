package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// cellText reads a raw cell as trimmed text. Spreadsheet exports hand back
// strings, but rows decoded from JSON or typed sources carry numbers and bools.
func cellText(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(x), nil
	case []byte:
		return strings.TrimSpace(string(x)), nil
	case bool:
		return strconv.FormatBool(x), nil
	case int:
		return strconv.Itoa(x), nil
	case int32:
		return strconv.FormatInt(int64(x), 10), nil
	case int64:
		return strconv.FormatInt(x, 10), nil
	case uint:
		return strconv.FormatUint(uint64(x), 10), nil
	case uint64:
		return strconv.FormatUint(x, 10), nil
	case float32:
		return formatFloat(float64(x)), nil
	case float64:
		return formatFloat(x), nil
	case json.Number:
		return x.String(), nil
	case fmt.Stringer:
		return strings.TrimSpace(x.String()), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

// formatFloat renders whole numbers without a fraction so an order read as 2.0
// prints as "2". NaN is the pandas-style blank cell.
func formatFloat(f float64) string {
	if math.IsNaN(f) {
		return "nan"
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// optional normalizes export artifacts into an absent value.
func optional(text string) *string {
	switch strings.ToLower(text) {
	case "", "nan", "none":
		return nil
	}
	return &text
}

func textOr(text string, fallback string) string {
	if v := optional(text); v != nil {
		return *v
	}
	return fallback
}

// parseOrder coerces an order cell. Blank and non-numeric text fall back to 0;
// only numbers that cannot be represented as an int are errors.
func parseOrder(text string) (int, error) {
	if optional(text) == nil {
		return 0, nil
	}
	if n, err := strconv.Atoi(text); err == nil {
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, fmt.Errorf("order %q is out of range", text)
		}
		return n, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && numErr.Err == strconv.ErrRange {
			return 0, fmt.Errorf("order %q is out of range", text)
		}
		return 0, nil
	}
	if math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, fmt.Errorf("order %q is out of range", text)
	}
	return int(f), nil
}
