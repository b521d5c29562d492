package sqlfunc

import (
	"fmt"
	"strconv"
)

// Value is a SQL value as handed over by a host: nil, string, []byte, int64,
// float64, bool, or any other driver value.
type Value = any

// Text coerces v to text. ok is false for NULL.
func Text(v Value) (s string, ok bool) {
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, true
	case []byte:
		return string(x), true
	case int64:
		return strconv.FormatInt(x, 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case int:
		return strconv.Itoa(x), true
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64), true
	case bool:
		if x {
			return "1", true
		}
		return "0", true
	case fmt.Stringer:
		return x.String(), true
	default:
		return fmt.Sprint(x), true
	}
}

// TextOrEmpty coerces v to text, turning NULL into "".
func TextOrEmpty(v Value) string {
	s, _ := Text(v)
	return s
}

// nullable converts an optional component into a host value.
func nullable(s *string) Value {
	if s == nil {
		return nil
	}
	return *s
}
