//-------------------------------------------------------------------------
//
// invtrack-mcp Investment Tracking Tool Server
//
//-------------------------------------------------------------------------

package tools

import (
	"strconv"
	"strings"
	"time"
)

// Args is the loosely-typed argument object a tool call arrives with.
// Accessors normalize at the boundary so handlers only ever see
// well-defined scalars. A missing, empty, or wrongly-typed value counts
// as "not supplied".
type Args map[string]any

// String returns the trimmed string value for key, or "" when the
// argument is absent or not a string.
func (a Args) String(key string) string {
	if v, ok := a[key].(string); ok {
		return strings.TrimSpace(v)
	}
	return ""
}

// Upper returns the trimmed, upper-cased string value for key.
// Tickers and enum-like filters have a canonical upper case.
func (a Args) Upper(key string) string {
	return strings.ToUpper(a.String(key))
}

// Int returns the integer value for key, or def when the argument is
// absent or unusable. JSON numbers arrive as float64.
func (a Args) Int(key string, def int) int {
	switch v := a[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case int64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

// OptBool returns the boolean value for key and whether it was supplied.
// Tri-state: absent means "do not filter on this".
func (a Args) OptBool(key string) (bool, bool) {
	switch v := a[key].(type) {
	case bool:
		return v, true
	case string:
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b, true
		}
	}
	return false, false
}

// Days returns the look-back window in days for key, substituting def
// when absent or non-positive.
func (a Args) Days(key string, def int) int {
	d := a.Int(key, def)
	if d < 1 {
		return def
	}
	return d
}

// Since converts a day count into the window start time.
func Since(days int) time.Time {
	return time.Now().AddDate(0, 0, -days)
}
