package normalize

import (
	"strconv"
	"strings"
)

// Row is one raw record as decoded from a gateway JSON response. Values are
// whatever encoding/json produced: string, float64, bool, or nil.
type Row map[string]any

// sentinels the gateway uses for "no data". They count as present but zero.
var nullSentinels = map[string]bool{
	"":     true,
	"NA":   true,
	"N.A.": true,
	"NULL": true,
}

func isSentinel(s string) bool {
	return nullSentinels[strings.ToUpper(strings.TrimSpace(s))]
}

// stringField returns the first candidate key whose value stringifies to
// something non-empty and non-sentinel.
func stringField(row Row, candidates []string) string {
	for _, key := range candidates {
		v, ok := row[key]
		if !ok {
			continue
		}
		s := strings.TrimSpace(stringify(v))
		if s == "" || isSentinel(s) {
			continue
		}
		return s
	}
	return ""
}

// intField returns the first candidate's value as an int, with sentinel
// values normalized to zero. The second return reports whether any candidate
// key existed in the row at all, which the totals invariant depends on.
func intField(row Row, candidates []string) (int, bool) {
	for _, key := range candidates {
		v, ok := row[key]
		if !ok {
			continue
		}
		return parseInt(v), true
	}
	return 0, false
}

// floatField is intField for decimal columns (approval percentages, areas).
func floatField(row Row, candidates []string) (float64, bool) {
	for _, key := range candidates {
		v, ok := row[key]
		if !ok {
			continue
		}
		return parseFloat(v), true
	}
	return 0, false
}

// parseInt converts a raw cell to an int. Decimal strings truncate; anything
// unparsable is zero, matching how the dashboards treat dirty cells.
func parseInt(v any) int {
	return int(parseFloat(v))
}

func parseFloat(v any) float64 {
	switch x := v.(type) {
	case nil:
		return 0
	case float64:
		return x
	case int:
		return float64(x)
	case string:
		s := strings.TrimSpace(x)
		if isSentinel(s) {
			return 0
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

// stringify renders a raw cell for use as a name or id fragment. Numeric row
// ids ("_id": 4) come back from the gateway as JSON numbers.
func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}
