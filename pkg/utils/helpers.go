package utils

import (
	"fmt"
	"math"
	"strconv"
	"time"
)

// DateLayout is the canonical date format used across the warehouse.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
}

// ParseDate parses the date representations that show up in remote JSON
// snapshots: canonical strings, timestamp strings, and epoch milliseconds.
func ParseDate(v interface{}) (time.Time, error) {
	switch val := v.(type) {
	case time.Time:
		return val.UTC(), nil
	case string:
		for _, layout := range dateLayouts {
			if ts, err := time.Parse(layout, val); err == nil {
				return ts.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("unrecognized date %q", val)
	case float64:
		return time.UnixMilli(int64(val)).UTC(), nil
	case int64:
		return time.UnixMilli(val).UTC(), nil
	case int:
		return time.UnixMilli(int64(val)).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported date value %v (%T)", v, v)
	}
}

// AsString renders a value as the canonical string used for join membership
// checks. Integral floats print without a fraction so a value survives a
// JSON round trip unchanged.
func AsString(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		if val == math.Trunc(val) && math.Abs(val) < 1e15 {
			return strconv.FormatInt(int64(val), 10)
		}
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(DateLayout)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ParseDuration safely parses a duration string like "5m"
func ParseDuration(d string, fallback time.Duration) time.Duration {
	if d == "" {
		return fallback
	}
	duration, err := time.ParseDuration(d)
	if err != nil {
		return fallback
	}
	return duration
}
