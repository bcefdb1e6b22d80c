package domain

import (
	"encoding/json"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericPrefix matches the leading decimal number of a string, so "45 (est)"
// reads as 45 the same way the spreadsheet front end read it.
var numericPrefix = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?`)

// NormalizeProgress converts a raw progress value to a percentage.
//
// Values in (0, 1] are fractions and are scaled by 100; anything else is an
// already-scaled percentage. Empty, nil and unparsable input yield 0. Values
// above 100 are returned unchanged.
func NormalizeProgress(raw any) int {
	v, ok := progressValue(raw)
	if !ok || v == 0 {
		return 0
	}
	if v > 0 && v <= 1 {
		return roundHalfUp(v * 100)
	}
	return roundHalfUp(v)
}

// FormatPercent renders a percentage the way the edit draft displays it
func FormatPercent(percent int) string {
	return strconv.Itoa(percent) + "%"
}

func progressValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case nil:
		return 0, false
	case Progress:
		return parseProgressText(string(v))
	case string:
		return parseProgressText(v)
	case json.Number:
		return parseProgressText(v.String())
	case float64:
		return finite(v)
	case float32:
		return finite(float64(v))
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	default:
		return 0, false
	}
}

func parseProgressText(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
	if s == "" {
		return 0, false
	}
	num := numericPrefix.FindString(s)
	if num == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}
	return finite(v)
}

func finite(v float64) (float64, bool) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// roundHalfUp rounds .5 toward positive infinity
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
