package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

// CollapseSpace trims s and folds every whitespace run into a single space.
func CollapseSpace(s string) string {
	s = strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		if !unicode.IsPrint(r) {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(whitespaceRegex.ReplaceAllString(s, " "))
}

var numberRegex = regexp.MustCompile(`^[+-]?[\d,]*\.?\d+`)

// ParseNumber reads the leading number of s, ignoring thousands
// separators ("1,234,567" -> 1234567). Trailing text is ignored.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	match := numberRegex.FindString(s)
	if match == "" {
		return 0, false
	}
	match = strings.ReplaceAll(match, ",", "")
	value, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}
	return value, true
}

var digitRunRegex = regexp.MustCompile(`\d+`)

// FirstDigitRun returns the first run of decimal digits in s.
func FirstDigitRun(s string) (int, bool) {
	match := digitRunRegex.FindString(s)
	if match == "" {
		return 0, false
	}
	value, err := strconv.Atoi(match)
	if err != nil {
		return 0, false
	}
	return value, true
}
