package validators

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// NormalizePhone strips spaces and keeps a single leading "+". It reports
// false when anything other than digits remains.
func NormalizePhone(raw string) (string, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")

	plus := strings.HasPrefix(s, "+")
	digits := strings.TrimPrefix(s, "+")

	if len(digits) < 7 || len(digits) > 15 {
		return "", false
	}
	for _, r := range digits {
		if r < '0' || r > '9' {
			return "", false
		}
	}

	if plus {
		return "+" + digits, true
	}
	return digits, true
}

func IsPatientNameValid(name string) bool {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < 2 || n > 100 {
		return false
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
