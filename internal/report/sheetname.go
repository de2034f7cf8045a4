package report

import (
	"fmt"
	"strings"

	"github.com/PyBalance/Audit-Sampling/pkg/constants"
)

// sanitizeSheetName strips the characters Excel forbids in worksheet names,
// trims surrounding quotes and whitespace, and truncates to the 31-character
// limit. An empty result becomes "Sheet".
func sanitizeSheetName(name string) string {
	s := strings.Map(func(r rune) rune {
		switch r {
		case '\\', '/', '*', '?', ':', '[', ']':
			return -1
		}
		return r
	}, name)
	s = strings.Trim(s, "'")
	s = strings.TrimSpace(s)
	if s == "" {
		return "Sheet"
	}
	return truncateRunes(s, constants.MaxSheetNameChars)
}

// uniqueSheetName returns a sanitized sheet name that is not yet in used,
// appending " (2)", " (3)", ... while honoring the length limit. The chosen
// name is recorded in used.
func uniqueSheetName(base string, used map[string]bool) string {
	candidate := sanitizeSheetName(base)
	if !used[candidate] {
		used[candidate] = true
		return candidate
	}
	for idx := 2; ; idx++ {
		suffix := fmt.Sprintf(" (%d)", idx)
		trimmed := truncateRunes(sanitizeSheetName(base), constants.MaxSheetNameChars-len([]rune(suffix)))
		candidate := trimmed + suffix
		if !used[candidate] {
			used[candidate] = true
			return candidate
		}
	}
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
