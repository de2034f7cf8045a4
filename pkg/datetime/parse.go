// Package datetime provides date parsing utilities for ledger data.
package datetime

import (
	"fmt"
	"strings"
	"time"
)

// Layouts recognized in ledger date cells, ordered by how commonly
// accounting-system exports use them.
var ledgerLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006.01.02",
	"20060102",
	"2006-01-02 15:04:05",
	"2006/01/02 15:04:05",
	"2006-01-02T15:04:05",
	"2006年01月02日",
	"2006年1月2日",
}

// ParseFlexible parses a date string in any of the layouts commonly produced
// by accounting-system exports. It returns an error when no layout matches.
func ParseFlexible(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}
	for _, layout := range ledgerLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format: %s", s)
}

// MustParseTime parses a date string using the given layout and panics on error.
// This is intended for use in tests where the date string is known to be valid.
func MustParseTime(layout, dateStr string) time.Time {
	t, err := time.Parse(layout, dateStr)
	if err != nil {
		panic(err)
	}
	return t
}
