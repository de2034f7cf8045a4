package journal

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/PyBalance/Audit-Sampling/pkg/datetime"
)

// ParseAmount parses a monetary cell into a float64. Thousands separators and
// currency symbols are stripped; full- or half-width parentheses mark a
// negative amount (accountants' bracket notation). Unparseable cells yield 0.
func ParseAmount(s string) float64 {
	t := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	negative := false
	if (strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")")) ||
		(strings.HasPrefix(t, "（") && strings.HasSuffix(t, "）")) {
		negative = true
		t = strings.Trim(t, "()（）")
	}
	t = strings.TrimLeft(t, "¥￥$")
	d, err := decimal.NewFromString(t)
	if err != nil {
		return 0
	}
	v, _ := d.Float64()
	if negative {
		return -v
	}
	return v
}

// ParseDate parses a ledger date cell, accepting the formats accounting
// systems commonly export. It returns false when the cell holds no
// recognizable date.
func ParseDate(s string) (time.Time, bool) {
	t, err := datetime.ParseFlexible(s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
