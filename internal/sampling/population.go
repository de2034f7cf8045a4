// Package sampling builds audit populations from ledger data and draws
// samples from them using MUS or simple random selection.
package sampling

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/PyBalance/Audit-Sampling/internal/config"
	"github.com/PyBalance/Audit-Sampling/internal/journal"
)

// Period is an inclusive date range for population building.
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether a date falls inside the period, boundaries
// included.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// BuildPopulation filters ledger rows down to the population addressed by one
// resolved rule: rows inside the period, matching the account's report
// subject, matching the rule's account-code prefixes, carrying the rule's
// transaction direction, and having a positive effective amount.
func (e *Engine) BuildPopulation(data *journal.Data, period Period, account string, rule config.ResolvedRule) []journal.Record {
	dateCol, hasDate := journal.FindDateColumn(data.Headers)
	acctCol, hasAcct := journal.FindAccountCodeColumn(data.Headers)
	debitCol, _ := journal.FindDebitColumn(data.Headers)
	creditCol, _ := journal.FindCreditColumn(data.Headers)
	dirCol, hasDir := journal.FindDirectionColumn(data.Headers)
	subjectCol, hasSubject := journal.FindReportSubjectColumn(data.Headers)
	signedCol, hasSigned := journal.FindSignedAmountColumn(data.Headers)

	var out []journal.Record
	for _, r := range data.Rows {
		if hasDate {
			d, ok := journal.ParseDate(r.Values[dateCol])
			if !ok || !period.Contains(d) {
				continue
			}
		}
		if hasSubject {
			if v, ok := r.Values[subjectCol]; ok && strings.TrimSpace(v) != account {
				continue
			}
		}
		if len(rule.AccountCodes) > 0 && hasAcct {
			if code, ok := r.Values[acctCol]; ok && !matchesAnyPrefix(code, rule.AccountCodes) {
				continue
			}
		}

		isDebit, known := inferDirection(r, dirCol, hasDir, debitCol, creditCol, signedCol, hasSigned)
		if !known {
			// Unknown direction: conservatively skip.
			continue
		}
		if (rule.TransactionType == config.Debit) != isDebit {
			continue
		}

		if effectiveAmount(r, rule, debitCol, creditCol) <= 0 {
			continue
		}
		out = append(out, r)
	}

	e.logger.Debug("built population",
		zap.String("op", "sampling.BuildPopulation"),
		zap.String("population", rule.PopulationName),
		zap.Int("rows", len(data.Rows)),
		zap.Int("selected", len(out)),
	)
	return out
}

func matchesAnyPrefix(code string, prefixes []string) bool {
	code = strings.TrimSpace(code)
	for _, p := range prefixes {
		if strings.HasPrefix(code, p) {
			return true
		}
	}
	return false
}

// inferDirection determines whether a row is a debit: first from an explicit
// direction column, then from the signs of the debit/credit amounts, finally
// from a signed net-amount column.
func inferDirection(r journal.Record, dirCol string, hasDir bool, debitCol, creditCol, signedCol string, hasSigned bool) (isDebit, known bool) {
	if hasDir {
		v := strings.TrimSpace(r.Values[dirCol])
		switch {
		case strings.Contains(v, "借") || strings.EqualFold(v, "debit"):
			return true, true
		case strings.Contains(v, "贷") || strings.EqualFold(v, "credit"):
			return false, true
		}
	}
	debitAmt := journal.ParseAmount(r.Values[debitCol])
	creditAmt := journal.ParseAmount(r.Values[creditCol])
	switch {
	case debitAmt > 0:
		return true, true
	case creditAmt > 0:
		return false, true
	case debitAmt < 0:
		return true, true
	case creditAmt < 0:
		return false, true
	}
	if hasSigned {
		if signed := journal.ParseAmount(r.Values[signedCol]); signed > 0 {
			return true, true
		} else if signed < 0 {
			return false, true
		}
	}
	return false, false
}

// effectiveAmount resolves the monetary value of a row under a rule: the
// configured value column when present, otherwise the amount column matching
// the rule's direction.
func effectiveAmount(r journal.Record, rule config.ResolvedRule, debitCol, creditCol string) float64 {
	if rule.ValueColumn != "" {
		return journal.ParseAmount(r.Values[rule.ValueColumn])
	}
	if rule.TransactionType == config.Debit {
		return journal.ParseAmount(r.Values[debitCol])
	}
	return journal.ParseAmount(r.Values[creditCol])
}

// Amounts extracts the effective amounts for a population under a rule, in
// population order.
func Amounts(population []journal.Record, rule config.ResolvedRule, headers []string) []float64 {
	debitCol, _ := journal.FindDebitColumn(headers)
	creditCol, _ := journal.FindCreditColumn(headers)
	amounts := make([]float64, len(population))
	for i, r := range population {
		amounts[i] = effectiveAmount(r, rule, debitCol, creditCol)
	}
	return amounts
}
