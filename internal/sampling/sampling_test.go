package sampling

import (
	"fmt"
	"testing"

	"github.com/PyBalance/Audit-Sampling/internal/config"
	"github.com/PyBalance/Audit-Sampling/internal/journal"
	"github.com/PyBalance/Audit-Sampling/pkg/datetime"
)

var ledgerHeaders = []string{"日期", "科目编码", "借方金额", "贷方金额", "方向", "报表科目", "凭证行号"}

func makeRecord(date, code, debit, credit, direction, subject, line string) journal.Record {
	return journal.Record{Values: map[string]string{
		"日期":   date,
		"科目编码": code,
		"借方金额": debit,
		"贷方金额": credit,
		"方向":   direction,
		"报表科目": subject,
		"凭证行号": line,
	}}
}

func testPeriod(t *testing.T) Period {
	t.Helper()
	return Period{
		Start: datetime.MustParseTime("2006-01-02", "2024-01-01"),
		End:   datetime.MustParseTime("2006-01-02", "2024-12-31"),
	}
}

func TestPeriodContains(t *testing.T) {
	p := testPeriod(t)
	if !p.Contains(p.Start) || !p.Contains(p.End) {
		t.Errorf("period boundaries must be inclusive")
	}
	if p.Contains(p.Start.AddDate(0, 0, -1)) || p.Contains(p.End.AddDate(0, 0, 1)) {
		t.Errorf("dates outside the period must be excluded")
	}
}

func TestBuildPopulationFilters(t *testing.T) {
	data := &journal.Data{
		Headers: ledgerHeaders,
		Rows: []journal.Record{
			makeRecord("2024-03-01", "600101", "", "1000", "贷", "营业收入", "1"),
			makeRecord("2023-03-01", "600101", "", "1000", "贷", "营业收入", "2"),
			makeRecord("2024-03-02", "600101", "", "1000", "贷", "管理费用", "3"),
			makeRecord("2024-03-03", "220201", "", "1000", "贷", "营业收入", "4"),
			makeRecord("2024-03-04", "600101", "500", "", "借", "营业收入", "5"),
			makeRecord("2024-03-05", "600101", "", "0", "贷", "营业收入", "6"),
			makeRecord("2024-03-06", "600102", "", "2500", "贷", "营业收入", "7"),
		},
	}
	rule := config.ResolvedRule{
		PopulationName:  "营业收入_贷方",
		AccountCodes:    []string{"6001"},
		TransactionType: config.Credit,
	}

	engine := NewEngine(nil)
	got := engine.BuildPopulation(data, testPeriod(t), "营业收入", rule)
	if len(got) != 2 {
		t.Fatalf("got %d records, expected 2", len(got))
	}
	if got[0].Values["凭证行号"] != "1" || got[1].Values["凭证行号"] != "7" {
		t.Errorf("selected rows %q and %q, expected rows 1 and 7",
			got[0].Values["凭证行号"], got[1].Values["凭证行号"])
	}
}

func TestBuildPopulationDirectionFromAmounts(t *testing.T) {
	// No direction column: the sign of the debit/credit amounts decides.
	headers := []string{"日期", "借方金额", "贷方金额", "报表科目"}
	rows := []journal.Record{
		{Values: map[string]string{"日期": "2024-05-01", "借方金额": "300", "贷方金额": "", "报表科目": "管理费用"}},
		{Values: map[string]string{"日期": "2024-05-02", "借方金额": "", "贷方金额": "450", "报表科目": "管理费用"}},
		{Values: map[string]string{"日期": "2024-05-03", "借方金额": "", "贷方金额": "", "报表科目": "管理费用"}},
	}
	data := &journal.Data{Headers: headers, Rows: rows}
	engine := NewEngine(nil)

	debits := engine.BuildPopulation(data, testPeriod(t), "管理费用", config.ResolvedRule{TransactionType: config.Debit})
	if len(debits) != 1 || debits[0].Values["借方金额"] != "300" {
		t.Errorf("debit population = %d records", len(debits))
	}
	credits := engine.BuildPopulation(data, testPeriod(t), "管理费用", config.ResolvedRule{TransactionType: config.Credit})
	if len(credits) != 1 || credits[0].Values["贷方金额"] != "450" {
		t.Errorf("credit population = %d records", len(credits))
	}
}

func TestBuildPopulationSignedColumn(t *testing.T) {
	headers := []string{"日期", "借正贷负", "报表科目"}
	rows := []journal.Record{
		{Values: map[string]string{"日期": "2024-05-01", "借正贷负": "200", "报表科目": "存货"}},
		{Values: map[string]string{"日期": "2024-05-02", "借正贷负": "-150", "报表科目": "存货"}},
	}
	data := &journal.Data{Headers: headers, Rows: rows}
	engine := NewEngine(nil)

	rule := config.ResolvedRule{TransactionType: config.Debit, ValueColumn: "借正贷负"}
	got := engine.BuildPopulation(data, testPeriod(t), "存货", rule)
	if len(got) != 1 || got[0].Values["借正贷负"] != "200" {
		t.Errorf("signed-column debit population = %d records", len(got))
	}
}

func TestAmounts(t *testing.T) {
	population := []journal.Record{
		makeRecord("2024-03-01", "6001", "", "1,000.50", "贷", "营业收入", "1"),
		makeRecord("2024-03-02", "6001", "", "250", "贷", "营业收入", "2"),
	}
	rule := config.ResolvedRule{TransactionType: config.Credit}
	got := Amounts(population, rule, ledgerHeaders)
	if len(got) != 2 || got[0] != 1000.50 || got[1] != 250 {
		t.Errorf("amounts = %v", got)
	}
}

func TestPerformMUS(t *testing.T) {
	var population []journal.Record
	for i := 0; i < 100; i++ {
		population = append(population, makeRecord(
			"2024-06-01", "6001", "", "100", "贷", "营业收入", fmt.Sprintf("%d", i+1)))
	}
	rule := config.ResolvedRule{PopulationName: "营业收入_贷方", TransactionType: config.Credit}
	params := MUSParams{
		TolerableError:  2000,
		ConfidenceLevel: 0.90,
		Seed:            int64Ptr(1),
	}

	engine := NewEngine(nil)
	sampled, plan, err := engine.PerformMUS(population, rule, ledgerHeaders, params)
	if err != nil {
		t.Fatalf("PerformMUS() error: %v", err)
	}
	if plan == nil || plan.N <= 0 {
		t.Fatalf("expected a positive planned sample size, got %+v", plan)
	}
	if len(sampled) == 0 || len(sampled) > plan.N {
		t.Errorf("sampled %d records, expected between 1 and %d", len(sampled), plan.N)
	}

	again, _, err := engine.PerformMUS(population, rule, ledgerHeaders, params)
	if err != nil {
		t.Fatalf("PerformMUS() error: %v", err)
	}
	if len(again) != len(sampled) {
		t.Fatalf("seeded runs differ in size: %d vs %d", len(sampled), len(again))
	}
	for i := range sampled {
		if sampled[i].Values["凭证行号"] != again[i].Values["凭证行号"] {
			t.Errorf("seeded runs selected different records at position %d", i)
		}
	}
}

func TestPerformMUSNoPositiveTotal(t *testing.T) {
	population := []journal.Record{
		makeRecord("2024-06-01", "6001", "", "0", "贷", "营业收入", "1"),
	}
	rule := config.ResolvedRule{PopulationName: "营业收入_贷方", TransactionType: config.Credit}
	engine := NewEngine(nil)
	if _, _, err := engine.PerformMUS(population, rule, ledgerHeaders, MUSParams{
		TolerableError:  100,
		ConfidenceLevel: 0.90,
	}); err == nil {
		t.Errorf("expected an error for a population without positive amounts")
	}
}

func TestPerformRandom(t *testing.T) {
	var population []journal.Record
	for i := 0; i < 10; i++ {
		population = append(population, makeRecord(
			"2024-06-01", "6001", "", "100", "贷", "营业收入", fmt.Sprintf("%d", i+1)))
	}
	engine := NewEngine(nil)

	first := engine.PerformRandom(population, 4, int64Ptr(7))
	if len(first) != 4 {
		t.Fatalf("sampled %d records, expected 4", len(first))
	}
	second := engine.PerformRandom(population, 4, int64Ptr(7))
	for i := range first {
		if first[i].Values["凭证行号"] != second[i].Values["凭证行号"] {
			t.Errorf("seeded runs selected different records at position %d", i)
		}
	}

	// Original order is preserved.
	prev := 0
	for _, r := range first {
		var line int
		fmt.Sscanf(r.Values["凭证行号"], "%d", &line)
		if line <= prev {
			t.Errorf("records out of original order: %v after %v", line, prev)
		}
		prev = line
	}

	all := engine.PerformRandom(population, 15, int64Ptr(7))
	if len(all) != len(population) {
		t.Errorf("oversized request returned %d records, expected the whole population", len(all))
	}
}

func int64Ptr(v int64) *int64 { return &v }
