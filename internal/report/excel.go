// Package report writes sampling results to an Excel workbook and provides a
// console summary.
package report

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/PyBalance/Audit-Sampling/internal/journal"
	"github.com/PyBalance/Audit-Sampling/pkg/constants"
)

// PopulationResult is one population's sample, written to its own worksheet.
type PopulationResult struct {
	Name           string
	Sampled        []journal.Record
	PopulationSize int
}

// SummaryRow is one line of the summary worksheet.
type SummaryRow struct {
	Name           string
	PopulationSize int
	SampleSize     int
}

// Context captures the run parameters echoed on every summary row.
type Context struct {
	Method string
	Start  string
	End    string
	Note   string
}

var summaryHeaders = []string{"总体名称", "总体条数", "样本条数", "方法", "开始日期", "结束日期", "参数"}

// Write saves all population samples and the summary to one workbook. Each
// result gets a worksheet named after its population (sanitized and
// deduplicated); the summary sheet is always present.
func Write(results []PopulationResult, summary []SummaryRow, path string, displayHeaders []string, ctx Context) error {
	f := excelize.NewFile()
	defer func() {
		_ = f.Close()
	}()

	used := make(map[string]bool)
	for _, result := range results {
		name := uniqueSheetName(result.Name, used)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
		if err := writeSheet(f, name, result.Sampled, displayHeaders); err != nil {
			return err
		}
	}

	name := uniqueSheetName(constants.SummarySheetName, used)
	if _, err := f.NewSheet(name); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	if err := writeSummary(f, name, summary, ctx); err != nil {
		return err
	}

	// A population legitimately named Sheet1 claims the default sheet.
	if !used["Sheet1"] {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return fmt.Errorf("drop default sheet: %w", err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook %s: %w", path, err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, rows []journal.Record, headers []string) error {
	sorted := sortByVoucherLine(rows, headers)

	for c, h := range headers {
		if err := setCell(f, sheet, c, 0, h); err != nil {
			return err
		}
	}
	for r, record := range sorted {
		for c, h := range headers {
			if err := setCell(f, sheet, c, r+1, record.Values[h]); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeSummary(f *excelize.File, sheet string, summary []SummaryRow, ctx Context) error {
	for c, h := range summaryHeaders {
		if err := setCell(f, sheet, c, 0, h); err != nil {
			return err
		}
	}
	for r, row := range summary {
		cells := []string{
			row.Name,
			strconv.Itoa(row.PopulationSize),
			strconv.Itoa(row.SampleSize),
			ctx.Method,
			ctx.Start,
			ctx.End,
			ctx.Note,
		}
		for c, v := range cells {
			if err := setCell(f, sheet, c, r+1, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, value string) error {
	if runes := []rune(value); len(runes) > constants.MaxCellChars {
		value = string(runes[:constants.MaxCellChars])
	}
	cell, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return err
	}
	return f.SetCellStr(sheet, cell, value)
}

// sortByVoucherLine orders rows by the voucher line-number column when the
// ledger carries one: numeric values first in ascending order, then the rest
// lexicographically.
func sortByVoucherLine(rows []journal.Record, headers []string) []journal.Record {
	voucherCol, ok := journal.FindVoucherLineColumn(headers)
	if !ok {
		voucherCol = "凭证行号"
	}
	sorted := make([]journal.Record, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		a := sorted[i].Values[voucherCol]
		b := sorted[j].Values[voucherCol]
		ai, aOK := parseIntLike(a)
		bi, bOK := parseIntLike(b)
		switch {
		case aOK && bOK:
			return ai < bi
		case aOK:
			return true
		case bOK:
			return false
		default:
			return a < b
		}
	})
	return sorted
}

func parseIntLike(s string) (int64, bool) {
	t := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if t == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(t, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
