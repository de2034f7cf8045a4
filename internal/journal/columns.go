package journal

import "strings"

// Column-name candidates for the fields common to Chinese and English ledger
// exports. Matching is case-insensitive substring matching, first header wins.
var (
	dateColumns         = []string{"date", "日期", "记账日期", "凭证日期"}
	accountCodeColumns  = []string{"account_code", "科目编码", "科目代码", "会计科目代码", "会计科目编号", "科目号"}
	debitColumns        = []string{"debit", "debit_amount", "借方", "借方发生额", "借方金额", "借方发生"}
	creditColumns       = []string{"credit", "credit_amount", "贷方", "贷方发生额", "贷方金额", "贷方发生"}
	directionColumns    = []string{"方向", "借贷方向", "direction"}
	signedAmountColumns = []string{"借正贷负", "借贷净额", "signed", "net"}
)

func findColumn(headers []string, candidates []string) (string, bool) {
	for _, h := range headers {
		lower := strings.ToLower(h)
		for _, c := range candidates {
			if strings.Contains(lower, strings.ToLower(c)) {
				return h, true
			}
		}
	}
	return "", false
}

// FindDateColumn locates the posting-date column.
func FindDateColumn(headers []string) (string, bool) {
	return findColumn(headers, dateColumns)
}

// FindAccountCodeColumn locates the account-code column.
func FindAccountCodeColumn(headers []string) (string, bool) {
	return findColumn(headers, accountCodeColumns)
}

// FindDebitColumn locates the debit-amount column.
func FindDebitColumn(headers []string) (string, bool) {
	return findColumn(headers, debitColumns)
}

// FindCreditColumn locates the credit-amount column.
func FindCreditColumn(headers []string) (string, bool) {
	return findColumn(headers, creditColumns)
}

// FindDirectionColumn locates the debit/credit direction column.
func FindDirectionColumn(headers []string) (string, bool) {
	return findColumn(headers, directionColumns)
}

// FindSignedAmountColumn locates a signed net-amount column (positive debit,
// negative credit) used by some accounting systems.
func FindSignedAmountColumn(headers []string) (string, bool) {
	return findColumn(headers, signedAmountColumns)
}

// FindReportSubjectColumn locates the report-subject column. Only the exact
// 报表科目 header is accepted; no aliases or fuzzy matching.
func FindReportSubjectColumn(headers []string) (string, bool) {
	for _, h := range headers {
		if strings.TrimSpace(h) == "报表科目" {
			return h, true
		}
	}
	return "", false
}

// FindVoucherLineColumn locates the exact voucher line-number column used for
// report ordering.
func FindVoucherLineColumn(headers []string) (string, bool) {
	for _, h := range headers {
		if strings.TrimSpace(h) == "凭证行号" {
			return h, true
		}
	}
	return "", false
}
