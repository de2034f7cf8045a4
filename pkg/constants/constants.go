// Package constants provides shared constants for the audit-sampler application.
package constants

// Sampling defaults
const (
	// DefaultConfidenceLevel is the default MUS confidence level (90%,
	// i.e. 10% risk of incorrect acceptance; common for low-risk engagements).
	DefaultConfidenceLevel = 0.90

	// DefaultRiskFactor is the default expected-error ratio applied to the
	// tolerable error (0 = zero expected misstatement, minimum sample).
	DefaultRiskFactor = 0.0

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100
)

// Numeric solver limits
const (
	// GammaFixedPointTolerance is the convergence tolerance for the
	// conservative-factor fixed point.
	GammaFixedPointTolerance = 1e-6

	// GammaFixedPointMaxIterations caps the conservative-factor fixed point.
	GammaFixedPointMaxIterations = 1000

	// GammaBisectionMaxIterations caps the Gamma quantile bisection.
	GammaBisectionMaxIterations = 200
)

// Sampling method constants
const (
	// MethodMUS is the monetary unit sampling method name
	MethodMUS = "mus"

	// MethodRandom is the simple random sampling method name
	MethodRandom = "random"
)

// Report constants
const (
	// MaxSheetNameChars is the Excel worksheet name limit
	MaxSheetNameChars = 31

	// MaxCellChars is the Excel cell string limit
	MaxCellChars = 32767

	// SummarySheetName is the name of the always-present summary worksheet
	SummarySheetName = "抽样统计"
)

// DefaultColumns are the ledger columns included in reports when the caller
// does not select columns explicitly. These match the common export fields of
// Chinese accounting systems; columns absent from the input are skipped.
var DefaultColumns = []string{
	"凭证唯一号", "凭证行号", "日期", "摘要", "科目编码", "科目全称", "借方金额", "贷方金额",
}
